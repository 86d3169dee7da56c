package main

import "github.com/edulink/faceid/cmd"

func main() {
	cmd.Execute()
}
