package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "faceid",
	Short: "Face-identity enrollment and matching service for schools",
	Long: `faceid turns a student photo into a durable face signature (enrollment)
and identifies enrolled students from live camera captures. Face detection
runs in an external extractor sidecar; this service stores embeddings and
makes the match decision.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
