package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edulink/faceid/internal/config"
	"github.com/edulink/faceid/internal/extractor"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [image-file]",
	Short: "Identify an enrolled student from a photo",
	Long: `Identify which enrolled student a photo belongs to.
Prints the matched student id and similarity, or the reason no match
was made (nobody enrolled, below threshold, ambiguous).`,
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().String("class", "", "Restrict candidates to one class")
	identifyCmd.Flags().Float64("threshold", -1, "Override the similarity threshold for this scan")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("expected: faceid identify <image-file>")
	}

	cfg := config.Load()
	if t := mustGetFloat64(cmd, "threshold"); t >= 0 {
		cfg.Matching.SimilarityThreshold = t
	}

	service, backend, closeStore, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	data, err = extractor.Downscale(data, cfg.Extractor.MaxImagePx)
	if err != nil {
		return fmt.Errorf("preparing image: %w", err)
	}

	result, err := service.Identify(context.Background(), data, mustGetString(cmd, "class"))
	if err != nil {
		return err
	}

	fmt.Printf("Backend: %s\n", backend)
	if result.Matched {
		fmt.Printf("Matched: %s (similarity %.4f)\n", result.StudentID, result.Similarity)
		return nil
	}

	fmt.Printf("No match: %s", result.Reason)
	if result.Message != "" {
		fmt.Printf(" (%s)", result.Message)
	}
	fmt.Println()
	if result.Reason != "empty_candidate_set" {
		fmt.Printf("Best similarity: %.4f (threshold %.4f)\n", result.Similarity, cfg.Matching.SimilarityThreshold)
	}
	return nil
}
