package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/edulink/faceid/internal/config"
	"github.com/edulink/faceid/internal/extractor"
	"github.com/edulink/faceid/internal/faceid"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll [student-id] [image-file]",
	Short: "Enroll a student's face from a photo",
	Long: `Enroll a student by extracting a face embedding from a photo.
Re-enrolling a student replaces their previous embedding.

Bulk mode: --dir enrolls every image in a folder, using the file name
(without extension) as the student id.`,
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("class", "", "Class label for the student(s)")
	enrollCmd.Flags().String("dir", "", "Enroll every image in this directory (file name = student id)")
	enrollCmd.Flags().Int("concurrency", 4, "Concurrent enrollments in bulk mode")
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// enrollOne reads, downscales and enrolls a single image file.
func enrollOne(ctx context.Context, service *faceid.Service, cfg *config.Config, studentID, class, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	data, err = extractor.Downscale(data, cfg.Extractor.MaxImagePx)
	if err != nil {
		return fmt.Errorf("preparing %s: %w", path, err)
	}

	return service.Enroll(ctx, studentID, class, data)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	class := mustGetString(cmd, "class")
	dir := mustGetString(cmd, "dir")

	service, backend, closeStore, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()

	if dir != "" {
		return runEnrollDir(ctx, cmd, service, cfg, dir, class, backend)
	}

	if len(args) != 2 {
		return errors.New("expected: faceid enroll <student-id> <image-file> (or --dir <folder>)")
	}

	studentID, path := args[0], args[1]
	if err := enrollOne(ctx, service, cfg, studentID, class, path); err != nil {
		return err
	}

	fmt.Printf("Enrolled %s (%s backend)\n", studentID, backend)
	return nil
}

func runEnrollDir(ctx context.Context, cmd *cobra.Command, service *faceid.Service, cfg *config.Config, dir, class, backend string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isImageFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no image files found in %s", dir)
	}

	fmt.Printf("Enrolling %d students (%s backend)\n\n", len(files), backend)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription("Enrolling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("students"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	concurrency := mustGetInt(cmd, "concurrency")
	sem := make(chan struct{}, concurrency)

	var mu sync.Mutex
	var failures []string
	var wg sync.WaitGroup

	for _, name := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(name string) {
			defer wg.Done()
			defer func() { <-sem }()

			studentID := strings.TrimSuffix(name, filepath.Ext(name))
			err := enrollOne(ctx, service, cfg, studentID, class, filepath.Join(dir, name))

			mu.Lock()
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", studentID, err))
			}
			bar.Add(1)
			mu.Unlock()
		}(name)
	}
	wg.Wait()
	fmt.Println()

	if len(failures) > 0 {
		fmt.Printf("\n%d enrollments failed:\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		return fmt.Errorf("%d of %d enrollments failed", len(failures), len(files))
	}

	fmt.Printf("All %d students enrolled\n", len(files))
	return nil
}
