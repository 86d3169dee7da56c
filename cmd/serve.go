package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edulink/faceid/internal/config"
	"github.com/edulink/faceid/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the enrollment and identification API server",
	Long: `Start the faceid API server.
It exposes enrollment (PUT/GET/DELETE /api/v1/students/{id}/face) and live
identification (POST /api/v1/identify) for the discipline app frontend.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	service, backend, closeStore, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Printf("Using %s backend\n", backend)
	fmt.Printf("Model %s, dim %d, threshold %.2f\n",
		cfg.Extractor.ModelVariant, cfg.Matching.EmbeddingDim, cfg.Matching.SimilarityThreshold)

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, service, backend, port, host)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting faceid API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
