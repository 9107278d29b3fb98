package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/appliedrecognition/face-template-r300/internal/config"
	"github.com/appliedrecognition/face-template-r300/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the template API server",
	Long: `Start the HTTP API server. It exposes template extraction and
comparison endpoints backed by the same pipeline as the CLI commands.

Set WEB_API_KEY to require an x-api-key header on requests.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port := mustGetInt(cmd, "port"); port > 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	extractor, det, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	if cfg.Web.APIKey == "" {
		fmt.Println("Warning: WEB_API_KEY not set, API authentication is disabled")
	}

	server := web.NewServer(cfg, extractor, det)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
