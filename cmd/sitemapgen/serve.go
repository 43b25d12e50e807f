package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romangod6/route-sitemap/internal/api"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sitemap over HTTP and regenerate it periodically",
	Long: `Start the HTTP API. The sitemap is generated at startup and then on
every generator.interval tick or POST /api/generate.

Examples:
  sitemapgen serve
  sitemapgen serve --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// A failed startup run is logged; the next tick retries.
	a.gen.Generate(ctx)

	done := runPeriodically(ctx, a.cfg.GetGenerateInterval(), func(ctx context.Context) {
		a.logger.LogInfo("Starting periodic generation...")
		a.gen.Generate(ctx)
	})
	// The store is closed by a.close, so an in-flight run must finish first.
	defer func() {
		cancel()
		<-done
	}()

	server := api.NewServer(port, a.gen, a.store)

	errCh := make(chan error, 1)
	go func() {
		a.logger.LogInfo("Starting API server on port %d", port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		a.logger.LogInfo("Shutting down...")
	case err := <-errCh:
		a.logger.LogError("Failed to start API server: %v", err)
		return err
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.LogError("Error shutting down server: %v", err)
		return err
	}
	a.logger.LogInfo("Server shut down gracefully")
	return nil
}

// runPeriodically calls fn on every tick until ctx is done. The returned
// channel is closed once the loop has exited and no call is in flight.
func runPeriodically(ctx context.Context, interval time.Duration, fn func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	return done
}
