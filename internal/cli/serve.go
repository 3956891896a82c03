package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/tagextract/internal/api"
	"github.com/dgallion1/tagextract/internal/pipeline"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tag extraction over HTTP",
		Long: `Serve runs an HTTP API for tag extraction.

Endpoints:
  GET  /health            liveness
  POST /api/extract       {"text", "tag", "dialect", "strategy", "tab_width"}
  POST /api/extract/file  multipart upload: file, tag, dialect, strategy
  POST /api/tags          {"text", "dialect"}
  GET  /api/stats         extraction latency and cache counters

Requests need "Authorization: Bearer <key>" when server.api_key (or
TAGEXTRACT_SERVER_API_KEY) is set.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().String("port", "8090", "listen port")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if a.cfg.Server.APIKey == "" {
		log.Warn("server.api_key is empty, API is unauthenticated")
	}

	srv, err := api.NewServer(a.cfg, pipeline.NewLatencyStats(time.Hour), log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting tagextract", "port", a.cfg.Server.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
