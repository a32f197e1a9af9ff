package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sibyl-lab/sibyl-sft/internal/config"
	"github.com/sibyl-lab/sibyl-sft/internal/handler"
	"github.com/sibyl-lab/sibyl-sft/internal/service/infer"
)

var serveOpts struct {
	addr      string
	model     string
	adapter   string
	maxTokens int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose inference over HTTP, SSE and websocket",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		addr := serveOpts.addr
		if addr == "" {
			addr = cfg.Server.Addr
		}

		gen, err := newServeGenerator(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		log.Printf("[serve] engine: %s", gen.Name())

		harness := infer.NewHarness(gen, serveOpts.maxTokens)
		router := handler.NewRouter(harness)

		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		log.Printf("[serve] listening on %s", addr)
		return runServer(cmd.Context(), srv)
	},
}

// newServeGenerator prefers the remote Ark endpoint when configured (it can
// stream), falling back to the local engine.
func newServeGenerator(ctx context.Context, cfg *config.Config) (infer.Generator, error) {
	if serveOpts.adapter == "" && cfg.AI.Enabled() {
		return infer.NewArkGenerator(ctx, cfg.AI)
	}
	return infer.NewMLXGenerator(serveOpts.model, serveOpts.adapter)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "listen address (default from PORT)")
	serveCmd.Flags().StringVar(&serveOpts.model, "model", config.DefaultBaseModel, "base model identifier for the local engine")
	serveCmd.Flags().StringVar(&serveOpts.adapter, "adapter", "", "LoRA adapter directory for the local engine")
	serveCmd.Flags().IntVar(&serveOpts.maxTokens, "max-tokens", infer.DefaultMaxTokens, "generation token budget")
}
