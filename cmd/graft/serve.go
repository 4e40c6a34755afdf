package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	api "github.com/aretw0/graft/internal/adapters/http"
	"github.com/aretw0/graft/internal/cli"
	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		addr   string
		cache  string
		banner bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the stateless HTTP transform server",
		Long:  `Exposes POST /v1/transform, GET /v1/plugins, /healthz and /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				a.cfg.Server.Cache.Backend = cache
			}
			if banner {
				tui.PrintBanner(cmd.ErrOrStderr())
			}

			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			srv, closer, err := a.newServer(ctx)
			if err != nil {
				return err
			}
			defer closer.Close()
			return a.serve(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; overrides server.addr")
	cmd.Flags().StringVar(&cache, "cache", "", "Result cache backend (memory, redis, none); overrides server.cache.backend")
	cmd.Flags().BoolVar(&banner, "banner", false, "Print the banner on startup")
	return cmd
}

// newServer wires the engine, result cache and metrics into an http.Server.
// The closer releases the cache connection.
func (a *app) newServer(ctx context.Context) (*http.Server, io.Closer, error) {
	cache, closer, err := cli.NewCache(ctx, a.cfg.Server.Cache)
	if err != nil {
		return nil, nil, err
	}

	metrics := observability.NewMetrics(nil)
	engine := cli.NewEngine(a.cfg, a.logger, metrics.Hooks())

	opts := []api.Option{api.WithMetrics(metrics.Handler()), api.WithLogger(a.logger)}
	if cache != nil {
		opts = append(opts, api.WithCache(cache))
	}
	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           api.NewHandler(engine, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, closer, nil
}

func (a *app) serve(ctx *cli.SignalContext, srv *http.Server) error {
	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", srv.Addr, "cache", a.cfg.Server.Cache.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		a.logger.Info("shutdown started", "signal", ctx.Signal())

		// Give outstanding requests a deadline for completion.
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			a.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		a.logger.Info("server stopped gracefully")
		return nil
	}
}
