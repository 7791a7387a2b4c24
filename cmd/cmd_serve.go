package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/idrees11/gnn-topology-ablation/internal/adapters/http/api"
	"github.com/idrees11/gnn-topology-ablation/internal/adapters/http/swagger"
	service "github.com/idrees11/gnn-topology-ablation/internal/app"
	"github.com/idrees11/gnn-topology-ablation/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only HTTP view of the leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, lg, err := setup(ctx, cmd, flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			svc := service.FromConfig(cfg, lg)
			mux := http.NewServeMux()
			swagger.Register(ctx, mux)
			api.NewServer(svc, svc.Renderer(), api.WithLogger(lg.Named("http"))).Register(ctx, mux)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			return runServer(ctx, srv, lg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config addr)")
	return cmd
}

// runServer serves until ctx is canceled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, lg logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		lg.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	lg.Info(ctx, "server stopped")
	return nil
}
