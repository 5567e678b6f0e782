package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"storefront/internal/api"
	"storefront/internal/api/handler/v1handler"
	"storefront/internal/config"
	"storefront/pkg/logger"
	"storefront/pkg/storage"
	"storefront/pkg/ui"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, strg storage.Storage, sessions *ui.Sessions) func(ctx context.Context) {
	server, err := api.NewServer(ctx, api.Deps{Deps: v1handler.Deps{
		Storage:  strg,
		Sessions: sessions,
	}}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// shutdown gives in-flight requests GracefulShutdownTimeout to finish.
func shutdown(cfg *config.Config, stop func(ctx context.Context)) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	stop(shutdownCtx)
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the API server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			strg, closeStrg := getStorage(ctx, cfg)
			defer closeStrg()

			stopWebserver := setupServer(ctx, cfg, strg, ui.NewSessions())

			// wait for interrupt
			<-ctx.Done()
			shutdown(cfg, stopWebserver)
		},
	}

	return cmd
}
