package main

import (
	"context"
	"os/signal"
	"storefront/internal/config"
	"storefront/internal/panel"
	"storefront/pkg/domain"
	"storefront/pkg/logger"
	"storefront/pkg/ui"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// panelCommand opens the mini-cart debug panel. With --serve the API server runs
// in the same process, so changes made through /v1/ui with the same session ID
// show up in the panel immediately.
func panelCommand(cfg *config.Config) *cobra.Command {
	var (
		session string
		serve   bool
	)

	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Shows a terminal panel toggling the mini-cart of one session",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			sessions := ui.NewSessions()
			st := sessions.Get(domain.SessionID(session))

			if serve {
				// the terminal belongs to the panel
				restore := logger.Get(ctx)
				logger.SetDefault(zap.NewNop())
				defer logger.SetDefault(restore)

				strg, closeStrg := getStorage(ctx, cfg)
				defer closeStrg()

				stopWebserver := setupServer(ctx, cfg, strg, sessions)
				defer shutdown(cfg, stopWebserver)
			}

			if err := panel.Run(ctx, st); err != nil {
				logger.Fatal(ctx, "panel failed", zap.Error(err))
			}
		},
	}

	cmd.Flags().StringVar(&session, "session", "debug", "Session ID whose UI state is shown")
	cmd.Flags().BoolVar(&serve, "serve", false, "Also start the API server in this process")

	return cmd
}
