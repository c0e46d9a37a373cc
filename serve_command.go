package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dmx-editor/api"
	"dmx-editor/controller"
	"dmx-editor/logging"
	"dmx-editor/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}

			logger, closeLog, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer closeLog()

			client := ctx.controllerClient(cfg, controller.WithLogger(logger))
			manager := session.NewManager(cfg.Editor.InitialCount)
			router := api.RegisterRoutes(manager, client, logger.With("component", "api"), staticFiles)

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			listener, err := net.Listen("tcp", cfg.Server.Bind)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", cfg.Server.Bind, err)
			}
			srv := &http.Server{
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(net.Listener) context.Context { return signalCtx },
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Serve(listener)
			}()
			logger.Info("dmx-editor listening",
				"addr", listener.Addr().String(),
				"controller", client.BaseURL(),
				"config", ctx.configPath,
				"config_found", ctx.configSeen)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-signalCtx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancelShutdown()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the listen address (host:port)")
	return cmd
}
