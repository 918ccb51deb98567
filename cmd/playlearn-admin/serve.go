package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/database"
	"github.com/neslihan-na/playlearnkids-admin/internal/handler"
	"github.com/neslihan-na/playlearnkids-admin/internal/router"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	if a.cfg.Database.Driver == config.DriverPostgres {
		if err := database.Migrate(ctx, a.logger, a.cfg); err != nil {
			_ = a.server.Close()
			return err
		}
	}

	r := router.NewRouter(a.server, handler.NewHandlers(a.server, a.services), a.services)
	a.server.SetupHTTPServer(r)

	serveErr := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			a.logger.Error().Err(err).Msg("server stopped")
			_ = a.server.Close()
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	a.logger.Info().Msg("server exited properly")
	return nil
}
