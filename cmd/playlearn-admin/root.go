package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/logger"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/server"
	"github.com/neslihan-na/playlearnkids-admin/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "playlearn-admin",
		Short:         "PlayLearnKids admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newAdminCommand(),
		newUsersCommand(),
	)
	return root
}

// app is everything a command needs once config and logging are up.
type app struct {
	cfg           *config.Config
	logger        *zerolog.Logger
	loggerService *logger.LoggerService
	server        *server.Server
	services      *service.Services
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(ctx, cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv), nil, nil)
	if err != nil {
		_ = srv.Close()
		loggerService.Shutdown()
		return nil, fmt.Errorf("could not create services: %w", err)
	}

	return &app{
		cfg:           cfg,
		logger:        &log,
		loggerService: loggerService,
		server:        srv,
		services:      services,
	}, nil
}

func (a *app) close() {
	if err := a.server.Close(); err != nil {
		a.logger.Error().Err(err).Msg("failed to release resources")
	}
	a.loggerService.Shutdown()
}

// withApp runs fn with a loaded app and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, a, args)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
