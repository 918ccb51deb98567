// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of the configuration, the logger and optional New
// Relic service, the document store (Postgres or SQLite, optionally behind
// the Redis listing cache), the Redis client, the background job service
// and the http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/database"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/cache"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/postgres"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/sqlite"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/neslihan-na/playlearnkids-admin/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is the Postgres pool; nil when the store runs on SQLite.
	DB *database.Database

	// Store is the document store every repository reads and writes.
	Store store.Store

	// Redis is nil when no address is configured.
	Redis *redis.Client

	// Job is nil without Redis; work is then delivered inline.
	Job *job.JobService

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// Redis is optional: when it is not configured or does not answer, the
// store runs uncached and background jobs are disabled.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	if err := s.openStore(ctx); err != nil {
		return nil, err
	}

	if cfg.Redis.Address != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Address,
		})

		if loggerService != nil && loggerService.GetApplication() != nil {
			redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
			_ = redisClient.Close()
		} else {
			s.Redis = redisClient
			ttl := time.Duration(cfg.Redis.CacheTTL) * time.Second
			s.Store = cache.New(s.Store, redisClient, ttl, logger)

			jobService := job.NewJobService(logger, cfg)
			if err := jobService.Start(); err != nil {
				return nil, fmt.Errorf("failed to start job service: %w", err)
			}
			s.Job = jobService
		}
	}

	return s, nil
}

func (s *Server) openStore(ctx context.Context) error {
	switch s.Config.Database.Driver {
	case config.DriverSQLite:
		st, err := sqlite.Open(ctx, s.Config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		s.Store = st
		s.Logger.Info().Str("path", s.Config.Database.SQLitePath).Msg("using sqlite document store")

	default:
		db, err := database.New(s.Config, s.Logger, s.LoggerService)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		s.DB = db
		s.Store = postgres.New(db.Pool)
	}
	return nil
}

// SetupHTTPServer configures the internal net/http server.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("users_root", s.Config.UsersRoot()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, then background jobs, the
// store and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	return s.Close()
}

// Close releases everything but the HTTP server. CLI commands that never
// serve call it directly.
func (s *Server) Close() error {
	if s.Job != nil {
		s.Job.Stop()
	}

	var errs []error
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
