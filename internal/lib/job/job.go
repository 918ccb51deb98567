// Package job provides background job processing using Asynq.
//
// Services hand work to a Dispatcher. With Redis available that is the
// JobService, which enqueues tasks for the asynq worker; without Redis the
// Inline dispatcher performs the same work during the request.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/rs/zerolog"
)

// Dispatcher accepts background work.
type Dispatcher interface {
	EnqueuePush(ctx context.Context, p PushPayload) error
	EnqueueAdminInvite(ctx context.Context, p AdminInvitePayload) error
}

// JobService holds the Asynq client (enqueue) and server (worker execution).
type JobService struct {
	Client   *asynq.Client
	server   *asynq.Server
	handlers *handlers
	logger   *zerolog.Logger
}

var _ Dispatcher = (*JobService)(nil)

// NewJobService creates a JobService on the configured Redis.
//
// Queue weights give critical tasks (pushes) the larger worker share.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	return &JobService{
		Client:   client,
		server:   server,
		handlers: newHandlers(cfg, logger),
		logger:   logger,
	}
}

// Start registers task handlers and starts the worker in the background.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskPushSend, j.handlers.handlePushTask)
	mux.HandleFunc(TaskAdminInvite, j.handlers.handleAdminInviteTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	j.Client.Close()
}

func (j *JobService) EnqueuePush(ctx context.Context, p PushPayload) error {
	task, err := NewPushTask(p)
	if err != nil {
		return fmt.Errorf("failed to build push task: %w", err)
	}
	return j.enqueue(ctx, task)
}

func (j *JobService) EnqueueAdminInvite(ctx context.Context, p AdminInvitePayload) error {
	task, err := NewAdminInviteTask(p)
	if err != nil {
		return fmt.Errorf("failed to build admin invite task: %w", err)
	}
	return j.enqueue(ctx, task)
}

func (j *JobService) enqueue(ctx context.Context, task *asynq.Task) error {
	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", task.Type(), err)
	}

	j.logger.Debug().
		Str("type", task.Type()).
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("task enqueued")
	return nil
}
