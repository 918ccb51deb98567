package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/email"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/push"
	"github.com/rs/zerolog"
)

// PushSender delivers push messages.
type PushSender interface {
	Send(ctx context.Context, msg push.Message) error
}

// InviteSender delivers admin invitation e-mails.
type InviteSender interface {
	SendAdminInvite(to, adminName, invitedBy, panelURL string) error
}

// handlers performs the work behind every task type. Both the asynq
// worker and the inline dispatcher run through it.
type handlers struct {
	push     PushSender
	email    InviteSender
	panelURL string
	logger   *zerolog.Logger
}

func newHandlers(cfg *config.Config, logger *zerolog.Logger) *handlers {
	return &handlers{
		push:     push.NewClient(cfg.Integration.PushURL, cfg.Integration.PushAccessKey, logger),
		email:    email.NewClient(cfg, logger),
		panelURL: cfg.Integration.AdminPanelURL,
		logger:   logger,
	}
}

func (h *handlers) sendPush(ctx context.Context, p PushPayload) error {
	h.logger.Info().
		Str("type", TaskPushSend).
		Str("user_id", p.UserID).
		Msg("Processing push task")

	if err := h.push.Send(ctx, p.Message); err != nil {
		h.logger.Error().
			Str("type", TaskPushSend).
			Str("user_id", p.UserID).
			Err(err).
			Msg("Failed to send push notification")
		return err
	}

	h.logger.Info().
		Str("type", TaskPushSend).
		Str("user_id", p.UserID).
		Msg("Successfully sent push notification")
	return nil
}

func (h *handlers) sendAdminInvite(_ context.Context, p AdminInvitePayload) error {
	h.logger.Info().
		Str("type", TaskAdminInvite).
		Str("to", p.To).
		Msg("Processing admin invite task")

	if err := h.email.SendAdminInvite(p.To, p.AdminName, p.InvitedBy, h.panelURL); err != nil {
		h.logger.Error().
			Str("type", TaskAdminInvite).
			Str("to", p.To).
			Err(err).
			Msg("Failed to send admin invite email")
		return err
	}

	h.logger.Info().
		Str("type", TaskAdminInvite).
		Str("to", p.To).
		Msg("Successfully sent admin invite email")
	return nil
}

func (h *handlers) handlePushTask(ctx context.Context, t *asynq.Task) error {
	var p PushPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal push payload: %w: %w", err, asynq.SkipRetry)
	}
	return h.sendPush(ctx, p)
}

func (h *handlers) handleAdminInviteTask(ctx context.Context, t *asynq.Task) error {
	var p AdminInvitePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal admin invite payload: %w: %w", err, asynq.SkipRetry)
	}
	return h.sendAdminInvite(ctx, p)
}
