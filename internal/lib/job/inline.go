package job

import (
	"context"

	"github.com/neslihan-na/playlearnkids-admin/internal/config"
	"github.com/rs/zerolog"
)

// Inline runs task work synchronously. It is used when Redis is not
// configured, e.g. local runs on SQLite.
type Inline struct {
	handlers *handlers
}

var _ Dispatcher = (*Inline)(nil)

func NewInline(cfg *config.Config, logger *zerolog.Logger) *Inline {
	return &Inline{handlers: newHandlers(cfg, logger)}
}

func (i *Inline) EnqueuePush(ctx context.Context, p PushPayload) error {
	return i.handlers.sendPush(ctx, p)
}

func (i *Inline) EnqueueAdminInvite(ctx context.Context, p AdminInvitePayload) error {
	return i.handlers.sendAdminInvite(ctx, p)
}
