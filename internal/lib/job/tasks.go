package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/push"
)

const (
	// TaskPushSend delivers one Expo push notification.
	TaskPushSend = "push:send"

	// TaskAdminInvite e-mails a newly created admin.
	TaskAdminInvite = "email:admin_invite"
)

// PushPayload is the JSON payload of a push:send task.
type PushPayload struct {
	UserID  string       `json:"user_id"`
	Message push.Message `json:"message"`
}

// AdminInvitePayload is the JSON payload of an email:admin_invite task.
type AdminInvitePayload struct {
	To        string `json:"to"`
	AdminName string `json:"admin_name"`
	InvitedBy string `json:"invited_by"`
}

// NewPushTask builds a push task on the critical queue. Pushes are time
// sensitive, so retries are few and short.
func NewPushTask(p PushPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPushSend,
		payload,
		asynq.MaxRetry(2),
		asynq.Queue("critical"),
		asynq.Timeout(20*time.Second),
	), nil
}

// NewAdminInviteTask builds an invitation e-mail task on the default queue.
func NewAdminInviteTask(p AdminInvitePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskAdminInvite,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
