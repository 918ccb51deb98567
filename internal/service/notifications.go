package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/push"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/rs/zerolog"
)

// isoMillis matches the ISO-8601 timestamps the app stores on notifications.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// NotificationTemplates pre-fill the notification form, one per type.
var NotificationTemplates = []model.NotificationTemplate{
	{
		Type:    model.NotificationNewStory,
		Title:   model.Localized{TR: "📚 Yeni Hikaye!", EN: "📚 New Story!"},
		Message: model.Localized{TR: "Yeni bir hikaye eklendi. Hemen okumaya başla!", EN: "A new story has been added. Start reading now!"},
		Data:    map[string]any{"storyId": "", "route": "/stories"},
	},
	{
		Type:    model.NotificationAchievement,
		Title:   model.Localized{TR: "🏆 Tebrikler!", EN: "🏆 Congratulations!"},
		Message: model.Localized{TR: "Yeni bir rozet kazandın!", EN: "You earned a new badge!"},
		Data:    map[string]any{"achievementId": "", "badgeKey": "", "route": "/profile"},
	},
	{
		Type:    model.NotificationScoreUpdate,
		Title:   model.Localized{TR: "⭐ Yeni Rekor!", EN: "⭐ New Record!"},
		Message: model.Localized{TR: "Harika bir başarı! Puanın arttı.", EN: "Great achievement! Your score increased."},
		Data:    map[string]any{"score": 0, "rank": 0, "route": "/leaderboard"},
	},
	{
		Type:    model.NotificationSpecialEvent,
		Title:   model.Localized{TR: "🎊 Özel Etkinlik!", EN: "🎊 Special Event!"},
		Message: model.Localized{TR: "Bugün özel bir etkinlik var!", EN: "There's a special event today!"},
		Data:    map[string]any{"eventId": "", "eventType": ""},
	},
	{
		Type:    model.NotificationPremiumFeature,
		Title:   model.Localized{TR: "💎 Süper Kahraman!", EN: "💎 Super Hero!"},
		Message: model.Localized{TR: "Premium özelliklere erişim kazandın!", EN: "You gained access to premium features!"},
		Data:    map[string]any{"feature": "premium", "route": "/stories"},
	},
}

// notifier stores in-app notifications and queues the matching push. It
// is shared by the notification and high five services.
type notifier struct {
	clock
	notifications *repository.NotificationRepository
	tokens        *repository.PushTokenRepository
	jobs          job.Dispatcher
	logger        *zerolog.Logger
}

// notify stores n and, when the user registered a device, queues a push
// with the Turkish texts. Push problems are logged and never fail the call.
func (s *notifier) notify(ctx context.Context, n model.Notification) (string, error) {
	n.Read = false
	n.CreatedAt = s.nowTime().UTC().Format(isoMillis)
	if n.Data == nil {
		n.Data = map[string]any{}
	}

	id, err := s.notifications.Add(ctx, n)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Get(ctx, n.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", n.UserID).Msg("failed to read push token")
		return id, nil
	}
	if token == "" {
		s.logger.Debug().Str("user_id", n.UserID).Msg("no push token, stored in-app notification only")
		return id, nil
	}

	err = s.jobs.EnqueuePush(ctx, job.PushPayload{
		UserID: n.UserID,
		Message: push.Message{
			To:    token,
			Title: n.Title.TR,
			Body:  n.Message.TR,
			Data:  n.Data,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", n.UserID).Msg("failed to queue push notification")
	}
	return id, nil
}

type NotificationService struct {
	*notifier
	users *repository.UserRepository
}

func NewNotificationService(
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	tokens *repository.PushTokenRepository,
	jobs job.Dispatcher,
	logger *zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifier: &notifier{notifications: notifications, tokens: tokens, jobs: jobs, logger: logger},
		users:    users,
	}
}

func (s *NotificationService) Templates() []model.NotificationTemplate {
	return NotificationTemplates
}

// Send delivers a draft to its user, or to every user when SendToAll is set.
func (s *NotificationService) Send(ctx context.Context, d model.NotificationDraft) (*model.SendResult, error) {
	var recipients []string
	if d.SendToAll {
		entries, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			recipients = append(recipients, e.Key)
		}
	} else {
		if d.UserID == "" {
			return nil, badRequest("Lütfen bir kullanıcı seçin")
		}
		recipients = []string{d.UserID}
	}

	title := model.Localized{TR: d.TitleTR, EN: d.TitleEN}
	if title.EN == "" {
		title.EN = title.TR
	}
	message := model.Localized{TR: d.MessageTR, EN: d.MessageEN}
	if message.EN == "" {
		message.EN = message.TR
	}

	result := &model.SendResult{IDs: make([]string, 0, len(recipients))}
	for _, userID := range recipients {
		id, err := s.notify(ctx, model.Notification{
			UserID:  userID,
			Type:    d.Type,
			Title:   title,
			Message: message,
			Data:    d.Data,
		})
		if err != nil {
			return nil, fmt.Errorf("notify %s: %w", userID, err)
		}
		result.IDs = append(result.IDs, id)
	}
	result.Recipients = len(result.IDs)

	if d.SendToAll {
		result.Message = fmt.Sprintf("%d kullanıcıya bildirim gönderildi!", result.Recipients)
	} else {
		result.Message = "Bildirim başarıyla gönderildi!"
	}

	s.logger.Info().
		Str("type", string(d.Type)).
		Int("recipients", result.Recipients).
		Bool("send_to_all", d.SendToAll).
		Msg("notification sent")
	return result, nil
}

// ListNotifications returns notifications newest first, optionally only
// those addressed to userID.
func (s *NotificationService) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	all, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Notification, 0, len(all))
	for _, n := range all {
		if userID == "" || n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := parseISO(out[i].CreatedAt), parseISO(out[j].CreatedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func parseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id string) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		return notFound(err, "Bildirim bulunamadı")
	}
	return nil
}
