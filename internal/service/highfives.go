package service

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

type HighFiveService struct {
	*notifier
	users *repository.UserRepository
}

func NewHighFiveService(
	users *repository.UserRepository,
	notifications *repository.NotificationRepository,
	tokens *repository.PushTokenRepository,
	jobs job.Dispatcher,
	logger *zerolog.Logger,
) *HighFiveService {
	return &HighFiveService{
		notifier: &notifier{notifications: notifications, tokens: tokens, jobs: jobs, logger: logger},
		users:    users,
	}
}

// Send records a high five from senderKey in the receiver's document and
// tells the receiver about it.
func (s *HighFiveService) Send(ctx context.Context, senderKey, receiverKey string) (*model.ActionResult, error) {
	if senderKey == "" || receiverKey == "" {
		return nil, badRequest("Lütfen hem gönderici hem de alıcı seçin.")
	}
	if senderKey == receiverKey {
		return nil, badRequest("Kullanıcı kendine beşlik gönderemez.")
	}

	sender, err := s.users.Get(ctx, senderKey)
	if err != nil {
		return nil, notFound(err, "Kullanıcı bulunamadı.")
	}
	receiver, err := s.users.Get(ctx, receiverKey)
	if err != nil {
		return nil, notFound(err, "Kullanıcı bulunamadı.")
	}

	senderName := orString(sender["name"], orString(sender["username"], "Bir Dost"))
	senderUsername := orString(sender["username"], orString(sender["name"], senderKey))
	receiverUsername := orString(receiver["username"], orString(receiver["name"], receiverKey))

	var entry model.HighFive
	_, err = s.users.Update(ctx, receiverKey, func(doc store.Document) (store.Document, error) {
		prev := doc.Map("highFives").Map(senderKey)
		entry = model.HighFive{
			Timestamp:  s.nowMillis(),
			SenderName: senderName,
			SenderID:   senderKey,
			Count:      prev.IntOr("count", 0) + 1,
			Viewed:     false,
		}
		encoded, err := store.Encode(entry)
		if err != nil {
			return nil, err
		}
		return store.ApplyPatch(doc, map[string]any{
			store.JoinPath("highFives", senderKey): map[string]any(encoded),
		}), nil
	})
	if err != nil {
		return nil, notFound(err, "Kullanıcı bulunamadı.")
	}

	_, err = s.notify(ctx, model.Notification{
		UserID: receiverKey,
		Type:   model.NotificationCongrats,
		Title:  model.Localized{TR: "✋ Çak Bir Beşlik!", EN: "✋ High Five!"},
		Message: model.Localized{
			TR: fmt.Sprintf("%s sana bir beşlik çaktı!", senderUsername),
			EN: fmt.Sprintf("%s sent you a high five!", senderUsername),
		},
		Data: map[string]any{
			"type":     "high_five",
			"senderId": senderKey,
			"route":    "/profile",
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("sender", senderKey).
		Str("receiver", receiverKey).
		Int("count", entry.Count).
		Msg("high five sent")

	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("%s adına %s kullanıcısına beşlik gönderildi!", senderUsername, receiverUsername),
		Details: entry,
	}, nil
}
