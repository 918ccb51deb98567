package service

import (
	"context"
	"sort"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/rs/zerolog"
)

const unknownUsername = "Bilinmeyen Kullanıcı"

// DefaultAdminID signs replies when the caller has no admin key.
const DefaultAdminID = "admin"

type MessageService struct {
	clock
	messages *repository.MessageRepository
	users    *repository.UserRepository
	logger   *zerolog.Logger
}

func NewMessageService(messages *repository.MessageRepository, users *repository.UserRepository, logger *zerolog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, logger: logger}
}

func unreadFromUser(msgs []model.Message) []string {
	var ids []string
	for _, m := range msgs {
		if m.Sender == model.SenderUser && !m.Read {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func (s *MessageService) conversation(ctx context.Context, userID string, usernames map[string]string) (model.Conversation, error) {
	msgs, err := s.messages.List(ctx, userID)
	if err != nil {
		return model.Conversation{}, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt < msgs[j].CreatedAt
	})

	c := model.Conversation{
		UserID:      userID,
		Username:    unknownUsername,
		Messages:    msgs,
		UnreadCount: len(unreadFromUser(msgs)),
	}
	if name, ok := usernames[userID]; ok {
		c.Username = name
	}
	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		c.LastMessage = &last
	}
	return c, nil
}

// usernames maps user keys to their display names.
func (s *MessageService) usernames(ctx context.Context) (map[string]string, error) {
	entries, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		if name := orString(e.Data["username"], orString(e.Data["name"], "")); name != "" {
			out[e.Key] = name
		}
	}
	return out, nil
}

// Conversations returns every inbox, the most recently active first.
func (s *MessageService) Conversations(ctx context.Context) ([]model.Conversation, error) {
	ids, err := s.messages.UserIDs(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.usernames(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Conversation, 0, len(ids))
	for _, id := range ids {
		c, err := s.conversation(ctx, id, names)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return lastMessageAt(out[i]) > lastMessageAt(out[j])
	})
	return out, nil
}

func lastMessageAt(c model.Conversation) int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.CreatedAt
}

// UnreadTotal counts unread user messages across all inboxes.
func (s *MessageService) UnreadTotal(ctx context.Context) (int, error) {
	ids, err := s.messages.UserIDs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		msgs, err := s.messages.List(ctx, id)
		if err != nil {
			return 0, err
		}
		total += len(unreadFromUser(msgs))
	}
	return total, nil
}

func (s *MessageService) Conversation(ctx context.Context, userID string) (*model.Conversation, error) {
	names, err := s.usernames(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.conversation(ctx, userID, names)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkRead flags the user's unread messages as read and returns how many
// changed. Admin replies are left alone.
func (s *MessageService) MarkRead(ctx context.Context, userID string) (int, error) {
	msgs, err := s.messages.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	ids := unreadFromUser(msgs)
	if err := s.messages.MarkRead(ctx, userID, ids); err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		s.logger.Debug().Str("user_id", userID).Int("count", len(ids)).Msg("messages marked read")
	}
	return len(ids), nil
}

// Reply appends an admin message to the user's inbox.
func (s *MessageService) Reply(ctx context.Context, userID, text, adminID string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" || userID == "" {
		return nil, badRequest("Mesaj boş olamaz")
	}
	if adminID == "" {
		adminID = DefaultAdminID
	}

	msg := model.Message{
		UserID:    userID,
		Text:      text,
		Sender:    model.SenderAdmin,
		CreatedAt: s.nowMillis(),
		Read:      false,
		AdminID:   adminID,
	}
	id, err := s.messages.Add(ctx, msg)
	if err != nil {
		return nil, err
	}
	msg.ID = id

	s.logger.Info().Str("user_id", userID).Str("admin_id", adminID).Msg("admin reply sent")
	return &msg, nil
}
