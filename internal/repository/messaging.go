package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

type NotificationRepository struct {
	store store.Store
}

func NewNotificationRepository(st store.Store) *NotificationRepository {
	return &NotificationRepository{store: st}
}

func notificationID(n *model.Notification, key string) {
	n.ID = key
}

// Add stores n under a fresh push key and returns the key.
func (r *NotificationRepository) Add(ctx context.Context, n model.Notification) (string, error) {
	doc, err := encodeWithout(n, "id")
	if err != nil {
		return "", err
	}
	key := store.NewPushKey()
	if err := r.store.Create(ctx, store.NewRef(NotificationsCollection, key), doc); err != nil {
		return "", fmt.Errorf("add notification: %w", err)
	}
	return key, nil
}

func (r *NotificationRepository) List(ctx context.Context) ([]model.Notification, error) {
	return listAs(ctx, r.store, NotificationsCollection, notificationID)
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.NewRef(NotificationsCollection, id)); err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	return nil
}

// MessageRepository keeps one collection per user under user_messages.
type MessageRepository struct {
	store store.Store
}

func NewMessageRepository(st store.Store) *MessageRepository {
	return &MessageRepository{store: st}
}

func messageID(m *model.Message, key string) {
	m.ID = key
}

func (r *MessageRepository) collection(userID string) string {
	return store.JoinPath(MessagesRoot, userID)
}

// UserIDs returns every user that has an inbox.
func (r *MessageRepository) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.store.Collections(ctx, MessagesRoot)
	if err != nil {
		return nil, fmt.Errorf("list inboxes: %w", err)
	}
	return ids, nil
}

func (r *MessageRepository) List(ctx context.Context, userID string) ([]model.Message, error) {
	return listAs(ctx, r.store, r.collection(userID), messageID)
}

// Add appends msg to the user's inbox under a fresh push key.
func (r *MessageRepository) Add(ctx context.Context, msg model.Message) (string, error) {
	doc, err := encodeWithout(msg, "id")
	if err != nil {
		return "", err
	}
	key := store.NewPushKey()
	if err := r.store.Create(ctx, store.NewRef(r.collection(msg.UserID), key), doc); err != nil {
		return "", fmt.Errorf("add message: %w", err)
	}
	return key, nil
}

// MarkRead sets read=true on the given messages in one transaction.
func (r *MessageRepository) MarkRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	refs := make([]store.Ref, len(ids))
	for i, id := range ids {
		refs[i] = store.NewRef(r.collection(userID), id)
	}
	err := r.store.UpdateMany(ctx, refs, func(_ store.Ref, doc store.Document) (store.Document, error) {
		return store.ApplyPatch(doc, map[string]any{"read": true}), nil
	})
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}

type PushTokenRepository struct {
	store store.Store
}

func NewPushTokenRepository(st store.Store) *PushTokenRepository {
	return &PushTokenRepository{store: st}
}

// Get returns the user's Expo token, or "" when none is registered.
func (r *PushTokenRepository) Get(ctx context.Context, userID string) (string, error) {
	token, err := getAs[model.PushToken](ctx, r.store, store.NewRef(PushTokensCollection, userID), nil)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token.Token, nil
}

func (r *PushTokenRepository) Set(ctx context.Context, userID, token string) error {
	doc := store.Document{"token": token}
	if err := r.store.Set(ctx, store.NewRef(PushTokensCollection, userID), doc); err != nil {
		return fmt.Errorf("set push token %s: %w", userID, err)
	}
	return nil
}
