package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

const userEmailDomain = "playlearnkids.com"

// Maintenance actions accepted by RunAdminAction.
const (
	ActionCheck   = "check"
	ActionSync    = "sync"
	ActionCleanup = "cleanup"
)

type UserService struct {
	clock
	users  *repository.UserRepository
	logger *zerolog.Logger
}

func NewUserService(users *repository.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// ListUsers returns every user with display defaults filled in. Stored
// fields always win over the defaults.
func (s *UserService) ListUsers(ctx context.Context) ([]store.Document, error) {
	entries, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]store.Document, 0, len(entries))
	for _, e := range entries {
		u := store.Document{
			"key":       e.Key,
			"username":  or(e.Data["name"], e.Key),
			"email":     or(e.Data["email"], ""),
			"level":     1,
			"avatar":    or(e.Data["avatarKey"], "Boy_1"),
			"isPremium": false,
			"isAdmin":   false,
			"score":     0,
			"birthYear": 2010,
		}
		for k, v := range e.Data {
			u[k] = v
		}
		out = append(out, u)
	}
	return out, nil
}

// ExportUsers renders ListUsers as indented JSON.
func (s *UserService) ExportUsers(ctx context.Context) ([]byte, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode users export: %w", err)
	}
	return raw, nil
}

// UpdateUser merges updates into the user stored under key. When key does
// not exist the cleaned form of key ("Ali Veli!" -> "aliveli") is tried.
func (s *UserService) UpdateUser(ctx context.Context, key string, updates map[string]any) (store.Document, error) {
	p := make(map[string]any, len(updates)+1)
	for k, v := range updates {
		p[k] = v
	}
	p["lastUpdated"] = s.nowMillis()

	doc, err := s.users.Patch(ctx, key, p)
	if errors.Is(err, store.ErrNotFound) {
		if cleaned := cleanKey(key); cleaned != "" && cleaned != key {
			doc, err = s.users.Patch(ctx, cleaned, p)
		}
	}
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	s.logger.Info().Str("user", key).Int("fields", len(updates)).Msg("user updated")
	return doc, nil
}

func (s *UserService) DeleteUser(ctx context.Context, key string) error {
	if err := s.users.Delete(ctx, key); err != nil {
		return notFound(err, "User not found")
	}
	s.logger.Info().Str("user", key).Msg("user deleted")
	return nil
}

// SetPremium upgrades or downgrades a user and records when it happened.
func (s *UserService) SetPremium(ctx context.Context, key string, premium bool) (store.Document, error) {
	now := s.nowMillis()
	updates := map[string]any{"isPremium": premium}
	if premium {
		updates["premiumUpgradedAt"] = now
	} else {
		updates["premiumDowngradedAt"] = now
	}
	return s.UpdateUser(ctx, key, updates)
}

func syncUser(e store.Entry) model.SyncUser {
	return model.SyncUser{
		Key:       e.Key,
		Name:      orString(e.Data["name"], e.Key),
		Email:     orString(e.Data["email"], e.Key+"@"+userEmailDomain),
		UserID:    orString(e.Data["userId"], ""),
		DataCount: len(e.Data),
	}
}

// CheckSyncStatus compares the user documents with the identities derived
// from them. Documents without a userId are orphans; documents sharing an
// e-mail address (case-insensitive) are duplicates.
func (s *UserService) CheckSyncStatus(ctx context.Context) (*model.SyncStatus, error) {
	entries, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	status := &model.SyncStatus{
		DBUsers:    make([]model.SyncUser, 0, len(entries)),
		AuthUsers:  make([]model.AuthUser, 0, len(entries)),
		Orphans:    []model.SyncUser{},
		Duplicates: []model.DuplicateGroup{},
	}

	now := s.nowMillis()
	for _, e := range entries {
		u := syncUser(e)
		status.DBUsers = append(status.DBUsers, u)

		uid := u.UserID
		if uid == "" {
			uid = u.Key
		}
		status.AuthUsers = append(status.AuthUsers, model.AuthUser{
			UID:         uid,
			Email:       u.Email,
			DisplayName: u.Name,
			CreatedAt:   now,
		})
	}

	var order []string
	groups := make(map[string][]model.SyncUser)
	for _, u := range status.DBUsers {
		// Every document with a userId has a matching identity.
		if u.UserID == "" {
			status.Orphans = append(status.Orphans, u)
		}

		email := strings.ToLower(u.Email)
		if _, seen := groups[email]; !seen {
			order = append(order, email)
		}
		groups[email] = append(groups[email], u)
	}

	for _, email := range order {
		if len(groups[email]) > 1 {
			status.Duplicates = append(status.Duplicates, model.DuplicateGroup{Email: email, Users: groups[email]})
		}
	}

	status.TotalUsers = len(status.DBUsers)
	status.OrphanCount = len(status.Orphans)
	status.SyncNeeded = len(status.Orphans) > 0 || len(status.Duplicates) > 0
	return status, nil
}

// CleanupDuplicateUsers merges users whose names only differ in case. The
// member with the most fields is kept (the first one on a tie) and renamed
// to the lower-cased name; the others are deleted.
func (s *UserService) CleanupDuplicateUsers(ctx context.Context) (int, error) {
	entries, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}

	var order []string
	groups := make(map[string][]store.Entry)
	for _, e := range entries {
		name := strings.ToLower(orString(e.Data["name"], e.Key))
		if _, seen := groups[name]; !seen {
			order = append(order, name)
		}
		groups[name] = append(groups[name], e)
	}

	cleaned := 0
	for _, name := range order {
		members := groups[name]
		if len(members) < 2 {
			continue
		}

		keeper, maxFields := -1, 0
		for i, m := range members {
			if len(m.Data) > maxFields {
				keeper, maxFields = i, len(m.Data)
			}
		}
		keepKey := members[0].Key
		if keeper >= 0 {
			keepKey = members[keeper].Key
		}

		for _, m := range members {
			if m.Key == keepKey {
				continue
			}
			if err := s.users.Delete(ctx, m.Key); err != nil {
				return cleaned, err
			}
			cleaned++
		}

		if keeper >= 0 {
			_, err := s.users.Patch(ctx, keepKey, map[string]any{
				"name":             name,
				"lastUpdated":      s.nowMillis(),
				"duplicateCleaned": true,
			})
			if err != nil {
				return cleaned, err
			}
		}
	}

	s.logger.Info().Int("cleaned", cleaned).Msg("duplicate user cleanup completed")
	return cleaned, nil
}

// AutoSyncUsers deletes orphaned users and collapses every duplicate e-mail
// group to one user whose e-mail is then made unique. Per-user failures are
// collected in the result instead of aborting the run.
func (s *UserService) AutoSyncUsers(ctx context.Context) (*model.SyncResult, error) {
	status, err := s.CheckSyncStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("check sync status: %w", err)
	}

	result := &model.SyncResult{Success: true, Errors: []string{}}
	deleted := make(map[string]bool)

	for _, orphan := range status.Orphans {
		if err := s.users.Delete(ctx, orphan.Key); err != nil {
			s.logger.Warn().Err(err).Str("user", orphan.Key).Msg("failed to delete orphan user")
			result.Errors = append(result.Errors, "Orphan silme error: "+orphan.Key)
			continue
		}
		deleted[orphan.Key] = true
		result.CleanedCount++
	}

	for _, group := range status.Duplicates {
		var members []model.SyncUser
		for _, u := range group.Users {
			if !deleted[u.Key] {
				members = append(members, u)
			}
		}
		if len(members) == 0 {
			continue
		}

		keeper := members[0]
		for _, u := range members[1:] {
			if !(keeper.DataCount > u.DataCount) {
				keeper = u
			}
		}

		if err := s.fixDuplicate(ctx, keeper, members, deleted, result); err != nil {
			s.logger.Warn().Err(err).Str("email", group.Email).Msg("failed to fix duplicate users")
			result.Errors = append(result.Errors, "Duplicate düzeltme error: "+group.Email)
			continue
		}
		result.SyncedCount++
	}

	s.logger.Info().
		Int("synced", result.SyncedCount).
		Int("cleaned", result.CleanedCount).
		Int("errors", len(result.Errors)).
		Msg("user auto sync completed")
	return result, nil
}

func (s *UserService) fixDuplicate(ctx context.Context, keeper model.SyncUser, members []model.SyncUser, deleted map[string]bool, result *model.SyncResult) error {
	for _, u := range members {
		if u.Key == keeper.Key {
			continue
		}
		if err := s.users.Delete(ctx, u.Key); err != nil {
			return err
		}
		deleted[u.Key] = true
		result.CleanedCount++
	}

	now := s.nowMillis()
	_, err := s.users.Patch(ctx, keeper.Key, map[string]any{
		"email":          fmt.Sprintf("%s%d@%s", keeper.Name, now, userEmailDomain),
		"lastUpdated":    now,
		"duplicateFixed": true,
	})
	return err
}

// RunAdminAction runs one maintenance action by name.
func (s *UserService) RunAdminAction(ctx context.Context, action string) (*model.ActionResult, error) {
	s.logger.Info().Str("action", action).Msg("running admin maintenance action")

	switch action {
	case ActionCheck:
		status, err := s.CheckSyncStatus(ctx)
		if err != nil {
			return nil, err
		}
		return &model.ActionResult{
			Success: true,
			Message: "Senkronizasyon durumu check edildi",
			Details: status,
		}, nil

	case ActionSync:
		res, err := s.AutoSyncUsers(ctx)
		if err != nil {
			return nil, err
		}
		return &model.ActionResult{
			Success: res.Success,
			Message: fmt.Sprintf("Senkronizasyon completed: %d user, %d temizlendi", res.SyncedCount, res.CleanedCount),
			Details: res,
		}, nil

	case ActionCleanup:
		n, err := s.CleanupDuplicateUsers(ctx)
		if err != nil {
			return nil, err
		}
		return &model.ActionResult{
			Success: true,
			Message: fmt.Sprintf("Temizlik completed: %d user deleted", n),
			Details: map[string]any{"success": true, "cleanedCount": n},
		}, nil

	default:
		return nil, badRequest("Geçersiz admin işlemi")
	}
}
