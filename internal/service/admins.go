package service

import (
	"context"
	"errors"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/lib/job"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

// FirstAdminKey is the admin created by CreateFirstAdmin.
const FirstAdminKey = "admin"

// AdminKey derives the admin key from an e-mail address: the local part,
// lower-cased, with everything but letters and digits removed.
func AdminKey(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return cleanKey(local)
}

type AdminService struct {
	clock
	admins *repository.AdminRepository
	users  *repository.UserRepository
	jobs   job.Dispatcher
	logger *zerolog.Logger
}

func NewAdminService(admins *repository.AdminRepository, users *repository.UserRepository, jobs job.Dispatcher, logger *zerolog.Logger) *AdminService {
	return &AdminService{admins: admins, users: users, jobs: jobs, logger: logger}
}

// CreateAdmin registers a new active admin and queues the invitation e-mail.
func (s *AdminService) CreateAdmin(ctx context.Context, email, name, invitedBy string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	key := AdminKey(email)
	if key == "" {
		return nil, badRequest("Geçerli bir e-posta adresi gereklidir")
	}

	admin := model.Admin{
		Key:       key,
		Name:      strings.TrimSpace(name),
		Email:     email,
		IsActive:  true,
		CreatedAt: s.nowMillis(),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, errs.NewConflictError("Admin already exists", true, nil)
		}
		return nil, err
	}

	s.logger.Info().Str("admin", key).Str("invited_by", invitedBy).Msg("admin created")

	err := s.jobs.EnqueueAdminInvite(ctx, job.AdminInvitePayload{
		To:        admin.Email,
		AdminName: admin.Name,
		InvitedBy: invitedBy,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("admin", key).Msg("failed to queue admin invite")
	}

	return &admin, nil
}

// GetAdmin finds an admin by key, e-mail or name.
func (s *AdminService) GetAdmin(ctx context.Context, identifier string) (*model.Admin, error) {
	key := cleanKey(identifier)
	if strings.Contains(identifier, "@") {
		key = AdminKey(identifier)
	}

	if key != "" {
		admin, err := s.admins.Get(ctx, key)
		if err == nil {
			return &admin, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range admins {
		if a.Email == identifier || a.Name == identifier {
			return &a, nil
		}
	}
	return nil, errs.NotFoundf("Admin not found")
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	return s.admins.List(ctx)
}

func (s *AdminService) SetAdminActive(ctx context.Context, key string, active bool) (*model.Admin, error) {
	admin, err := s.admins.Patch(ctx, key, map[string]any{"isActive": active})
	if err != nil {
		return nil, notFound(err, "Admin not found")
	}
	s.logger.Info().Str("admin", key).Bool("active", active).Msg("admin activation changed")
	return &admin, nil
}

func (s *AdminService) TouchLastLogin(ctx context.Context, key string) error {
	if _, err := s.admins.Patch(ctx, key, map[string]any{"lastLogin": s.nowMillis()}); err != nil {
		return notFound(err, "Admin not found")
	}
	return nil
}

// CreateFirstAdmin bootstraps the default admin. It reports whether the
// admin was already present, in which case nothing is written.
func (s *AdminService) CreateFirstAdmin(ctx context.Context) (*model.Admin, bool, error) {
	admin := model.Admin{
		Key:       FirstAdminKey,
		Name:      "Admin User",
		Email:     "admin@" + userEmailDomain,
		IsActive:  true,
		CreatedAt: s.nowMillis(),
	}

	err := s.admins.Create(ctx, admin)
	if errors.Is(err, store.ErrExists) {
		existing, err := s.admins.Get(ctx, FirstAdminKey)
		if err != nil {
			return nil, true, err
		}
		return &existing, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.logger.Info().Str("email", admin.Email).Msg("first admin created")
	return &admin, false, nil
}

// ResolveAdmin decides whether the signed-in identity may use the admin
// API. email must be the address verified by the auth provider. An active
// admins entry counts only when its stored email equals email; it gets its
// last login refreshed. Otherwise a user whose stored email equals email
// and who is flagged isAdmin is accepted. Everyone else is forbidden.
func (s *AdminService) ResolveAdmin(ctx context.Context, email, displayName string) (*model.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errs.NewForbiddenError("Bu panele erişim yetkiniz yok", true)
	}

	if key := AdminKey(email); key != "" {
		admin, err := s.admins.Get(ctx, key)
		switch {
		case err == nil && !strings.EqualFold(strings.TrimSpace(admin.Email), email):
			s.logger.Warn().Str("admin", key).Msg("admin key matched but email did not")
		case err == nil && admin.IsActive:
			if err := s.TouchLastLogin(ctx, key); err != nil {
				s.logger.Warn().Err(err).Str("admin", key).Msg("failed to update admin last login")
			}
			return &model.Principal{
				Key:     key,
				Name:    admin.Name,
				Email:   admin.Email,
				IsAdmin: true,
				Source:  model.PrincipalAdmin,
			}, nil
		case err == nil:
			s.logger.Warn().Str("admin", key).Msg("inactive admin tried to sign in")
		case !errors.Is(err, store.ErrNotFound):
			return nil, err
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if !u.Data.Bool("isAdmin") || !strings.EqualFold(strings.TrimSpace(store.AsString(u.Data["email"])), email) {
			continue
		}
		return &model.Principal{
			Key:     u.Key,
			Name:    orString(u.Data["name"], orString(displayName, u.Key)),
			Email:   email,
			IsAdmin: true,
			Source:  model.PrincipalUser,
		}, nil
	}

	return nil, errs.NewForbiddenError("Bu panele erişim yetkiniz yok", true)
}
