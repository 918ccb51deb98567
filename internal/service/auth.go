package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/rs/zerolog"
)

// Identity is what the auth provider knows about a signed-in user.
type Identity struct {
	Email       string
	DisplayName string
}

// IdentityProvider looks up the signed-in user behind a session subject.
type IdentityProvider interface {
	Identity(ctx context.Context, subject string) (*Identity, error)
}

// ClerkIdentities reads identities from the Clerk Backend API.
type ClerkIdentities struct{}

// NewClerkIdentities configures the Clerk SDK with secretKey.
func NewClerkIdentities(secretKey string) *ClerkIdentities {
	clerk.SetKey(secretKey)
	return &ClerkIdentities{}
}

func (ClerkIdentities) Identity(ctx context.Context, subject string) (*Identity, error) {
	u, err := user.Get(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("get clerk user %s: %w", subject, err)
	}
	return &Identity{
		Email:       PrimaryEmail(u),
		DisplayName: displayName(u),
	}, nil
}

// PrimaryEmail returns the user's primary email address, falling back to
// the first one on file.
func PrimaryEmail(u *clerk.User) string {
	if u == nil || len(u.EmailAddresses) == 0 {
		return ""
	}
	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e != nil && e.ID == *u.PrimaryEmailAddressID {
				return e.EmailAddress
			}
		}
	}
	if u.EmailAddresses[0] == nil {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}

func displayName(u *clerk.User) string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	var parts []string
	for _, p := range []*string{u.FirstName, u.LastName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, " ")
}

type AuthService struct {
	identities IdentityProvider
	admins     *AdminService
	logger     *zerolog.Logger
}

func NewAuthService(identities IdentityProvider, admins *AdminService, logger *zerolog.Logger) *AuthService {
	return &AuthService{identities: identities, admins: admins, logger: logger}
}

// Authorize resolves the session subject to an admin principal. Users that
// are neither active admins nor flagged isAdmin get a 403.
func (s *AuthService) Authorize(ctx context.Context, subject string) (*model.Principal, error) {
	if subject == "" {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}

	id, err := s.identities.Identity(ctx, subject)
	if err != nil {
		s.logger.Error().Err(err).Str("subject", subject).Msg("identity lookup failed")
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}
	return s.admins.ResolveAdmin(ctx, id.Email, id.DisplayName)
}
