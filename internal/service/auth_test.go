package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentities map[string]*Identity

func (m fakeIdentities) Identity(_ context.Context, subject string) (*Identity, error) {
	if id, ok := m[subject]; ok {
		return id, nil
	}
	return nil, errors.New("clerk: user not found")
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	admins, _, repos := newAdminService(t)
	auth := NewAuthService(fakeIdentities{
		"sess_boss":  {Email: "boss@playlearnkids.com"},
		"sess_kid":   {Email: "kid@example.com", DisplayName: "kid"},
		"sess_staff": {Email: "staff@example.com", DisplayName: "staffer"},
		"sess_spoof": {Email: "boss@attacker.example", DisplayName: "staffer"},
	}, admins, testutil.Logger())

	_, err := admins.CreateAdmin(ctx, "boss@playlearnkids.com", "Boss", "cli")
	require.NoError(t, err)
	seedUsers(t, repos, map[string]store.Document{
		"kid":     {"name": "kid"},
		"staffer": {"name": "Staff", "email": "staff@example.com", "isAdmin": true},
	})

	p, err := auth.Authorize(ctx, "sess_boss")
	require.NoError(t, err)
	assert.Equal(t, "boss", p.Key)
	assert.Equal(t, model.PrincipalAdmin, p.Source)

	stored, err := repos.Admins.Get(ctx, "boss")
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), stored.LastLogin)

	p, err = auth.Authorize(ctx, "sess_staff")
	require.NoError(t, err)
	assert.Equal(t, "staffer", p.Key)
	assert.Equal(t, model.PrincipalUser, p.Source)

	_, err = auth.Authorize(ctx, "sess_spoof")
	assert.Equal(t, http.StatusForbidden, errs.StatusOf(err))

	_, err = auth.Authorize(ctx, "sess_kid")
	assert.Equal(t, http.StatusForbidden, errs.StatusOf(err))

	_, err = auth.Authorize(ctx, "sess_unknown")
	assert.Equal(t, http.StatusUnauthorized, errs.StatusOf(err))

	_, err = auth.Authorize(ctx, "")
	assert.Equal(t, http.StatusUnauthorized, errs.StatusOf(err))
}

func TestPrimaryEmail(t *testing.T) {
	primary := "idn_2"
	u := &clerk.User{
		PrimaryEmailAddressID: &primary,
		EmailAddresses: []*clerk.EmailAddress{
			{ID: "idn_1", EmailAddress: "old@example.com"},
			{ID: "idn_2", EmailAddress: "new@example.com"},
		},
	}
	assert.Equal(t, "new@example.com", PrimaryEmail(u))

	u.PrimaryEmailAddressID = nil
	assert.Equal(t, "old@example.com", PrimaryEmail(u))
	assert.Equal(t, "", PrimaryEmail(&clerk.User{}))
	assert.Equal(t, "", PrimaryEmail(nil))
}
