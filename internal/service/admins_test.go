package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminService(t *testing.T) (*AdminService, *testutil.Dispatcher, *repository.Repositories) {
	t.Helper()
	repos := newRepos(t)
	jobs := &testutil.Dispatcher{}
	svc := NewAdminService(repos.Admins, repos.Users, jobs, testutil.Logger())
	svc.now = fixedClock()
	return svc, jobs, repos
}

func TestAdminKey(t *testing.T) {
	assert.Equal(t, "ayse", AdminKey("Ayse@playlearnkids.com"))
	assert.Equal(t, "janedoe", AdminKey("jane.doe@example.com"))
	assert.Equal(t, "", AdminKey("@example.com"))
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	svc, jobs, _ := newAdminService(t)

	admin, err := svc.CreateAdmin(ctx, " jane.doe@example.com ", "Jane", "admin")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", admin.Key)
	assert.True(t, admin.IsActive)
	assert.Equal(t, fixedNow.UnixMilli(), admin.CreatedAt)

	require.Len(t, jobs.Invites, 1)
	assert.Equal(t, "jane.doe@example.com", jobs.Invites[0].To)
	assert.Equal(t, "admin", jobs.Invites[0].InvitedBy)

	_, err = svc.CreateAdmin(ctx, "jane.doe@example.com", "Jane", "admin")
	assert.Equal(t, http.StatusConflict, errs.StatusOf(err))

	_, err = svc.CreateAdmin(ctx, "@example.com", "Nobody", "admin")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}

func TestCreateAdminIgnoresInviteFailure(t *testing.T) {
	svc, jobs, _ := newAdminService(t)
	jobs.Err = errors.New("queue down")

	admin, err := svc.CreateAdmin(context.Background(), "ops@example.com", "Ops", "admin")
	require.NoError(t, err)
	assert.Equal(t, "ops", admin.Key)
}

func TestGetAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t)

	_, err := svc.CreateAdmin(ctx, "jane.doe@example.com", "Jane Doe", "admin")
	require.NoError(t, err)

	for _, id := range []string{"janedoe", "jane.doe@example.com", "Jane Doe"} {
		admin, err := svc.GetAdmin(ctx, id)
		require.NoError(t, err, id)
		assert.Equal(t, "janedoe", admin.Key, id)
	}

	_, err = svc.GetAdmin(ctx, "nobody")
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestCreateFirstAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAdminService(t)

	admin, existed, err := svc.CreateFirstAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, FirstAdminKey, admin.Key)
	assert.Equal(t, "admin@playlearnkids.com", admin.Email)

	_, existed, err = svc.CreateFirstAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestResolveAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("active admin", func(t *testing.T) {
		svc, _, repos := newAdminService(t)
		_, err := svc.CreateAdmin(ctx, "ayse@example.com", "Ayse", "admin")
		require.NoError(t, err)

		p, err := svc.ResolveAdmin(ctx, "ayse@example.com", "")
		require.NoError(t, err)
		assert.Equal(t, model.PrincipalAdmin, p.Source)
		assert.Equal(t, "ayse", p.Key)

		stored, err := repos.Admins.Get(ctx, "ayse")
		require.NoError(t, err)
		assert.Equal(t, fixedNow.UnixMilli(), stored.LastLogin)
	})

	t.Run("inactive admin falls back to flagged user", func(t *testing.T) {
		svc, _, repos := newAdminService(t)
		_, err := svc.CreateAdmin(ctx, "ayse@example.com", "Ayse", "admin")
		require.NoError(t, err)
		_, err = svc.SetAdminActive(ctx, "ayse", false)
		require.NoError(t, err)
		seedUsers(t, repos, map[string]store.Document{"ayse": {"name": "Ayşe", "email": "Ayse@Example.com", "isAdmin": true}})

		p, err := svc.ResolveAdmin(ctx, "ayse@example.com", "ayse")
		require.NoError(t, err)
		assert.Equal(t, model.PrincipalUser, p.Source)
		assert.Equal(t, "Ayşe", p.Name)
	})

	t.Run("unknown identity is forbidden", func(t *testing.T) {
		svc, _, repos := newAdminService(t)
		seedUsers(t, repos, map[string]store.Document{"kid": {"name": "Kid"}})

		_, err := svc.ResolveAdmin(ctx, "kid@example.com", "kid")
		assert.Equal(t, http.StatusForbidden, errs.StatusOf(err))
	})

	t.Run("admin key with a foreign domain is forbidden", func(t *testing.T) {
		svc, _, _ := newAdminService(t)
		_, _, err := svc.CreateFirstAdmin(ctx)
		require.NoError(t, err)

		for _, email := range []string{"admin@attacker.example", "Ad.Min@evil.test"} {
			_, err := svc.ResolveAdmin(ctx, email, "")
			assert.Equal(t, http.StatusForbidden, errs.StatusOf(err), email)
		}

		p, err := svc.ResolveAdmin(ctx, "ADMIN@playlearnkids.com", "")
		require.NoError(t, err)
		assert.Equal(t, FirstAdminKey, p.Key)
	})

	t.Run("flagged user must match the verified email", func(t *testing.T) {
		svc, _, repos := newAdminService(t)
		seedUsers(t, repos, map[string]store.Document{
			"teacher1": {"name": "Teacher", "email": "teacher@school.test", "isAdmin": true},
		})

		_, err := svc.ResolveAdmin(ctx, "someone@else.test", "teacher1")
		assert.Equal(t, http.StatusForbidden, errs.StatusOf(err))

		p, err := svc.ResolveAdmin(ctx, "teacher@school.test", "whatever")
		require.NoError(t, err)
		assert.Equal(t, "teacher1", p.Key)
		assert.Equal(t, model.PrincipalUser, p.Source)
	})

	t.Run("empty email is forbidden", func(t *testing.T) {
		svc, _, _ := newAdminService(t)
		_, err := svc.ResolveAdmin(ctx, " ", "admin")
		assert.Equal(t, http.StatusForbidden, errs.StatusOf(err))
	})
}
