package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, docs map[string]store.Document) *UserService {
	t.Helper()
	repos := newRepos(t)
	seedUsers(t, repos, docs)
	svc := NewUserService(repos.Users, testutil.Logger())
	svc.now = fixedClock()
	return svc
}

func TestListUsersFillsDefaults(t *testing.T) {
	svc := newUserService(t, map[string]store.Document{
		"ali":  {"name": "Ali", "score": 5, "avatarKey": "Girl_2"},
		"veli": {"email": "veli@example.com"},
	})

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	ali := users[0]
	assert.Equal(t, "ali", ali["key"])
	assert.Equal(t, "Ali", ali["username"])
	assert.Equal(t, "Girl_2", ali["avatar"])
	assert.EqualValues(t, 5, ali["score"])
	assert.Equal(t, "", ali["email"])

	veli := users[1]
	assert.Equal(t, "veli", veli["username"])
	assert.Equal(t, "veli@example.com", veli["email"])
	assert.Equal(t, "Boy_1", veli["avatar"])
	assert.Equal(t, 1, veli["level"])
	assert.Equal(t, 2010, veli["birthYear"])
	assert.Equal(t, false, veli["isPremium"])
}

func TestExportUsersIsJSON(t *testing.T) {
	svc := newUserService(t, map[string]store.Document{"ali": {"name": "Ali"}})

	raw, err := svc.ExportUsers(context.Background())
	require.NoError(t, err)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "ali", out[0]["key"])
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to cleaned key", func(t *testing.T) {
		svc := newUserService(t, map[string]store.Document{"aliveli": {"name": "Ali Veli", "score": 3}})

		doc, err := svc.UpdateUser(ctx, "Ali Veli!", map[string]any{"isPremium": true})
		require.NoError(t, err)
		assert.Equal(t, true, doc["isPremium"])
		assert.EqualValues(t, 3, doc["score"])
		assert.EqualValues(t, fixedNow.UnixMilli(), doc["lastUpdated"])
	})

	t.Run("missing user is 404", func(t *testing.T) {
		svc := newUserService(t, nil)

		_, err := svc.UpdateUser(ctx, "ghost", map[string]any{"score": 1})
		assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
	})
}

func TestSetPremiumStampsTransition(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{"ali": {"name": "Ali"}})

	doc, err := svc.SetPremium(ctx, "ali", true)
	require.NoError(t, err)
	assert.Equal(t, true, doc["isPremium"])
	assert.True(t, doc.Has("premiumUpgradedAt"))

	doc, err = svc.SetPremium(ctx, "ali", false)
	require.NoError(t, err)
	assert.Equal(t, false, doc["isPremium"])
	assert.True(t, doc.Has("premiumDowngradedAt"))
}

func TestDeleteUserMissing(t *testing.T) {
	svc := newUserService(t, nil)
	err := svc.DeleteUser(context.Background(), "ghost")
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}

func TestCheckSyncStatus(t *testing.T) {
	svc := newUserService(t, map[string]store.Document{
		"a": {"name": "A", "email": "X@y.com", "userId": "u1"},
		"b": {"name": "B", "email": "x@y.com"},
		"c": {"name": "C", "userId": "u3"},
	})

	status, err := svc.CheckSyncStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, status.TotalUsers)
	assert.Equal(t, 1, status.OrphanCount)
	require.Len(t, status.Orphans, 1)
	assert.Equal(t, "b", status.Orphans[0].Key)

	require.Len(t, status.Duplicates, 1)
	assert.Equal(t, "x@y.com", status.Duplicates[0].Email)
	assert.Len(t, status.Duplicates[0].Users, 2)
	assert.True(t, status.SyncNeeded)

	require.Len(t, status.AuthUsers, 3)
	assert.Equal(t, "b", status.AuthUsers[1].UID)
	assert.Equal(t, "c@playlearnkids.com", status.AuthUsers[2].Email)
}

func TestCleanupDuplicateUsersKeepsRichest(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{
		"k1": {"name": "Ali", "a": 1},
		"k2": {"name": "ALI", "a": 1, "b": 2},
		"k3": {"name": "Veli"},
	})

	n, err := svc.CleanupDuplicateUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.users.Get(ctx, "k1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	kept, err := svc.users.Get(ctx, "k2")
	require.NoError(t, err)
	assert.Equal(t, "ali", kept["name"])
	assert.Equal(t, true, kept["duplicateCleaned"])

	other, err := svc.users.Get(ctx, "k3")
	require.NoError(t, err)
	assert.Equal(t, "Veli", other["name"])
}

func TestCleanupDuplicateUsersTieKeepsFirst(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{
		"k1": {"name": "Ali", "a": 1},
		"k2": {"name": "ALI", "b": 2},
	})

	n, err := svc.CleanupDuplicateUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	kept, err := svc.users.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "ali", kept["name"])

	_, err = svc.users.Get(ctx, "k2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAutoSyncUsersTieKeepsLaterAndSkipsDeletedOrphan(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{
		"a": {"name": "A", "email": "d@x.com", "userId": "1"},
		"b": {"name": "B", "email": "D@x.com", "userId": "2"},
		"o": {"name": "O", "email": "d@x.com"},
	})

	status, err := svc.CheckSyncStatus(ctx)
	require.NoError(t, err)
	require.Len(t, status.Duplicates, 1)
	require.Len(t, status.Duplicates[0].Users, 3)

	res, err := svc.AutoSyncUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.CleanedCount)
	assert.Equal(t, 1, res.SyncedCount)

	for _, key := range []string{"a", "o"} {
		_, err := svc.users.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}

	kept, err := svc.users.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B1741944413000@playlearnkids.com", kept["email"])
}

func TestAutoSyncUsers(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{
		"a": {"name": "A", "email": "d@x.com", "userId": "1"},
		"b": {"name": "B", "email": "d@x.com", "userId": "2", "extra": 1},
		"o": {"name": "O"},
	})

	res, err := svc.AutoSyncUsers(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.CleanedCount)
	assert.Equal(t, 1, res.SyncedCount)

	for _, key := range []string{"a", "o"} {
		_, err := svc.users.Get(ctx, key)
		assert.ErrorIs(t, err, store.ErrNotFound, key)
	}

	kept, err := svc.users.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "B1741944413000@playlearnkids.com", kept["email"])
	assert.Equal(t, true, kept["duplicateFixed"])
}

func TestRunAdminAction(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t, map[string]store.Document{"a": {"name": "A", "userId": "1"}})

	res, err := svc.RunAdminAction(ctx, ActionCheck)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.IsType(t, &model.SyncStatus{}, res.Details)

	res, err = svc.RunAdminAction(ctx, ActionCleanup)
	require.NoError(t, err)
	assert.Equal(t, "Temizlik completed: 0 user deleted", res.Message)

	_, err = svc.RunAdminAction(ctx, "explode")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}
