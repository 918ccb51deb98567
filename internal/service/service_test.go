package service

import (
	"context"
	"testing"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return fixedNow }
}

func newRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(testutil.NewServer(t))
}

// seedUsers writes docs into the users root of repos.
func seedUsers(t *testing.T, repos *repository.Repositories, docs map[string]store.Document) {
	t.Helper()
	for key, doc := range docs {
		require.NoError(t, repos.Users.Set(context.Background(), key, doc))
	}
}

func TestCleanKey(t *testing.T) {
	assert.Equal(t, "aliveli", cleanKey("  Ali Veli! "))
	assert.Equal(t, "ayegl", cleanKey("Ayşegül"))
	assert.Equal(t, "user42", cleanKey("user_42"))
	assert.Equal(t, "", cleanKey("!!"))
}

func TestFalsyAndOr(t *testing.T) {
	for _, v := range []any{nil, false, "", 0.0, 0, int64(0)} {
		assert.True(t, falsy(v), "%#v", v)
	}
	for _, v := range []any{true, "x", 1.5, []any{}, map[string]any{}} {
		assert.False(t, falsy(v), "%#v", v)
	}

	assert.Equal(t, "def", or("", "def"))
	assert.Equal(t, "val", or("val", "def"))
	assert.Equal(t, "3", orString(3.0, "def"))
	assert.Equal(t, "def", orString(0.0, "def"))
}
