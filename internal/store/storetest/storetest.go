// Package storetest holds behaviour checks every store backend must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises s. The store must start empty.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), store.NewRef("stories", "nope"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := store.NewRef("stories", "s1")

		require.NoError(t, s.Set(ctx, ref, store.Document{"title": "A", "pages": []any{"x"}}))
		require.NoError(t, s.Set(ctx, ref, store.Document{"title": "B"}))

		doc, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "B", doc["title"])
		assert.False(t, doc.Has("pages"))
	})

	t.Run("create refuses existing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := store.NewRef("admins", "ayse")

		require.NoError(t, s.Create(ctx, ref, store.Document{"name": "Ayse"}))
		err := s.Create(ctx, ref, store.Document{"name": "Other"})
		assert.ErrorIs(t, err, store.ErrExists)

		doc, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "Ayse", doc["name"])
	})

	t.Run("list ordered by key", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, key := range []string{"c", "a", "b"} {
			require.NoError(t, s.Set(ctx, store.NewRef("videos", key), store.Document{"id": key}))
		}
		require.NoError(t, s.Set(ctx, store.NewRef("videos/a", "nested"), store.Document{"id": "nested"}))

		entries, err := s.List(ctx, "videos")
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Key)
		assert.Equal(t, "b", entries[1].Key)
		assert.Equal(t, "c", entries[2].Key)
		assert.Equal(t, "c", entries[2].Data["id"])

		empty, err := s.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("collections below prefix", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, store.NewRef("user_messages/u2", "m1"), store.Document{"text": "hi"}))
		require.NoError(t, s.Set(ctx, store.NewRef("user_messages/u1", "m1"), store.Document{"text": "hi"}))
		require.NoError(t, s.Set(ctx, store.NewRef("user_messages/u1", "m2"), store.Document{"text": "yo"}))
		require.NoError(t, s.Set(ctx, store.NewRef("user_messages/u1/archive", "m0"), store.Document{}))
		require.NoError(t, s.Set(ctx, store.NewRef("userXmessages/u3", "m1"), store.Document{}))

		names, err := s.Collections(ctx, "user_messages")
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2"}, names)
	})

	t.Run("update read modify write", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := store.NewRef("test_users", "ali")

		require.NoError(t, s.Set(ctx, ref, store.Document{"score": 1.0}))

		out, err := s.Update(ctx, ref, func(doc store.Document) (store.Document, error) {
			return store.ApplyPatch(doc, map[string]any{"score": doc.IntOr("score", 0) + 1}), nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, out.IntOr("score", 0))

		stored, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.IntOr("score", 0))
	})

	t.Run("update missing and aborted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Update(ctx, store.NewRef("test_users", "ghost"), func(doc store.Document) (store.Document, error) {
			return doc, nil
		})
		assert.ErrorIs(t, err, store.ErrNotFound)

		ref := store.NewRef("test_users", "veli")
		require.NoError(t, s.Set(ctx, ref, store.Document{"name": "Veli"}))

		boom := errors.New("boom")
		_, err = s.Update(ctx, ref, func(doc store.Document) (store.Document, error) {
			return store.Document{"name": "changed"}, boom
		})
		assert.ErrorIs(t, err, boom)

		doc, err := s.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, "Veli", doc["name"])
	})

	t.Run("update many is atomic", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a := store.NewRef("test_users", "bot1")
		b := store.NewRef("test_users", "bot2")
		require.NoError(t, s.Set(ctx, a, store.Document{"n": 0.0}))
		require.NoError(t, s.Set(ctx, b, store.Document{"n": 0.0}))

		bump := func(ref store.Ref, doc store.Document) (store.Document, error) {
			return store.ApplyPatch(doc, map[string]any{"n": 1}), nil
		}
		require.NoError(t, s.UpdateMany(ctx, []store.Ref{a, b}, bump))

		err := s.UpdateMany(ctx, []store.Ref{a, store.NewRef("test_users", "missing")}, func(ref store.Ref, doc store.Document) (store.Document, error) {
			return store.ApplyPatch(doc, map[string]any{"n": 5}), nil
		})
		assert.ErrorIs(t, err, store.ErrNotFound)

		doc, err := s.Get(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.IntOr("n", -1))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		ref := store.NewRef("notifications", "n1")

		require.NoError(t, s.Set(ctx, ref, store.Document{"read": false}))
		require.NoError(t, s.Delete(ctx, ref))
		assert.ErrorIs(t, s.Delete(ctx, ref), store.ErrNotFound)

		_, err := s.Get(ctx, ref)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
