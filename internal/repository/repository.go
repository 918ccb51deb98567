// Package repository handles all interactions with the document store.
//
// Each repository owns one collection path and converts between stored
// documents and the types in the model package, so services never build
// store paths themselves.
package repository

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

// Collection paths.
const (
	AdminsCollection        = "admins"
	StoriesCollection       = "stories"
	VideosCollection        = "videos"
	NotificationsCollection = "notifications"
	MessagesRoot            = "user_messages"
	PushTokensCollection    = "push_tokens"
	SimilarityRoot          = "game_data/similarity_questions"
	WordHuntRoot            = "game_data/wordhunt_questions"
)

// listAs decodes every child of collection into T, handing each key to withKey.
// Children that do not decode are logged through the context logger and
// skipped.
func listAs[T any](ctx context.Context, st store.Store, collection string, withKey func(*T, string)) ([]T, error) {
	entries, err := st.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := store.Decode(e.Data, &v); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).
				Str("collection", collection).
				Str("key", e.Key).
				Msg("skipping undecodable document")
			continue
		}
		if withKey != nil {
			withKey(&v, e.Key)
		}
		out = append(out, v)
	}
	return out, nil
}

// getAs decodes the document at ref into T.
func getAs[T any](ctx context.Context, st store.Store, ref store.Ref, withKey func(*T, string)) (T, error) {
	var v T
	doc, err := st.Get(ctx, ref)
	if err != nil {
		return v, fmt.Errorf("get %s: %w", ref, err)
	}
	if err := store.Decode(doc, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", ref, err)
	}
	if withKey != nil {
		withKey(&v, ref.Key)
	}
	return v, nil
}

// encodeWithout encodes v and drops fields that are derived from the key.
func encodeWithout(v any, fields ...string) (store.Document, error) {
	doc, err := store.Encode(v)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		delete(doc, f)
	}
	return doc, nil
}

// patch merges p into the document at ref.
func patch(ctx context.Context, st store.Store, ref store.Ref, p map[string]any) (store.Document, error) {
	doc, err := st.Update(ctx, ref, func(doc store.Document) (store.Document, error) {
		return store.ApplyPatch(doc, p), nil
	})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", ref, err)
	}
	return doc, nil
}
