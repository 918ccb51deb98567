// Package cache decorates a store.Store with a Redis read-through cache of
// collection listings. The admin managers re-read whole collections on
// every screen, so List is the only call worth caching.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyPrefix     = "playlearn:list:"
	versionPrefix = "playlearn:listver:"
)

// Store caches List results per collection and drops them on writes.
// Every write bumps a per-collection version; a listing is only cached when
// the version it was read under is still current, so a write racing a miss
// cannot leave the pre-write listing behind. Redis failures are logged and
// the call falls through to the inner store.
type Store struct {
	store.Store
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps inner. A non-positive ttl defaults to one minute.
func New(inner store.Store, client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Store{
		Store:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

type cachedEntry struct {
	Key  string         `json:"k"`
	Data store.Document `json:"d"`
}

func cacheKey(collection string) string {
	return keyPrefix + store.JoinPath(collection)
}

func versionKey(collection string) string {
	return versionPrefix + store.JoinPath(collection)
}

var errStaleFill = errors.New("collection changed while listing")

func (s *Store) List(ctx context.Context, collection string) ([]store.Entry, error) {
	key := cacheKey(collection)

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []cachedEntry
		if err := json.Unmarshal(raw, &cached); err == nil {
			entries := make([]store.Entry, len(cached))
			for i, c := range cached {
				entries[i] = store.Entry{Key: c.Key, Data: c.Data}
			}
			return entries, nil
		}
		s.logger.Warn().Str("collection", collection).Msg("discarding unreadable cached listing")
	case !errors.Is(err, redis.Nil):
		s.logger.Warn().Err(err).Str("collection", collection).Msg("redis read failed, using store")
	}

	version, err := s.version(ctx, s.client, collection)
	if err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).Msg("redis read failed, not caching")
		return s.Store.List(ctx, collection)
	}

	entries, err := s.Store.List(ctx, collection)
	if err != nil {
		return nil, err
	}

	s.fill(ctx, collection, version, entries)
	return entries, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Store) version(ctx context.Context, c getter, collection string) (int64, error) {
	v, err := c.Get(ctx, versionKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// fill caches entries unless collection was written after version was read.
func (s *Store) fill(ctx context.Context, collection string, version int64, entries []store.Entry) {
	cached := make([]cachedEntry, len(entries))
	for i, e := range entries {
		cached[i] = cachedEntry{Key: e.Key, Data: e.Data}
	}
	payload, err := json.Marshal(cached)
	if err != nil {
		return
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.version(ctx, tx, collection)
		if err != nil {
			return err
		}
		if current != version {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(collection), payload, s.ttl)
			return nil
		})
		return err
	}, versionKey(collection))

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		s.logger.Debug().Str("collection", collection).Msg("skipping cache fill after concurrent write")
	default:
		s.logger.Warn().Err(err).Str("collection", collection).Msg("redis write failed")
	}
}

func (s *Store) Set(ctx context.Context, ref store.Ref, doc store.Document) error {
	defer s.invalidate(ctx, ref.Collection)
	return s.Store.Set(ctx, ref, doc)
}

func (s *Store) Create(ctx context.Context, ref store.Ref, doc store.Document) error {
	defer s.invalidate(ctx, ref.Collection)
	return s.Store.Create(ctx, ref, doc)
}

func (s *Store) Update(ctx context.Context, ref store.Ref, fn store.UpdateFunc) (store.Document, error) {
	defer s.invalidate(ctx, ref.Collection)
	return s.Store.Update(ctx, ref, fn)
}

func (s *Store) UpdateMany(ctx context.Context, refs []store.Ref, fn func(ref store.Ref, doc store.Document) (store.Document, error)) error {
	collections := make([]string, 0, len(refs))
	for _, ref := range refs {
		collections = append(collections, ref.Collection)
	}
	defer s.invalidate(ctx, collections...)
	return s.Store.UpdateMany(ctx, refs, fn)
}

func (s *Store) Delete(ctx context.Context, ref store.Ref) error {
	defer s.invalidate(ctx, ref.Collection)
	return s.Store.Delete(ctx, ref)
}

func (s *Store) invalidate(ctx context.Context, collections ...string) {
	seen := make(map[string]struct{}, len(collections))
	keys := make([]string, 0, len(collections))
	for _, c := range collections {
		k := cacheKey(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return
	}

	// The write already happened, so a cancelled request must not keep a stale listing.
	ctx = context.WithoutCancel(ctx)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Incr(ctx, versionPrefix+strings.TrimPrefix(k, keyPrefix))
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Strs("keys", keys).Msg("redis invalidation failed")
	}
}
