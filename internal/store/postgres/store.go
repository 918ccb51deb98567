// Package postgres implements store.Store on the documents table of the
// PostgreSQL database opened by the database package.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

// Store keeps every document as a JSONB row keyed by (collection, doc_key).
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New wraps an open pool. The pool is owned by the caller.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close is a no-op; database.Database closes the pool.
func (s *Store) Close() error {
	return nil
}

func (s *Store) Get(ctx context.Context, ref store.Ref) (store.Document, error) {
	return get(ctx, s.pool, ref, false)
}

func get(ctx context.Context, q querier, ref store.Ref, forUpdate bool) (store.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND doc_key = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var raw []byte
	err := q.QueryRow(ctx, query, ref.Collection, ref.Key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ref, err)
	}
	return decode(raw)
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc_key, data FROM documents WHERE collection = $1 ORDER BY doc_key COLLATE "C"`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	entries := []store.Entry{}
	for rows.Next() {
		var key string
		var raw []byte
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		doc, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, key, err)
		}
		entries = append(entries, store.Entry{Key: key, Data: doc})
	}
	return entries, rows.Err()
}

func (s *Store) Collections(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT collection FROM documents WHERE starts_with(collection, $1)`,
		store.JoinPath(prefix)+"/",
	)
	if err != nil {
		return nil, fmt.Errorf("collections %s: %w", prefix, err)
	}

	collections, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collections %s: %w", prefix, err)
	}
	return store.ChildNames(prefix, collections), nil
}

func (s *Store) Set(ctx context.Context, ref store.Ref, doc store.Document) error {
	return set(ctx, s.pool, ref, doc)
}

func set(ctx context.Context, q querier, ref store.Ref, doc store.Document) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
INSERT INTO documents (collection, doc_key, data)
VALUES ($1, $2, $3)
ON CONFLICT (collection, doc_key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		ref.Collection, ref.Key, raw,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", ref, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, ref store.Ref, doc store.Document) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
INSERT INTO documents (collection, doc_key, data)
VALUES ($1, $2, $3)
ON CONFLICT (collection, doc_key) DO NOTHING`,
		ref.Collection, ref.Key, raw,
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", ref, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) Update(ctx context.Context, ref store.Ref, fn store.UpdateFunc) (store.Document, error) {
	var out store.Document
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		doc, err := get(ctx, tx, ref, true)
		if err != nil {
			return err
		}
		out, err = fn(doc)
		if err != nil {
			return err
		}
		return set(ctx, tx, ref, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateMany(ctx context.Context, refs []store.Ref, fn func(ref store.Ref, doc store.Document) (store.Document, error)) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, ref := range refs {
			doc, err := get(ctx, tx, ref, true)
			if err != nil {
				return err
			}
			next, err := fn(ref, doc)
			if err != nil {
				return err
			}
			if err := set(ctx, tx, ref, next); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Delete(ctx context.Context, ref store.Ref) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc_key = $2`,
		ref.Collection, ref.Key,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func encode(doc store.Document) ([]byte, error) {
	if doc == nil {
		doc = store.Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func decode(raw []byte) (store.Document, error) {
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
