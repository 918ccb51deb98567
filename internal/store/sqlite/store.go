// Package sqlite implements store.Store on an embedded SQLite file.
//
// It backs local development (PLAYLEARN_DATABASE__DRIVER=sqlite) and the
// service and handler tests, which open a fresh file per test.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/store/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed document store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// A single connection serializes writers and keeps transactions simple.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) Get(ctx context.Context, ref store.Ref) (store.Document, error) {
	return get(ctx, s.db, ref)
}

func get(ctx context.Context, q queryer, ref store.Ref) (store.Document, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND doc_key = ?`,
		ref.Collection, ref.Key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ref, err)
	}
	return decode(raw)
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_key, data FROM documents WHERE collection = ? ORDER BY doc_key`,
		strings.Trim(collection, "/"),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	entries := []store.Entry{}
	for rows.Next() {
		var key, raw string
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
	base := strings.Trim(prefix, "/") + "/"
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM documents WHERE substr(collection, 1, ?) = ?`,
		len(base), base,
	)
	if err != nil {
		return nil, fmt.Errorf("collections %s: %w", prefix, err)
	}
	defer rows.Close()

	var collections []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return store.ChildNames(prefix, collections), nil
}

func (s *Store) Set(ctx context.Context, ref store.Ref, doc store.Document) error {
	return set(ctx, s.db, ref, doc)
}

func set(ctx context.Context, q queryer, ref store.Ref, doc store.Document) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	now := time.Now().UTC().UnixMilli()
	_, err = q.ExecContext(ctx, `
INSERT INTO documents (collection, doc_key, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (collection, doc_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		ref.Collection, ref.Key, raw, now, now,
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
	now := time.Now().UTC().UnixMilli()
	res, err := s.db.ExecContext(ctx, `
INSERT INTO documents (collection, doc_key, data, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (collection, doc_key) DO NOTHING`,
		ref.Collection, ref.Key, raw, now, now,
	)
	if err != nil {
		return fmt.Errorf("create %s: %w", ref, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) Update(ctx context.Context, ref store.Ref, fn store.UpdateFunc) (store.Document, error) {
	var out store.Document
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		doc, err := get(ctx, tx, ref)
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
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, ref := range refs {
			doc, err := get(ctx, tx, ref)
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
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND doc_key = ?`,
		ref.Collection, ref.Key,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func encode(doc store.Document) (string, error) {
	if doc == nil {
		doc = store.Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(raw), nil
}

func decode(raw string) (store.Document, error) {
	doc := store.Document{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
