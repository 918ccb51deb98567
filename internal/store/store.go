// Package store is the hierarchical document store the admin API reads
// and writes.
//
// Data is addressed the way the mobile app's realtime database addresses it:
// a slash separated collection path plus a child key, e.g.
// "game_data/similarity_questions/tr" + "q1". Documents are schemaless JSON
// objects; callers decode them into typed models in the repository layer.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrExists is returned by Create when the document is already present.
	ErrExists = errors.New("document already exists")
)

// Entry is a single child of a collection.
type Entry struct {
	Key  string
	Data Document
}

// UpdateFunc receives the current document and returns its replacement.
// Returning an error aborts the write.
type UpdateFunc func(doc Document) (Document, error)

// Store is implemented by every persistence backend.
type Store interface {
	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Get returns the document at ref or ErrNotFound.
	Get(ctx context.Context, ref Ref) (Document, error)

	// List returns every direct child of collection ordered by key.
	List(ctx context.Context, collection string) ([]Entry, error)

	// Collections returns the sorted, distinct child collection names
	// directly below prefix. For prefix "user_messages" and stored
	// collections "user_messages/a" and "user_messages/b" it returns
	// ["a", "b"].
	Collections(ctx context.Context, prefix string) ([]string, error)

	// Set creates or replaces the document at ref.
	Set(ctx context.Context, ref Ref, doc Document) error

	// Create writes the document only when ref is free, else ErrExists.
	Create(ctx context.Context, ref Ref, doc Document) error

	// Update runs fn against the current document inside a transaction.
	// It returns ErrNotFound when the document is missing.
	Update(ctx context.Context, ref Ref, fn UpdateFunc) (Document, error)

	// UpdateMany applies fn to every ref in a single transaction. A missing
	// ref aborts the whole batch with ErrNotFound.
	UpdateMany(ctx context.Context, refs []Ref, fn func(ref Ref, doc Document) (Document, error)) error

	// Delete removes the document at ref or returns ErrNotFound.
	Delete(ctx context.Context, ref Ref) error

	Close() error
}
