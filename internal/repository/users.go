package repository

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

// UserRepository works on the app's free-form user documents. Users are
// kept as raw documents because the app adds fields the admin API does
// not know about, and every write must preserve them.
type UserRepository struct {
	store store.Store
	root  string
}

func NewUserRepository(st store.Store, root string) *UserRepository {
	return &UserRepository{store: st, root: root}
}

// Root is the collection holding users ("users" or "test_users").
func (r *UserRepository) Root() string {
	return r.root
}

func (r *UserRepository) ref(key string) store.Ref {
	return store.NewRef(r.root, key)
}

func (r *UserRepository) List(ctx context.Context) ([]store.Entry, error) {
	entries, err := r.store.List(ctx, r.root)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return entries, nil
}

func (r *UserRepository) Get(ctx context.Context, key string) (store.Document, error) {
	doc, err := r.store.Get(ctx, r.ref(key))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", key, err)
	}
	return doc, nil
}

func (r *UserRepository) Set(ctx context.Context, key string, doc store.Document) error {
	if err := r.store.Set(ctx, r.ref(key), doc); err != nil {
		return fmt.Errorf("set user %s: %w", key, err)
	}
	return nil
}

// Patch merges p (slash paths allowed) into the user document.
func (r *UserRepository) Patch(ctx context.Context, key string, p map[string]any) (store.Document, error) {
	return patch(ctx, r.store, r.ref(key), p)
}

// Update runs fn on the user document inside a transaction.
func (r *UserRepository) Update(ctx context.Context, key string, fn store.UpdateFunc) (store.Document, error) {
	doc, err := r.store.Update(ctx, r.ref(key), fn)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", key, err)
	}
	return doc, nil
}

// PatchMany applies one patch per user key in a single transaction.
func (r *UserRepository) PatchMany(ctx context.Context, patches map[string]map[string]any) error {
	refs := make([]store.Ref, 0, len(patches))
	for key := range patches {
		refs = append(refs, r.ref(key))
	}
	err := r.store.UpdateMany(ctx, refs, func(ref store.Ref, doc store.Document) (store.Document, error) {
		return store.ApplyPatch(doc, patches[ref.Key]), nil
	})
	if err != nil {
		return fmt.Errorf("patch users: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, key string) error {
	if err := r.store.Delete(ctx, r.ref(key)); err != nil {
		return fmt.Errorf("delete user %s: %w", key, err)
	}
	return nil
}
