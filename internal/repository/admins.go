package repository

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

type AdminRepository struct {
	store store.Store
}

func NewAdminRepository(st store.Store) *AdminRepository {
	return &AdminRepository{store: st}
}

func adminKey(a *model.Admin, key string) {
	if a.Key == "" {
		a.Key = key
	}
}

func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	return listAs(ctx, r.store, AdminsCollection, adminKey)
}

func (r *AdminRepository) Get(ctx context.Context, key string) (model.Admin, error) {
	return getAs(ctx, r.store, store.NewRef(AdminsCollection, key), adminKey)
}

// Create stores a new admin, failing with store.ErrExists when the key is taken.
func (r *AdminRepository) Create(ctx context.Context, admin model.Admin) error {
	doc, err := store.Encode(admin)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, store.NewRef(AdminsCollection, admin.Key), doc); err != nil {
		return fmt.Errorf("create admin %s: %w", admin.Key, err)
	}
	return nil
}

func (r *AdminRepository) Patch(ctx context.Context, key string, p map[string]any) (model.Admin, error) {
	var admin model.Admin
	doc, err := patch(ctx, r.store, store.NewRef(AdminsCollection, key), p)
	if err != nil {
		return admin, err
	}
	if err := store.Decode(doc, &admin); err != nil {
		return admin, err
	}
	adminKey(&admin, key)
	return admin, nil
}
