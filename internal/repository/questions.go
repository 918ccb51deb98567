package repository

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

// QuestionRepository stores one kind of quiz question, split per language
// under root ("game_data/similarity_questions/tr", ...). Documents are
// returned raw because older questions use different field names.
type QuestionRepository struct {
	store store.Store
	root  string
}

func NewQuestionRepository(st store.Store, root string) *QuestionRepository {
	return &QuestionRepository{store: st, root: root}
}

// Collection returns the collection path for lang.
func (r *QuestionRepository) Collection(lang model.Language) string {
	return store.JoinPath(r.root, string(lang))
}

func (r *QuestionRepository) ref(lang model.Language, id string) store.Ref {
	return store.NewRef(r.Collection(lang), id)
}

func (r *QuestionRepository) List(ctx context.Context, lang model.Language) ([]store.Entry, error) {
	entries, err := r.store.List(ctx, r.Collection(lang))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.Collection(lang), err)
	}
	return entries, nil
}

func (r *QuestionRepository) Get(ctx context.Context, lang model.Language, id string) (store.Document, error) {
	doc, err := r.store.Get(ctx, r.ref(lang, id))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.ref(lang, id), err)
	}
	return doc, nil
}

// Create stores doc under id, failing with store.ErrExists when taken.
func (r *QuestionRepository) Create(ctx context.Context, lang model.Language, id string, doc store.Document) error {
	if err := r.store.Create(ctx, r.ref(lang, id), doc); err != nil {
		return fmt.Errorf("create %s: %w", r.ref(lang, id), err)
	}
	return nil
}

func (r *QuestionRepository) Patch(ctx context.Context, lang model.Language, id string, p map[string]any) (store.Document, error) {
	return patch(ctx, r.store, r.ref(lang, id), p)
}

func (r *QuestionRepository) Delete(ctx context.Context, lang model.Language, id string) error {
	if err := r.store.Delete(ctx, r.ref(lang, id)); err != nil {
		return fmt.Errorf("delete %s: %w", r.ref(lang, id), err)
	}
	return nil
}
