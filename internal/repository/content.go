package repository

import (
	"context"
	"fmt"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
)

type StoryRepository struct {
	store store.Store
}

func NewStoryRepository(st store.Store) *StoryRepository {
	return &StoryRepository{store: st}
}

func storyID(s *model.Story, key string) {
	s.ID = key
}

func (r *StoryRepository) List(ctx context.Context) ([]model.Story, error) {
	return listAs(ctx, r.store, StoriesCollection, storyID)
}

func (r *StoryRepository) Get(ctx context.Context, id string) (model.Story, error) {
	return getAs(ctx, r.store, store.NewRef(StoriesCollection, id), storyID)
}

// Save writes story under story.ID. The id itself is not stored.
func (r *StoryRepository) Save(ctx context.Context, story model.Story) error {
	doc, err := encodeWithout(story, "id")
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.NewRef(StoriesCollection, story.ID), doc); err != nil {
		return fmt.Errorf("save story %s: %w", story.ID, err)
	}
	return nil
}

// Update runs fn on the raw story document and returns the stored result.
func (r *StoryRepository) Update(ctx context.Context, id string, fn store.UpdateFunc) (model.Story, error) {
	var story model.Story
	doc, err := r.store.Update(ctx, store.NewRef(StoriesCollection, id), fn)
	if err != nil {
		return story, fmt.Errorf("update story %s: %w", id, err)
	}
	if err := store.Decode(doc, &story); err != nil {
		return story, err
	}
	story.ID = id
	return story, nil
}

func (r *StoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.NewRef(StoriesCollection, id)); err != nil {
		return fmt.Errorf("delete story %s: %w", id, err)
	}
	return nil
}

// VideoRepository returns raw documents; the video service normalizes the
// several legacy shapes videos were stored in.
type VideoRepository struct {
	store store.Store
}

func NewVideoRepository(st store.Store) *VideoRepository {
	return &VideoRepository{store: st}
}

func (r *VideoRepository) List(ctx context.Context) ([]store.Entry, error) {
	entries, err := r.store.List(ctx, VideosCollection)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return entries, nil
}

func (r *VideoRepository) Get(ctx context.Context, id string) (store.Document, error) {
	doc, err := r.store.Get(ctx, store.NewRef(VideosCollection, id))
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", id, err)
	}
	return doc, nil
}

func (r *VideoRepository) Create(ctx context.Context, id string, doc store.Document) error {
	if err := r.store.Create(ctx, store.NewRef(VideosCollection, id), doc); err != nil {
		return fmt.Errorf("create video %s: %w", id, err)
	}
	return nil
}

func (r *VideoRepository) Update(ctx context.Context, id string, fn store.UpdateFunc) (store.Document, error) {
	doc, err := r.store.Update(ctx, store.NewRef(VideosCollection, id), fn)
	if err != nil {
		return nil, fmt.Errorf("update video %s: %w", id, err)
	}
	return doc, nil
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, store.NewRef(VideosCollection, id)); err != nil {
		return fmt.Errorf("delete video %s: %w", id, err)
	}
	return nil
}
