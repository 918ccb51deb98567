package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoService(t *testing.T) (*VideoService, *repository.VideoRepository) {
	t.Helper()
	repo := newRepos(t).Videos
	svc := NewVideoService(repo, testutil.Logger())
	svc.now = fixedClock()
	return svc, repo
}

func TestNormalizeVideo(t *testing.T) {
	t.Run("legacy youtube", func(t *testing.T) {
		v := NormalizeVideo("v1", store.Document{
			"title":      "Şarkı",
			"category":   map[string]any{"tr": "Müzik", "en": "Music"},
			"youtubeUrl": "https://youtu.be/abc",
			"views":      12.0,
			"isPremium":  1.0,
		}, "", 99)

		assert.Equal(t, model.PlainText("Şarkı"), v.Title)
		assert.Equal(t, model.LocalizedText("Müzik", "Music"), v.Category)
		assert.Equal(t, model.VideoTypeYouTube, v.VideoType)
		assert.Equal(t, model.PlainText("https://youtu.be/abc"), v.VideoURL)
		assert.Equal(t, "12", v.Views)
		assert.Equal(t, defaultVideoColor, v.Color)
		assert.Equal(t, defaultVideoBackground, v.BackgroundColor)
		assert.Equal(t, defaultVideoIcon, v.Icon)
		assert.True(t, v.IsActive)
		assert.True(t, v.IsPremium)
		assert.Nil(t, v.Badge)
		assert.Equal(t, int64(99), v.CreatedAt)
		assert.Equal(t, "", v.Duration)
	})

	t.Run("youtube object collapses to english", func(t *testing.T) {
		v := NormalizeVideo("v2", store.Document{
			"videoUrl":  map[string]any{"tr": "https://tr", "en": "https://en"},
			"isActive":  false,
			"createdAt": 5.0,
			"badge":     "Yeni",
		}, "0:00", 99)

		assert.Equal(t, model.PlainText("https://en"), v.VideoURL)
		assert.False(t, v.IsActive)
		assert.Equal(t, int64(5), v.CreatedAt)
		assert.Equal(t, "0:00", v.Duration)
		assert.Equal(t, "0", v.Views)
		require.NotNil(t, v.Badge)
		assert.Equal(t, "Yeni", v.Badge.Display())
	})

	t.Run("local video", func(t *testing.T) {
		v := NormalizeVideo("v3", store.Document{
			"videoType":         "local",
			"videoUrls":         map[string]any{"tr": "tr.mp4", "en": "en.mp4"},
			"thumbnailFileName": "thumb.png",
		}, "", 1)

		assert.Equal(t, model.VideoTypeLocal, v.VideoType)
		assert.Equal(t, model.LocalizedText("tr.mp4", "en.mp4"), v.VideoURL)
		assert.Equal(t, model.LocalizedText("thumb.png", "thumb.png"), v.ThumbnailURL)
	})
}

func TestCreateVideo(t *testing.T) {
	ctx := context.Background()
	svc, repo := newVideoService(t)

	v, err := svc.CreateVideo(ctx, map[string]any{
		"title":    map[string]any{"tr": "Alfabe", "en": "Alphabet"},
		"category": "Eğitim",
		"videoUrl": "https://youtu.be/x",
		"badge":    nil,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^video_1741944413000_[0-9a-z]{9}$`, v.ID)
	assert.Equal(t, "0", v.Views)
	assert.Equal(t, fixedNow.UnixMilli(), v.CreatedAt)

	doc, err := repo.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, doc["id"])
	assert.Equal(t, "0", doc["views"])
	assert.False(t, doc.Has("badge"))
}

func TestVideoUpdatesAndViews(t *testing.T) {
	ctx := context.Background()
	svc, repo := newVideoService(t)

	require.NoError(t, repo.Create(ctx, "v1", store.Document{"title": "A", "category": "Müzik", "views": "12", "badge": "Yeni"}))
	require.NoError(t, repo.Create(ctx, "v2", store.Document{"title": "B", "category": map[string]any{"tr": "Müzik", "en": "Music"}, "views": "lots"}))
	require.NoError(t, repo.Create(ctx, "v3", store.Document{"title": "C", "category": "Dans"}))

	music, err := svc.ListByCategory(ctx, "Müzik")
	require.NoError(t, err)
	require.Len(t, music, 2)
	assert.Equal(t, "0:00", music[0].Duration)

	english, err := svc.ListByCategory(ctx, "Music")
	require.NoError(t, err)
	require.Len(t, english, 1)
	assert.Equal(t, "v2", english[0].ID)

	updated, err := svc.UpdateVideo(ctx, "v1", map[string]any{"badge": nil, "duration": "3:10"})
	require.NoError(t, err)
	assert.Nil(t, updated.Badge)
	assert.Equal(t, "3:10", updated.Duration)
	assert.Equal(t, fixedNow.UnixMilli(), updated.LastUpdated)

	v, err := svc.IncrementViews(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "13", v.Views)

	v, err = svc.IncrementViews(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, "1", v.Views)

	res, err := svc.SetActive(ctx, "v3", false)
	require.NoError(t, err)
	assert.Equal(t, "Video deactivated successfully", res.Message)
	got, err := svc.GetVideo(ctx, "v3")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = svc.UpdateVideo(ctx, "nope", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	require.NoError(t, svc.DeleteVideo(ctx, "v3"))
	all, err := svc.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
