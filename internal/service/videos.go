package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/rs/zerolog"
)

const (
	defaultVideoBackground = "#FFF1F2"
	defaultVideoColor      = "#FF6B6B"
	defaultVideoIcon       = "🎵"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// localizedField reads a field stored as a string or as a {tr,en} object.
func localizedField(v any) model.Text {
	switch t := v.(type) {
	case string:
		return model.PlainText(t)
	case map[string]any:
		return model.LocalizedText(store.AsString(t["tr"]), store.AsString(t["en"]))
	default:
		return model.LocalizedText("", "")
	}
}

func viewsString(v any) string {
	if v == nil {
		return "0"
	}
	if s := store.AsString(v); s != "" {
		return s
	}
	return fmt.Sprint(v)
}

// firstSet returns a unless it is nil, else b.
func firstSet(a, b any) any {
	if a != nil {
		return a
	}
	return b
}

// localURL resolves a URL of a locally hosted video. A single string is
// used for both languages.
func localURL(v any) model.Text {
	switch t := v.(type) {
	case string:
		return model.LocalizedText(t, t)
	case map[string]any:
		return model.LocalizedText(store.AsString(t["tr"]), store.AsString(t["en"]))
	default:
		return model.LocalizedText("", "")
	}
}

// youtubeURL resolves a youtube URL; objects collapse to English, else Turkish.
func youtubeURL(v any) model.Text {
	switch t := v.(type) {
	case string:
		return model.PlainText(t)
	case map[string]any:
		return model.PlainText(orString(t["en"], orString(t["tr"], "")))
	default:
		return model.PlainText("")
	}
}

// NormalizeVideo converts a stored video in any of its historical shapes
// into the display form. emptyDuration is used when no duration is stored.
func NormalizeVideo(id string, d store.Document, emptyDuration string, now int64) model.Video {
	videoType := model.VideoTypeYouTube
	if d.String("videoType") == model.VideoTypeLocal {
		videoType = model.VideoTypeLocal
	}

	v := model.Video{
		ID:                id,
		Title:             localizedField(d["title"]),
		Subtitle:          localizedField(d["subtitle"]),
		Category:          localizedField(d["category"]),
		Duration:          orString(d["duration"], emptyDuration),
		Views:             viewsString(d["views"]),
		BackgroundColor:   orString(d["backgroundColor"], defaultVideoBackground),
		Color:             orString(d["color"], defaultVideoColor),
		Icon:              orString(d["icon"], defaultVideoIcon),
		VideoType:         videoType,
		VideoFileName:     d["videoFileName"],
		ThumbnailFileName: d["thumbnailFileName"],
		IsActive:          d["isActive"] != false,
		IsPremium:         !falsy(d["isPremium"]),
		CreatedAt:         now,
	}

	if !falsy(d["badge"]) {
		badge := localizedField(d["badge"])
		v.Badge = &badge
	}
	if n, ok := d.Int("createdAt"); ok && n != 0 {
		v.CreatedAt = int64(n)
	}
	if n, ok := d.Int("lastUpdated"); ok {
		v.LastUpdated = int64(n)
	}

	if videoType == model.VideoTypeYouTube {
		v.VideoURL = youtubeURL(firstSet(d["videoUrl"], d["youtubeUrl"]))
		v.ThumbnailURL = youtubeURL(d["thumbnailUrl"])
	} else {
		v.VideoURL = localURL(firstSet(d["videoUrl"], or(d["videoUrls"], d["videoFileName"])))
		v.ThumbnailURL = localURL(firstSet(d["thumbnailUrl"], or(d["thumbnailUrls"], d["thumbnailFileName"])))
	}
	return v
}

type VideoService struct {
	clock
	videos *repository.VideoRepository
	rand   *lockedRand
	logger *zerolog.Logger
}

func NewVideoService(videos *repository.VideoRepository, logger *zerolog.Logger) *VideoService {
	return &VideoService{videos: videos, rand: newLockedRand(nil), logger: logger}
}

func (s *VideoService) newID() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = base36[s.rand.IntN(len(base36))]
	}
	return fmt.Sprintf("video_%d_%s", s.nowMillis(), suffix)
}

func (s *VideoService) ListVideos(ctx context.Context) ([]model.Video, error) {
	entries, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowMillis()
	out := make([]model.Video, 0, len(entries))
	for _, e := range entries {
		out = append(out, NormalizeVideo(e.Key, e.Data, "", now))
	}
	return out, nil
}

// ListByCategory returns the videos whose category equals category in
// either language.
func (s *VideoService) ListByCategory(ctx context.Context, category string) ([]model.Video, error) {
	entries, err := s.videos.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowMillis()
	out := []model.Video{}
	for _, e := range entries {
		if !localizedField(e.Data["category"]).Matches(category) {
			continue
		}
		out = append(out, NormalizeVideo(e.Key, e.Data, "0:00", now))
	}
	return out, nil
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (*model.Video, error) {
	doc, err := s.videos.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Video not found")
	}
	v := NormalizeVideo(id, doc, "", s.nowMillis())
	return &v, nil
}

// CreateVideo stores data under a generated id. Views are always stored
// as a string.
func (s *VideoService) CreateVideo(ctx context.Context, data map[string]any) (*model.Video, error) {
	id := s.newID()
	now := s.nowMillis()

	doc := store.Document{}
	for k, v := range data {
		if v != nil {
			doc[k] = v
		}
	}
	doc["id"] = id
	doc["views"] = viewsString(data["views"])
	doc["createdAt"] = now
	doc["lastUpdated"] = now

	if err := s.videos.Create(ctx, id, doc); err != nil {
		return nil, err
	}

	s.logger.Info().Str("video_id", id).Str("title", localizedField(doc["title"]).Display()).Msg("video created")
	v := NormalizeVideo(id, doc, "", now)
	return &v, nil
}

// UpdateVideo merges updates into the stored video. A nil value removes
// the field.
func (s *VideoService) UpdateVideo(ctx context.Context, id string, updates map[string]any) (*model.Video, error) {
	now := s.nowMillis()
	doc, err := s.videos.Update(ctx, id, func(doc store.Document) (store.Document, error) {
		out := doc.Clone()
		for k, v := range updates {
			if v == nil {
				delete(out, k)
				continue
			}
			out[k] = v
		}
		out["lastUpdated"] = now
		return out, nil
	})
	if err != nil {
		return nil, notFound(err, "Video not found")
	}

	s.logger.Info().Str("video_id", id).Msg("video updated")
	v := NormalizeVideo(id, doc, "", now)
	return &v, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, id string) error {
	if err := s.videos.Delete(ctx, id); err != nil {
		return notFound(err, "Video not found")
	}
	s.logger.Info().Str("video_id", id).Msg("video deleted")
	return nil
}

// SetActive shows or hides a video in the app.
func (s *VideoService) SetActive(ctx context.Context, id string, active bool) (*model.ActionResult, error) {
	v, err := s.UpdateVideo(ctx, id, map[string]any{"isActive": active})
	if err != nil {
		return nil, err
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	return &model.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Video %s successfully", state),
		Details: v,
	}, nil
}

// IncrementViews adds one view. Views that are not numeric restart at 1.
func (s *VideoService) IncrementViews(ctx context.Context, id string) (*model.Video, error) {
	now := s.nowMillis()
	doc, err := s.videos.Update(ctx, id, func(doc store.Document) (store.Document, error) {
		views, err := strconv.ParseFloat(strings.TrimSpace(orString(doc["views"], "0")), 64)
		if err != nil {
			views = 0
		}
		return store.ApplyPatch(doc, map[string]any{
			"views":       strconv.FormatFloat(views+1, 'f', -1, 64),
			"lastUpdated": now,
		}), nil
	})
	if err != nil {
		return nil, notFound(err, "Video not found")
	}
	v := NormalizeVideo(id, doc, "", now)
	return &v, nil
}
