package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/validation"
	"github.com/rs/zerolog"
)

const (
	DefaultStoryColor  = "#FF9800"
	DefaultStoryIcon   = "📖"
	DefaultStoryMinAge = 3
	DefaultStoryMaxAge = 6
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	ageRangeRe = regexp.MustCompile(`(\d+)-(\d+)`)

	turkishFold = strings.NewReplacer(
		"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
		"Ç", "c", "Ğ", "g", "I", "i", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
	)
)

// StoryCatalog is the fixed set of choices offered when editing a story.
var StoryCatalog = model.StoryCatalog{
	Categories: map[model.Language][]string{
		model.LanguageTR: {"Motivasyon", "Cesaret", "Paylaşım", "Dostluk", "Hayal Gücü", "Macera", "Eğitim", "Aile", "Doğa", "Bilim"},
		model.LanguageEN: {"Motivation", "Courage", "Sharing", "Friendship", "Imagination", "Adventure", "Education", "Family", "Nature", "Science"},
	},
	Badges: map[model.Language][]string{
		model.LanguageTR: {"Yeni", "Popüler", "Önerilen", "Özel", "Klasik", "Eğitici"},
		model.LanguageEN: {"New", "Popular", "Recommended", "Special", "Classic", "Educational"},
	},
	Colors: []string{"#FF9800", "#4CAF50", "#2196F3", "#9C27B0", "#F44336", "#FF5722", "#795548", "#607D8B", "#E91E63", "#3F51B5"},
	Icons: []string{
		"📖", "📚", "🌟", "⭐", "🎭", "🎪", "🎨", "🎵", "🎯", "🎲",
		"🐰", "🐻", "🐸", "🐙", "🦋", "🐝", "🦄", "🐺", "🐨", "🐼",
		"🚀", "🏰", "🌈", "☀️", "🌙", "💫", "✨", "🎉",
	},
	AgeOptions:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
	DefaultColor: DefaultStoryColor,
	DefaultIcon:  DefaultStoryIcon,
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

// ValidateStoryForm checks a submitted story. Messages are shown to
// Turkish-speaking staff as is.
func ValidateStoryForm(f *model.StoryForm) error {
	var v validation.CustomValidationErrors

	required := []struct{ field, value, msg string }{
		{"titleTr", f.TitleTR, "Türkçe başlık gereklidir"},
		{"titleEn", f.TitleEN, "İngilizce başlık gereklidir"},
		{"categoryTr", f.CategoryTR, "Türkçe kategori gereklidir"},
		{"categoryEn", f.CategoryEN, "İngilizce kategori gereklidir"},
		{"imageUrl", f.ImageURL, "Kapak görseli URL gereklidir"},
		{"readingTime", f.ReadingTime, "Okuma süresi gereklidir"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			v.Add(r.field, r.msg)
		}
	}

	if img := strings.TrimSpace(f.ImageURL); img != "" && !isAbsoluteURL(img) {
		v.Add("imageUrl", "Kapak görseli geçerli bir URL olmalıdır")
	}

	if f.MinAge != nil && *f.MinAge < 1 {
		v.Add("minAge", "Alt yaş en az 1 olmalıdır")
	}
	if f.MaxAge != nil && *f.MaxAge < 1 {
		v.Add("maxAge", "Üst yaş en az 1 olmalıdır")
	}
	if f.MinAge != nil && f.MaxAge != nil && *f.MinAge > *f.MaxAge {
		v.Add("minAge", "Alt yaş, üst yaştan büyük olamaz")
	}

	if len(f.Pages) == 0 {
		v.Add("pages", "En az bir sayfa eklenmeli")
	}
	for i, p := range f.Pages {
		n := i + 1
		field := fmt.Sprintf("pages[%d]", i)
		if strings.TrimSpace(p.Text.TR) == "" {
			v.Add(field+".text.tr", fmt.Sprintf("Sayfa %d: Türkçe metin gereklidir", n))
		}
		if strings.TrimSpace(p.Text.EN) == "" {
			v.Add(field+".text.en", fmt.Sprintf("Sayfa %d: İngilizce metin gereklidir", n))
		}
		if img := strings.TrimSpace(p.ImageURL); img == "" {
			v.Add(field+".imageUrl", fmt.Sprintf("Sayfa %d: Görsel URL gereklidir", n))
		} else if !isAbsoluteURL(img) {
			v.Add(field+".imageUrl", fmt.Sprintf("Sayfa %d: Görsel geçerli bir URL olmalıdır", n))
		}
	}

	if f.Color != "" && !hexColorRe.MatchString(f.Color) {
		v.Add("color", "Renk formatı geçersiz (örn: #FF9800)")
	}

	return v.Err()
}

// FormatStory turns a validated form into the stored story. Pages are
// renumbered from 1 and pages with no content are dropped. createdAt is
// left at zero for edits so the caller can carry the original over.
func FormatStory(f *model.StoryForm, isEdit bool, now int64) model.Story {
	pages := make([]model.StoryPage, 0, len(f.Pages))
	for i, p := range f.Pages {
		page := model.StoryPage{
			PageNumber: i + 1,
			Text: model.Localized{
				TR: strings.TrimSpace(p.Text.TR),
				EN: strings.TrimSpace(p.Text.EN),
			},
			ImageURL: strings.TrimSpace(p.ImageURL),
		}
		if page.Text.TR == "" && page.Text.EN == "" && page.ImageURL == "" {
			continue
		}
		pages = append(pages, page)
	}

	story := model.Story{
		Title:       model.Localized{TR: strings.TrimSpace(f.TitleTR), EN: strings.TrimSpace(f.TitleEN)},
		Category:    model.Localized{TR: strings.TrimSpace(f.CategoryTR), EN: strings.TrimSpace(f.CategoryEN)},
		Color:       f.Color,
		Icon:        f.Icon,
		ImageURL:    strings.TrimSpace(f.ImageURL),
		ReadingTime: strings.TrimSpace(f.ReadingTime),
		MinAge:      DefaultStoryMinAge,
		MaxAge:      DefaultStoryMaxAge,
		AuthorID:    f.AuthorID,
		AuthorName:  f.AuthorName,
		IsPublished: f.IsPublished,
		IsPremium:   f.IsPremium,
		Pages:       pages,
		TotalPages:  len(pages),
		UpdatedAt:   now,
	}
	if story.Color == "" {
		story.Color = DefaultStoryColor
	}
	if story.Icon == "" {
		story.Icon = DefaultStoryIcon
	}
	if f.MinAge != nil && *f.MinAge != 0 {
		story.MinAge = *f.MinAge
	}
	if f.MaxAge != nil && *f.MaxAge != 0 {
		story.MaxAge = *f.MaxAge
	}
	if !isEdit {
		story.CreatedAt = now
	}
	if f.BadgeTR != "" || f.BadgeEN != "" {
		story.Badge = &model.Localized{TR: strings.TrimSpace(f.BadgeTR), EN: strings.TrimSpace(f.BadgeEN)}
	}
	return story
}

// StoryID builds "story_{slug}_{millis}" from a Turkish title.
func StoryID(title string, now int64) string {
	folded := strings.ToLower(turkishFold.Replace(title))

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 0xFFFF:
			// Counted as two characters, like a UTF-16 surrogate pair.
			b.WriteString("__")
		default:
			b.WriteByte('_')
		}
	}

	slug := b.String()
	if len(slug) > 30 {
		slug = slug[:30]
	}
	for strings.Contains(slug, "__") {
		slug = strings.ReplaceAll(slug, "__", "_")
	}
	slug = strings.TrimPrefix(slug, "_")
	slug = strings.TrimSuffix(slug, "_")

	return "story_" + slug + "_" + strconv.FormatInt(now, 10)
}

// FormatAgeGroup renders an age range label.
func FormatAgeGroup(minAge, maxAge int, lang model.Language) string {
	if lang == model.LanguageTR {
		return fmt.Sprintf("%d-%d yaş", minAge, maxAge)
	}
	return fmt.Sprintf("%d-%d years", minAge, maxAge)
}

// AgeRange returns the story's ages, reading the legacy ageGroup label
// ("3-6 yaş") when the numeric fields are missing.
func AgeRange(s model.Story) (int, int) {
	if s.MinAge != 0 && s.MaxAge != 0 {
		return s.MinAge, s.MaxAge
	}
	if s.AgeGroup != nil && s.AgeGroup.TR != "" {
		if m := ageRangeRe.FindStringSubmatch(s.AgeGroup.TR); m != nil {
			minAge, _ := strconv.Atoi(m[1])
			maxAge, _ := strconv.Atoi(m[2])
			return minAge, maxAge
		}
	}
	return DefaultStoryMinAge, DefaultStoryMaxAge
}

type StoryService struct {
	clock
	stories *repository.StoryRepository
	logger  *zerolog.Logger
}

func NewStoryService(stories *repository.StoryRepository, logger *zerolog.Logger) *StoryService {
	return &StoryService{stories: stories, logger: logger}
}

// ListStories returns all stories, newest first.
func (s *StoryService) ListStories(ctx context.Context) ([]model.Story, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].CreatedAt > stories[j].CreatedAt
	})
	return stories, nil
}

func (s *StoryService) GetStory(ctx context.Context, id string) (*model.Story, error) {
	story, err := s.stories.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Hikaye bulunamadı")
	}
	return &story, nil
}

func (s *StoryService) CreateStory(ctx context.Context, form *model.StoryForm) (*model.Story, error) {
	if err := ValidateStoryForm(form); err != nil {
		return nil, validation.AsHTTPError(err)
	}

	now := s.nowMillis()
	story := FormatStory(form, false, now)
	story.ID = StoryID(story.Title.TR, now)

	if err := s.stories.Save(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info().Str("story_id", story.ID).Msg("story created")
	return &story, nil
}

// UpdateStory replaces a story with the submitted form, keeping its
// original creation time.
func (s *StoryService) UpdateStory(ctx context.Context, id string, form *model.StoryForm) (*model.Story, error) {
	if err := ValidateStoryForm(form); err != nil {
		return nil, validation.AsHTTPError(err)
	}

	existing, err := s.stories.Get(ctx, id)
	if err != nil {
		return nil, notFound(err, "Hikaye bulunamadı")
	}

	now := s.nowMillis()
	story := FormatStory(form, true, now)
	story.ID = id
	story.CreatedAt = existing.CreatedAt
	if story.CreatedAt == 0 {
		story.CreatedAt = now
	}

	if err := s.stories.Save(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info().Str("story_id", id).Msg("story updated")
	return &story, nil
}

func (s *StoryService) DeleteStory(ctx context.Context, id string) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		return notFound(err, "Hikaye bulunamadı")
	}
	s.logger.Info().Str("story_id", id).Msg("story deleted")
	return nil
}

// TogglePublish flips isPublished and returns the updated story.
func (s *StoryService) TogglePublish(ctx context.Context, id string) (*model.Story, error) {
	now := s.nowMillis()
	story, err := s.stories.Update(ctx, id, func(doc store.Document) (store.Document, error) {
		return store.ApplyPatch(doc, map[string]any{
			"isPublished": !doc.Bool("isPublished"),
			"updatedAt":   now,
		}), nil
	})
	if err != nil {
		return nil, notFound(err, "Hikaye bulunamadı")
	}

	s.logger.Info().Str("story_id", id).Bool("published", story.IsPublished).Msg("story publish status changed")
	return &story, nil
}

func (s *StoryService) Stats(ctx context.Context) (*model.StoryStats, error) {
	stories, err := s.stories.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.StoryStats{
		Total:      len(stories),
		ByCategory: map[string]int{},
		ByAgeGroup: map[string]int{},
	}
	for _, st := range stories {
		if st.IsPublished {
			stats.Published++
		} else {
			stats.Draft++
		}

		category := st.Category.TR
		if category == "" {
			category = "Diğer"
		}
		stats.ByCategory[category]++

		ageGroup := "Belirsiz"
		switch {
		case st.MinAge != 0 && st.MaxAge != 0:
			ageGroup = FormatAgeGroup(st.MinAge, st.MaxAge, model.LanguageTR)
		case st.AgeGroup != nil && st.AgeGroup.TR != "":
			ageGroup = st.AgeGroup.TR
		}
		stats.ByAgeGroup[ageGroup]++
	}
	return stats, nil
}

// Search returns the stories whose titles, categories or page texts
// contain term, ignoring case. The newest story comes first.
func (s *StoryService) Search(ctx context.Context, term string) ([]model.Story, error) {
	stories, err := s.ListStories(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(term)
	contains := func(v string) bool { return strings.Contains(strings.ToLower(v), term) }

	out := make([]model.Story, 0, len(stories))
	for _, st := range stories {
		if storyMatches(st, contains) {
			out = append(out, st)
		}
	}
	return out, nil
}

func storyMatches(st model.Story, contains func(string) bool) bool {
	if contains(st.Title.TR) || contains(st.Title.EN) || contains(st.Category.TR) || contains(st.Category.EN) {
		return true
	}
	for _, p := range st.Pages {
		tr, en := p.Text.TR, p.Text.EN
		if tr == "" {
			tr = p.TextTR
		}
		if en == "" {
			en = p.TextEN
		}
		if contains(tr) || contains(en) {
			return true
		}
	}
	return false
}

func (s *StoryService) Catalog() model.StoryCatalog {
	return StoryCatalog
}
