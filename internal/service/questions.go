package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/validation"
	"github.com/rs/zerolog"
)

const questionNotFound = "Soru bulunamadı"

func seedMessage(added, total int) string {
	return fmt.Sprintf("%d/%d test sorusu eklendi", added, total)
}

func ValidateSimilarityQuestion(q *model.SimilarityQuestion) error {
	var v validation.CustomValidationErrors

	if strings.TrimSpace(q.Question) == "" {
		v.Add("question", "Soru metni gereklidir")
	}
	if len(q.Options) != 4 {
		v.Add("options", "Tam 4 seçenek gereklidir")
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			v.Add(fmt.Sprintf("options[%d]", i), fmt.Sprintf("%d. seçenek boş olamaz", i+1))
		}
	}
	if strings.TrimSpace(q.Answer) == "" {
		v.Add("answer", "Doğru cevap gereklidir")
	} else if !slices.Contains(q.Options, q.Answer) {
		v.Add("answer", "Doğru cevap seçenekler arasında olmalıdır")
	}
	if strings.TrimSpace(q.Explanation) == "" {
		v.Add("explanation", "Açıklama gereklidir")
	}
	if q.Difficulty < 1 || q.Difficulty > 3 {
		v.Add("difficulty", "Zorluk seviyesi 1-3 arasında olmalıdır")
	}

	return v.Err()
}

func ValidateWordHuntQuestion(q *model.WordHuntQuestion) error {
	var v validation.CustomValidationErrors

	if strings.TrimSpace(q.Soru) == "" {
		v.Add("soru", "Soru metni gereklidir")
	}
	if strings.TrimSpace(q.Cevap) == "" {
		v.Add("cevap", "Doğru cevap gereklidir")
	}
	if strings.TrimSpace(q.Hint1) == "" {
		v.Add("hint1", "İpucu 1 gereklidir")
	}
	if strings.TrimSpace(q.Hint2) == "" {
		v.Add("hint2", "İpucu 2 gereklidir")
	}
	if q.HarfSayisi < 1 {
		v.Add("harfSayisi", "Harf sayısı geçerli olmalıdır")
	}
	if q.Zorluk < 1 || q.Zorluk > 3 {
		v.Add("zorluk", "Zorluk seviyesi 1-3 arasında olmalıdır")
	}

	return v.Err()
}

func stringList(v any) ([]string, bool) {
	if s, ok := v.([]string); ok {
		return s, len(s) > 0
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = store.AsString(item)
	}
	return out, true
}

// similarityFromDoc reads a stored similarity question. The id is always
// the store key; a stale id field inside the document is ignored. Older questions
// were written with the word-hunt field names (soru, hint1, aciklama,
// zorluk) and are mapped onto the current ones.
func similarityFromDoc(key string, d store.Document, lang model.Language) model.SimilarityQuestion {
	q := model.SimilarityQuestion{
		ID:          key,
		Question:    orString(d["question"], orString(d["soru"], "Soru bulunamadı")),
		Answer:      orString(d["answer"], orString(d["hint1"], "Cevap bulunamadı")),
		Explanation: orString(d["explanation"], orString(d["aciklama"], "Açıklama bulunamadı")),
		Difficulty:  d.IntOr("difficulty", 0),
		Language:    lang,
	}
	if q.Difficulty == 0 {
		q.Difficulty = d.IntOr("zorluk", 0)
	}
	if q.Difficulty == 0 {
		q.Difficulty = 1
	}

	if opts, ok := stringList(d["options"]); ok {
		q.Options = opts
	} else {
		q.Options = []string{
			orString(d["hint1"], "Seçenek 1"),
			orString(d["hint2"], "Seçenek 2"),
			"Seçenek 3",
			"Seçenek 4",
		}
	}

	if n, ok := d.Int("createdAt"); ok {
		q.CreatedAt = int64(n)
	}
	if n, ok := d.Int("updatedAt"); ok {
		q.UpdatedAt = int64(n)
	}
	return q
}

type SimilarityService struct {
	clock
	questions *repository.QuestionRepository
	logger    *zerolog.Logger
}

func NewSimilarityService(questions *repository.QuestionRepository, logger *zerolog.Logger) *SimilarityService {
	return &SimilarityService{questions: questions, logger: logger}
}

func (s *SimilarityService) List(ctx context.Context, lang model.Language) ([]model.SimilarityQuestion, error) {
	entries, err := s.questions.List(ctx, lang)
	if err != nil {
		return nil, err
	}
	out := make([]model.SimilarityQuestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, similarityFromDoc(e.Key, e.Data, lang))
	}
	return out, nil
}

func (s *SimilarityService) Get(ctx context.Context, lang model.Language, id string) (*model.SimilarityQuestion, error) {
	doc, err := s.questions.Get(ctx, lang, id)
	if err != nil {
		return nil, notFound(err, questionNotFound)
	}
	q := similarityFromDoc(id, doc, lang)
	q.ID = id
	return &q, nil
}

// Add stores q under a fresh push key in its language's collection.
func (s *SimilarityService) Add(ctx context.Context, q model.SimilarityQuestion) (*model.SimilarityQuestion, error) {
	if err := ValidateSimilarityQuestion(&q); err != nil {
		return nil, validation.AsHTTPError(err)
	}

	q.Language = model.ParseLanguage(string(q.Language))
	q.ID = store.NewPushKey()
	q.CreatedAt = s.nowMillis()
	q.UpdatedAt = q.CreatedAt

	doc, err := store.Encode(q)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Create(ctx, q.Language, q.ID, doc); err != nil {
		return nil, err
	}

	s.logger.Info().Str("question_id", q.ID).Str("language", string(q.Language)).Msg("similarity question added")
	return &q, nil
}

// Update replaces the editable fields of a stored question.
func (s *SimilarityService) Update(ctx context.Context, lang model.Language, id string, q model.SimilarityQuestion) (*model.SimilarityQuestion, error) {
	if err := ValidateSimilarityQuestion(&q); err != nil {
		return nil, validation.AsHTTPError(err)
	}

	doc, err := s.questions.Patch(ctx, lang, id, map[string]any{
		"question":    q.Question,
		"options":     q.Options,
		"answer":      q.Answer,
		"explanation": q.Explanation,
		"difficulty":  q.Difficulty,
		"updatedAt":   s.nowMillis(),
	})
	if err != nil {
		return nil, notFound(err, questionNotFound)
	}

	out := similarityFromDoc(id, doc, lang)
	return &out, nil
}

func (s *SimilarityService) Delete(ctx context.Context, lang model.Language, id string) error {
	if err := s.questions.Delete(ctx, lang, id); err != nil {
		return notFound(err, questionNotFound)
	}
	s.logger.Info().Str("question_id", id).Str("language", string(lang)).Msg("similarity question deleted")
	return nil
}

func similaritySamples(lang model.Language) []model.SimilarityQuestion {
	if lang == model.LanguageTR {
		return []model.SimilarityQuestion{
			{Question: "Hangisi farklı?", Options: []string{"Kalem", "Defter", "Cetvel", "Ördek"}, Answer: "Ördek", Explanation: "Üçü okul malzemesi, biri hayvan.", Difficulty: 1, Language: lang},
			{Question: "Hangisi farklı?", Options: []string{"Elma", "Armut", "Muz", "Havuç"}, Answer: "Havuç", Explanation: "Üçü meyve, biri sebze.", Difficulty: 1, Language: lang},
		}
	}
	return []model.SimilarityQuestion{
		{Question: "Which one is different?", Options: []string{"Pencil", "Notebook", "Ruler", "Duck"}, Answer: "Duck", Explanation: "Three are school supplies, one is an animal.", Difficulty: 1, Language: lang},
		{Question: "Which one is different?", Options: []string{"Apple", "Pear", "Banana", "Carrot"}, Answer: "Carrot", Explanation: "Three are fruits, one is a vegetable.", Difficulty: 1, Language: lang},
	}
}

// SeedSamples adds the sample questions for lang.
func (s *SimilarityService) SeedSamples(ctx context.Context, lang model.Language) (*model.ActionResult, error) {
	samples := similaritySamples(lang)
	added := 0
	for _, q := range samples {
		if _, err := s.Add(ctx, q); err != nil {
			s.logger.Warn().Err(err).Msg("failed to add sample similarity question")
			continue
		}
		added++
	}
	return &model.ActionResult{Success: true, Message: seedMessage(added, len(samples))}, nil
}

// wordHuntFromDoc reads a stored word-hunt question; its stored id wins
// over the key.
func wordHuntFromDoc(key string, d store.Document, lang model.Language) model.WordHuntQuestion {
	q := model.WordHuntQuestion{
		ID:         key,
		Soru:       d.String("soru"),
		Cevap:      d.String("cevap"),
		Hint1:      d.String("hint1"),
		Hint2:      d.String("hint2"),
		HarfSayisi: d.IntOr("harfSayisi", 0),
		Zorluk:     d.IntOr("zorluk", 0),
		Language:   lang,
	}
	if id, ok := d["id"]; ok && id != nil {
		q.ID = store.AsString(id)
	}
	if n, ok := d.Int("createdAt"); ok {
		q.CreatedAt = int64(n)
	}
	if n, ok := d.Int("updatedAt"); ok {
		q.UpdatedAt = int64(n)
	}
	return q
}

// maxAddAttempts bounds retries when two admins add a word-hunt question
// to the same language at once and race for the next id.
const maxAddAttempts = 3

type WordHuntService struct {
	clock
	questions *repository.QuestionRepository
	logger    *zerolog.Logger
}

func NewWordHuntService(questions *repository.QuestionRepository, logger *zerolog.Logger) *WordHuntService {
	return &WordHuntService{questions: questions, logger: logger}
}

func (s *WordHuntService) List(ctx context.Context, lang model.Language) ([]model.WordHuntQuestion, error) {
	entries, err := s.questions.List(ctx, lang)
	if err != nil {
		return nil, err
	}
	out := make([]model.WordHuntQuestion, 0, len(entries))
	for _, e := range entries {
		out = append(out, wordHuntFromDoc(e.Key, e.Data, lang))
	}
	return out, nil
}

func (s *WordHuntService) Get(ctx context.Context, lang model.Language, id string) (*model.WordHuntQuestion, error) {
	doc, err := s.questions.Get(ctx, lang, id)
	if err != nil {
		return nil, notFound(err, questionNotFound)
	}
	q := wordHuntFromDoc(id, doc, lang)
	q.ID = id
	return &q, nil
}

// nextID returns one more than the largest numeric key, or 0. Keys count
// by their leading integer, so "12abc" is 12.
func (s *WordHuntService) nextID(ctx context.Context, lang model.Language) (int, error) {
	entries, err := s.questions.List(ctx, lang)
	if err != nil {
		return 0, err
	}
	next := 0
	for _, e := range entries {
		if n, ok := leadingInt(e.Key); ok && n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// leadingInt parses an optionally signed integer at the start of s after
// leading spaces, ignoring whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Add stores q under the next numeric id. The language only selects the
// collection and is not stored.
func (s *WordHuntService) Add(ctx context.Context, q model.WordHuntQuestion) (*model.WordHuntQuestion, error) {
	if err := ValidateWordHuntQuestion(&q); err != nil {
		return nil, validation.AsHTTPError(err)
	}
	lang := model.ParseLanguage(string(q.Language))

	for attempt := 0; ; attempt++ {
		id, err := s.nextID(ctx, lang)
		if err != nil {
			return nil, err
		}

		now := s.nowMillis()
		doc := store.Document{
			"id":         id,
			"soru":       q.Soru,
			"cevap":      q.Cevap,
			"hint1":      q.Hint1,
			"hint2":      q.Hint2,
			"harfSayisi": q.HarfSayisi,
			"zorluk":     q.Zorluk,
			"createdAt":  now,
			"updatedAt":  now,
		}

		err = s.questions.Create(ctx, lang, strconv.Itoa(id), doc)
		if errors.Is(err, store.ErrExists) && attempt+1 < maxAddAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info().Int("question_id", id).Str("language", string(lang)).Msg("word hunt question added")
		out := wordHuntFromDoc(strconv.Itoa(id), doc, lang)
		return &out, nil
	}
}

func (s *WordHuntService) Update(ctx context.Context, lang model.Language, id string, q model.WordHuntQuestion) (*model.WordHuntQuestion, error) {
	if err := ValidateWordHuntQuestion(&q); err != nil {
		return nil, validation.AsHTTPError(err)
	}

	doc, err := s.questions.Patch(ctx, lang, id, map[string]any{
		"soru":       q.Soru,
		"cevap":      q.Cevap,
		"hint1":      q.Hint1,
		"hint2":      q.Hint2,
		"harfSayisi": q.HarfSayisi,
		"zorluk":     q.Zorluk,
		"updatedAt":  s.nowMillis(),
	})
	if err != nil {
		return nil, notFound(err, questionNotFound)
	}

	out := wordHuntFromDoc(id, doc, lang)
	return &out, nil
}

func (s *WordHuntService) Delete(ctx context.Context, lang model.Language, id string) error {
	if err := s.questions.Delete(ctx, lang, id); err != nil {
		return notFound(err, questionNotFound)
	}
	s.logger.Info().Str("question_id", id).Str("language", string(lang)).Msg("word hunt question deleted")
	return nil
}

func wordHuntSamples(lang model.Language) []model.WordHuntQuestion {
	if lang == model.LanguageTR {
		return []model.WordHuntQuestion{
			{Soru: "Miyavlayan ve süt içen küçük hayvan nedir?", Cevap: "CAT", Hint1: "Patilerim çok tatlıdır.", Hint2: "Fare yakalamayı severim.", HarfSayisi: 3, Zorluk: 1, Language: lang},
			{Soru: "Geceleri öten ve uçan hayvan nedir?", Cevap: "OWL", Hint1: "Kocaman gözlerim var.", Hint2: "Geceleri uyumam.", HarfSayisi: 3, Zorluk: 1, Language: lang},
		}
	}
	return []model.WordHuntQuestion{
		{Soru: "What is the small animal that meows and drinks milk?", Cevap: "CAT", Hint1: "My paws are very cute.", Hint2: "I like catching mice.", HarfSayisi: 3, Zorluk: 1, Language: lang},
		{Soru: "What is the flying animal that hoot at night?", Cevap: "OWL", Hint1: "I have big eyes.", Hint2: "I don't sleep at night.", HarfSayisi: 3, Zorluk: 1, Language: lang},
	}
}

func (s *WordHuntService) SeedSamples(ctx context.Context, lang model.Language) (*model.ActionResult, error) {
	samples := wordHuntSamples(lang)
	added := 0
	for _, q := range samples {
		if _, err := s.Add(ctx, q); err != nil {
			s.logger.Warn().Err(err).Msg("failed to add sample word hunt question")
			continue
		}
		added++
	}
	return &model.ActionResult{Success: true, Message: seedMessage(added, len(samples))}, nil
}
