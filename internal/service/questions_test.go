package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSimilarity() model.SimilarityQuestion {
	return model.SimilarityQuestion{
		Question:    "Hangisi farklı?",
		Options:     []string{"Kedi", "Köpek", "Kuş", "Masa"},
		Answer:      "Masa",
		Explanation: "Üçü hayvan.",
		Difficulty:  2,
		Language:    model.LanguageTR,
	}
}

func validWordHunt() model.WordHuntQuestion {
	return model.WordHuntQuestion{
		Soru:       "Miyavlayan hayvan?",
		Cevap:      "CAT",
		Hint1:      "Patiler",
		Hint2:      "Süt",
		HarfSayisi: 3,
		Zorluk:     1,
		Language:   model.LanguageTR,
	}
}

func TestValidateSimilarityQuestion(t *testing.T) {
	q := validSimilarity()
	assert.NoError(t, ValidateSimilarityQuestion(&q))

	q.Options = []string{"Kedi", "", "Kuş"}
	q.Answer = "Masa"
	q.Difficulty = 4
	fields := fieldsOf(t, ValidateSimilarityQuestion(&q))
	assert.Equal(t, "Tam 4 seçenek gereklidir", fields["options"])
	assert.Equal(t, "2. seçenek boş olamaz", fields["options[1]"])
	assert.Equal(t, "Doğru cevap seçenekler arasında olmalıdır", fields["answer"])
	assert.Contains(t, fields, "difficulty")
}

func TestValidateWordHuntQuestion(t *testing.T) {
	q := validWordHunt()
	assert.NoError(t, ValidateWordHuntQuestion(&q))

	fields := fieldsOf(t, ValidateWordHuntQuestion(&model.WordHuntQuestion{}))
	for _, f := range []string{"soru", "cevap", "hint1", "hint2", "harfSayisi", "zorluk"} {
		assert.Contains(t, fields, f)
	}
}

func TestSimilarityFromLegacyDoc(t *testing.T) {
	q := similarityFromDoc("k1", store.Document{"soru": "Eski soru", "hint1": "A", "hint2": "B", "zorluk": 3}, model.LanguageTR)
	assert.Equal(t, "k1", q.ID)
	assert.Equal(t, "Eski soru", q.Question)
	assert.Equal(t, "A", q.Answer)
	assert.Equal(t, "Açıklama bulunamadı", q.Explanation)
	assert.Equal(t, 3, q.Difficulty)
	assert.Equal(t, []string{"A", "B", "Seçenek 3", "Seçenek 4"}, q.Options)

	empty := similarityFromDoc("k2", store.Document{}, model.LanguageEN)
	assert.Equal(t, "Soru bulunamadı", empty.Question)
	assert.Equal(t, 1, empty.Difficulty)
}

func TestSimilarityListUsesStoreKey(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewSimilarityService(repos.Similarity, testutil.Logger())

	require.NoError(t, repos.Similarity.Create(ctx, model.LanguageEN, "legacy_1", store.Document{
		"id":       "question_0",
		"question": "Which one?",
	}))

	list, err := svc.List(ctx, model.LanguageEN)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "legacy_1", list[0].ID)

	got, err := svc.Get(ctx, model.LanguageEN, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Which one?", got.Question)

	require.NoError(t, svc.Delete(ctx, model.LanguageEN, list[0].ID))
}

func TestSimilarityLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewSimilarityService(newRepos(t).Similarity, testutil.Logger())
	svc.now = fixedClock()

	added, err := svc.Add(ctx, validSimilarity())
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, fixedNow.UnixMilli(), added.CreatedAt)

	bad := validSimilarity()
	bad.Question = ""
	_, err = svc.Add(ctx, bad)
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	list, err := svc.List(ctx, model.LanguageTR)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)
	assert.Equal(t, []string{"Kedi", "Köpek", "Kuş", "Masa"}, list[0].Options)

	none, err := svc.List(ctx, model.LanguageEN)
	require.NoError(t, err)
	assert.Empty(t, none)

	edit := validSimilarity()
	edit.Options = []string{"Elma", "Armut", "Muz", "Havuç"}
	edit.Answer = "Havuç"
	updated, err := svc.Update(ctx, model.LanguageTR, added.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, edit.Options, updated.Options)
	assert.Equal(t, "Havuç", updated.Answer)

	_, err = svc.Update(ctx, model.LanguageTR, "missing", edit)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	require.NoError(t, svc.Delete(ctx, model.LanguageTR, added.ID))
	_, err = svc.Get(ctx, model.LanguageTR, added.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	seeded, err := svc.SeedSamples(ctx, model.LanguageEN)
	require.NoError(t, err)
	assert.Equal(t, "2/2 test sorusu eklendi", seeded.Message)
}

func TestWordHuntAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewWordHuntService(repos.WordHunt, testutil.Logger())

	first, err := svc.Add(ctx, validWordHunt())
	require.NoError(t, err)
	assert.Equal(t, "0", first.ID)

	second, err := svc.Add(ctx, validWordHunt())
	require.NoError(t, err)
	assert.Equal(t, "1", second.ID)

	require.NoError(t, repos.WordHunt.Create(ctx, model.LanguageTR, "10", store.Document{"soru": "x"}))
	require.NoError(t, repos.WordHunt.Create(ctx, model.LanguageTR, "abc", store.Document{"soru": "y"}))

	third, err := svc.Add(ctx, validWordHunt())
	require.NoError(t, err)
	assert.Equal(t, "11", third.ID)

	doc, err := repos.WordHunt.Get(ctx, model.LanguageTR, "11")
	require.NoError(t, err)
	assert.False(t, doc.Has("language"))
	assert.EqualValues(t, 11, doc["id"])

	en, err := svc.Add(ctx, model.WordHuntQuestion{Soru: "s", Cevap: "c", Hint1: "a", Hint2: "b", HarfSayisi: 1, Zorluk: 2, Language: model.LanguageEN})
	require.NoError(t, err)
	assert.Equal(t, "0", en.ID)
}

func TestWordHuntCountsLeadingDigitsOfKeys(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewWordHuntService(repos.WordHunt, testutil.Logger())

	require.NoError(t, repos.WordHunt.Create(ctx, model.LanguageTR, "3", store.Document{"soru": "x"}))
	require.NoError(t, repos.WordHunt.Create(ctx, model.LanguageTR, "12abc", store.Document{"soru": "y"}))

	q, err := svc.Add(ctx, validWordHunt())
	require.NoError(t, err)
	assert.Equal(t, "13", q.ID)
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"12abc", 12, true},
		{" 7", 7, true},
		{"-4x", -4, true},
		{"abc", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		n, ok := leadingInt(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, n, tt.in)
	}
}

func TestWordHuntUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewWordHuntService(newRepos(t).WordHunt, testutil.Logger())

	q, err := svc.Add(ctx, validWordHunt())
	require.NoError(t, err)

	edit := validWordHunt()
	edit.Cevap = "KEDI"
	edit.HarfSayisi = 4
	updated, err := svc.Update(ctx, model.LanguageTR, q.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "KEDI", updated.Cevap)
	assert.Equal(t, 4, updated.HarfSayisi)

	got, err := svc.Get(ctx, model.LanguageTR, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "KEDI", got.Cevap)

	require.NoError(t, svc.Delete(ctx, model.LanguageTR, q.ID))
	err = svc.Delete(ctx, model.LanguageTR, q.ID)
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))
}
