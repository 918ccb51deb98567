package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextKeepsStoredShape(t *testing.T) {
	var v struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"Songs","b":{"tr":"Şarkılar"},"c":null}`), &v))

	assert.True(t, v.A.IsPlain)
	assert.Equal(t, "Songs", v.A.Display())
	assert.False(t, v.B.IsPlain)
	assert.Equal(t, Localized{TR: "Şarkılar"}, v.B.Localized)
	assert.Equal(t, Localized{}, v.C.Localized)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"Songs","b":{"tr":"Şarkılar","en":""},"c":{"tr":"","en":""}}`, string(out))
}

func TestTextMatches(t *testing.T) {
	assert.True(t, PlainText("music").Matches("music"))
	assert.False(t, PlainText("music").Matches("Müzik"))
	assert.True(t, LocalizedText("Müzik", "Music").Matches("Music"))
	assert.True(t, LocalizedText("Müzik", "Music").Matches("Müzik"))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageTR, ParseLanguage("tr"))
	assert.Equal(t, LanguageEN, ParseLanguage("en"))
	assert.Equal(t, LanguageEN, ParseLanguage("de"))
	assert.Equal(t, LanguageEN, ParseLanguage(""))
}
