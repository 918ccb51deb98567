// Package model holds the domain types the admin API reads from and writes
// to the document store. JSON tags follow the field names the mobile app
// already stores, so documents written by either side stay readable.
package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Language is a content language supported by the app.
type Language string

const (
	LanguageTR Language = "tr"
	LanguageEN Language = "en"
)

// ParseLanguage returns the language for s, defaulting to English.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageTR {
		return LanguageTR
	}
	return LanguageEN
}

// Localized is a Turkish/English pair.
type Localized struct {
	TR string `json:"tr"`
	EN string `json:"en"`
}

// Either returns the Turkish value, else the English one.
func (l Localized) Either() string {
	if l.TR != "" {
		return l.TR
	}
	return l.EN
}

// Text is a value stored either as a plain string or as a {tr,en} object.
// Older documents use the plain form; both shapes round-trip unchanged.
type Text struct {
	Plain     string
	Localized Localized
	IsPlain   bool
}

// PlainText builds a plain string Text.
func PlainText(s string) Text { return Text{Plain: s, IsPlain: true} }

// LocalizedText builds an object Text.
func LocalizedText(tr, en string) Text { return Text{Localized: Localized{TR: tr, EN: en}} }

// Matches reports whether the plain value, or either localized value, equals s.
func (t Text) Matches(s string) bool {
	if t.IsPlain {
		return t.Plain == s
	}
	return t.Localized.TR == s || t.Localized.EN == s
}

// Display returns the plain value, else Turkish, else English.
func (t Text) Display() string {
	if t.IsPlain {
		return t.Plain
	}
	return t.Localized.Either()
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.IsPlain {
		return json.Marshal(t.Plain)
	}
	return json.Marshal(t.Localized)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = LocalizedText("", "")
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = PlainText(s)
		return nil
	}
	var l Localized
	if err := json.Unmarshal(data, &l); err != nil {
		return err
	}
	*t = Text{Localized: l}
	return nil
}

// Millis returns t as Unix milliseconds, the timestamp unit stored in documents.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}
