package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// SpellcheckPayload is the backend's raw spellcheck response. It is stored and
// read back verbatim; see spellcheck.ExtractCorrections for its shape.
type SpellcheckPayload = json.RawMessage

// SpellcheckCandidate is one correction candidate as written into payloads by
// the search repository.
type SpellcheckCandidate struct {
	Word string `json:"word"`
	Freq int    `json:"freq"`
}

// SpellcheckSuggestion follows its misspelled token in the payload's
// alternating suggestion list.
type SpellcheckSuggestion struct {
	NumFound    int                   `json:"numFound"`
	StartOffset int                   `json:"startOffset"`
	EndOffset   int                   `json:"endOffset"`
	Suggestion  []SpellcheckCandidate `json:"suggestion"`
}

// CacheEntry is a stored cache value.
type CacheEntry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Tags      []string        `json:"tags,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	// ExpiresAt is zero for permanent entries.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Permanent reports whether the entry lives until invalidated.
func (e *CacheEntry) Permanent() bool {
	return e.ExpiresAt.IsZero()
}

// FilterState maps an exposed full-text filter identifier to its lowercase
// submitted value. Filters without a value are absent.
type FilterState map[string]string

// Match returns the identifier of the filter whose value equals token
// (compared lowercase).
func (f FilterState) Match(token string) (string, bool) {
	token = strings.ToLower(token)
	for id, value := range f {
		if value == token {
			return id, true
		}
	}
	return "", false
}

// Correction pairs a detected misspelling with the backend's first suggestion.
type Correction struct {
	Misspelling string `json:"misspelling"`
	Suggestion  string `json:"suggestion"`
	// Filter is the exposed filter whose whole value is the misspelling, if any.
	Filter string `json:"filter,omitempty"`
}

// Suggestion is the rendered "did you mean" area.
type Suggestion struct {
	Prefix      string       `json:"prefix"`
	Label       string       `json:"label"`
	Href        string       `json:"href"`
	Suffix      string       `json:"suffix"`
	Corrections []Correction `json:"corrections"`
}

// SuggestionLog records a suggestion shown to a user.
type SuggestionLog struct {
	ID           uint      `json:"id"`
	ViewID       string    `json:"view_id"`
	Original     string    `json:"original"`
	Corrected    string    `json:"corrected"`
	Misspellings []string  `json:"misspellings"`
	CreatedAt    time.Time `json:"created_at"`
}
