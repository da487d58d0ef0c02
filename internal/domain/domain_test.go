package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSearchQueryOptions(t *testing.T) {
	var q SearchQuery
	assert.False(t, q.BoolOption(OptionSpellcheck))

	_, ok := q.Option(OptionSpellcheck)
	assert.False(t, ok)

	q.SetOption(OptionSpellcheck, true)
	assert.True(t, q.BoolOption(OptionSpellcheck))

	q.SetOption("rows", 10)
	assert.False(t, q.BoolOption("rows"))
	v, ok := q.Option("rows")
	assert.True(t, ok)
	assert.Equal(t, 10, v)
}

func TestResultSetExtraData(t *testing.T) {
	var nilSet *ResultSet
	_, ok := nilSet.ExtraData(ExtraDataBackendResponse)
	assert.False(t, ok)
	assert.True(t, nilSet.Empty())

	rs := &ResultSet{}
	_, ok = rs.ExtraData(ExtraDataBackendResponse)
	assert.False(t, ok)

	rs.SetExtraData(ExtraDataBackendResponse, json.RawMessage(`{"spellcheck":{}}`))
	raw, ok := rs.ExtraData(ExtraDataBackendResponse)
	assert.True(t, ok)
	assert.JSONEq(t, `{"spellcheck":{}}`, string(raw))

	rs.SetExtraData("empty", json.RawMessage{})
	_, ok = rs.ExtraData("empty")
	assert.False(t, ok)

	assert.True(t, rs.Empty())
	rs.Items = append(rs.Items, ResultItem{ID: "1"})
	assert.False(t, rs.Empty())
}

func TestFilterStateMatch(t *testing.T) {
	f := FilterState{"keys": "speling", "title": "tset"}

	id, ok := f.Match("Speling")
	assert.True(t, ok)
	assert.Equal(t, "keys", id)

	_, ok = f.Match("other")
	assert.False(t, ok)
}

func TestCacheEntryPermanent(t *testing.T) {
	assert.True(t, (&CacheEntry{}).Permanent())
	assert.False(t, (&CacheEntry{ExpiresAt: time.Now()}).Permanent())
}

func TestSuggestionLogModelConversion(t *testing.T) {
	now := time.Now()
	in := &SuggestionLog{ViewID: "search", Original: "speling", Corrected: "spelling", Misspellings: []string{"speling"}, CreatedAt: now}

	out := SuggestionLogModelFromDomain(in).ToDomain()
	assert.Equal(t, in, out)
}
