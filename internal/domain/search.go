package domain

import (
	"encoding/json"
	"net/url"
)

// OptionSpellcheck asks the backend to return spellcheck data with the results.
const OptionSpellcheck = "search_api_spellcheck"

// ExtraDataBackendResponse is the result-set extension slot holding the
// backend's raw spellcheck response.
const ExtraDataBackendResponse = "search_api_backend_response"

// SearchQuery is a full-text query about to be dispatched to the backend.
type SearchQuery struct {
	Keys   string
	Fields []string
	Offset int
	Limit  int

	options map[string]interface{}
}

// SetOption sets a named backend option.
func (q *SearchQuery) SetOption(name string, value interface{}) {
	if q.options == nil {
		q.options = make(map[string]interface{})
	}
	q.options[name] = value
}

// Option returns a named backend option.
func (q *SearchQuery) Option(name string) (interface{}, bool) {
	v, ok := q.options[name]
	return v, ok
}

// BoolOption reports whether a named option is set to true.
func (q *SearchQuery) BoolOption(name string) bool {
	v, ok := q.options[name].(bool)
	return ok && v
}

// ResultItem is a single hit.
type ResultItem struct {
	ID     string                 `json:"id"`
	Score  float64                `json:"score"`
	Source map[string]interface{} `json:"source,omitempty"`
}

// ResultSet is the outcome of an executed SearchQuery.
type ResultSet struct {
	Items []ResultItem               `json:"items"`
	Total int                        `json:"total"`
	Extra map[string]json.RawMessage `json:"extra,omitempty"`
}

// ExtraData returns a backend extension payload.
func (r *ResultSet) ExtraData(name string) (json.RawMessage, bool) {
	if r == nil {
		return nil, false
	}
	raw, ok := r.Extra[name]
	if !ok || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

// SetExtraData stores a backend extension payload.
func (r *ResultSet) SetExtraData(name string, raw json.RawMessage) {
	if r.Extra == nil {
		r.Extra = make(map[string]json.RawMessage)
	}
	r.Extra[name] = raw
}

// Empty reports whether the result set produced no rows.
func (r *ResultSet) Empty() bool {
	return r == nil || len(r.Items) == 0
}

// SearchRequest is one execution request for a configured view.
type SearchRequest struct {
	ViewID string
	// Input is the exposed (query string) input, first value per key.
	Input   map[string]string
	Page    int
	Preview bool
	// CurrentURL is the page the request was made against; suggestion links
	// point back at it.
	CurrentURL *url.URL
}

// SearchResponse is the rendered view.
type SearchResponse struct {
	Items      []ResultItem `json:"items"`
	Total      int          `json:"total"`
	Suggestion *Suggestion  `json:"suggestion,omitempty"`
}
