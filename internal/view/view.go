// Package view models configured search views and their per-request state:
// exposed input, the executed result set and the result-cache key.
package view

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

const (
	defaultDisplay  = "default"
	defaultPageSize = 10
	defaultFilterID = "search_api_fulltext"
	defaultExposeID = "keys"
)

// FulltextFilter is a full-text filter exposed to the user.
type FulltextFilter struct {
	ID string `mapstructure:"id"`
	// Identifier is the exposed (query string) name; empty means ID.
	Identifier string `mapstructure:"identifier"`
}

// ExposedIdentifier returns the query string name the filter reads.
func (f FulltextFilter) ExposedIdentifier() string {
	if f.Identifier != "" {
		return f.Identifier
	}
	return f.ID
}

// Definition is a configured search view.
type Definition struct {
	ID       string           `mapstructure:"id"`
	Display  string           `mapstructure:"display"`
	Index    string           `mapstructure:"index"`
	Fields   []string         `mapstructure:"fields"`
	Filters  []FulltextFilter `mapstructure:"filters"`
	Tags     []string         `mapstructure:"tags"`
	PageSize int              `mapstructure:"page_size"`
}

func (d Definition) normalized() Definition {
	if d.Display == "" {
		d.Display = defaultDisplay
	}
	if d.PageSize <= 0 {
		d.PageSize = defaultPageSize
	}
	if len(d.Filters) == 0 {
		d.Filters = []FulltextFilter{{ID: defaultFilterID, Identifier: defaultExposeID}}
	}
	return d
}

// View is one execution of a Definition.
type View struct {
	def     Definition
	input   map[string]string
	page    int
	preview bool

	// Result is set once the query has executed (or was served from cache).
	Result *domain.ResultSet
}

// New creates a view execution from exposed input.
func New(def Definition, input map[string]string, page int, preview bool) *View {
	if page < 0 {
		page = 0
	}
	in := make(map[string]string, len(input))
	for k, v := range input {
		in[k] = v
	}
	return &View{
		def:     def.normalized(),
		input:   in,
		page:    page,
		preview: preview,
	}
}

// ID returns the view id.
func (v *View) ID() string { return v.def.ID }

// Definition returns the normalized definition.
func (v *View) Definition() Definition { return v.def }

// Page returns the zero-based page.
func (v *View) Page() int { return v.page }

// LivePreview reports whether the view renders in preview mode, where shared
// caches are bypassed.
func (v *View) LivePreview() bool { return v.preview }

// FulltextFilters returns the view's full-text filters.
func (v *View) FulltextFilters() []FulltextFilter { return v.def.Filters }

// ExposedInput returns the submitted input. Callers must not modify it.
func (v *View) ExposedInput() map[string]string {
	return v.input
}

// Empty reports whether the executed result set has no rows.
func (v *View) Empty() bool {
	return v.Result.Empty()
}

// SearchKeys joins the submitted values of every full-text filter.
func (v *View) SearchKeys() string {
	var parts []string
	for _, f := range v.def.Filters {
		if val := strings.TrimSpace(v.input[f.ExposedIdentifier()]); val != "" {
			parts = append(parts, val)
		}
	}
	return strings.Join(parts, " ")
}

// BuildQuery builds the backend query for the current page.
func (v *View) BuildQuery() *domain.SearchQuery {
	return &domain.SearchQuery{
		Keys:   v.SearchKeys(),
		Fields: v.def.Fields,
		Offset: v.page * v.def.PageSize,
		Limit:  v.def.PageSize,
	}
}

type resultsKeyData struct {
	Index    string            `json:"index"`
	Fields   []string          `json:"fields"`
	Keys     string            `json:"keys"`
	Input    map[string]string `json:"input"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ResultsKey identifies this view's result set for caching. Identical query
// state yields the same key; any difference in view, display, index, input
// or paging yields a different one.
func (v *View) ResultsKey() string {
	data, _ := json.Marshal(resultsKeyData{
		Index:    v.def.Index,
		Fields:   v.def.Fields,
		Keys:     v.SearchKeys(),
		Input:    v.input,
		Page:     v.page,
		PageSize: v.def.PageSize,
	})
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:results:%s", v.def.ID, v.def.Display, hex.EncodeToString(sum[:]))
}

// IndexListTag is the cache tag of every list built from index.
func IndexListTag(index string) string {
	return "search_api_list:" + index
}

// CacheTags returns the invalidation tags of this view's cached output.
func (v *View) CacheTags() []string {
	seen := make(map[string]struct{}, len(v.def.Tags)+1)
	tags := make([]string, 0, len(v.def.Tags)+1)
	for _, t := range append([]string{IndexListTag(v.def.Index)}, v.def.Tags...) {
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Registry holds the configured view definitions.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates a registry. Later definitions replace earlier ones with
// the same id.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs[d.ID] = d.normalized()
	}
	return r
}

// Get returns the definition for id.
func (r *Registry) Get(id string) (Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns the registered view ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.defs))
	for id := range r.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
