// Package spellcheck implements the "did you mean" area of a search view.
//
// The area hooks into a view execution at three points: PreQuery asks the
// backend for spellcheck data, PostExecute caches the backend's raw payload
// under the view's result-cache key plus ":spellcheck", and Render turns the
// cached payload into a suggestion link. Cacher and renderer only meet through
// the cache store, so a later request served from the results cache still
// gets its suggestion.
package spellcheck

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/cache"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
)

// CacheSuffix is appended to the view's result-cache key.
const CacheSuffix = ":spellcheck"

// CacheKey derives the spellcheck cache key from a view result-cache key.
func CacheKey(resultsKey string) string {
	return resultsKey + CacheSuffix
}

// Area is a configured spellcheck area. It is safe for concurrent use; all
// per-request state lives in Request.
type Area struct {
	opts  Options
	store cache.Store
}

// NewArea creates an area writing to and reading from store.
func NewArea(opts Options, store cache.Store) *Area {
	return &Area{
		opts:  opts.Normalize(),
		store: store,
	}
}

// Options returns the normalized options.
func (a *Area) Options() Options {
	return a.opts
}

// InvalidateTags drops cached payloads carrying any of tags.
func (a *Area) InvalidateTags(ctx context.Context, tags ...string) error {
	return a.store.InvalidateTags(ctx, tags...)
}

// PreQuery flags q to request spellcheck data from the backend.
func (a *Area) PreQuery(q *domain.SearchQuery) {
	q.SetOption(domain.OptionSpellcheck, true)
}

// PostExecute caches the backend's spellcheck payload of the executed view.
// A result set without payload stores nothing.
func (a *Area) PostExecute(ctx context.Context, r *Request) error {
	payload, ok := r.view.Result.ExtraData(domain.ExtraDataBackendResponse)
	if !ok {
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldViewID, r.view.ID()).Msg("no spellcheck payload in result set")
		return nil
	}

	key := r.CacheKey()
	if err := r.Cache().Set(ctx, key, payload, cache.Permanent, r.view.CacheTags()); err != nil {
		return fmt.Errorf("failed to cache spellcheck payload %s: %w", key, err)
	}
	return nil
}

// Render returns the suggestion for the request, or nil when there is nothing
// to show. It never fails: store errors are logged and render as nil.
func (a *Area) Render(ctx context.Context, r *Request, empty bool) *domain.Suggestion {
	if !a.opts.ShouldRender(empty) {
		return nil
	}

	key := r.CacheKey()
	entry, err := r.Cache().Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("spellcheck cache get error")
		}
		return nil
	}
	if len(entry.Data) == 0 {
		return nil
	}

	keys := r.view.ExposedInput()[a.opts.FilterName]
	if strings.TrimSpace(keys) == "" {
		return nil
	}

	corrections := ExtractCorrections(entry.Data)
	if len(corrections) == 0 {
		return nil
	}

	filters := r.Filters()
	for i := range corrections {
		if id, ok := filters.Match(corrections[i].Misspelling); ok {
			corrections[i].Filter = id
		}
	}

	corrected := ApplyCorrections(keys, corrections)
	if corrected == keys {
		return nil
	}

	return newSuggestion(r.current, r.CurrentQuery(), a.opts.FilterName, corrected, corrections)
}

// Request holds the once-per-request values of one view render. It is not
// safe for concurrent use.
type Request struct {
	area    *Area
	view    *view.View
	current *url.URL

	store   cache.Store
	filters domain.FilterState
	query   url.Values
	key     string
}

// NewRequest starts a render of v requested at current.
func (a *Area) NewRequest(v *view.View, current *url.URL) *Request {
	return &Request{
		area:    a,
		view:    v,
		current: current,
	}
}

// View returns the view being rendered.
func (r *Request) View() *view.View {
	return r.view
}

// Cache returns the store for this request: the area's store, or a NullStore
// when the view renders as a live preview.
func (r *Request) Cache() cache.Store {
	if r.store == nil {
		if r.view.LivePreview() {
			r.store = cache.NullStore{}
		} else {
			r.store = r.area.store
		}
	}
	return r.store
}

// Filters returns the lowercase submitted values of the view's full-text
// filters, keyed by exposed identifier.
func (r *Request) Filters() domain.FilterState {
	if r.filters == nil {
		input := r.view.ExposedInput()
		r.filters = make(domain.FilterState)
		for _, f := range r.view.FulltextFilters() {
			id := f.ExposedIdentifier()
			if v := input[id]; v != "" {
				r.filters[id] = strings.ToLower(v)
			}
		}
	}
	return r.filters
}

// CurrentQuery returns the query parameters of the current URL.
func (r *Request) CurrentQuery() url.Values {
	if r.query == nil {
		if r.current != nil {
			r.query = r.current.Query()
		} else {
			r.query = url.Values{}
		}
	}
	return r.query
}

// CacheKey returns the spellcheck cache key of the view.
func (r *Request) CacheKey() string {
	if r.key == "" {
		r.key = CacheKey(r.view.ResultsKey())
	}
	return r.key
}
