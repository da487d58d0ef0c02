package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/cache"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/repository"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/spellcheck"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/view"
	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/log"
)

const (
	asyncTimeout   = 2 * time.Second
	executeTimeout = 10 * time.Second
)

type searchServiceImpl struct {
	views    *view.Registry
	repo     repository.SearchRepository
	results  cache.Store
	area     *spellcheck.Area
	logs     repository.SuggestionLogRepository
	cacheTTL time.Duration
	sf       singleflight.Group
}

// NewSearchService creates a new search service. logs may be nil, in which
// case shown suggestions are not recorded.
func NewSearchService(
	views *view.Registry,
	repo repository.SearchRepository,
	results cache.Store,
	area *spellcheck.Area,
	logs repository.SuggestionLogRepository,
	cacheTTL time.Duration,
) SearchService {
	return &searchServiceImpl{
		views:    views,
		repo:     repo,
		results:  results,
		area:     area,
		logs:     logs,
		cacheTTL: cacheTTL,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	def, ok := s.views.Get(req.ViewID)
	if !ok {
		return nil, ErrViewNotFound
	}
	ctx = log.WithView(ctx, def.ID)

	v := view.New(def, req.Input, req.Page, req.Preview)
	sr := s.area.NewRequest(v, req.CurrentURL)

	rs, err := s.execute(ctx, sr)
	if err != nil {
		return nil, err
	}
	v.Result = rs

	suggestion := s.area.Render(ctx, sr, v.Empty())
	if suggestion != nil && !v.LivePreview() {
		s.asyncRecord(v, suggestion)
	}

	return &domain.SearchResponse{
		Items:      rs.Items,
		Total:      rs.Total,
		Suggestion: suggestion,
	}, nil
}

// execute returns the view's result set, from the results cache when
// possible. Concurrent executions of the same query share one backend call,
// which outlives the caller that started it.
func (s *searchServiceImpl) execute(ctx context.Context, sr *spellcheck.Request) (*domain.ResultSet, error) {
	v := sr.View()
	store := s.results
	sfKey := v.ResultsKey()
	if v.LivePreview() {
		store = cache.NullStore{}
		sfKey = "preview:" + sfKey
	}

	result, err, _ := s.sf.Do(sfKey, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), executeTimeout)
		defer cancel()

		key := v.ResultsKey()

		// Try cache
		entry, err := store.Get(ctx, key)
		if err == nil {
			var cached domain.ResultSet
			if err := json.Unmarshal(entry.Data, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache get error")
		}

		q := v.BuildQuery()
		s.area.PreQuery(q)

		rs, err := s.repo.Search(ctx, v.Definition().Index, q)
		if err != nil {
			return nil, fmt.Errorf("failed to search view %s: %w", v.ID(), err)
		}
		v.Result = rs

		if err := s.area.PostExecute(ctx, sr); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("spellcheck post-execute failed")
		}

		// Async write cache
		if !v.LivePreview() {
			s.asyncCacheSet(key, rs, v.CacheTags())
		}

		return rs, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*domain.ResultSet), nil
}

func (s *searchServiceImpl) RecentSuggestions(ctx context.Context, viewID string, limit int) ([]*domain.SuggestionLog, error) {
	if _, ok := s.views.Get(viewID); !ok {
		return nil, ErrViewNotFound
	}
	if s.logs == nil {
		return []*domain.SuggestionLog{}, nil
	}
	return s.logs.Recent(ctx, viewID, limit)
}

func (s *searchServiceImpl) InvalidateIndex(ctx context.Context, index string, extraTags ...string) error {
	tags := append([]string{view.IndexListTag(index)}, extraTags...)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.results.InvalidateTags(gCtx, tags...)
	})
	g.Go(func() error {
		return s.area.InvalidateTags(gCtx, tags...)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to invalidate index %s: %w", index, err)
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldIndex, index).Strs(log.FieldTags, tags).Msg("cache invalidated")
	return nil
}

func (s *searchServiceImpl) asyncCacheSet(key string, rs *domain.ResultSet, tags []string) {
	data, err := json.Marshal(rs)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("failed to encode result set")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := s.results.Set(ctx, key, data, s.cacheTTL, tags); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldCacheKey, key).Msg("cache set error")
		}
	}()
}

func (s *searchServiceImpl) asyncRecord(v *view.View, suggestion *domain.Suggestion) {
	if s.logs == nil {
		return
	}

	misspellings := make([]string, 0, len(suggestion.Corrections))
	for _, c := range suggestion.Corrections {
		misspellings = append(misspellings, c.Misspelling)
	}
	entry := &domain.SuggestionLog{
		ViewID:       v.ID(),
		Original:     v.ExposedInput()[s.area.Options().FilterName],
		Corrected:    suggestion.Label,
		Misspellings: misspellings,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := s.logs.Record(ctx, entry); err != nil {
			l := log.L()
			l.Warn().Err(err).Str(log.FieldViewID, entry.ViewID).Msg("failed to record suggestion")
		}
	}()
}
