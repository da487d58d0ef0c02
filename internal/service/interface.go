package service

import (
	"context"
	"errors"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

var ErrViewNotFound = errors.New("view not found")

// SearchService defines the interface for view search business logic.
type SearchService interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
	RecentSuggestions(ctx context.Context, viewID string, limit int) ([]*domain.SuggestionLog, error)
	// InvalidateIndex drops cached output built from index, plus any extra tags.
	InvalidateIndex(ctx context.Context, index string, extraTags ...string) error
}
