package repository

import (
	"context"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

// SearchRepository executes full-text queries against the search backend.
type SearchRepository interface {
	Search(ctx context.Context, index string, q *domain.SearchQuery) (*domain.ResultSet, error)
}

// SuggestionLogRepository persists suggestions shown to users.
type SuggestionLogRepository interface {
	Record(ctx context.Context, entry *domain.SuggestionLog) error
	Recent(ctx context.Context, viewID string, limit int) ([]*domain.SuggestionLog, error)
}
