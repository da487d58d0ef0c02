package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

const maxRecentLimit = 100

// GormSuggestionLogRepository implements SuggestionLogRepository using GORM.
type GormSuggestionLogRepository struct {
	db *gorm.DB
}

// NewGormSuggestionLogRepository creates a new GORM-based suggestion log repository.
func NewGormSuggestionLogRepository(db *gorm.DB) *GormSuggestionLogRepository {
	return &GormSuggestionLogRepository{db: db}
}

// Record stores a shown suggestion.
func (r *GormSuggestionLogRepository) Record(ctx context.Context, entry *domain.SuggestionLog) error {
	model := domain.SuggestionLogModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return nil
}

// Recent returns the newest suggestions shown for a view.
func (r *GormSuggestionLogRepository) Recent(ctx context.Context, viewID string, limit int) ([]*domain.SuggestionLog, error) {
	if limit <= 0 || limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	var models []domain.SuggestionLogModel
	result := r.db.WithContext(ctx).
		Where("view_id = ?", viewID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	logs := make([]*domain.SuggestionLog, 0, len(models))
	for i := range models {
		logs = append(logs, models[i].ToDomain())
	}
	return logs, nil
}
