package domain

import (
	"time"

	"github.com/weiawesome/wes-io-live/spellcheck-service/pkg/database"
)

// SuggestionLogModel is the GORM model for the suggestion_logs table.
type SuggestionLogModel struct {
	ID           uint                 `gorm:"primaryKey;autoIncrement"`
	ViewID       string               `gorm:"type:varchar(128);index:idx_view_created;not null"`
	Original     string               `gorm:"type:varchar(512);not null"`
	Corrected    string               `gorm:"type:varchar(512);not null"`
	Misspellings database.StringArray `gorm:"type:text"`
	CreatedAt    time.Time            `gorm:"autoCreateTime;index:idx_view_created"`
}

// TableName specifies the table name for SuggestionLogModel.
func (SuggestionLogModel) TableName() string {
	return "suggestion_logs"
}

// ToDomain converts SuggestionLogModel to domain SuggestionLog.
func (m *SuggestionLogModel) ToDomain() *SuggestionLog {
	return &SuggestionLog{
		ID:           m.ID,
		ViewID:       m.ViewID,
		Original:     m.Original,
		Corrected:    m.Corrected,
		Misspellings: []string(m.Misspellings),
		CreatedAt:    m.CreatedAt,
	}
}

// SuggestionLogModelFromDomain converts a domain SuggestionLog to its GORM model.
func SuggestionLogModelFromDomain(l *SuggestionLog) *SuggestionLogModel {
	return &SuggestionLogModel{
		ID:           l.ID,
		ViewID:       l.ViewID,
		Original:     l.Original,
		Corrected:    l.Corrected,
		Misspellings: database.StringArray(l.Misspellings),
		CreatedAt:    l.CreatedAt,
	}
}
