package repository

import (
	"fmt"

	"gorm.io/gorm"

	"botdeck/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// ListByBotID returns the bot's documents in ingestion order. The id tiebreak
// only stabilizes equal timestamps.
func (r *DocumentRepository) ListByBotID(botID string) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.Where("bot_id = ?", botID).Order("added_at ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}
