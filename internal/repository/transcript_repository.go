package repository

import (
	"fmt"

	"gorm.io/gorm"

	"botdeck/internal/model"
)

type TranscriptRepository struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

func (r *TranscriptRepository) Create(t *model.Transcript) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("create transcript failed: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) ListByBotID(botID string, limit int) ([]model.Transcript, error) {
	q := r.db.Where("bot_id = ?", botID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []model.Transcript
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list transcripts failed: %w", err)
	}
	return list, nil
}
