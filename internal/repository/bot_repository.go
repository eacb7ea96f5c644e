package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"botdeck/internal/model"
)

type BotRepository struct {
	db *gorm.DB
}

func NewBotRepository(db *gorm.DB) *BotRepository {
	return &BotRepository{db: db}
}

func (r *BotRepository) Create(bot *model.Bot) error {
	if err := r.db.Create(bot).Error; err != nil {
		return fmt.Errorf("create bot failed: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when no bot has the id.
func (r *BotRepository) GetByID(id string) (*model.Bot, error) {
	var bot model.Bot
	if err := r.db.Where("id = ?", id).First(&bot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bot failed: %w", err)
	}
	return &bot, nil
}

func (r *BotRepository) Update(bot *model.Bot) error {
	if err := r.db.Save(bot).Error; err != nil {
		return fmt.Errorf("update bot failed: %w", err)
	}
	return nil
}
