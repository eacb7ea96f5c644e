package app

import (
	"context"

	"botdeck/internal/model"
)

// BotStore is the persistence surface the bot registry needs.
type BotStore interface {
	Create(bot *model.Bot) error
	GetByID(id string) (*model.Bot, error)
	Update(bot *model.Bot) error
}

// DocumentStore is the persistence surface for ingestion and retrieval.
type DocumentStore interface {
	Create(doc *model.Document) error
	ListByBotID(botID string) ([]model.Document, error)
}

// TranscriptStore reads back the persisted chat log.
type TranscriptStore interface {
	ListByBotID(botID string, limit int) ([]model.Transcript, error)
}

// SettingsCache fronts bot reads; nil disables caching.
type SettingsCache interface {
	Get(ctx context.Context, botID string) (*model.Bot, bool, error)
	Set(ctx context.Context, bot model.Bot) error
	Delete(ctx context.Context, botID string) error
}

// TranscriptPublisher hands resolved chats to the transcript queue; nil
// disables the log.
type TranscriptPublisher interface {
	Publish(ctx context.Context, t model.Transcript) error
}

// InferenceGenerator is the external text-generation provider; nil disables
// the inference step.
type InferenceGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
