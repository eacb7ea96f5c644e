package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"botdeck/internal/model"
)

// BotService is the bot registry: create a bot, read its settings, patch its
// mutable settings. Name and id are fixed at creation.
type BotService struct {
	bots  BotStore
	cache SettingsCache
}

func NewBotService(bots BotStore, cache SettingsCache) *BotService {
	return &BotService{
		bots:  bots,
		cache: cache,
	}
}

type CreateBotInput struct {
	Name         string
	Avatar       string
	ThemeColor   string
	Welcome      string
	QuickReplies []string
}

// CreateBot persists a new bot with defaults applied for omitted fields and
// returns its fresh id.
func (s *BotService) CreateBot(input CreateBotInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", ErrInvalidInput
	}

	bot := &model.Bot{
		ID:         uuid.NewString(),
		Name:       name,
		Avatar:     input.Avatar,
		ThemeColor: input.ThemeColor,
		Welcome:    input.Welcome,
		CreatedAt:  time.Now(),
	}
	if bot.ThemeColor == "" {
		bot.ThemeColor = model.DefaultThemeColor
	}
	if bot.Welcome == "" {
		bot.Welcome = model.DefaultWelcome
	}
	if err := bot.SetQuickReplies(input.QuickReplies); err != nil {
		return "", err
	}

	if err := s.bots.Create(bot); err != nil {
		return "", err
	}
	return bot.ID, nil
}

type BotSettings struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Avatar       string   `json:"avatar"`
	ThemeColor   string   `json:"themeColor"`
	Welcome      string   `json:"welcome"`
	QuickReplies []string `json:"quickReplies"`
}

// GetSettings returns the bot's settings with quick replies decoded.
func (s *BotService) GetSettings(ctx context.Context, botID string) (*BotSettings, error) {
	bot, err := s.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}
	return &BotSettings{
		ID:           bot.ID,
		Name:         bot.Name,
		Avatar:       bot.Avatar,
		ThemeColor:   bot.ThemeColor,
		Welcome:      bot.Welcome,
		QuickReplies: bot.QuickReplyList(),
	}, nil
}

type UpdateSettingsInput struct {
	Avatar       *string
	ThemeColor   *string
	Welcome      *string
	QuickReplies *[]string
}

// UpdateSettings is a partial patch: supplied fields replace stored values,
// omitted fields are retained. Name and id are never touched.
func (s *BotService) UpdateSettings(ctx context.Context, botID string, input UpdateSettingsInput) error {
	bot, err := s.bots.GetByID(botID)
	if err != nil {
		return err
	}
	if bot == nil {
		return ErrBotNotFound
	}

	if input.Avatar != nil {
		bot.Avatar = *input.Avatar
	}
	if input.ThemeColor != nil {
		bot.ThemeColor = *input.ThemeColor
	}
	if input.Welcome != nil {
		bot.Welcome = *input.Welcome
	}
	if input.QuickReplies != nil {
		if err := bot.SetQuickReplies(*input.QuickReplies); err != nil {
			return err
		}
	}

	if err := s.bots.Update(bot); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, botID); err != nil {
			log.Printf("invalidate settings cache failed: %v", err)
		}
	}
	return nil
}

// GetBot loads a bot through the settings cache when one is configured.
// Returns ErrBotNotFound when the id resolves to nothing.
func (s *BotService) GetBot(ctx context.Context, botID string) (*model.Bot, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx, botID); err == nil && hit {
			return cached, nil
		}
	}

	bot, err := s.bots.GetByID(botID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrBotNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, *bot); err != nil {
			log.Printf("fill settings cache failed: %v", err)
		}
	}
	return bot, nil
}
