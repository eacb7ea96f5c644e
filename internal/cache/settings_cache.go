package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"botdeck/internal/model"
)

// SettingsCache is a read-through cache for bot records. Updates delete the
// key so reads after an update always see fresh settings.
type SettingsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redisv9.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &SettingsCache{
		client: client,
		ttl:    ttl,
	}
}

// cacheRecord carries every bot field, including the at-rest quick replies
// text that the model's own JSON tags hide from API responses.
type cacheRecord struct {
	Bot          model.Bot `json:"bot"`
	QuickReplies string    `json:"quickReplies"`
}

func (c *SettingsCache) Get(ctx context.Context, botID string) (*model.Bot, bool, error) {
	raw, err := c.client.Get(ctx, c.key(botID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get bot failed: %w", err)
	}

	var rec cacheRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached bot failed: %w", err)
	}
	rec.Bot.QuickReplies = rec.QuickReplies
	return &rec.Bot, true, nil
}

func (c *SettingsCache) Set(ctx context.Context, bot model.Bot) error {
	payload, err := json.Marshal(cacheRecord{Bot: bot, QuickReplies: bot.QuickReplies})
	if err != nil {
		return fmt.Errorf("marshal bot cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(bot.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set bot failed: %w", err)
	}
	return nil
}

func (c *SettingsCache) Delete(ctx context.Context, botID string) error {
	if err := c.client.Del(ctx, c.key(botID)).Err(); err != nil {
		return fmt.Errorf("redis delete bot failed: %w", err)
	}
	return nil
}

func (c *SettingsCache) key(botID string) string {
	return "bot:settings:" + botID
}
