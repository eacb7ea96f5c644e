package app

import (
	"context"
	"errors"

	"botdeck/internal/model"
)

// in-memory stores implementing the persistence interfaces

type memBotStore struct {
	bots map[string]model.Bot
}

func newMemBotStore() *memBotStore {
	return &memBotStore{bots: make(map[string]model.Bot)}
}

func (m *memBotStore) Create(bot *model.Bot) error {
	m.bots[bot.ID] = *bot
	return nil
}

func (m *memBotStore) GetByID(id string) (*model.Bot, error) {
	bot, ok := m.bots[id]
	if !ok {
		return nil, nil
	}
	copied := bot
	return &copied, nil
}

func (m *memBotStore) Update(bot *model.Bot) error {
	if _, ok := m.bots[bot.ID]; !ok {
		return errors.New("update missing bot")
	}
	m.bots[bot.ID] = *bot
	return nil
}

type memDocStore struct {
	docs []model.Document
}

func (m *memDocStore) Create(doc *model.Document) error {
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *memDocStore) ListByBotID(botID string) ([]model.Document, error) {
	var out []model.Document
	for _, d := range m.docs {
		if d.BotID == botID {
			out = append(out, d)
		}
	}
	return out, nil
}

type mockInference struct {
	reply     string
	err       error
	gotPrompt string
	calls     int
}

func (m *mockInference) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.gotPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type mockPublisher struct {
	published []model.Transcript
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, t model.Transcript) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, t)
	return nil
}
