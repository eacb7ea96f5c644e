package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"botdeck/internal/model"
	"botdeck/internal/pkg/pdfextract"
)

// IngestService turns uploaded files into stored plain-text documents.
type IngestService struct {
	bots BotStore
	docs DocumentStore
}

func NewIngestService(bots BotStore, docs DocumentStore) *IngestService {
	return &IngestService{
		bots: bots,
		docs: docs,
	}
}

type IngestInput struct {
	BotID       string
	Filename    string
	ContentType string
	Raw         []byte
}

// Ingest verifies the owning bot exists, extracts text (PDF when declared or
// suffixed as such, UTF-8 passthrough otherwise) and persists the document.
func (s *IngestService) Ingest(input IngestInput) (*model.Document, error) {
	bot, err := s.bots.GetByID(input.BotID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrBotNotFound
	}
	if len(input.Raw) == 0 {
		return nil, ErrInvalidInput
	}

	text, err := extractText(input.Filename, input.ContentType, input.Raw)
	if err != nil {
		return nil, fmt.Errorf("extract text from %s failed: %w", input.Filename, err)
	}

	doc := &model.Document{
		ID:       uuid.NewString(),
		BotID:    input.BotID,
		Filename: input.Filename,
		Text:     text,
		AddedAt:  time.Now(),
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns the bot's documents in ingestion order.
func (s *IngestService) ListDocuments(botID string) ([]model.Document, error) {
	bot, err := s.bots.GetByID(botID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, ErrBotNotFound
	}
	return s.docs.ListByBotID(botID)
}

func extractText(filename, contentType string, raw []byte) (string, error) {
	if isPDF(filename, contentType) {
		return pdfextract.ExtractText(raw)
	}
	return string(raw), nil
}

func isPDF(filename, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}
