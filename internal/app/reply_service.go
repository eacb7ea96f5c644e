package app

import (
	"context"
	"log"
	"strings"
	"time"

	"botdeck/internal/model"
)

const (
	replyContextOnly = "I found something related but can't form an answer. Try rephrasing?"
	replyNoAnswer    = "I don't know the answer to that yet. Try uploading documents that cover it."

	contextReplyLines = 4
)

// ReplyService resolves a chat message against a fixed priority order:
// external inference when configured, then greeting detection, then a context
// snippet, then a canned fallback. Inference failures never surface to the
// caller.
type ReplyService struct {
	registry    *BotService
	retriever   *Retriever
	inference   InferenceGenerator
	publisher   TranscriptPublisher
	transcripts TranscriptStore
	timeout     time.Duration
}

func NewReplyService(
	registry *BotService,
	retriever *Retriever,
	inference InferenceGenerator,
	publisher TranscriptPublisher,
	transcripts TranscriptStore,
	timeout time.Duration,
) *ReplyService {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &ReplyService{
		registry:    registry,
		retriever:   retriever,
		inference:   inference,
		publisher:   publisher,
		transcripts: transcripts,
		timeout:     timeout,
	}
}

type ReplyResult struct {
	Reply        string   `json:"reply"`
	QuickReplies []string `json:"quickReplies"`
}

// Resolve produces the reply for one message. Quick replies always mirror the
// bot's stored list regardless of which branch answered.
func (s *ReplyService) Resolve(ctx context.Context, botID, message string) (*ReplyResult, error) {
	bot, err := s.registry.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}

	contextText, err := s.retriever.FindContext(botID, message)
	if err != nil {
		return nil, err
	}

	reply := s.resolveReply(ctx, bot, message, contextText)
	s.logTranscript(ctx, botID, message, reply)

	return &ReplyResult{
		Reply:        reply,
		QuickReplies: bot.QuickReplyList(),
	}, nil
}

func (s *ReplyService) resolveReply(ctx context.Context, bot *model.Bot, message, contextText string) string {
	if s.inference != nil {
		if reply, ok := s.tryInference(ctx, contextText, message); ok {
			return reply
		}
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "hello") || strings.Contains(lower, "hi") {
		return bot.Welcome
	}

	if contextText != "" {
		snippet := firstLines(contextText, contextReplyLines)
		if snippet == "" {
			return replyContextOnly
		}
		return snippet
	}

	return replyNoAnswer
}

// tryInference calls the external provider with a bounded timeout. Any
// failure is logged and reported as a miss so the local heuristics take over.
func (s *ReplyService) tryInference(ctx context.Context, contextText, message string) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.inference.Generate(callCtx, buildPrompt(contextText, message))
	if err != nil {
		log.Printf("inference failed, falling back: %v", err)
		return "", false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false
	}
	return reply, true
}

func (s *ReplyService) logTranscript(ctx context.Context, botID, message, reply string) {
	if s.publisher == nil {
		return
	}
	t := model.Transcript{
		BotID:     botID,
		Message:   message,
		Reply:     reply,
		CreatedAt: time.Now(),
	}
	if err := s.publisher.Publish(ctx, t); err != nil {
		log.Printf("publish transcript failed: %v", err)
	}
}

// History returns the persisted chat log for a bot, newest first.
func (s *ReplyService) History(ctx context.Context, botID string, limit int) ([]model.Transcript, error) {
	if _, err := s.registry.GetBot(ctx, botID); err != nil {
		return nil, err
	}
	if s.transcripts == nil {
		return []model.Transcript{}, nil
	}
	return s.transcripts.ListByBotID(botID, limit)
}

func buildPrompt(contextText, message string) string {
	if contextText == "" {
		return message
	}
	var b strings.Builder
	b.WriteString("Use the following context to answer the question.\n\nContext:\n")
	b.WriteString(contextText)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(message)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
