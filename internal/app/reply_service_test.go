package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"botdeck/internal/model"
)

type replyFixture struct {
	bots      *memBotStore
	docs      *memDocStore
	botID     string
	inference *mockInference
	publisher *mockPublisher
}

func newReplyFixture(t *testing.T, quickReplies []string, docTexts ...string) *replyFixture {
	t.Helper()
	bots := newMemBotStore()
	docs := &memDocStore{}

	botID, err := NewBotService(bots, nil).CreateBot(CreateBotInput{
		Name:         "bot",
		Welcome:      "Hey, welcome!",
		QuickReplies: quickReplies,
	})
	if err != nil {
		t.Fatalf("create bot failed: %v", err)
	}
	for i, text := range docTexts {
		docs.docs = append(docs.docs, model.Document{
			ID:    string(rune('a' + i)),
			BotID: botID,
			Text:  text,
		})
	}
	return &replyFixture{bots: bots, docs: docs, botID: botID}
}

func (f *replyFixture) service() *ReplyService {
	registry := NewBotService(f.bots, nil)
	retriever := NewRetriever(f.docs)

	var inference InferenceGenerator
	if f.inference != nil {
		inference = f.inference
	}
	var publisher TranscriptPublisher
	if f.publisher != nil {
		publisher = f.publisher
	}
	return NewReplyService(registry, retriever, inference, publisher, nil, time.Second)
}

func TestResolve_UnknownBot(t *testing.T) {
	f := newReplyFixture(t, nil)

	_, err := f.service().Resolve(context.Background(), "missing", "hi")
	if !errors.Is(err, ErrBotNotFound) {
		t.Errorf("want ErrBotNotFound, got %v", err)
	}
}

func TestResolve_GreetingBeatsContext(t *testing.T) {
	// Inference disabled: a greeting wins no matter what the documents hold.
	f := newReplyFixture(t, nil, "hi there is a matching document")

	result, err := f.service().Resolve(context.Background(), f.botID, "hi there")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != "Hey, welcome!" {
		t.Errorf("reply = %q, want the stored welcome", result.Reply)
	}
}

func TestResolve_ContextSnippetFirstFourLines(t *testing.T) {
	doc := "refunds line one\nline two\nline three\nline four\nline five"
	f := newReplyFixture(t, nil, doc)

	result, err := f.service().Resolve(context.Background(), f.botID, "refunds policy?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := "refunds line one\nline two\nline three\nline four"
	if result.Reply != want {
		t.Errorf("reply = %q, want %q", result.Reply, want)
	}
}

func TestResolve_BlankContextSnippet(t *testing.T) {
	// The match lands in a document whose first lines are whitespace only.
	f := newReplyFixture(t, nil, " \n \n \n \nrefunds appear much later")

	result, err := f.service().Resolve(context.Background(), f.botID, "refunds policy?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != replyContextOnly {
		t.Errorf("reply = %q, want %q", result.Reply, replyContextOnly)
	}
}

func TestResolve_NoContextFallback(t *testing.T) {
	f := newReplyFixture(t, nil, "nothing relevant in here")

	result, err := f.service().Resolve(context.Background(), f.botID, "zzz unanswerable")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != replyNoAnswer {
		t.Errorf("reply = %q, want %q", result.Reply, replyNoAnswer)
	}
}

func TestResolve_InferenceWins(t *testing.T) {
	f := newReplyFixture(t, nil, "refunds are handled within 30 days")
	f.inference = &mockInference{reply: "Refunds take up to 30 days."}

	result, err := f.service().Resolve(context.Background(), f.botID, "refunds policy?")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != "Refunds take up to 30 days." {
		t.Errorf("reply = %q, want the generated text verbatim", result.Reply)
	}
	if !strings.Contains(f.inference.gotPrompt, "refunds are handled within 30 days") {
		t.Errorf("prompt is missing the retrieved context: %q", f.inference.gotPrompt)
	}
	if !strings.Contains(f.inference.gotPrompt, "refunds policy?") {
		t.Errorf("prompt is missing the user message: %q", f.inference.gotPrompt)
	}
}

func TestResolve_InferenceBeatsGreeting(t *testing.T) {
	f := newReplyFixture(t, nil)
	f.inference = &mockInference{reply: "Generated greeting"}

	result, err := f.service().Resolve(context.Background(), f.botID, "hello")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != "Generated greeting" {
		t.Errorf("reply = %q, want the generated text", result.Reply)
	}
}

func TestResolve_InferenceFailureFallsBack(t *testing.T) {
	f := newReplyFixture(t, nil, "refunds line one\nline two")
	f.inference = &mockInference{err: errors.New("provider down")}

	result, err := f.service().Resolve(context.Background(), f.botID, "refunds policy?")
	if err != nil {
		t.Fatalf("resolve must not surface inference errors, got %v", err)
	}
	if result.Reply != "refunds line one\nline two" {
		t.Errorf("reply = %q, want the context snippet fallback", result.Reply)
	}
	if f.inference.calls != 1 {
		t.Errorf("inference called %d times, want exactly 1 (no retries)", f.inference.calls)
	}
}

func TestResolve_EmptyInferenceReplyFallsBack(t *testing.T) {
	f := newReplyFixture(t, nil)
	f.inference = &mockInference{reply: "   "}

	result, err := f.service().Resolve(context.Background(), f.botID, "zzz")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if result.Reply != replyNoAnswer {
		t.Errorf("reply = %q, want %q", result.Reply, replyNoAnswer)
	}
}

func TestResolve_QuickRepliesAlwaysMirrorStore(t *testing.T) {
	quick := []string{"Pricing", "Support"}
	cases := []struct {
		name      string
		message   string
		docs      []string
		inference *mockInference
	}{
		{name: "greeting", message: "hi"},
		{name: "context", message: "refunds?", docs: []string{"refunds info"}},
		{name: "fallback", message: "zzz"},
		{name: "inference", message: "refunds?", inference: &mockInference{reply: "answer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newReplyFixture(t, quick, tc.docs...)
			f.inference = tc.inference

			result, err := f.service().Resolve(context.Background(), f.botID, tc.message)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if !reflect.DeepEqual(result.QuickReplies, quick) {
				t.Errorf("quick replies = %#v, want %#v", result.QuickReplies, quick)
			}
		})
	}
}

func TestResolve_PublishesTranscript(t *testing.T) {
	f := newReplyFixture(t, nil)
	f.publisher = &mockPublisher{}

	result, err := f.service().Resolve(context.Background(), f.botID, "hello")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(f.publisher.published) != 1 {
		t.Fatalf("published %d transcripts, want 1", len(f.publisher.published))
	}
	got := f.publisher.published[0]
	if got.BotID != f.botID || got.Message != "hello" || got.Reply != result.Reply {
		t.Errorf("transcript = %#v", got)
	}
}

func TestResolve_PublishFailureIsNotFatal(t *testing.T) {
	f := newReplyFixture(t, nil)
	f.publisher = &mockPublisher{err: errors.New("broker down")}

	if _, err := f.service().Resolve(context.Background(), f.botID, "hello"); err != nil {
		t.Errorf("resolve failed on publish error: %v", err)
	}
}
