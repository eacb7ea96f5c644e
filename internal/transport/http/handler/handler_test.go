package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"botdeck/internal/app"
	"botdeck/internal/model"
)

type memBotStore struct {
	bots map[string]model.Bot
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

type testEnv struct {
	router *gin.Engine
	bots   *memBotStore
	docs   *memDocStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bots := &memBotStore{bots: make(map[string]model.Bot)}
	docs := &memDocStore{}

	botService := app.NewBotService(bots, nil)
	ingestService := app.NewIngestService(bots, docs)
	replyService := app.NewReplyService(
		botService,
		app.NewRetriever(docs),
		nil,
		nil,
		nil,
		time.Second,
	)

	botHandler := NewBotHandler(botService, ingestService, 0, t.TempDir())
	chatHandler := NewChatHandler(replyService)

	router := gin.New()
	api := router.Group("/api")
	api.POST("/bot", botHandler.Create)
	api.POST("/bot/:botId/upload", botHandler.Upload)
	api.GET("/bot/:botId/settings", botHandler.GetSettings)
	api.POST("/bot/:botId/settings", botHandler.UpdateSettings)
	api.GET("/bot/:botId/documents", botHandler.ListDocuments)
	api.POST("/message", chatHandler.Message)
	api.POST("/bot/:botId/chat", chatHandler.LegacyChat)

	return &testEnv{router: router, bots: bots, docs: docs}
}

func (e *testEnv) postJSON(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createBot(t *testing.T, name string) string {
	t.Helper()
	rec := e.postJSON(t, "/api/bot", gin.H{"name": name})
	if rec.Code != http.StatusOK {
		t.Fatalf("create bot returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		BotID string `json:"botId"`
	}
	decode(t, rec, &resp)
	if resp.BotID == "" {
		t.Fatal("create bot response has no botId")
	}
	return resp.BotID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q failed: %v", rec.Body.String(), err)
	}
}

func multipartFile(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write multipart content failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	return &buf, w.FormDataContentType()
}
