package handler

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMessage_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []gin.H{
		{},
		{"botId": "b1"},
		{"message": "hi"},
	} {
		rec := env.postJSON(t, "/api/message", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %v: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestMessage_UnknownBot(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON(t, "/api/message", gin.H{"botId": "nope", "message": "hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMessage_GreetingReply(t *testing.T) {
	env := newTestEnv(t)
	botID := env.createBot(t, "support")

	rec := env.postJSON(t, "/api/message", gin.H{"botId": botID, "message": "hello there"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Reply        string   `json:"reply"`
		QuickReplies []string `json:"quickReplies"`
	}
	decode(t, rec, &resp)
	if resp.Reply != "Hi! How can I help?" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.QuickReplies == nil || len(resp.QuickReplies) != 0 {
		t.Errorf("quick replies = %#v, want []", resp.QuickReplies)
	}
}

func TestMessage_ContextReplyFromUploadedDocument(t *testing.T) {
	env := newTestEnv(t)
	botID := env.createBot(t, "support")

	body, contentType := multipartFile(t, "file", "faq.txt", "text/plain", []byte("refunds take 30 days"))
	req := httptest.NewRequest(http.MethodPost, "/api/bot/"+botID+"/upload", body)
	req.Header.Set("Content-Type", contentType)
	uploadRec := httptest.NewRecorder()
	env.router.ServeHTTP(uploadRec, req)
	if uploadRec.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", uploadRec.Code)
	}

	rec := env.postJSON(t, "/api/message", gin.H{"botId": botID, "message": "refunds policy?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	decode(t, rec, &resp)
	if resp.Reply != "refunds take 30 days" {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestLegacyChat_SameShape(t *testing.T) {
	env := newTestEnv(t)
	botID := env.createBot(t, "support")

	rec := env.postJSON(t, "/api/bot/"+botID+"/chat", gin.H{"message": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Reply        string   `json:"reply"`
		QuickReplies []string `json:"quickReplies"`
	}
	decode(t, rec, &resp)
	if resp.Reply != "Hi! How can I help?" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if !reflect.DeepEqual(resp.QuickReplies, []string{}) {
		t.Errorf("quick replies = %#v", resp.QuickReplies)
	}
}

func TestLegacyChat_MissingMessage(t *testing.T) {
	env := newTestEnv(t)
	botID := env.createBot(t, "support")

	rec := env.postJSON(t, "/api/bot/"+botID+"/chat", gin.H{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
