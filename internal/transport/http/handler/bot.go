package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"botdeck/internal/app"
	"botdeck/internal/model"
	"botdeck/internal/transport/http/response"
)

type BotHandler struct {
	botService    *app.BotService
	ingestService *app.IngestService
	maxFileSize   int64
	tmpDir        string
}

func NewBotHandler(botService *app.BotService, ingestService *app.IngestService, maxFileSize int64, tmpDir string) *BotHandler {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &BotHandler{
		botService:    botService,
		ingestService: ingestService,
		maxFileSize:   maxFileSize,
		tmpDir:        tmpDir,
	}
}

type CreateBotRequest struct {
	Name         string   `json:"name"`
	Avatar       string   `json:"avatar"`
	ThemeColor   string   `json:"themeColor"`
	Welcome      string   `json:"welcome"`
	QuickReplies []string `json:"quickReplies"`
}

func (h *BotHandler) Create(c *gin.Context) {
	var req CreateBotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	botID, err := h.botService.CreateBot(app.CreateBotInput{
		Name:         req.Name,
		Avatar:       req.Avatar,
		ThemeColor:   req.ThemeColor,
		Welcome:      req.Welcome,
		QuickReplies: req.QuickReplies,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "name is required")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.OK(c, gin.H{"botId": botID})
}

// Upload accepts one multipart file, parks it in a scoped temp file and
// ingests it. The temp file is removed whether or not ingestion succeeds.
func (h *BotHandler) Upload(c *gin.Context) {
	botID := c.Param("botId")

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file")
		return
	}
	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		response.Error(c, http.StatusBadRequest, "file too large")
		return
	}

	tmpPath := filepath.Join(h.tmpDir, "upload-"+uuid.NewString())
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		response.Error(c, http.StatusInternalServerError, "store upload failed: "+err.Error())
		return
	}
	defer os.Remove(tmpPath)

	raw, err := os.ReadFile(tmpPath)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "read upload failed: "+err.Error())
		return
	}

	_, err = h.ingestService.Ingest(app.IngestInput{
		BotID:       botID,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Raw:         raw,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrBotNotFound):
			response.Error(c, http.StatusNotFound, "bot not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "no file content supplied")
		default:
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.OK(c, gin.H{"status": "ok", "filename": file.Filename})
}

func (h *BotHandler) GetSettings(c *gin.Context) {
	settings, err := h.botService.GetSettings(c.Request.Context(), c.Param("botId"))
	if err != nil {
		if errors.Is(err, app.ErrBotNotFound) {
			response.Error(c, http.StatusNotFound, "bot not found")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.OK(c, settings)
}

type UpdateSettingsRequest struct {
	Avatar       *string   `json:"avatar"`
	ThemeColor   *string   `json:"themeColor"`
	Welcome      *string   `json:"welcome"`
	QuickReplies *[]string `json:"quickReplies"`
}

func (h *BotHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	err := h.botService.UpdateSettings(c.Request.Context(), c.Param("botId"), app.UpdateSettingsInput{
		Avatar:       req.Avatar,
		ThemeColor:   req.ThemeColor,
		Welcome:      req.Welcome,
		QuickReplies: req.QuickReplies,
	})
	if err != nil {
		if errors.Is(err, app.ErrBotNotFound) {
			response.Error(c, http.StatusNotFound, "bot not found")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	response.OK(c, gin.H{"status": "ok"})
}

type documentSummary struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	AddedAt  string `json:"addedAt"`
}

func (h *BotHandler) ListDocuments(c *gin.Context) {
	docs, err := h.ingestService.ListDocuments(c.Param("botId"))
	if err != nil {
		if errors.Is(err, app.ErrBotNotFound) {
			response.Error(c, http.StatusNotFound, "bot not found")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.OK(c, gin.H{"documents": summarize(docs)})
}

func summarize(docs []model.Document) []documentSummary {
	out := make([]documentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentSummary{
			ID:       d.ID,
			Filename: d.Filename,
			AddedAt:  d.AddedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}
