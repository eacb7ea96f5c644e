package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"botdeck/internal/app"
	"botdeck/internal/transport/http/response"
)

const defaultTranscriptLimit = 50

type ChatHandler struct {
	replyService *app.ReplyService
}

func NewChatHandler(replyService *app.ReplyService) *ChatHandler {
	return &ChatHandler{replyService: replyService}
}

type MessageRequest struct {
	BotID   string `json:"botId" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Message(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "botId and message are required")
		return
	}
	h.resolve(c, req.BotID, req.Message)
}

type legacyChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// LegacyChat keeps the old bot-scoped chat route alive with the same
// response shape as /api/message.
func (h *ChatHandler) LegacyChat(c *gin.Context) {
	var req legacyChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "message is required")
		return
	}
	h.resolve(c, c.Param("botId"), req.Message)
}

func (h *ChatHandler) resolve(c *gin.Context, botID, message string) {
	result, err := h.replyService.Resolve(c.Request.Context(), botID, message)
	if err != nil {
		if errors.Is(err, app.ErrBotNotFound) {
			response.Error(c, http.StatusNotFound, "bot not found")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.OK(c, result)
}

func (h *ChatHandler) ListTranscripts(c *gin.Context) {
	limit := defaultTranscriptLimit
	if s := c.Query("limit"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	transcripts, err := h.replyService.History(c.Request.Context(), c.Param("botId"), limit)
	if err != nil {
		if errors.Is(err, app.ErrBotNotFound) {
			response.Error(c, http.StatusNotFound, "bot not found")
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.OK(c, gin.H{"transcripts": transcripts})
}
