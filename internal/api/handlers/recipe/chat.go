package recipe

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatRequest 對話請求
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse 對話回應
type ChatResponse struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
	Status   string `json:"status"`
}

// HandleChat 分類訊息並回覆
func (h *Handler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Message cannot be empty"))
		return
	}
	if h.maxMessageLength > 0 && utf8.RuneCountInString(message) > h.maxMessageLength {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Message is too long"))
		return
	}

	sid, err := session(c, req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	reply, err := h.assistant.Respond(c.Request.Context(), sid, message)
	if err != nil {
		respondError(c, err)
		return
	}

	common.LogDebug("對話回覆完成",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session", sid),
		zap.String("intent", reply.Intent.String()),
	)

	c.JSON(http.StatusOK, ChatResponse{
		Response: reply.Text,
		Intent:   reply.Intent.String(),
		Status:   statusSuccess,
	})
}
