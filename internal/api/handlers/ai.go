package handlers

import (
	"net/http"

	"recipe-assistant/internal/core/ai/service"

	"github.com/gin-gonic/gin"
)

// AIHandler AI 處理器
type AIHandler struct {
	aiService *service.Service
}

// NewAIHandler 創建 AI 處理器
func NewAIHandler(aiService *service.Service) *AIHandler {
	return &AIHandler{
		aiService: aiService,
	}
}

// Status 回傳 AI 問答是否啟用，以及快取與隊列狀態
func (h *AIHandler) Status(c *gin.Context) {
	if h.aiService == nil {
		c.JSON(http.StatusOK, gin.H{"ai": gin.H{"enabled": false}, "status": "success"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ai": h.aiService.Stats(), "status": "success"})
}
