package recipe

import (
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookQARequest 烹飪問答請求
type CookQARequest struct {
	Question   string `json:"question" binding:"required"`
	RecipeName string `json:"recipe_name,omitempty"`
}

// HandleCookQA 以知識庫食譜為背景回答烹飪問題
func (h *Handler) HandleCookQA(c *gin.Context) {
	if h.aiService == nil || !h.aiService.Enabled() {
		middleware.Abort(c, common.ErrAIDisabled)
		return
	}

	var req CookQARequest
	if !bindJSON(c, &req) {
		return
	}

	var recipe *kb.Recipe
	if lower(req.RecipeName) != "" {
		r, found := h.assistant.KnowledgeBase().Recipe(req.RecipeName)
		if !found {
			middleware.Abort(c, common.ErrNotFound.WithMessage("Recipe not found"))
			return
		}
		recipe = &r
	}

	common.LogInfo("開始處理 Cook QA 請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("recipe", req.RecipeName),
	)

	answer, err := h.aiService.Ask(c.Request.Context(), req.Question, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": answer})
}
