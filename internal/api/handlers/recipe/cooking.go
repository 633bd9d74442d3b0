package recipe

import (
	"recipe-assistant/internal/core/assistant"

	"github.com/gin-gonic/gin"
)

// CookingStartRequest 開始導引烹飪請求
type CookingStartRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"`
	SkillLevel string `json:"skill_level" binding:"omitempty,oneof=beginner intermediate advanced expert"`
}

// NextStepRequest 前進步驟請求
type NextStepRequest struct {
	Notes string `json:"notes"`
}

// PauseRequest 暫停請求
type PauseRequest struct {
	Reason string `json:"reason"`
}

// HandleStartCooking 開始導引烹飪
func (h *Handler) HandleStartCooking(c *gin.Context) {
	var req CookingStartRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.StartCooking(c.Request.Context(), sid, req.RecipeName, req.SkillLevel)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleCurrentStep 回傳目前步驟
func (h *Handler) HandleCurrentStep(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	step, err := h.assistant.CurrentStep(c.Request.Context(), sid, c.Param("cooking_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"current_step": step})
}

// HandleNextStep 完成目前步驟並前進；請求內容可省略
func (h *Handler) HandleNextStep(c *gin.Context) {
	var req NextStepRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.NextStep(c.Request.Context(), sid, c.Param("cooking_id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleGuidance 回傳目前步驟的說明
func (h *Handler) HandleGuidance(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	kind := assistant.GuidanceType(lower(c.Query("type")))
	guidance, err := h.assistant.Guidance(c.Request.Context(), sid, c.Param("cooking_id"), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"guidance": guidance})
}

// HandlePauseCooking 暫停導引烹飪；請求內容可省略
func (h *Handler) HandlePauseCooking(c *gin.Context) {
	var req PauseRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.PauseCooking(c.Request.Context(), sid, c.Param("cooking_id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleResumeCooking 繼續導引烹飪
func (h *Handler) HandleResumeCooking(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.ResumeCooking(c.Request.Context(), sid, c.Param("cooking_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleCookingSummary 回傳導引烹飪摘要
func (h *Handler) HandleCookingSummary(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.assistant.CookingSummary(c.Request.Context(), sid, c.Param("cooking_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"session_summary": summary})
}
