package recipe

import (
	"strconv"
	"strings"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const (
	defaultPlanDays    = 7
	defaultHistorySize = 10
)

// MealPlanRequest 菜單請求
type MealPlanRequest struct {
	Days    *int   `json:"days" binding:"omitempty,min=1,max=30"`
	Dietary string `json:"dietary"`
}

// PersonalizedMealPlanRequest 個人化菜單請求
type PersonalizedMealPlanRequest struct {
	Days        *int                  `json:"days" binding:"omitempty,min=1,max=30"`
	Dietary     string                `json:"dietary"`
	Preferences assistant.Preferences `json:"preferences"`
}

func planDays(days *int) int {
	if days == nil {
		return defaultPlanDays
	}
	return *days
}

// HandleMealPlan 產生菜單並記錄到會話
func (h *Handler) HandleMealPlan(c *gin.Context) {
	var req MealPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	plan, err := h.assistant.MealPlan(c.Request.Context(), sid, planDays(req.Days), req.Dietary)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"meal_plan": plan})
}

// HandlePersonalizedMealPlan 依偏好產生不重複的菜單
func (h *Handler) HandlePersonalizedMealPlan(c *gin.Context) {
	var req PersonalizedMealPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	prefs := req.Preferences
	prefs.Cuisine = lower(prefs.Cuisine)
	prefs.Difficulty = lower(prefs.Difficulty)
	for i, d := range prefs.Dietary {
		prefs.Dietary[i] = lower(d)
	}
	dietary := req.Dietary
	if strings.TrimSpace(dietary) == "" && len(prefs.Dietary) > 0 {
		dietary = prefs.Dietary[0]
	}

	plan, err := h.assistant.PersonalizedMealPlan(planDays(req.Days), dietary, prefs)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"meal_plan": plan, "personalized": true})
}

// HandleMealPlanHistory 回傳會話最近的菜單
func (h *Handler) HandleMealPlanHistory(c *gin.Context) {
	limit := defaultHistorySize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			middleware.Abort(c, common.ErrInvalidRequest.WithMessage("limit must be a positive integer"))
			return
		}
		limit = n
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	plans, err := h.assistant.MealPlanHistory(c.Request.Context(), sid, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"meal_plans": plans, "total": len(plans)})
}
