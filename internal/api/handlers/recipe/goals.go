package recipe

import (
	"recipe-assistant/internal/core/assistant"

	"github.com/gin-gonic/gin"
)

// GoalsRequest 設定營養目標請求；省略的欄位保留原值
type GoalsRequest struct {
	DailyCalories *float64 `json:"daily_calories" binding:"omitempty,gte=0"`
	DailyProtein  *float64 `json:"daily_protein" binding:"omitempty,gte=0"`
	DailyCarbs    *float64 `json:"daily_carbs" binding:"omitempty,gte=0"`
	DailyFat      *float64 `json:"daily_fat" binding:"omitempty,gte=0"`
	DailyFiber    *float64 `json:"daily_fiber" binding:"omitempty,gte=0"`
	DailySugar    *float64 `json:"daily_sugar" binding:"omitempty,gte=0"`
	DailySodium   *float64 `json:"daily_sodium" binding:"omitempty,gte=0"`
	Active        *bool    `json:"active"`
}

// MealRequest 單筆餐點；recipe_name 有值時以食譜每份營養乘上 servings
type MealRequest struct {
	RecipeName string  `json:"recipe_name"`
	Servings   float64 `json:"servings" binding:"gte=0"`
	Calories   float64 `json:"calories" binding:"gte=0"`
	Protein    float64 `json:"protein" binding:"gte=0"`
	Carbs      float64 `json:"carbs" binding:"gte=0"`
	Fat        float64 `json:"fat" binding:"gte=0"`
	Fiber      float64 `json:"fiber" binding:"gte=0"`
	Sugar      float64 `json:"sugar" binding:"gte=0"`
	Sodium     float64 `json:"sodium" binding:"gte=0"`
}

// TrackNutritionRequest 每日營養追蹤請求
type TrackNutritionRequest struct {
	Meals []MealRequest `json:"meals" binding:"required,dive"`
}

// HandleNutritionGoals 回傳營養目標
func (h *Handler) HandleNutritionGoals(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	goals, err := h.assistant.NutritionGoals(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"goals": goals})
}

// HandleSetNutritionGoals 設定營養目標
func (h *Handler) HandleSetNutritionGoals(c *gin.Context) {
	var req GoalsRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.SetNutritionGoals(c.Request.Context(), sid, assistant.GoalsInput{
		DailyCalories: req.DailyCalories,
		DailyProtein:  req.DailyProtein,
		DailyCarbs:    req.DailyCarbs,
		DailyFat:      req.DailyFat,
		DailyFiber:    req.DailyFiber,
		DailySugar:    req.DailySugar,
		DailySodium:   req.DailySodium,
		Active:        req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleTrackNutrition 對照目標計算當日攝取
func (h *Handler) HandleTrackNutrition(c *gin.Context) {
	var req TrackNutritionRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	meals := make([]assistant.MealEntry, 0, len(req.Meals))
	for _, m := range req.Meals {
		meals = append(meals, assistant.MealEntry{
			Recipe:   m.RecipeName,
			Servings: m.Servings,
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
			Fiber:    m.Fiber,
			Sugar:    m.Sugar,
			Sodium:   m.Sodium,
		})
	}
	tracking, err := h.assistant.TrackNutrition(c.Request.Context(), sid, meals)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"nutrition_tracking": tracking})
}
