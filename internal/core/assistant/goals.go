package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"
)

var (
	ErrNoNutritionGoals = common.ErrNotFound.WithMessage("No nutrition goals set")
	ErrNoGoalsProvided  = common.NewValidationError("no goals provided")
	ErrNoMealsProvided  = common.NewValidationError("no meals provided")
	ErrNegativeGoal     = common.NewValidationError("nutrition goals must not be negative")
)

// 每日營養目標預設值
var defaultGoals = state.NutritionGoals{
	DailyCalories: 2000,
	DailyProtein:  50,
	DailyCarbs:    300,
	DailyFat:      65,
	DailyFiber:    25,
	DailySugar:    50,
	DailySodium:   2300,
	Active:        true,
}

// nutrients 追蹤的營養素，順序即輸出順序
var nutrients = []string{"calories", "protein", "carbs", "fat", "fiber", "sugar", "sodium"}

// GoalsInput 設定營養目標，nil 欄位使用預設值
type GoalsInput struct {
	DailyCalories *float64
	DailyProtein  *float64
	DailyCarbs    *float64
	DailyFat      *float64
	DailyFiber    *float64
	DailySugar    *float64
	DailySodium   *float64
	Active        *bool
}

// GoalsResult 設定營養目標的結果
type GoalsResult struct {
	Message string               `json:"message"`
	Goals   state.NutritionGoals `json:"goals"`
}

// MealEntry 一餐的攝取；有 Recipe 時以每份營養乘以份數，再加上明確給的數值
type MealEntry struct {
	Recipe   string
	Servings float64
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Fiber    float64
	Sugar    float64
	Sodium   float64
}

// NutrientProgress 單一營養素的達成狀況
type NutrientProgress struct {
	Current    float64 `json:"current"`
	Goal       float64 `json:"goal"`
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// NutritionTracking 一天的營養追蹤結果
type NutritionTracking struct {
	Date         string                      `json:"date"`
	DailyTotals  map[string]float64          `json:"daily_totals"`
	Goals        state.NutritionGoals        `json:"goals"`
	Progress     map[string]NutrientProgress `json:"progress"`
	OverallScore float64                     `json:"overall_score"`
}

// SetNutritionGoals 設定每日營養目標
func (a *Assistant) SetNutritionGoals(ctx context.Context, session string, in GoalsInput) (GoalsResult, error) {
	if in == (GoalsInput{}) {
		return GoalsResult{}, ErrNoGoalsProvided
	}
	goals := defaultGoals
	for _, f := range []struct {
		src *float64
		dst *float64
	}{
		{in.DailyCalories, &goals.DailyCalories},
		{in.DailyProtein, &goals.DailyProtein},
		{in.DailyCarbs, &goals.DailyCarbs},
		{in.DailyFat, &goals.DailyFat},
		{in.DailyFiber, &goals.DailyFiber},
		{in.DailySugar, &goals.DailySugar},
		{in.DailySodium, &goals.DailySodium},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return GoalsResult{}, ErrNegativeGoal
		}
		*f.dst = *f.src
	}
	if in.Active != nil {
		goals.Active = *in.Active
	}
	goals.CreatedAt = a.now()

	if err := a.store.SetNutritionGoals(ctx, session, goals); err != nil {
		return GoalsResult{}, fmt.Errorf("set nutrition goals: %w", err)
	}
	return GoalsResult{Message: "Nutrition goals set successfully", Goals: goals}, nil
}

// NutritionGoals 取得目前的營養目標
func (a *Assistant) NutritionGoals(ctx context.Context, session string) (state.NutritionGoals, error) {
	goals, err := a.store.NutritionGoals(ctx, session)
	if errors.Is(err, state.ErrNotFound) {
		return state.NutritionGoals{}, ErrNoNutritionGoals
	}
	if err != nil {
		return state.NutritionGoals{}, fmt.Errorf("load nutrition goals: %w", err)
	}
	return goals, nil
}

// TrackNutrition 加總當天攝取並與目標比較
func (a *Assistant) TrackNutrition(ctx context.Context, session string, meals []MealEntry) (NutritionTracking, error) {
	if len(meals) == 0 {
		return NutritionTracking{}, ErrNoMealsProvided
	}
	goals, err := a.NutritionGoals(ctx, session)
	if err != nil {
		return NutritionTracking{}, err
	}

	totals := map[string]float64{}
	for _, m := range meals {
		if strings.TrimSpace(m.Recipe) != "" {
			report, err := a.Nutrition(m.Recipe)
			if err != nil {
				return NutritionTracking{}, err
			}
			servings := m.Servings
			if servings <= 0 {
				servings = 1
			}
			totals["calories"] += report.PerServing.Calories * servings
			totals["protein"] += report.PerServing.Protein * servings
			totals["carbs"] += report.PerServing.Carbs * servings
			totals["fat"] += report.PerServing.Fat * servings
		}
		totals["calories"] += m.Calories
		totals["protein"] += m.Protein
		totals["carbs"] += m.Carbs
		totals["fat"] += m.Fat
		totals["fiber"] += m.Fiber
		totals["sugar"] += m.Sugar
		totals["sodium"] += m.Sodium
	}

	targets := map[string]float64{
		"calories": goals.DailyCalories,
		"protein":  goals.DailyProtein,
		"carbs":    goals.DailyCarbs,
		"fat":      goals.DailyFat,
		"fiber":    goals.DailyFiber,
		"sugar":    goals.DailySugar,
		"sodium":   goals.DailySodium,
	}

	tracking := NutritionTracking{
		Date:        a.now().Format("2006-01-02"),
		DailyTotals: map[string]float64{},
		Goals:       goals,
		Progress:    map[string]NutrientProgress{},
	}
	score := 0.0
	for _, n := range nutrients {
		current := common.Round(totals[n], 1)
		goal := targets[n]
		p := NutrientProgress{Current: current, Goal: goal, Status: nutrientStatus(n, current, goal)}
		if goal > 0 {
			p.Percentage = common.Round(current/goal*100, 1)
		}
		tracking.DailyTotals[n] = current
		tracking.Progress[n] = p
		score += statusScore(p.Status)
	}
	tracking.OverallScore = common.Round(score/float64(len(nutrients)), 1)
	return tracking, nil
}

// nutrientStatus 鈉越低越好，其餘以目標的 90–110% 為最佳
func nutrientStatus(nutrient string, current, goal float64) string {
	if nutrient == "sodium" {
		switch {
		case current <= goal:
			return "excellent"
		case current <= goal*1.2:
			return "good"
		default:
			return "high"
		}
	}
	pct := 0.0
	if goal > 0 {
		pct = current / goal * 100
	}
	switch {
	case pct >= 90 && pct <= 110:
		return "excellent"
	case pct >= 80 && pct <= 120:
		return "good"
	case pct < 80:
		return "low"
	default:
		return "high"
	}
}

func statusScore(status string) float64 {
	switch status {
	case "excellent":
		return 100
	case "good":
		return 80
	case "low":
		return 60
	default:
		return 40
	}
}
