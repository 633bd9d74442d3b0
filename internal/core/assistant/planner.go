package assistant

import (
	"context"
	"fmt"
	"strings"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// MealTypes 每天安排的餐別（依順序）
var MealTypes = []string{"breakfast", "lunch", "dinner"}

// breakfastExcluded 名稱含這些字的食譜不排早餐
var breakfastExcluded = []string{"pizza", "taco"}

// MealPlan 每個（天, 餐別）獨立、可重複地從符合飲食條件的食譜中隨機抽選，並記錄到會話
func (a *Assistant) MealPlan(ctx context.Context, session string, days int, dietary string) (state.MealPlan, error) {
	if days < 1 {
		return state.MealPlan{}, ErrInvalidDays
	}
	dietary = strings.ToLower(strings.TrimSpace(dietary))
	pool := a.kb.WithDiet(dietary)
	if len(pool) == 0 {
		return state.MealPlan{}, fmt.Errorf("%w: %s", ErrNoRecipes, dietary)
	}

	plan := state.MealPlan{
		ID:        common.GenerateUUID(),
		Days:      days,
		Dietary:   dietary,
		Plan:      make([]state.DayPlan, 0, days),
		CreatedAt: a.now(),
	}
	if plan.Dietary == "" {
		plan.Dietary = "none"
	}

	for day := 1; day <= days; day++ {
		dp := state.DayPlan{
			Day:   day,
			Label: fmt.Sprintf("Day %d", day),
			Meals: make([]state.MealSlot, 0, len(MealTypes)),
		}
		for _, meal := range MealTypes {
			r, _ := a.pick(pool)
			dp.Meals = append(dp.Meals, state.MealSlot{
				MealType:   meal,
				Recipe:     r.Name,
				PrepTime:   r.PrepTime,
				Difficulty: string(r.Difficulty),
			})
		}
		plan.Plan = append(plan.Plan, dp)
	}

	if err := a.store.RecordMealPlan(ctx, session, plan); err != nil {
		return state.MealPlan{}, fmt.Errorf("record meal plan: %w", err)
	}

	common.LogDebug("菜單已產生",
		zap.String("session", session),
		zap.Int("days", days),
		zap.String("dietary", plan.Dietary),
	)
	return plan, nil
}

// MealPlanHistory 回傳會話最近產生的菜單
func (a *Assistant) MealPlanHistory(ctx context.Context, session string, limit int) ([]state.MealPlan, error) {
	return a.store.MealPlans(ctx, session, limit)
}

// PersonalizedDay 個人化菜單的一天
type PersonalizedDay struct {
	Day      int              `json:"day"`
	Label    string           `json:"label"`
	Meals    []state.MealSlot `json:"meals"`
	Calories float64          `json:"total_calories"`
}

// PersonalizedPlan 個人化菜單
type PersonalizedPlan struct {
	Days         []PersonalizedDay `json:"meal_plan"`
	ShoppingList ShoppingList      `json:"shopping_list"`
	DietaryInfo  string            `json:"dietary_info"`
}

// PersonalizedMealPlan 不重複使用食譜，依偏好評分並加入 0–2 分隨機擾動挑選；
// 食譜用完後剩下的餐別留空
func (a *Assistant) PersonalizedMealPlan(days int, dietary string, prefs Preferences) (PersonalizedPlan, error) {
	if days < 1 {
		return PersonalizedPlan{}, ErrInvalidDays
	}
	dietary = strings.ToLower(strings.TrimSpace(dietary))

	used := make(map[string]bool)
	var usedOrder []string
	out := PersonalizedPlan{
		Days:        make([]PersonalizedDay, 0, days),
		DietaryInfo: dietary,
	}
	if out.DietaryInfo == "" {
		out.DietaryInfo = "None specified"
	}

	for day := 1; day <= days; day++ {
		pd := PersonalizedDay{Day: day, Label: fmt.Sprintf("Day %d", day), Meals: []state.MealSlot{}}
		for _, meal := range MealTypes {
			available := a.kb.Filter(func(r kb.Recipe) bool {
				if used[r.Name] {
					return false
				}
				if dietary != "" && !r.HasDiet(dietary) {
					return false
				}
				if meal == "breakfast" && common.ContainsAny(strings.ToLower(r.Name), breakfastExcluded) {
					return false
				}
				return true
			})
			if len(available) == 0 {
				continue
			}
			r := a.selectBest(available, prefs)
			used[r.Name] = true
			usedOrder = append(usedOrder, r.Name)
			pd.Meals = append(pd.Meals, state.MealSlot{
				MealType:   meal,
				Recipe:     r.Name,
				PrepTime:   r.PrepTime,
				Difficulty: string(r.Difficulty),
			})
			if r.Nutrition != nil {
				pd.Calories += r.Nutrition.Calories
			}
		}
		out.Days = append(out.Days, pd)
	}

	out.ShoppingList = a.ShoppingList(usedOrder)
	return out, nil
}

// selectBest 依偏好評分，平手時取順序在前者
func (a *Assistant) selectBest(recipes []kb.Recipe, prefs Preferences) kb.Recipe {
	best, bestScore := recipes[0], -1
	for _, r := range recipes {
		score := 0
		if prefs.Cuisine != "" && r.Cuisine == prefs.Cuisine {
			score += 3
		}
		if prefs.Difficulty != "" && string(r.Difficulty) == prefs.Difficulty {
			score += 2
		}
		if prefs.MaxTime > 0 && kb.PrepMinutes(r) <= prefs.MaxTime {
			score += 2
		}
		score += a.intN(3)
		if score > bestScore {
			best, bestScore = r, score
		}
	}
	return best
}
