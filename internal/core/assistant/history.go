package assistant

import (
	"context"
	"fmt"
	"time"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
)

const recentCookedLimit = 10

// TrackResult 記錄下廚的結果
type TrackResult struct {
	Recipe             string `json:"recipe"`
	Message            string `json:"message"`
	TotalRecipesCooked int    `json:"total_recipes_cooked"`
}

// CookingStats 下廚統計
type CookingStats struct {
	TotalRecipesCooked int    `json:"total_recipes_cooked"`
	FavoriteCuisine    string `json:"favorite_cuisine"`
	MostCookedRecipe   string `json:"most_cooked_recipe"`
	CookingStreak      int    `json:"cooking_streak"`
	TotalCookingTime   string `json:"total_cooking_time"`
}

// CookingStatsReport 統計與最近的下廚紀錄
type CookingStatsReport struct {
	Stats         CookingStats         `json:"stats"`
	RecentRecipes []state.CookedRecipe `json:"recent_recipes"`
}

// TrackCooked 記錄會話做過某道食譜
func (a *Assistant) TrackCooked(ctx context.Context, session, name string) (TrackResult, error) {
	r, err := a.lookup(name)
	if err != nil {
		return TrackResult{}, err
	}
	if err := a.store.RecordCooked(ctx, session, state.CookedRecipe{Recipe: r.Name, CookedAt: a.now()}); err != nil {
		return TrackResult{}, fmt.Errorf("record cooked recipe: %w", err)
	}
	history, err := a.store.CookedHistory(ctx, session)
	if err != nil {
		return TrackResult{}, fmt.Errorf("load cooked history: %w", err)
	}
	return TrackResult{Recipe: r.Name, Message: "Tracked " + r.Name, TotalRecipesCooked: len(history)}, nil
}

// CookingStats 由下廚紀錄計算統計
func (a *Assistant) CookingStats(ctx context.Context, session string) (CookingStatsReport, error) {
	history, err := a.store.CookedHistory(ctx, session)
	if err != nil {
		return CookingStatsReport{}, fmt.Errorf("load cooked history: %w", err)
	}

	recipeCounts := map[string]int{}
	cuisineCounts := map[string]int{}
	var recipeOrder, cuisineOrder []string
	minutes := 0
	for _, h := range history {
		if recipeCounts[h.Recipe] == 0 {
			recipeOrder = append(recipeOrder, h.Recipe)
		}
		recipeCounts[h.Recipe]++
		if r, ok := a.kb.Recipe(h.Recipe); ok {
			minutes += kb.PrepMinutes(r)
			if r.Cuisine != "" {
				if cuisineCounts[r.Cuisine] == 0 {
					cuisineOrder = append(cuisineOrder, r.Cuisine)
				}
				cuisineCounts[r.Cuisine]++
			}
		}
	}

	recent := history
	if len(recent) > recentCookedLimit {
		recent = recent[len(recent)-recentCookedLimit:]
	}
	return CookingStatsReport{
		Stats: CookingStats{
			TotalRecipesCooked: len(history),
			FavoriteCuisine:    mostCounted(cuisineOrder, cuisineCounts),
			MostCookedRecipe:   mostCounted(recipeOrder, recipeCounts),
			CookingStreak:      cookingStreak(history, a.now()),
			TotalCookingTime:   fmt.Sprintf("%d hours %d minutes", minutes/60, minutes%60),
		},
		RecentRecipes: recent,
	}, nil
}

// mostCounted 回傳次數最多者，同數時取先出現的；沒有資料時回傳 "None"
func mostCounted(order []string, counts map[string]int) string {
	best, n := "None", 0
	for _, k := range order {
		if counts[k] > n {
			best, n = k, counts[k]
		}
	}
	return best
}

// cookingStreak 連續下廚天數，最後一天需為今天或昨天
func cookingStreak(history []state.CookedRecipe, now time.Time) int {
	days := map[string]bool{}
	for _, h := range history {
		days[h.CookedAt.In(now.Location()).Format("2006-01-02")] = true
	}
	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
