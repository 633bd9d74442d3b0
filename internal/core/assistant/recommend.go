package assistant

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/pkg/common"
)

// Preferences 從訊息或請求取得的使用者偏好
type Preferences struct {
	Dietary    []string `json:"dietary,omitempty" binding:"dive,dietary"`
	Cuisine    string   `json:"cuisine,omitempty" binding:"omitempty,cuisine"`
	Difficulty string   `json:"difficulty,omitempty" binding:"omitempty,difficulty"`
	MaxTime    int      `json:"max_time,omitempty" binding:"omitempty,min=1"`
}

type timeRule struct {
	pattern *regexp.Regexp
	minutes func(m []string) int
}

// timeRules 依序比對，第一個命中者決定可用時間
var timeRules = []timeRule{
	{regexp.MustCompile(`(\d+)\s*minutes?`), func(m []string) int { n, _ := strconv.Atoi(m[1]); return n }},
	{regexp.MustCompile(`(\d+)\s*hours?`), func(m []string) int { n, _ := strconv.Atoi(m[1]); return n * 60 }},
	{regexp.MustCompile(`quick`), func([]string) int { return 20 }},
	{regexp.MustCompile(`fast`), func([]string) int { return 20 }},
	{regexp.MustCompile(`slow`), func([]string) int { return 60 }},
}

// ExtractPreferences 從小寫訊息中解析偏好：飲食取全部命中、料理取最後命中
func (a *Assistant) ExtractPreferences(lower string) Preferences {
	var p Preferences
	for _, diet := range a.kb.DietaryOptions() {
		if strings.Contains(lower, diet) {
			p.Dietary = append(p.Dietary, diet)
		}
	}
	for _, cuisine := range a.kb.CuisineTypes() {
		if strings.Contains(lower, cuisine) {
			p.Cuisine = cuisine
		}
	}
	for _, rule := range timeRules {
		if m := rule.pattern.FindStringSubmatch(lower); m != nil {
			p.MaxTime = rule.minutes(m)
			break
		}
	}
	switch {
	case strings.Contains(lower, "easy"):
		p.Difficulty = string(kb.Easy)
	case strings.Contains(lower, "medium"):
		p.Difficulty = string(kb.Medium)
	case strings.Contains(lower, "hard"), strings.Contains(lower, "difficult"):
		p.Difficulty = string(kb.Hard)
	}
	return p
}

type scored struct {
	recipe kb.Recipe
	score  int
}

// Recommend 依偏好與當季食材評分，回傳分數大於零的食譜（分數高者在前，同分維持原順序）
func (a *Assistant) Recommend(p Preferences) []kb.Recipe {
	season := kb.SeasonFor(a.now())

	var ranked []scored
	for _, r := range a.kb.Recipes() {
		score := 0
		for _, diet := range p.Dietary {
			if r.HasDiet(diet) {
				score += 3
			}
		}
		if p.Cuisine != "" && r.Cuisine == p.Cuisine {
			score += 2
		}
		score += a.kb.SeasonalCount(r, season)
		if p.Difficulty != "" && string(r.Difficulty) == p.Difficulty {
			score++
		}
		if p.MaxTime > 0 && kb.PrepMinutes(r) <= p.MaxTime {
			score++
		}
		if score > 0 {
			ranked = append(ranked, scored{recipe: r, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	out := make([]kb.Recipe, len(ranked))
	for i, s := range ranked {
		out[i] = s.recipe
	}
	return out
}

func (a *Assistant) recommendationReply(lower string) string {
	ranked := a.Recommend(a.ExtractPreferences(lower))
	if len(ranked) == 0 {
		return "I'd be happy to recommend something! Could you tell me more about your preferences? For example:\n" +
			"- Any dietary restrictions?\n- Preferred cuisine type?\n- How much time do you have?\n- Difficulty level?"
	}
	best := ranked[0]
	cuisine := "International"
	if best.Cuisine != "" {
		cuisine = best.Cuisine
	}
	return fmt.Sprintf("🍽️ **AI Recommendation:** %s\n\n"+
		"**Why you'll love it:** This recipe matches your preferences perfectly!\n\n"+
		"**Ingredients:** %s\n**Instructions:** %s\n**Prep time:** %s\n**Difficulty:** %s\n"+
		"**Cuisine:** %s\n**Calories:** %s\n\n"+
		"Would you like more suggestions or details about any aspect?",
		best.Name, strings.Join(best.Ingredients, ", "), best.Instructions, best.PrepTime, best.Difficulty,
		cuisine, caloriesText(best))
}

func (a *Assistant) seasonalReply() string {
	season := kb.SeasonFor(a.now())
	matches := a.kb.Filter(func(r kb.Recipe) bool {
		return a.kb.SeasonalCount(r, season) > 0
	})
	r, ok := a.pick(matches)
	if !ok {
		produce := a.kb.Seasonal(season)
		if len(produce) > 5 {
			produce = produce[:5]
		}
		return fmt.Sprintf("It's currently %s, and I'd recommend using ingredients like %s. "+
			"Would you like me to suggest recipes using any of these seasonal ingredients?",
			season, strings.Join(produce, ", "))
	}
	return fmt.Sprintf("🌱 **Seasonal Special for %s:** %s\n\n"+
		"Perfect for this time of year! Using fresh, seasonal ingredients.\n\n"+
		"**Ingredients:** %s\n**Instructions:** %s\n**Prep time:** %s\n**Difficulty:** %s",
		common.Title(string(season)), r.Name, strings.Join(r.Ingredients, ", "), r.Instructions, r.PrepTime, r.Difficulty)
}

func (a *Assistant) cuisineReply(lower string) string {
	cuisine, ok := firstContained(lower, a.kb.CuisineTypes())
	if !ok {
		return "Which cuisine type are you interested in? I can suggest recipes from Italian, Mexican, Asian, Indian, Mediterranean, American, French, or Thai cuisine!"
	}
	r, ok := a.pick(a.kb.Filter(func(r kb.Recipe) bool { return r.Cuisine == cuisine }))
	if !ok {
		return fmt.Sprintf("I don't have any %s recipes at the moment, but I can suggest similar alternatives. "+
			"Would you like me to recommend something else?", cuisine)
	}
	name := common.Title(cuisine)
	return fmt.Sprintf("🍴 **%s Cuisine:** %s\n\nAuthentic flavors from %s!\n\n"+
		"**Ingredients:** %s\n**Instructions:** %s\n**Prep time:** %s\n**Difficulty:** %s\n**Calories:** %s",
		name, r.Name, name, strings.Join(r.Ingredients, ", "), r.Instructions, r.PrepTime, r.Difficulty, caloriesText(r))
}

func caloriesText(r kb.Recipe) string {
	if r.Nutrition == nil {
		return "N/A"
	}
	return strconv.FormatFloat(r.Nutrition.Calories, 'f', -1, 64)
}
