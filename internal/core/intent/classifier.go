package intent

import (
	"strings"
)

// rule 一條關鍵字規則，任一關鍵字為訊息子字串即命中
type rule struct {
	intent   Intent
	keywords []string
}

// Classifier 依固定優先順序逐條比對，第一條命中者勝出
type Classifier struct {
	rules []rule
}

// NewClassifier 建立分類器；飲食與料理類型的字面值由知識庫提供
func NewClassifier(dietaryOptions, cuisineTypes []string) *Classifier {
	return &Classifier{
		rules: []rule{
			{MealPlan, []string{"meal plan", "meal planning", "weekly meals", "daily meals"}},
			{Nutrition, []string{"nutrition", "calories", "protein", "carbs", "fat"}},
			{Cost, []string{"cost", "price", "how much", "budget"}},
			{ShoppingList, []string{"shopping list", "grocery list", "buy ingredients"}},
			{Rating, []string{"rate", "rating", "review", "score"}},
			{Favorites, []string{"favorite", "favourite", "save", "bookmark"}},
			{Search, []string{"search", "find", "looking for", "filter"}},
			{Timer, []string{"timer", "set timer", "alarm", "reminder"}},
			{Recipe, []string{"recipe", "cook", "make", "how to"}},
			{Substitution, []string{"substitute", "replace", "instead of", "alternative"}},
			{Tips, []string{"tip", "help", "advice", "how do"}},
			{Dietary, lowerAll(dietaryOptions)},
			{Recommendation, []string{"recommend", "suggest", "what should", "feel like", "craving"}},
			{Seasonal, []string{"seasonal", "fresh", "available now"}},
			{Cuisine, lowerAll(cuisineTypes)},
		},
	}
}

// Classify 回傳訊息的意圖，不會失敗；沒有命中時回傳 Default
func (c *Classifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	if strings.TrimSpace(lower) == "" {
		return Default
	}
	for _, r := range c.rules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.intent
			}
		}
	}
	return Default
}

// Keywords 回傳意圖的觸發關鍵字
func (c *Classifier) Keywords(i Intent) []string {
	for _, r := range c.rules {
		if r.intent == i {
			return append([]string(nil), r.keywords...)
		}
	}
	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
