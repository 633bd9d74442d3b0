package intent

import (
	"fmt"
	"strings"
)

// Intent 使用者訊息的意圖分類
type Intent int

const (
	Default Intent = iota
	MealPlan
	Nutrition
	Cost
	ShoppingList
	Rating
	Favorites
	Search
	Timer
	Recipe
	Substitution
	Tips
	Dietary
	Recommendation
	Seasonal
	Cuisine
)

var intentNames = map[Intent]string{
	Default:        "default",
	MealPlan:       "meal_plan",
	Nutrition:      "nutrition",
	Cost:           "cost",
	ShoppingList:   "shopping_list",
	Rating:         "rating",
	Favorites:      "favorites",
	Search:         "search",
	Timer:          "timer",
	Recipe:         "recipe",
	Substitution:   "substitution",
	Tips:           "tips",
	Dietary:        "dietary",
	Recommendation: "recommendation",
	Seasonal:       "seasonal",
	Cuisine:        "cuisine",
}

// String 回傳意圖名稱
func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// MarshalText 以名稱序列化
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Parse 將名稱轉回意圖
func Parse(name string) (Intent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range intentNames {
		if n == name {
			return i, nil
		}
	}
	return Default, fmt.Errorf("unknown intent %q", name)
}

// All 依優先順序列出所有意圖，Default 在最後
func All() []Intent {
	return []Intent{
		MealPlan, Nutrition, Cost, ShoppingList, Rating, Favorites, Search, Timer,
		Recipe, Substitution, Tips, Dietary, Recommendation, Seasonal, Cuisine, Default,
	}
}
