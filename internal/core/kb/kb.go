// Package kb 靜態食譜知識庫：食譜、替代食材、烹飪技巧、營養、價格與當季食材。
// 建立後不再寫入，可在多個 goroutine 間共用而不需加鎖。
package kb

import (
	"strconv"
	"strings"
	"time"
)

// NoSubstitution 找不到替代食材時回傳的說明
const NoSubstitution = "No specific substitutions found for this ingredient."

// KnowledgeBase 唯讀的食譜知識庫
type KnowledgeBase struct {
	recipes       []Recipe
	byName        map[string]int
	substitutions []Substitution
	tips          []TipCategory
	nutrition     []NutritionFact
	costs         []IngredientCost
	seasonal      map[Season][]string
	dietary       []string
	cuisines      []string
}

// New 以內建資料表建立知識庫
func New() *KnowledgeBase {
	return NewWithRecipes(recipeTable)
}

// NewWithRecipes 以自訂食譜建立知識庫，其餘資料表沿用內建值
func NewWithRecipes(recipes []Recipe) *KnowledgeBase {
	k := &KnowledgeBase{
		recipes:       make([]Recipe, 0, len(recipes)),
		byName:        make(map[string]int, len(recipes)),
		substitutions: substitutionTable,
		tips:          tipTable,
		nutrition:     nutritionTable,
		costs:         costTable,
		seasonal:      seasonalTable,
		dietary:       dietaryOptions,
		cuisines:      cuisineTypes,
	}
	for _, r := range recipes {
		k.byName[strings.ToLower(r.Name)] = len(k.recipes)
		k.recipes = append(k.recipes, r.clone())
	}
	return k
}

// Recipes 回傳所有食譜（依資料表順序）
func (k *KnowledgeBase) Recipes() []Recipe {
	out := make([]Recipe, len(k.recipes))
	for i, r := range k.recipes {
		out[i] = r.clone()
	}
	return out
}

// Len 食譜數量
func (k *KnowledgeBase) Len() int {
	return len(k.recipes)
}

// Recipe 依名稱（不分大小寫）精確查找
func (k *KnowledgeBase) Recipe(name string) (Recipe, bool) {
	i, ok := k.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Recipe{}, false
	}
	return k.recipes[i].clone(), true
}

// RecipeIn 回傳第一個名稱出現在 text 中的食譜，text 需已轉小寫
func (k *KnowledgeBase) RecipeIn(text string) (Recipe, bool) {
	for _, r := range k.recipes {
		if strings.Contains(text, strings.ToLower(r.Name)) {
			return r.clone(), true
		}
	}
	return Recipe{}, false
}

// Filter 回傳符合條件的食譜
func (k *KnowledgeBase) Filter(keep func(Recipe) bool) []Recipe {
	out := []Recipe{}
	for _, r := range k.recipes {
		if keep(r) {
			out = append(out, r.clone())
		}
	}
	return out
}

// WithDiet 回傳帶有指定飲食標籤的食譜，diet 為空時回傳全部
func (k *KnowledgeBase) WithDiet(diet string) []Recipe {
	if diet == "" {
		return k.Recipes()
	}
	return k.Filter(func(r Recipe) bool { return r.HasDiet(diet) })
}

// SubstitutionTable 回傳替代表（依資料表順序）
func (k *KnowledgeBase) SubstitutionTable() []Substitution {
	return k.substitutions
}

// Substitutions 查找食材的替代品，雙向子字串比對
func (k *KnowledgeBase) Substitutions(ingredient string) []string {
	lower := strings.ToLower(strings.TrimSpace(ingredient))
	if lower != "" {
		for _, s := range k.substitutions {
			if strings.Contains(lower, s.Ingredient) || strings.Contains(s.Ingredient, lower) {
				return append([]string(nil), s.Options...)
			}
		}
	}
	return []string{NoSubstitution}
}

// TipCategories 回傳技巧分類（依資料表順序）
func (k *KnowledgeBase) TipCategories() []TipCategory {
	return k.tips
}

// Tips 回傳分類下的技巧，未知分類回傳 general
func (k *KnowledgeBase) Tips(category string) []string {
	for _, c := range k.tips {
		if c.Name == category {
			return append([]string(nil), c.Tips...)
		}
	}
	return append([]string(nil), k.tips[0].Tips...)
}

// NutritionFor 依資料表順序找出第一個為食材子字串的營養資料
func (k *KnowledgeBase) NutritionFor(ingredient string) (NutritionFact, bool) {
	lower := strings.ToLower(ingredient)
	for _, n := range k.nutrition {
		if strings.Contains(lower, n.Key) {
			return n, true
		}
	}
	return NutritionFact{}, false
}

// CostFor 依資料表順序找出第一個為食材子字串的價格
func (k *KnowledgeBase) CostFor(ingredient string) (IngredientCost, bool) {
	lower := strings.ToLower(ingredient)
	for _, c := range k.costs {
		if strings.Contains(lower, c.Key) {
			return c, true
		}
	}
	return IngredientCost{}, false
}

// SeasonFor 依月份判斷季節
func SeasonFor(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Fall
	default:
		return Winter
	}
}

// Seasonal 回傳當季食材
func (k *KnowledgeBase) Seasonal(season Season) []string {
	return append([]string(nil), k.seasonal[season]...)
}

// SeasonalCount 計算食譜中含有當季食材的食材數
func (k *KnowledgeBase) SeasonalCount(r Recipe, season Season) int {
	produce := k.seasonal[season]
	count := 0
	for _, ing := range r.Ingredients {
		lower := strings.ToLower(ing)
		for _, p := range produce {
			if strings.Contains(lower, p) {
				count++
				break
			}
		}
	}
	return count
}

// DietaryOptions 支援的飲食標籤（依優先順序）
func (k *KnowledgeBase) DietaryOptions() []string {
	return append([]string(nil), k.dietary...)
}

// CuisineTypes 支援的料理類型（依優先順序）
func (k *KnowledgeBase) CuisineTypes() []string {
	return append([]string(nil), k.cuisines...)
}

// PrepMinutes 解析準備時間字串開頭的整數，無法解析時回傳 0
func PrepMinutes(r Recipe) int {
	fields := strings.Fields(r.PrepTime)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
