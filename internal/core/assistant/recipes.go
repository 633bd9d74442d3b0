package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"
)

const (
	maxSuggestions = 5
	maxVariations  = 10
	maxLeftovers   = 10
)

// Suggestions 依飲食標籤與關鍵字（食材或名稱）篩選，最多回傳 5 筆
func (a *Assistant) Suggestions(query, dietary string) []kb.Recipe {
	query = strings.ToLower(strings.TrimSpace(query))
	dietary = strings.ToLower(strings.TrimSpace(dietary))

	out := a.kb.Filter(func(r kb.Recipe) bool {
		if dietary != "" && !r.HasDiet(dietary) {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(r.Name), query) || ingredientContains(r, query)
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// Substitutions 回傳食材替代建議
func (a *Assistant) Substitutions(ingredient string) []string {
	return a.kb.Substitutions(ingredient)
}

// Tips 回傳分類下的烹飪技巧，未知分類回傳 general
func (a *Assistant) Tips(category string) []string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "general"
	}
	return a.kb.Tips(category)
}

// Filters 搜尋條件，零值代表不限制
type Filters struct {
	Dietary     string `json:"dietary" binding:"omitempty,dietary"`
	Difficulty  string `json:"difficulty" binding:"omitempty,difficulty"`
	MaxPrepTime *int   `json:"max_prep_time,omitempty" binding:"omitempty,gte=0"`
}

// SearchResult 搜尋結果，附帶該會話的評分資訊
type SearchResult struct {
	kb.Recipe
	AverageRating *float64 `json:"average_rating,omitempty"`
	TotalRatings  int      `json:"total_ratings,omitempty"`
}

// Search 以名稱、食材或分類比對關鍵字，再套用篩選條件
func (a *Assistant) Search(ctx context.Context, session, query string, f Filters) ([]SearchResult, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := a.kb.Filter(func(r kb.Recipe) bool {
		if !strings.Contains(strings.ToLower(r.Name), query) &&
			!ingredientContains(r, query) &&
			!strings.Contains(strings.ToLower(r.Category), query) {
			return false
		}
		if f.Dietary != "" && !r.HasDiet(f.Dietary) {
			return false
		}
		if f.Difficulty != "" && string(r.Difficulty) != f.Difficulty {
			return false
		}
		if f.MaxPrepTime != nil && kb.PrepMinutes(r) > *f.MaxPrepTime {
			return false
		}
		return true
	})

	results := make([]SearchResult, 0, len(matches))
	for _, r := range matches {
		ratings, err := a.store.Ratings(ctx, session, r.Name)
		if err != nil {
			return nil, fmt.Errorf("load ratings for %s: %w", r.Name, err)
		}
		res := SearchResult{Recipe: r}
		if len(ratings) > 0 {
			avg := common.Round(state.Average(ratings), 1)
			res.AverageRating = &avg
			res.TotalRatings = len(ratings)
		}
		results = append(results, res)
	}
	return results, nil
}

// ShareContent 可分享的食譜內容
type ShareContent struct {
	Recipe    kb.Recipe       `json:"recipe"`
	ShareURL  string          `json:"share_url"`
	ShareText string          `json:"share_text"`
	Nutrition NutritionReport `json:"nutrition"`
	Cost      CostReport      `json:"cost"`
}

// Share 組合分享連結與營養、價格資訊
func (a *Assistant) Share(name, baseURL string) (ShareContent, error) {
	r, err := a.lookup(name)
	if err != nil {
		return ShareContent{}, err
	}
	nutrition, err := a.Nutrition(r.Name)
	if err != nil {
		return ShareContent{}, err
	}
	cost, err := a.Cost(r.Name)
	if err != nil {
		return ShareContent{}, err
	}
	return ShareContent{
		Recipe:    r,
		ShareURL:  strings.TrimRight(baseURL, "/") + "/recipe/" + common.Slugify(r.Name),
		ShareText: fmt.Sprintf("Check out this amazing %s recipe!", r.Name),
		Nutrition: nutrition,
		Cost:      cost,
	}, nil
}

// ScaledRecipe 調整份量後的食譜
type ScaledRecipe struct {
	OriginalRecipe   string    `json:"original_recipe"`
	Recipe           kb.Recipe `json:"scaled_recipe"`
	Servings         int       `json:"servings"`
	OriginalServings int       `json:"original_servings"`
	ScaleFactor      float64   `json:"scale_factor"`
}

// Scale 依份數比例調整準備時間與營養數值；食材數量不做解析
func (a *Assistant) Scale(name string, servings int) (ScaledRecipe, error) {
	if servings <= 0 {
		return ScaledRecipe{}, ErrInvalidServings
	}
	r, err := a.lookup(name)
	if err != nil {
		return ScaledRecipe{}, err
	}

	factor := float64(servings) / float64(a.servingSize)
	scaled := r
	scaled.Name = fmt.Sprintf("%s (Serves %d)", r.Name, servings)
	if minutes := kb.PrepMinutes(r); minutes > 0 {
		scaled.PrepTime = fmt.Sprintf("%d minutes", int(float64(minutes)*(0.7+0.3*factor)))
	}
	if r.Nutrition != nil {
		scaled.Nutrition = &kb.Nutrition{
			Calories: float64(int(r.Nutrition.Calories * factor)),
			Protein:  common.Round(r.Nutrition.Protein*factor, 1),
			Carbs:    common.Round(r.Nutrition.Carbs*factor, 1),
			Fat:      common.Round(r.Nutrition.Fat*factor, 1),
		}
	}

	return ScaledRecipe{
		OriginalRecipe:   r.Name,
		Recipe:           scaled,
		Servings:         servings,
		OriginalServings: a.servingSize,
		ScaleFactor:      common.Round(factor, 2),
	}, nil
}

// VariationKind 變化類型
type VariationKind string

const (
	VariationAll     VariationKind = "all"
	VariationCuisine VariationKind = "cuisine"
	VariationDietary VariationKind = "dietary"
	VariationSpice   VariationKind = "spice"
)

// Swap 食材替換
type Swap struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Changes 變化內容
type Changes struct {
	Substitutions []Swap   `json:"substitutions,omitempty"`
	Remove        []string `json:"remove,omitempty"`
}

// Variation 食譜變化
type Variation struct {
	kb.Recipe
	Type       VariationKind `json:"variation_type"`
	Changes    *Changes      `json:"changes,omitempty"`
	SpiceLevel string        `json:"spice_level,omitempty"`
}

// VariationSet 變化結果
type VariationSet struct {
	OriginalRecipe  string      `json:"original_recipe"`
	Variations      []Variation `json:"variations"`
	TotalVariations int         `json:"total_variations"`
}

var cuisineVariations = []struct {
	cuisine string
	changes Changes
}{
	{"italian", Changes{Substitutions: []Swap{{"soy sauce", "balsamic vinegar"}, {"ginger", "basil"}}}},
	{"mexican", Changes{Substitutions: []Swap{{"basil", "cilantro"}, {"parmesan", "queso fresco"}}}},
	{"asian", Changes{Substitutions: []Swap{{"basil", "cilantro"}, {"olive oil", "sesame oil"}}}},
	{"indian", Changes{Substitutions: []Swap{{"basil", "curry leaves"}, {"garlic", "ginger-garlic paste"}}}},
}

var dietaryVariations = []struct {
	diet    string
	changes Changes
}{
	{"vegan", Changes{
		Substitutions: []Swap{{"eggs", "flax eggs"}, {"cheese", "nutritional yeast"}, {"milk", "plant milk"}, {"butter", "coconut oil"}},
		Remove:        []string{"chicken", "beef", "pork", "fish"},
	}},
	{"gluten-free", Changes{
		Substitutions: []Swap{{"pasta", "gluten-free pasta"}, {"flour", "almond flour"}, {"bread", "gluten-free bread"}},
	}},
	{"keto", Changes{
		Substitutions: []Swap{{"pasta", "zucchini noodles"}, {"rice", "cauliflower rice"}, {"sugar", "stevia"}},
		Remove:        []string{"bread", "pasta", "rice"},
	}},
}

var spiceLevels = []string{"mild", "medium", "hot", "extra hot"}

// Variations 產生料理風格、飲食與辣度變化，最多回傳 10 筆並附上總數
func (a *Assistant) Variations(name string, kind VariationKind) (VariationSet, error) {
	if kind == "" {
		kind = VariationAll
	}
	switch kind {
	case VariationAll, VariationCuisine, VariationDietary, VariationSpice:
	default:
		return VariationSet{}, ErrInvalidVariation
	}
	r, err := a.lookup(name)
	if err != nil {
		return VariationSet{}, err
	}

	var out []Variation
	if kind == VariationAll || kind == VariationCuisine {
		for _, cv := range cuisineVariations {
			if cv.cuisine == r.Cuisine {
				continue
			}
			v := Variation{Recipe: r, Type: VariationCuisine, Changes: &cv.changes}
			v.Name = fmt.Sprintf("%s (%s Style)", r.Name, common.Title(cv.cuisine))
			v.Cuisine = cv.cuisine
			out = append(out, v)
		}
	}
	if kind == VariationAll || kind == VariationDietary {
		for _, dv := range dietaryVariations {
			if r.HasDiet(dv.diet) {
				continue
			}
			v := Variation{Recipe: r, Type: VariationDietary, Changes: &dv.changes}
			v.Name = fmt.Sprintf("%s (%s)", r.Name, common.Title(dv.diet))
			v.Dietary = append(append([]string(nil), r.Dietary...), dv.diet)
			out = append(out, v)
		}
	}
	if kind == VariationAll || kind == VariationSpice {
		for _, level := range spiceLevels {
			v := Variation{Recipe: r, Type: VariationSpice, SpiceLevel: level}
			v.Name = fmt.Sprintf("%s (%s Spice)", r.Name, common.Title(level))
			out = append(out, v)
		}
	}

	set := VariationSet{OriginalRecipe: r.Name, TotalVariations: len(out), Variations: out}
	if len(set.Variations) > maxVariations {
		set.Variations = set.Variations[:maxVariations]
	}
	if set.Variations == nil {
		set.Variations = []Variation{}
	}
	return set, nil
}

// LeftoverMatch 剩餘食材比對結果
type LeftoverMatch struct {
	kb.Recipe
	MatchScore           int      `json:"match_score"`
	MatchedIngredients   []string `json:"matched_ingredients"`
	MissingIngredients   []string `json:"missing_ingredients"`
	CompletionPercentage float64  `json:"completion_percentage"`
}

// LeftoverSuggestions 剩餘食材建議
type LeftoverSuggestions struct {
	AvailableIngredients []string        `json:"available_ingredients"`
	SuggestedRecipes     []LeftoverMatch `json:"suggested_recipes"`
	TotalMatches         int             `json:"total_matches"`
}

// Leftovers 依可用食材比對食譜，依符合數與完成度排序，最多回傳 10 筆
func (a *Assistant) Leftovers(available []string) LeftoverSuggestions {
	var have []string
	for _, s := range available {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			have = append(have, s)
		}
	}

	var matches []LeftoverMatch
	for _, r := range a.kb.Recipes() {
		m := LeftoverMatch{Recipe: r, MatchedIngredients: []string{}, MissingIngredients: []string{}}
		for _, ing := range r.Ingredients {
			lower := strings.ToLower(ing)
			found := false
			for _, h := range have {
				if strings.Contains(lower, h) || strings.Contains(h, lower) {
					found = true
					break
				}
			}
			if found {
				m.MatchScore++
				m.MatchedIngredients = append(m.MatchedIngredients, ing)
			} else {
				m.MissingIngredients = append(m.MissingIngredients, ing)
			}
		}
		if m.MatchScore == 0 {
			continue
		}
		m.CompletionPercentage = common.Round(float64(m.MatchScore)/float64(len(r.Ingredients))*100, 1)
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		return matches[i].CompletionPercentage > matches[j].CompletionPercentage
	})

	out := LeftoverSuggestions{
		AvailableIngredients: available,
		TotalMatches:         len(matches),
		SuggestedRecipes:     matches,
	}
	if len(out.SuggestedRecipes) > maxLeftovers {
		out.SuggestedRecipes = out.SuggestedRecipes[:maxLeftovers]
	}
	if out.SuggestedRecipes == nil {
		out.SuggestedRecipes = []LeftoverMatch{}
	}
	return out
}

func ingredientContains(r kb.Recipe, query string) bool {
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), query) {
			return true
		}
	}
	return false
}
