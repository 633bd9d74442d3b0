package assistant

import (
	"strings"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/pkg/common"
)

// Currency 價格幣別
const Currency = "USD"

// IngredientNutrition 單一食材對應到的營養資料
type IngredientNutrition struct {
	Ingredient string           `json:"ingredient"`
	Nutrition  kb.NutritionFact `json:"nutrition"`
}

// NutritionReport 食譜營養計算結果
type NutritionReport struct {
	Recipe      string                `json:"recipe"`
	Total       kb.Nutrition          `json:"total"`
	PerServing  kb.Nutrition          `json:"per_serving"`
	Servings    int                   `json:"servings"`
	Ingredients []IngredientNutrition `json:"ingredients"`
}

// IngredientCostLine 單一食材的估價
type IngredientCostLine struct {
	Ingredient    string  `json:"ingredient"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// CostReport 食譜價格計算結果
type CostReport struct {
	Recipe         string               `json:"recipe"`
	TotalCost      float64              `json:"total_cost"`
	CostPerServing float64              `json:"cost_per_serving"`
	Servings       int                  `json:"servings"`
	Currency       string               `json:"currency"`
	Ingredients    []IngredientCostLine `json:"ingredients"`
}

// ShoppingItem 購物清單項目
type ShoppingItem struct {
	Ingredient string   `json:"ingredient"`
	Quantity   string   `json:"quantity"`
	Unit       string   `json:"unit"`
	Recipes    []string `json:"recipes"`
}

// ShoppingList 由多個食譜合併的購物清單
type ShoppingList struct {
	Items          []ShoppingItem `json:"items"`
	TotalRecipes   int            `json:"total_recipes"`
	EstimatedCost  float64        `json:"estimated_cost"`
	Currency       string         `json:"currency"`
	UnknownRecipes []string       `json:"unknown_recipes,omitempty"`
}

// Nutrition 加總食材營養並換算每份數值（四捨五入到小數一位）
func (a *Assistant) Nutrition(name string) (NutritionReport, error) {
	r, err := a.lookup(name)
	if err != nil {
		return NutritionReport{}, err
	}

	report := NutritionReport{
		Recipe:      r.Name,
		Servings:    a.servingSize,
		Ingredients: []IngredientNutrition{},
	}
	for _, ing := range r.Ingredients {
		fact, ok := a.kb.NutritionFor(ing)
		if !ok {
			continue
		}
		report.Total = report.Total.Add(fact.Nutrition)
		report.Ingredients = append(report.Ingredients, IngredientNutrition{Ingredient: ing, Nutrition: fact})
	}

	servings := float64(a.servingSize)
	report.PerServing = kb.Nutrition{
		Calories: common.Round(report.Total.Calories/servings, 1),
		Protein:  common.Round(report.Total.Protein/servings, 1),
		Carbs:    common.Round(report.Total.Carbs/servings, 1),
		Fat:      common.Round(report.Total.Fat/servings, 1),
	}
	return report, nil
}

// Cost 加總食材價格並換算每份價格（四捨五入到小數兩位）
func (a *Assistant) Cost(name string) (CostReport, error) {
	r, err := a.lookup(name)
	if err != nil {
		return CostReport{}, err
	}

	report := CostReport{
		Recipe:      r.Name,
		Servings:    a.servingSize,
		Currency:    Currency,
		Ingredients: []IngredientCostLine{},
	}
	total := 0.0
	for _, ing := range r.Ingredients {
		c, ok := a.kb.CostFor(ing)
		if !ok {
			continue
		}
		total += c.Price
		report.Ingredients = append(report.Ingredients, IngredientCostLine{Ingredient: ing, EstimatedCost: c.Price})
	}
	report.TotalCost = common.Round(total, 2)
	report.CostPerServing = common.Round(total/float64(a.servingSize), 2)
	return report, nil
}

// ShoppingList 合併多個食譜的食材；未知食譜略過並列在 UnknownRecipes
func (a *Assistant) ShoppingList(names []string) ShoppingList {
	list := ShoppingList{
		Items:        []ShoppingItem{},
		TotalRecipes: len(names),
		Currency:     Currency,
	}
	index := make(map[string]int)
	total := 0.0

	for _, name := range names {
		r, ok := a.kb.Recipe(name)
		if !ok {
			list.UnknownRecipes = append(list.UnknownRecipes, name)
			continue
		}
		for _, ing := range r.Ingredients {
			clean := strings.TrimSpace(strings.ReplaceAll(strings.ToLower(ing), ",", ""))
			if i, seen := index[clean]; seen {
				list.Items[i].Recipes = append(list.Items[i].Recipes, r.Name)
			} else {
				index[clean] = len(list.Items)
				list.Items = append(list.Items, ShoppingItem{
					Ingredient: clean,
					Quantity:   "1",
					Unit:       "item",
					Recipes:    []string{r.Name},
				})
			}
			if c, ok := a.kb.CostFor(clean); ok {
				total += c.Price
			}
		}
	}

	list.EstimatedCost = common.Round(total, 2)
	return list
}
