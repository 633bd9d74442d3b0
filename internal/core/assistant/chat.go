package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/pkg/common"
)

// DefaultReplies 沒有命中任何意圖時的回覆
var DefaultReplies = []string{
	"I'm here to help with recipes, meal planning, nutrition info, shopping lists, and cooking tips! What would you like to know?",
	"I can suggest recipes, create meal plans, calculate nutrition, generate shopping lists, and share cooking tips. What can I help you with today?",
	"Whether you need recipe ideas, meal planning, nutritional information, or cooking advice, I'm here to help! What's on your mind?",
}

// SampleShoppingRecipes 對話中產生購物清單時使用的食譜
var SampleShoppingRecipes = []string{"Spaghetti Carbonara", "Chicken Stir Fry", "Greek Salad"}

var (
	timerPattern  = regexp.MustCompile(`(\d+)\s*(minutes?|hours?)`)
	numberPattern = regexp.MustCompile(`\d+`)
)

// planDays 依關鍵字判斷菜單天數
var planDays = []struct {
	keywords []string
	days     int
}{
	{[]string{"week"}, 7},
	{[]string{"3 day", "three day"}, 3},
	{[]string{"5 day", "five day"}, 5},
	{[]string{"10 day", "ten day"}, 10},
}

func (a *Assistant) defaultReply() string {
	return a.pickString(DefaultReplies)
}

func (a *Assistant) recipeReply(lower string) string {
	matches := a.kb.Filter(func(r kb.Recipe) bool {
		return common.ContainsAny(lower, r.Ingredients)
	})
	if r, ok := a.pick(matches); ok {
		return fmt.Sprintf("Here's a great recipe for %s!\n\n%s", r.Name, recipeBody(r))
	}
	r, ok := a.pick(a.kb.Recipes())
	if !ok {
		return a.defaultReply()
	}
	return fmt.Sprintf("How about trying %s?\n\n%s", r.Name, recipeBody(r))
}

func recipeBody(r kb.Recipe) string {
	return fmt.Sprintf("Ingredients: %s\n\nInstructions: %s\n\nPrep time: %s\nDifficulty: %s",
		strings.Join(r.Ingredients, ", "), r.Instructions, r.PrepTime, r.Difficulty)
}

func (a *Assistant) substitutionReply(lower string) string {
	for _, s := range a.kb.SubstitutionTable() {
		if strings.Contains(lower, s.Ingredient) {
			return fmt.Sprintf("Great substitutes for %s:\n%s", s.Ingredient, bullets(s.Options))
		}
	}
	return "I can help with substitutions! What ingredient would you like to replace?"
}

func (a *Assistant) tipsReply(lower string) string {
	for _, c := range a.kb.TipCategories() {
		if strings.Contains(lower, c.Name) {
			tips := c.Tips
			if len(tips) > 3 {
				tips = tips[:3]
			}
			return fmt.Sprintf("Here are some %s cooking tips:\n%s", c.Name, bullets(tips))
		}
	}
	return "Here's a helpful cooking tip: " + a.pickString(a.kb.Tips("general"))
}

func (a *Assistant) dietaryReply(lower string) string {
	diet, ok := firstContained(lower, a.kb.DietaryOptions())
	if !ok {
		return "I can help with various dietary restrictions including vegetarian, vegan, gluten-free, dairy-free, keto, and paleo options!"
	}
	r, ok := a.pick(a.kb.WithDiet(diet))
	if !ok {
		return fmt.Sprintf("I don't have specific %s recipes right now, but I can help you modify recipes to be %s!", diet, diet)
	}
	return fmt.Sprintf("Here's a %s recipe for %s!\n\nIngredients: %s\n\nInstructions: %s",
		diet, r.Name, strings.Join(r.Ingredients, ", "), r.Instructions)
}

// extractPlanDays 從訊息判斷天數，預設 7 天
func extractPlanDays(lower string) int {
	for _, p := range planDays {
		if common.ContainsAny(lower, p.keywords) {
			return p.days
		}
	}
	return 7
}

func (a *Assistant) mealPlanReply(ctx context.Context, session, lower string) (string, error) {
	days := extractPlanDays(lower)
	diet, _ := firstContained(lower, a.kb.DietaryOptions())

	plan, err := a.MealPlan(ctx, session, days, diet)
	if errors.Is(err, ErrNoRecipes) {
		return fmt.Sprintf("I don't have any %s recipes to build a meal plan with yet. Try another dietary preference!", diet), nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's your %d-day meal plan", days)
	if diet != "" {
		fmt.Fprintf(&b, " (%s)", diet)
	}
	b.WriteString(":\n\n")
	for _, day := range plan.Plan {
		fmt.Fprintf(&b, "**%s**\n", day.Label)
		for _, meal := range day.Meals {
			fmt.Fprintf(&b, "  • %s: %s (%s)\n", common.Capitalize(meal.MealType), meal.Recipe, meal.PrepTime)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (a *Assistant) nutritionReply(lower string) string {
	if r, ok := a.kb.RecipeIn(lower); ok {
		if n, err := a.Nutrition(r.Name); err == nil {
			return fmt.Sprintf("Nutritional information for %s (per serving):\n"+
				"• Calories: %.1f kcal\n"+
				"• Protein: %.1fg\n"+
				"• Carbohydrates: %.1fg\n"+
				"• Fat: %.1fg\n"+
				"• Servings: %d",
				r.Name, n.PerServing.Calories, n.PerServing.Protein, n.PerServing.Carbs, n.PerServing.Fat, n.Servings)
		}
	}
	return "I can provide nutritional information for any recipe! Just ask 'What's the nutrition for [recipe name]?'"
}

func (a *Assistant) costReply(lower string) string {
	if r, ok := a.kb.RecipeIn(lower); ok {
		if c, err := a.Cost(r.Name); err == nil {
			return fmt.Sprintf("Cost breakdown for %s:\n"+
				"• Total estimated cost: $%.2f\n"+
				"• Cost per serving: $%.2f\n"+
				"• Servings: %d\n"+
				"*Prices are estimates and may vary by location*",
				r.Name, c.TotalCost, c.CostPerServing, c.Servings)
		}
	}
	return "I can calculate the cost of any recipe! Just ask 'How much does [recipe name] cost?'"
}

func (a *Assistant) shoppingListReply() string {
	list := a.ShoppingList(SampleShoppingRecipes)

	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %d recipes:\n\n", list.TotalRecipes)
	for _, item := range list.Items {
		fmt.Fprintf(&b, "• %s\n", common.Capitalize(item.Ingredient))
	}
	fmt.Fprintf(&b, "\nEstimated total cost: $%.2f\n", list.EstimatedCost)
	b.WriteString("*Quantities may vary based on recipe requirements*")
	return b.String()
}

// ratingReply 訊息同時包含食譜名稱與分數時直接記錄評分
func (a *Assistant) ratingReply(ctx context.Context, session, lower string) (string, error) {
	const help = "You can rate any recipe from 1-5 stars! Just say 'Rate [recipe name] [1-5] stars' and I'll record your rating."

	r, ok := a.kb.RecipeIn(lower)
	if !ok {
		return help, nil
	}
	num := numberPattern.FindString(lower)
	if num == "" {
		return help, nil
	}
	score, err := strconv.Atoi(num)
	if err != nil {
		return help, nil
	}

	result, err := a.RateRecipe(ctx, session, r.Name, score, "")
	if errors.Is(err, ErrInvalidRating) {
		return "Ratings must be between 1 and 5 stars. " + help, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("⭐ Thanks! You rated %s %d/5. Average rating: %.1f/5 from %d rating(s).",
		result.Recipe, result.Rating, result.AverageRating, result.TotalRatings), nil
}

func (a *Assistant) favoritesReply(ctx context.Context, session, lower string) (string, error) {
	if r, ok := a.kb.RecipeIn(lower); ok {
		result, err := a.AddFavorite(ctx, session, r.Name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("✅ %s has been added to your favorites! You now have %d favorite recipes.",
			r.Name, result.TotalFavorites), nil
	}

	favorites, err := a.Favorites(ctx, session)
	if err != nil {
		return "", err
	}
	if len(favorites) == 0 {
		return "You don't have any favorite recipes yet! Say 'Add [recipe name] to favorites' to get started.", nil
	}
	return "Your favorite recipes:\n" + bullets(favorites), nil
}

func (a *Assistant) searchReply(ctx context.Context, session, lower string) (string, error) {
	query := lower
	for _, w := range []string{"search", "find", "looking for"} {
		query = strings.ReplaceAll(query, w, "")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return "What would you like me to search for? You can search by recipe name, ingredient, or cuisine type.", nil
	}

	var filters Filters
	for _, diet := range a.kb.DietaryOptions() {
		if strings.Contains(lower, diet) {
			filters.Dietary = diet
		}
	}
	switch {
	case strings.Contains(lower, "easy"):
		filters.Difficulty = string(kb.Easy)
	case strings.Contains(lower, "medium"):
		filters.Difficulty = string(kb.Medium)
	}

	results, err := a.Search(ctx, session, query, filters)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return fmt.Sprintf("No recipes found matching '%s'. Try different keywords!", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d recipes matching '%s':\n\n", len(results), query)
	for i, r := range results {
		if i == 5 {
			break
		}
		rating := ""
		if r.AverageRating != nil {
			rating = fmt.Sprintf(" (⭐ %.1f/5)", *r.AverageRating)
		}
		fmt.Fprintf(&b, "• %s%s\n  %s • %s\n", r.Name, rating, r.PrepTime, r.Difficulty)
	}
	return b.String(), nil
}

func timerReply(lower string) string {
	const prompt = "I can set a cooking timer for you! Just say 'Set timer for [number] minutes/hours'."
	m := timerPattern.FindStringSubmatch(lower)
	if m == nil {
		return prompt
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return prompt
	}
	unit := "minute"
	if strings.HasPrefix(m[2], "hour") {
		unit = "hour"
	}
	if amount > 1 {
		unit += "s"
	}
	return fmt.Sprintf("⏰ Timer set for %d %s! I'll remind you when it's time to check your cooking.\n\n"+
		"*Note: This is a simulated timer. In a real app, you'd get an actual notification.*", amount, unit)
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
