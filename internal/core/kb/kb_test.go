package kb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeLookupIsCaseInsensitive(t *testing.T) {
	k := New()

	r, ok := k.Recipe("  greek SALAD ")
	require.True(t, ok)
	assert.Equal(t, "Greek Salad", r.Name)
	assert.Equal(t, Easy, r.Difficulty)

	_, ok = k.Recipe("Pad Thai")
	assert.False(t, ok)
}

func TestRecipesReturnsCopies(t *testing.T) {
	k := New()

	first := k.Recipes()
	first[0].Ingredients[0] = "changed"
	first[0].Name = "changed"

	again := k.Recipes()
	assert.Equal(t, "Spaghetti Carbonara", again[0].Name)
	assert.Equal(t, "spaghetti", again[0].Ingredients[0])
	assert.Equal(t, 9, k.Len())
}

func TestRecipeIn(t *testing.T) {
	k := New()

	r, ok := k.RecipeIn("what's the nutrition for chicken tikka masala?")
	require.True(t, ok)
	assert.Equal(t, "Chicken Tikka Masala", r.Name)

	_, ok = k.RecipeIn("nutrition for toast")
	assert.False(t, ok)
}

func TestSubstitutions(t *testing.T) {
	k := New()

	tests := []struct {
		name       string
		ingredient string
		first      string
	}{
		{"exact key", "eggs", "flax eggs (1 tbsp ground flax + 3 tbsp water)"},
		{"key inside ingredient", "unsalted butter", "coconut oil"},
		{"ingredient inside key", "mayo", "Greek yogurt"},
		{"case folded", "SUGAR", "honey"},
		{"unknown", "saffron", NoSubstitution},
		{"empty", "", NoSubstitution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := k.Substitutions(tt.ingredient)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.first, got[0])
		})
	}
}

func TestTipsFallBackToGeneral(t *testing.T) {
	k := New()

	assert.Equal(t, "Measure ingredients precisely - baking is chemistry.", k.Tips("baking")[0])
	assert.Equal(t, k.Tips("general"), k.Tips("grilling"))
	assert.Len(t, k.Tips("knife_skills"), 5)
}

func TestNutritionAndCostUseFirstKeyInTableOrder(t *testing.T) {
	k := New()

	n, ok := k.NutritionFor("Parmesan Cheese")
	require.True(t, ok)
	assert.Equal(t, "cheese", n.Key)
	assert.Equal(t, 402.0, n.Calories)

	// "cheese" precedes "feta cheese" in the cost table
	c, ok := k.CostFor("feta cheese")
	require.True(t, ok)
	assert.Equal(t, "cheese", c.Key)
	assert.Equal(t, 5.99, c.Price)

	c, ok = k.CostFor("jasmine rice")
	require.True(t, ok)
	assert.Equal(t, 2.99, c.Price)

	_, ok = k.NutritionFor("spaghetti")
	assert.False(t, ok)
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.January, Winter},
		{time.March, Spring},
		{time.May, Spring},
		{time.June, Summer},
		{time.August, Summer},
		{time.September, Fall},
		{time.November, Fall},
		{time.December, Winter},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonFor(time.Date(2026, tt.month, 10, 0, 0, 0, 0, time.UTC)))
		})
	}
}

func TestSeasonalCount(t *testing.T) {
	k := New()
	salad, _ := k.Recipe("Greek Salad")

	assert.Equal(t, 1, k.SeasonalCount(salad, Summer))
	assert.Equal(t, 0, k.SeasonalCount(salad, Spring))
}

func TestWithDiet(t *testing.T) {
	k := New()

	vegan := k.WithDiet("vegan")
	require.Len(t, vegan, 2)
	for _, r := range vegan {
		assert.True(t, r.HasDiet("vegan"), r.Name)
	}

	assert.Empty(t, k.WithDiet("paleo"))
	assert.Len(t, k.WithDiet(""), k.Len())
}

func TestPrepMinutes(t *testing.T) {
	assert.Equal(t, 45, PrepMinutes(Recipe{PrepTime: "45 minutes"}))
	assert.Equal(t, 0, PrepMinutes(Recipe{PrepTime: "quick"}))
	assert.Equal(t, 0, PrepMinutes(Recipe{}))
}

func TestCookingSteps(t *testing.T) {
	k := New()

	steps, ok := k.CookingSteps("SPAGHETTI carbonara")
	require.True(t, ok)
	require.Len(t, steps, 4)
	total := 0
	for i, s := range steps {
		assert.Equal(t, i+1, s.Number)
		total += s.DurationMinutes
	}
	assert.Equal(t, 25, total)
	assert.Nil(t, steps[0].Temperature)
	require.NotNil(t, steps[1].Temperature)
	assert.Equal(t, 212.0, *steps[1].Temperature)

	_, ok = k.CookingSteps("Greek Salad")
	assert.False(t, ok)
}

func TestTechniqueAndTroubleshooting(t *testing.T) {
	k := New()
	steps, ok := k.CookingSteps("Chicken Stir Fry")
	require.True(t, ok)

	guide, ok := k.Technique(steps[2])
	require.True(t, ok)
	assert.Equal(t, "sautéing", guide.Name)

	_, ok = k.Technique(steps[0])
	assert.False(t, ok)

	problems := k.Troubleshoot(steps[0])
	require.Len(t, problems, 3)
	assert.Equal(t, "meat_tough", problems[0].Problem)
	assert.Equal(t, "sauce_broken", problems[1].Problem)
	assert.Equal(t, "vegetables_mushy", problems[2].Problem)
}

func TestSkillLevel(t *testing.T) {
	assert.True(t, Expert.Valid())
	assert.False(t, SkillLevel("master").Valid())

	assert.Equal(t, 1.5, Beginner.Adjustments().TimeMultiplier)
	assert.Len(t, Beginner.Adjustments().ExtraWarnings, 2)
	assert.Equal(t, 0.8, Expert.Adjustments().TimeMultiplier)
	assert.Empty(t, Intermediate.Adjustments().ExtraWarnings)

	assert.NotEmpty(t, Expert.Guidance().AdvancedTechniques)
	assert.Empty(t, Expert.Guidance().BeginnerFocus)
}
