package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDiets    = []string{"vegetarian", "vegan", "gluten-free", "dairy-free", "keto", "paleo"}
	testCuisines = []string{"italian", "mexican", "asian", "indian", "mediterranean", "american", "french", "thai"}
)

func TestClassify(t *testing.T) {
	c := NewClassifier(testDiets, testCuisines)

	tests := []struct {
		message string
		want    Intent
	}{
		{"Can you make me a weekly meal plan?", MealPlan},
		{"How many calories in Greek Salad", Nutrition},
		{"What does Beef Tacos cost", Cost},
		{"Give me a shopping list", ShoppingList},
		{"I want to rate the greek salad", Rating},
		{"Bookmark this one", Favorites},
		{"search chicken", Search},
		{"set timer for 10 minutes", Timer},
		{"give me a recipe with garlic", Recipe},
		{"substitute eggs", Substitution},
		{"any tips for baking", Tips},
		{"I am vegan", Dietary},
		{"what should I eat tonight", Recommendation},
		{"anything seasonal?", Seasonal},
		{"I love thai food", Cuisine},
		{"hello there", Default},
		{"", Default},
		{"   ", Default},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.message))
		})
	}
}

func TestClassifyEarlierRuleWins(t *testing.T) {
	c := NewClassifier(testDiets, testCuisines)

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"nutrition before recipe", "recipe with lots of protein", Nutrition},
		{"nutrition before cost", "how much protein is in it", Nutrition},
		{"recipe before dietary", "I want a vegan recipe", Recipe},
		{"recommendation before cuisine", "Thai curry recommendations", Recommendation},
		{"meal plan before everything", "meal plan with cheap recipes and low fat", MealPlan},
		{"substring inside a word", "grate the cheese", Rating},
		{"case insensitive", "SUBSTITUTE BUTTER", Substitution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.message))
		})
	}
}

func TestIntentNames(t *testing.T) {
	for _, i := range All() {
		parsed, err := Parse(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, parsed)
	}

	_, err := Parse("weather")
	assert.Error(t, err)
	assert.Equal(t, "intent(99)", Intent(99).String())
}

func TestKeywords(t *testing.T) {
	c := NewClassifier([]string{" Vegan "}, nil)

	assert.Equal(t, []string{"vegan"}, c.Keywords(Dietary))
	assert.Contains(t, c.Keywords(Cost), "how much")
	assert.Nil(t, c.Keywords(Default))
}
