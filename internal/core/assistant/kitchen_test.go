package assistant

import (
	"context"
	"testing"
	"time"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock 可手動前進的時鐘
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClockAssistant(start time.Time) (*Assistant, *testClock) {
	clock := &testClock{now: start}
	return New(kb.New(), state.NewMemoryStore(), WithSeed(42), WithClock(clock.Now)), clock
}

func boolPtr(v bool) *bool        { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestInventory(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	res, err := a.AddInventoryItem(ctx, "s", InventoryInput{Name: " Chicken Breast ", Quantity: 2, Unit: "lb", Location: "fridge", ExpiryDate: "2026-07-18"})
	require.NoError(t, err)
	assert.Equal(t, "Added Chicken Breast to inventory", res.Message)
	require.Len(t, res.Inventory, 1)

	_, err = a.AddInventoryItem(ctx, "s", InventoryInput{Name: "garlic"})
	require.NoError(t, err)
	_, err = a.AddInventoryItem(ctx, "s", InventoryInput{Name: "rice", ExpiryDate: "2026-08-30", Location: "freezer"})
	require.NoError(t, err)

	view, err := a.Inventory(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalItems)
	require.Len(t, view.Inventory[LocationPantry], 1)
	garlic := view.Inventory[LocationPantry][0]
	assert.Equal(t, 1.0, garlic.Quantity)
	assert.Equal(t, "item", garlic.Unit)
	assert.Equal(t, "other", garlic.Category)
	require.Len(t, view.ExpiringSoon, 1)
	assert.Equal(t, "Chicken Breast", view.ExpiringSoon[0].Item.Name)
	assert.Equal(t, 3, view.ExpiringSoon[0].DaysUntilExpiry)

	item, err := a.UpdateInventoryItem(ctx, "s", "CHICKEN BREAST", InventoryUpdate{Quantity: floatPtr(1.5), Location: strPtr("freezer")})
	require.NoError(t, err)
	assert.Equal(t, 1.5, item.Quantity)
	assert.Equal(t, LocationFreezer, item.Location)

	_, err = a.UpdateInventoryItem(ctx, "s", "tofu", InventoryUpdate{Notes: strPtr("x")})
	assert.ErrorIs(t, err, ErrInventoryItemNotFound)
	_, err = a.UpdateInventoryItem(ctx, "s", "garlic", InventoryUpdate{})
	assert.ErrorIs(t, err, ErrEmptyInventoryEdit)
	_, err = a.UpdateInventoryItem(ctx, "s", "garlic", InventoryUpdate{ExpiryDate: strPtr("tomorrow")})
	assert.ErrorIs(t, err, ErrInventoryExpiry)

	suggestions, ok, err := a.InventoryRecipes(ctx, "s")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Chicken Tikka Masala", suggestions.SuggestedRecipes[0].Name)

	removed, err := a.RemoveInventoryItem(ctx, "s", "Garlic")
	require.NoError(t, err)
	assert.Equal(t, "garlic", removed.Name)
	_, err = a.RemoveInventoryItem(ctx, "s", "garlic")
	assert.ErrorIs(t, err, ErrInventoryItemNotFound)

	_, ok, err = a.InventoryRecipes(ctx, "empty")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInventoryValidation(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	_, err := a.AddInventoryItem(ctx, "s", InventoryInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInventoryName)
	_, err = a.AddInventoryItem(ctx, "s", InventoryInput{Name: "milk", Location: "garage"})
	assert.ErrorIs(t, err, ErrInventoryLocation)
	_, err = a.AddInventoryItem(ctx, "s", InventoryInput{Name: "milk", ExpiryDate: "07/20/2026"})
	assert.ErrorIs(t, err, ErrInventoryExpiry)
	_, err = a.AddInventoryItem(ctx, "s", InventoryInput{Name: "milk", Quantity: -1})
	assert.ErrorIs(t, err, ErrInventoryQuantity)
	assert.True(t, common.IsValidationError(err))
}

func TestReviewLifecycle(t *testing.T) {
	ctx := context.Background()
	a, clock := newClockAssistant(summer)

	res, err := a.AddReview(ctx, "alice", ReviewInput{Recipe: "greek salad", Username: "Alice", Rating: 5, Title: "Fresh",
		Comment: "Loved the feta", Pros: []string{"quick", "healthy"}, VerifiedPurchase: true})
	require.NoError(t, err)
	require.NotNil(t, res.RecipeStats)
	assert.Equal(t, 5.0, res.RecipeStats.AverageRating)
	assert.Equal(t, 3.0, res.RecipeStats.AverageTaste)
	assert.Equal(t, 100.0, res.RecipeStats.WouldMakeAgainPercentage)
	aliceID := res.ReviewID

	_, err = a.AddReview(ctx, "alice", ReviewInput{Recipe: "Greek Salad", Rating: 1, Title: "again"})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	clock.Advance(time.Hour)
	res, err = a.AddReview(ctx, "bob", ReviewInput{Recipe: "Greek Salad", Rating: 2, Title: "Too salty",
		Cons: []string{"salty"}, Pros: []string{"quick"}, WouldMakeAgain: boolPtr(false), TasteRating: 2})
	require.NoError(t, err)
	bobID := res.ReviewID
	assert.Equal(t, 3.5, res.RecipeStats.AverageRating)
	assert.Equal(t, 50.0, res.RecipeStats.WouldMakeAgainPercentage)
	assert.Equal(t, 50.0, res.RecipeStats.VerifiedPurchasePercentage)
	assert.Equal(t, []string{"quick", "healthy"}, res.RecipeStats.TopPros)
	assert.Equal(t, []string{"salty"}, res.RecipeStats.TopCons)

	// 只能修改自己的評論
	_, err = a.UpdateReview(ctx, "bob", aliceID, ReviewUpdate{Title: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrNotReviewOwner)
	_, err = a.DeleteReview(ctx, "bob", aliceID)
	assert.ErrorIs(t, err, ErrNotReviewOwner)
	_, err = a.UpdateReview(ctx, "alice", aliceID, ReviewUpdate{})
	assert.ErrorIs(t, err, ErrEmptyReviewEdit)
	_, err = a.UpdateReview(ctx, "alice", "missing", ReviewUpdate{Rating: intPtr(3)})
	assert.ErrorIs(t, err, ErrReviewNotFound)

	res, err = a.UpdateReview(ctx, "alice", aliceID, ReviewUpdate{Rating: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Review updated successfully", res.Message)
	assert.Equal(t, 3.0, res.RecipeStats.AverageRating)

	// 有用票切換
	_, err = a.MarkHelpful(ctx, "alice", aliceID)
	assert.ErrorIs(t, err, ErrOwnReviewHelpful)
	vote, err := a.MarkHelpful(ctx, "alice", bobID)
	require.NoError(t, err)
	assert.Equal(t, "added", vote.Action)
	assert.Equal(t, 1, vote.HelpfulCount)

	page, err := a.RecipeReviews(ctx, "Greek Salad", SortMostHelpful, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 10, page.PerPage)
	assert.Equal(t, bobID, page.Reviews[0].ID)
	assert.Empty(t, page.Reviews[0].Author)

	page, err = a.RecipeReviews(ctx, "Greek Salad", SortHighestRating, 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, bobID, page.Reviews[0].ID)
	assert.Equal(t, 2, page.TotalPages)

	vote, err = a.MarkHelpful(ctx, "alice", bobID)
	require.NoError(t, err)
	assert.Equal(t, "removed", vote.Action)
	assert.Equal(t, 0, vote.HelpfulCount)
	assert.Equal(t, "Helpful vote removed successfully", vote.Message)

	found, err := a.SearchReviews(ctx, "SALTY", "", 0, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, found.TotalCount)
	assert.Equal(t, bobID, found.Reviews[0].ID)

	found, err = a.SearchReviews(ctx, "quick", "greek salad", 4, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, found.TotalCount)
	assert.Equal(t, aliceID, found.Reviews[0].ID)
	assert.Equal(t, "Greek Salad", found.Recipe)

	summary, err := a.UserReviewSummary(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalReviews)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, []RecipeReviewCount{{Recipe: "Greek Salad", Count: 1}}, summary.MostReviewedRecipes)

	mine, err := a.UserReviews(ctx, "bob", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalCount)

	res, err = a.DeleteReview(ctx, "bob", bobID)
	require.NoError(t, err)
	assert.Equal(t, "Review deleted successfully", res.Message)
	assert.Equal(t, 1, res.RecipeStats.TotalReviews)

	res, err = a.DeleteReview(ctx, "alice", aliceID)
	require.NoError(t, err)
	assert.Nil(t, res.RecipeStats)
	_, err = a.ReviewStats(ctx, "Greek Salad")
	assert.ErrorIs(t, err, ErrReviewStatsEmpty)
}

func TestReviewValidation(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	_, err := a.AddReview(ctx, "s", ReviewInput{Recipe: "Greek Salad", Rating: 6, Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = a.AddReview(ctx, "s", ReviewInput{Recipe: "Greek Salad", Rating: 4, Title: "x", ValueRating: 9})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = a.AddReview(ctx, "s", ReviewInput{Recipe: "Greek Salad", Rating: 4, Title: " "})
	assert.ErrorIs(t, err, ErrReviewTitle)
	_, err = a.AddReview(ctx, "s", ReviewInput{Recipe: "Mystery Stew", Rating: 4, Title: "x"})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
	_, err = a.SearchReviews(ctx, "  ", "", 0, 1, 10)
	assert.True(t, common.IsValidationError(err))
	_, err = a.MarkHelpful(ctx, "s", "missing")
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestTopRecipes(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	for i, author := range []string{"a", "b"} {
		_, err := a.AddReview(ctx, author, ReviewInput{Recipe: "Beef Tacos", Rating: 3 + i, Title: "ok"})
		require.NoError(t, err)
		_, err = a.AddReview(ctx, author, ReviewInput{Recipe: "Greek Salad", Rating: 5, Title: "great"})
		require.NoError(t, err)
	}
	_, err := a.AddReview(ctx, "a", ReviewInput{Recipe: "Vegetable Curry", Rating: 5, Title: "solo"})
	require.NoError(t, err)

	top, err := a.TopRecipes(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Greek Salad", top[0].Recipe)
	assert.Equal(t, "Beef Tacos", top[1].Recipe)
	assert.Equal(t, 3.5, top[1].Stats.AverageRating)

	top, err = a.TopRecipes(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestCookingSession(t *testing.T) {
	ctx := context.Background()
	a, clock := newClockAssistant(summer)

	start, err := a.StartCooking(ctx, "s", "spaghetti carbonara", "")
	require.NoError(t, err)
	assert.Equal(t, "Cooking session started for Spaghetti Carbonara", start.Message)
	assert.Equal(t, 4, start.TotalSteps)
	assert.Equal(t, 25, start.EstimatedTime)
	assert.Equal(t, 1.5, start.SkillAdjustments.TimeMultiplier)
	assert.Equal(t, "Prepare Ingredients", start.CurrentStep.Title)
	id := start.SessionID

	step, err := a.CurrentStep(ctx, "s", id)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Number)

	g, err := a.Guidance(ctx, "s", id, "")
	require.NoError(t, err)
	require.NotNil(t, g.SkillGuidance)
	assert.NotEmpty(t, g.SkillGuidance.BeginnerFocus)
	assert.Nil(t, g.TechniqueGuide)

	clock.Advance(5 * time.Minute)
	adv, err := a.NextStep(ctx, "s", id, "used guanciale")
	require.NoError(t, err)
	assert.Equal(t, "Moved to step 2: Cook Pasta", adv.Message)
	assert.Equal(t, 25.0, adv.Progress)
	assert.Equal(t, "step_1", adv.PreviousStep.ID)

	_, err = a.PauseCooking(ctx, "s", id, "doorbell")
	require.NoError(t, err)
	_, err = a.NextStep(ctx, "s", id, "")
	assert.ErrorIs(t, err, ErrCookingPaused)
	resumed, err := a.ResumeCooking(ctx, "s", id)
	require.NoError(t, err)
	require.NotNil(t, resumed.CurrentStep)
	assert.Equal(t, "Cook Pasta", resumed.CurrentStep.Title)

	for i := 0; i < 2; i++ {
		_, err = a.NextStep(ctx, "s", id, "")
		require.NoError(t, err)
	}
	clock.Advance(15 * time.Minute)
	adv, err = a.NextStep(ctx, "s", id, "")
	require.NoError(t, err)
	assert.True(t, adv.Completed)
	assert.Equal(t, "Cooking session completed successfully!", adv.Message)
	assert.Equal(t, "Mix Sauce", adv.FinalStep.Title)
	require.NotNil(t, adv.TotalTime)
	assert.Equal(t, 20, adv.TotalTime.TotalMinutes)
	assert.Equal(t, "0:20:00", adv.TotalTime.Formatted)

	_, err = a.NextStep(ctx, "s", id, "")
	assert.ErrorIs(t, err, ErrNoMoreSteps)
	_, err = a.CurrentStep(ctx, "s", id)
	assert.ErrorIs(t, err, ErrNoCurrentStep)
	_, err = a.PauseCooking(ctx, "s", id, "")
	assert.ErrorIs(t, err, ErrCookingFinished)

	// 完成後的時間不再隨時鐘前進
	clock.Advance(time.Hour)
	summary, err := a.CookingSummary(ctx, "s", id)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.CompletedSteps)
	assert.Equal(t, 20, summary.TimeInfo.TotalMinutes)
	assert.Len(t, summary.Notes, 1)
	assert.Equal(t, []string{
		"Recipe Master - Completed full recipe",
		"Speed Cooker - Finished in under 30 minutes",
	}, summary.Achievements)

	stats, err := a.CookingStats(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stats.TotalRecipesCooked)
	assert.Equal(t, "Spaghetti Carbonara", stats.Stats.MostCookedRecipe)
}

func TestCookingSessionErrors(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	_, err := a.StartCooking(ctx, "s", "Greek Salad", "beginner")
	assert.ErrorIs(t, err, ErrStepsUnavailable)
	_, err = a.StartCooking(ctx, "s", "Chicken Stir Fry", "wizard")
	assert.ErrorIs(t, err, ErrInvalidSkillLevel)
	_, err = a.CurrentStep(ctx, "s", "missing")
	assert.ErrorIs(t, err, ErrCookingNotFound)

	start, err := a.StartCooking(ctx, "s", "Chicken Stir Fry", "Expert")
	require.NoError(t, err)
	assert.Equal(t, 0.8, start.SkillAdjustments.TimeMultiplier)

	// 其他會話看不到
	_, err = a.CurrentStep(ctx, "other", start.SessionID)
	assert.ErrorIs(t, err, ErrCookingNotFound)

	_, err = a.Guidance(ctx, "s", start.SessionID, "verbose")
	assert.ErrorIs(t, err, ErrInvalidGuidanceKey)

	g, err := a.Guidance(ctx, "s", start.SessionID, GuidanceTroubleshooting)
	require.NoError(t, err)
	assert.Len(t, g.Troubleshooting, 3)
	assert.Nil(t, g.SkillGuidance)

	summary, err := a.CookingSummary(ctx, "s", start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Confident Cook - No notes needed",
		"Brave Chef - Attempted advanced recipe",
	}, summary.Achievements)
}

func TestNutritionGoals(t *testing.T) {
	ctx := context.Background()
	a, _ := newClockAssistant(summer)

	_, err := a.NutritionGoals(ctx, "s")
	assert.ErrorIs(t, err, ErrNoNutritionGoals)
	_, err = a.TrackNutrition(ctx, "s", []MealEntry{{Calories: 100}})
	assert.ErrorIs(t, err, ErrNoNutritionGoals)
	_, err = a.SetNutritionGoals(ctx, "s", GoalsInput{})
	assert.ErrorIs(t, err, ErrNoGoalsProvided)
	_, err = a.SetNutritionGoals(ctx, "s", GoalsInput{DailyFat: floatPtr(-1)})
	assert.ErrorIs(t, err, ErrNegativeGoal)

	res, err := a.SetNutritionGoals(ctx, "s", GoalsInput{DailyCalories: floatPtr(652)})
	require.NoError(t, err)
	assert.Equal(t, 652.0, res.Goals.DailyCalories)
	assert.Equal(t, 2300.0, res.Goals.DailySodium)
	assert.True(t, res.Goals.Active)

	_, err = a.TrackNutrition(ctx, "s", nil)
	assert.ErrorIs(t, err, ErrNoMealsProvided)

	tracking, err := a.TrackNutrition(ctx, "s", []MealEntry{
		{Recipe: "Greek Salad", Servings: 2},
		{Sodium: 2500, Fiber: 25},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-07-15", tracking.Date)
	assert.Equal(t, 652.0, tracking.DailyTotals["calories"])
	assert.Equal(t, "excellent", tracking.Progress["calories"].Status)
	assert.Equal(t, 100.0, tracking.Progress["calories"].Percentage)
	assert.Equal(t, "excellent", tracking.Progress["fiber"].Status)
	assert.Equal(t, "good", tracking.Progress["sodium"].Status)
	assert.Equal(t, "low", tracking.Progress["sugar"].Status)
	assert.Len(t, tracking.Progress, 7)

	_, err = a.TrackNutrition(ctx, "s", []MealEntry{{Recipe: "Mystery Stew"}})
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestNutrientStatus(t *testing.T) {
	tests := []struct {
		nutrient string
		current  float64
		goal     float64
		want     string
	}{
		{"protein", 50, 50, "excellent"},
		{"protein", 42, 50, "good"},
		{"protein", 10, 50, "low"},
		{"protein", 80, 50, "high"},
		{"protein", 10, 0, "low"},
		{"sodium", 100, 2300, "excellent"},
		{"sodium", 2700, 2300, "good"},
		{"sodium", 3000, 2300, "high"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nutrientStatus(tt.nutrient, tt.current, tt.goal), "%s %v/%v", tt.nutrient, tt.current, tt.goal)
	}
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	a, clock := newClockAssistant(summer)

	_, err := a.CreateCollection(ctx, "s", CollectionInput{Name: " "})
	assert.ErrorIs(t, err, ErrCollectionName)

	res, err := a.CreateCollection(ctx, "s", CollectionInput{Name: "Weeknight", Tags: []string{"fast"}})
	require.NoError(t, err)
	assert.Equal(t, `Collection "Weeknight" created successfully`, res.Message)
	id := res.Collection.ID

	clock.Advance(time.Minute)
	res, err = a.AddToCollection(ctx, "s", id, "beef tacos")
	require.NoError(t, err)
	assert.Equal(t, []string{"Beef Tacos"}, res.Collection.Recipes)
	assert.True(t, res.Collection.UpdatedAt.After(res.Collection.CreatedAt))

	res, err = a.AddToCollection(ctx, "s", id, "Beef Tacos")
	require.NoError(t, err)
	assert.Len(t, res.Collection.Recipes, 1)

	_, err = a.AddToCollection(ctx, "s", "missing", "Beef Tacos")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
	_, err = a.AddToCollection(ctx, "s", id, "Mystery Stew")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	cols, err := a.Collections(ctx, "s")
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, []string{"fast"}, cols[0].Tags)
}

func TestChallenges(t *testing.T) {
	ctx := context.Background()
	a, clock := newClockAssistant(summer)

	_, err := a.CreateChallenge(ctx, "s", ChallengeInput{Type: "marathon", Title: "x", TargetRecipes: []string{"Greek Salad"}})
	assert.ErrorIs(t, err, ErrChallengeType)
	_, err = a.CreateChallenge(ctx, "s", ChallengeInput{Title: "x"})
	assert.ErrorIs(t, err, ErrChallengeTargets)
	_, err = a.CreateChallenge(ctx, "s", ChallengeInput{Title: " ", TargetRecipes: []string{"Greek Salad"}})
	assert.ErrorIs(t, err, ErrChallengeTitle)

	res, err := a.CreateChallenge(ctx, "s", ChallengeInput{Type: "healthy_eating", Title: "Green week",
		TargetRecipes: []string{"greek salad", "Mediterranean Quinoa Bowl"}})
	require.NoError(t, err)
	c := res.Challenge
	assert.Equal(t, []string{"Health Champion Badge", "Wellness Warrior"}, c.Rewards)
	assert.Equal(t, "medium", c.Difficulty)
	assert.Equal(t, summer.AddDate(0, 0, 7), c.EndDate)

	_, err = a.CompleteChallengeRecipe(ctx, "s", c.ID, "Beef Tacos")
	assert.ErrorIs(t, err, ErrNotChallengeTarget)

	res, err = a.CompleteChallengeRecipe(ctx, "s", c.ID, "Greek Salad")
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, 50.0, res.Challenge.ProgressPercentage)
	assert.Equal(t, "Completed Greek Salad!", res.Message)

	res, err = a.CompleteChallengeRecipe(ctx, "s", c.ID, "Mediterranean Quinoa Bowl")
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.False(t, res.Challenge.IsActive)
	assert.Equal(t, "Completed Mediterranean Quinoa Bowl! Challenge completed!", res.Message)

	active, err := a.ActiveChallenges(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, active)

	res, err = a.CreateChallenge(ctx, "s", ChallengeInput{Title: "Short", DurationDays: 1, TargetRecipes: []string{"Beef Tacos"}})
	require.NoError(t, err)
	active, err = a.ActiveChallenges(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	clock.Advance(24 * time.Hour)
	active, err = a.ActiveChallenges(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, active)
	_, err = a.CompleteChallengeRecipe(ctx, "s", res.Challenge.ID, "Beef Tacos")
	assert.ErrorIs(t, err, ErrChallengeClosed)

	_, err = a.CompleteChallengeRecipe(ctx, "s", "missing", "Beef Tacos")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestCookingStats(t *testing.T) {
	ctx := context.Background()
	a, clock := newClockAssistant(summer)

	empty, err := a.CookingStats(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "None", empty.Stats.MostCookedRecipe)
	assert.Equal(t, "None", empty.Stats.FavoriteCuisine)
	assert.Equal(t, 0, empty.Stats.CookingStreak)
	assert.Empty(t, empty.RecentRecipes)

	clock.Advance(-48 * time.Hour)
	for _, name := range []string{"Beef Tacos", "Margherita Pizza"} {
		_, err := a.TrackCooked(ctx, "s", name)
		require.NoError(t, err)
	}
	clock.Advance(24 * time.Hour)
	res, err := a.TrackCooked(ctx, "s", "beef tacos")
	require.NoError(t, err)
	assert.Equal(t, "Tracked Beef Tacos", res.Message)
	assert.Equal(t, 3, res.TotalRecipesCooked)

	// 昨天有下廚時連續天數仍有效
	clock.Advance(24 * time.Hour)
	stats, err := a.CookingStats(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Stats.TotalRecipesCooked)
	assert.Equal(t, "Beef Tacos", stats.Stats.MostCookedRecipe)
	assert.Equal(t, "mexican", stats.Stats.FavoriteCuisine)
	assert.Equal(t, 2, stats.Stats.CookingStreak)
	assert.Equal(t, "1 hours 10 minutes", stats.Stats.TotalCookingTime)
	assert.Len(t, stats.RecentRecipes, 3)

	_, err = a.TrackCooked(ctx, "s", "Mystery Stew")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
