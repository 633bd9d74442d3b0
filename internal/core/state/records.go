package state

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	// ErrNotFound 找不到指定紀錄
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 違反唯一性（同一作者對同一食譜只能有一則評論）
	ErrDuplicate = errors.New("duplicate record")
)

// InventoryItem 會話的食材庫存項目，以名稱（不分大小寫）識別
type InventoryItem struct {
	Name       string    `json:"name"`
	Quantity   float64   `json:"quantity"`
	Unit       string    `json:"unit"`
	ExpiryDate string    `json:"expiry_date,omitempty"`
	Location   string    `json:"location"`
	Category   string    `json:"category"`
	Notes      string    `json:"notes"`
	AddedAt    time.Time `json:"added_date"`
}

// InventoryKey 庫存項目的識別鍵
func InventoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Review 食譜評論，跨會話共用；Author 為撰寫者的 session id
type Review struct {
	ID               string    `json:"id"`
	Recipe           string    `json:"recipe_name"`
	Author           string    `json:"author,omitempty"`
	Username         string    `json:"username"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Comment          string    `json:"comment"`
	Pros             []string  `json:"pros"`
	Cons             []string  `json:"cons"`
	WouldMakeAgain   bool      `json:"would_make_again"`
	DifficultyRating int       `json:"difficulty_rating"`
	ValueRating      int       `json:"value_rating"`
	TasteRating      int       `json:"taste_rating"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulCount     int       `json:"helpful_count"`
	CreatedAt        time.Time `json:"created_date"`
	UpdatedAt        time.Time `json:"updated_date"`
}

// StepNote 烹飪步驟的筆記
type StepNote struct {
	Step string    `json:"step"`
	Note string    `json:"note"`
	At   time.Time `json:"timestamp"`
}

// CookingSession 導引烹飪的進度
type CookingSession struct {
	ID                  string     `json:"id"`
	Recipe              string     `json:"recipe_name"`
	SkillLevel          string     `json:"skill_level"`
	CurrentStep         int        `json:"current_step"`
	TotalSteps          int        `json:"total_steps"`
	StartedAt           time.Time  `json:"start_time"`
	EstimatedCompletion time.Time  `json:"estimated_completion_time"`
	ProgressPercentage  float64    `json:"progress_percentage"`
	Paused              bool       `json:"paused"`
	PauseReason         string     `json:"pause_reason,omitempty"`
	CompletedSteps      []string   `json:"completed_steps"`
	Notes               []StepNote `json:"notes"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// Finished 所有步驟皆已完成
func (s CookingSession) Finished() bool {
	return s.CurrentStep > s.TotalSteps
}

// NutritionGoals 每日營養目標
type NutritionGoals struct {
	DailyCalories float64   `json:"daily_calories"`
	DailyProtein  float64   `json:"daily_protein"`
	DailyCarbs    float64   `json:"daily_carbs"`
	DailyFat      float64   `json:"daily_fat"`
	DailyFiber    float64   `json:"daily_fiber"`
	DailySugar    float64   `json:"daily_sugar"`
	DailySodium   float64   `json:"daily_sodium"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_date"`
}

// Collection 使用者自訂的食譜集
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Recipes     []string  `json:"recipes"`
	Tags        []string  `json:"tags"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_date"`
}

// Challenge 烹飪挑戰
type Challenge struct {
	ID                 string    `json:"id"`
	Type               string    `json:"challenge_type"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	TargetRecipes      []string  `json:"target_recipes"`
	CompletedRecipes   []string  `json:"completed_recipes"`
	ProgressPercentage float64   `json:"progress_percentage"`
	Rewards            []string  `json:"rewards"`
	Difficulty         string    `json:"difficulty"`
	IsActive           bool      `json:"is_active"`
}

// CookedRecipe 一次下廚紀錄
type CookedRecipe struct {
	Recipe   string    `json:"recipe_name"`
	CookedAt time.Time `json:"date"`
}

// cookedHistoryLimit 每個 session 保留的下廚紀錄數量
const cookedHistoryLimit = 500

func sortInventory(items []InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return InventoryKey(items[i].Name) < InventoryKey(items[j].Name)
	})
}

func sortReviews(reviews []Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		}
		return reviews[i].ID < reviews[j].ID
	})
}

func sortCollections(collections []Collection) {
	sort.SliceStable(collections, func(i, j int) bool {
		if !collections[i].CreatedAt.Equal(collections[j].CreatedAt) {
			return collections[i].CreatedAt.Before(collections[j].CreatedAt)
		}
		return collections[i].ID < collections[j].ID
	})
}

func sortChallenges(challenges []Challenge) {
	sort.SliceStable(challenges, func(i, j int) bool {
		if !challenges[i].StartDate.Equal(challenges[j].StartDate) {
			return challenges[i].StartDate.Before(challenges[j].StartDate)
		}
		return challenges[i].ID < challenges[j].ID
	})
}
