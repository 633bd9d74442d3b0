// Package state 會話狀態（收藏、評分、菜單、庫存、導引烹飪、營養目標、食譜集與挑戰），以 session id 隔離；
// 評論跨會話共用，以作者的 session id 標記。
package state

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultSession 未指定 session 時使用的識別碼
const DefaultSession = "default"

// ErrInvalidSession session id 不合法
var ErrInvalidSession = errors.New("invalid session id")

// Rating 單筆評分紀錄
type Rating struct {
	ID        string    `json:"id"`
	Recipe    string    `json:"recipe"`
	Score     int       `json:"rating"`
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"date"`
}

// MealSlot 一餐的安排
type MealSlot struct {
	MealType   string `json:"meal_type"`
	Recipe     string `json:"recipe"`
	PrepTime   string `json:"prep_time"`
	Difficulty string `json:"difficulty"`
}

// DayPlan 一天的三餐
type DayPlan struct {
	Day   int        `json:"day"`
	Label string     `json:"label"`
	Meals []MealSlot `json:"meals"`
}

// MealPlan 一份菜單
type MealPlan struct {
	ID        string    `json:"id"`
	Days      int       `json:"days"`
	Dietary   string    `json:"dietary"`
	Plan      []DayPlan `json:"meal_plan"`
	CreatedAt time.Time `json:"created_date"`
}

// Store 會話狀態儲存介面
type Store interface {
	// AddFavorite 加入收藏，回傳該 session 的收藏總數；重複加入不會增加數量
	AddFavorite(ctx context.Context, session, recipe string) (int, error)
	// Favorites 依名稱排序回傳收藏
	Favorites(ctx context.Context, session string) ([]string, error)
	// AddRating 追加一筆評分
	AddRating(ctx context.Context, session string, rating Rating) error
	// Ratings 依加入順序回傳食譜的評分
	Ratings(ctx context.Context, session, recipe string) ([]Rating, error)
	// RecordMealPlan 保存產生過的菜單
	RecordMealPlan(ctx context.Context, session string, plan MealPlan) error
	// MealPlans 由新到舊回傳最多 limit 份菜單
	MealPlans(ctx context.Context, session string, limit int) ([]MealPlan, error)

	// SaveInventoryItem 新增或取代同名的庫存項目
	SaveInventoryItem(ctx context.Context, session string, item InventoryItem) error
	// InventoryItems 依加入時間回傳庫存
	InventoryItems(ctx context.Context, session string) ([]InventoryItem, error)
	// DeleteInventoryItem 刪除庫存項目，不存在時回傳 ErrNotFound
	DeleteInventoryItem(ctx context.Context, session, name string) error

	// AddReview 新增評論；同一作者已評論過該食譜時回傳 ErrDuplicate
	AddReview(ctx context.Context, review Review) error
	// UpdateReview 取代既有評論，不存在時回傳 ErrNotFound
	UpdateReview(ctx context.Context, review Review) error
	// DeleteReview 刪除評論與其有用票，不存在時回傳 ErrNotFound
	DeleteReview(ctx context.Context, id string) error
	// Review 取得評論（含有用票數）
	Review(ctx context.Context, id string) (Review, error)
	// Reviews 依建立時間回傳所有評論（含有用票數）
	Reviews(ctx context.Context) ([]Review, error)
	// ToggleHelpful 切換 voter 對評論的有用票，回傳是否為新增與目前票數
	ToggleHelpful(ctx context.Context, reviewID, voter string) (bool, int, error)

	// SaveCookingSession 新增或更新導引烹飪進度
	SaveCookingSession(ctx context.Context, session string, cooking CookingSession) error
	// CookingSession 取得導引烹飪進度，不存在時回傳 ErrNotFound
	CookingSession(ctx context.Context, session, id string) (CookingSession, error)

	// SetNutritionGoals 設定每日營養目標
	SetNutritionGoals(ctx context.Context, session string, goals NutritionGoals) error
	// NutritionGoals 取得營養目標，未設定時回傳 ErrNotFound
	NutritionGoals(ctx context.Context, session string) (NutritionGoals, error)

	// SaveCollection 新增或更新食譜集
	SaveCollection(ctx context.Context, session string, collection Collection) error
	// Collections 依建立時間回傳食譜集
	Collections(ctx context.Context, session string) ([]Collection, error)

	// SaveChallenge 新增或更新挑戰
	SaveChallenge(ctx context.Context, session string, challenge Challenge) error
	// Challenges 依開始時間回傳挑戰
	Challenges(ctx context.Context, session string) ([]Challenge, error)

	// RecordCooked 追加一筆下廚紀錄
	RecordCooked(ctx context.Context, session string, entry CookedRecipe) error
	// CookedHistory 由舊到新回傳下廚紀錄
	CookedHistory(ctx context.Context, session string) ([]CookedRecipe, error)

	// Ping 檢查後端可用性
	Ping(ctx context.Context) error
	Close() error
}

// NormalizeSession 清理 session id，空值回傳 DefaultSession
func NormalizeSession(session string) (string, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return DefaultSession, nil
	}
	if len(session) > 128 || strings.ContainsAny(session, " \t\r\n:") {
		return "", ErrInvalidSession
	}
	return session, nil
}

// Average 計算評分平均值，沒有評分時回傳 0
func Average(ratings []Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings))
}

// historyLimit 每個 session 保留的菜單數量
const historyLimit = 20
