package assistant

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"recipe-assistant/internal/core/intent"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultServingSize 營養與價格計算的預設份數
const DefaultServingSize = 4

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrNoRecipes        = errors.New("no recipes available for the requested diet")
	ErrInvalidRating    = common.NewValidationError("rating must be an integer between 1 and 5")
	ErrInvalidServings  = common.NewValidationError("servings must be greater than zero")
	ErrInvalidDays      = common.NewValidationError("days must be greater than zero")
	ErrInvalidVariation = common.NewValidationError("variation type must be one of all, cuisine, dietary, spice")
)

// IntentObserver 接收每次分類結果（例如計數指標）
type IntentObserver interface {
	ObserveIntent(intent.Intent)
}

// Reply 對話回覆
type Reply struct {
	Intent intent.Intent `json:"intent"`
	Text   string        `json:"response"`
}

// Assistant 食譜助理：分類訊息並產生回覆，同時提供結構化查詢
type Assistant struct {
	kb          *kb.KnowledgeBase
	store       state.Store
	classifier  *intent.Classifier
	observer    IntentObserver
	now         func() time.Time
	servingSize int

	mu  sync.Mutex
	rng *rand.Rand
}

// Option 設定 Assistant
type Option func(*Assistant)

// WithRand 注入亂數來源，測試時可固定種子
func WithRand(r *rand.Rand) Option {
	return func(a *Assistant) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithSeed 以固定種子建立亂數來源
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithClock 注入時鐘（季節判斷、時間戳記）
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}

// WithServingSize 設定營養與價格計算的預設份數
func WithServingSize(n int) Option {
	return func(a *Assistant) {
		if n > 0 {
			a.servingSize = n
		}
	}
}

// WithObserver 設定意圖觀察者
func WithObserver(o IntentObserver) Option {
	return func(a *Assistant) {
		a.observer = o
	}
}

// New 建立 Assistant
func New(knowledge *kb.KnowledgeBase, store state.Store, opts ...Option) *Assistant {
	seed := uint64(time.Now().UnixNano())
	a := &Assistant{
		kb:          knowledge,
		store:       store,
		classifier:  intent.NewClassifier(knowledge.DietaryOptions(), knowledge.CuisineTypes()),
		now:         time.Now,
		servingSize: DefaultServingSize,
		rng:         rand.New(rand.NewPCG(seed, seed>>1)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// KnowledgeBase 回傳使用中的知識庫
func (a *Assistant) KnowledgeBase() *kb.KnowledgeBase {
	return a.kb
}

// ServingSize 回傳預設份數
func (a *Assistant) ServingSize() int {
	return a.servingSize
}

// Classify 只做意圖分類
func (a *Assistant) Classify(message string) intent.Intent {
	return a.classifier.Classify(message)
}

// Respond 處理一則對話訊息；只有狀態儲存失敗時才回傳錯誤
func (a *Assistant) Respond(ctx context.Context, session, message string) (Reply, error) {
	in := a.classifier.Classify(message)
	if a.observer != nil {
		a.observer.ObserveIntent(in)
	}

	common.LogDebug("訊息分類完成",
		zap.String("intent", in.String()),
		zap.String("session", session),
	)

	lower := strings.ToLower(message)
	var (
		text string
		err  error
	)
	switch in {
	case intent.MealPlan:
		text, err = a.mealPlanReply(ctx, session, lower)
	case intent.Nutrition:
		text = a.nutritionReply(lower)
	case intent.Cost:
		text = a.costReply(lower)
	case intent.ShoppingList:
		text = a.shoppingListReply()
	case intent.Rating:
		text, err = a.ratingReply(ctx, session, lower)
	case intent.Favorites:
		text, err = a.favoritesReply(ctx, session, lower)
	case intent.Search:
		text, err = a.searchReply(ctx, session, lower)
	case intent.Timer:
		text = timerReply(lower)
	case intent.Recipe:
		text = a.recipeReply(lower)
	case intent.Substitution:
		text = a.substitutionReply(lower)
	case intent.Tips:
		text = a.tipsReply(lower)
	case intent.Dietary:
		text = a.dietaryReply(lower)
	case intent.Recommendation:
		text = a.recommendationReply(lower)
	case intent.Seasonal:
		text = a.seasonalReply()
	case intent.Cuisine:
		text = a.cuisineReply(lower)
	default:
		text = a.defaultReply()
	}
	if err != nil {
		return Reply{Intent: in}, fmt.Errorf("handle %s: %w", in, err)
	}
	return Reply{Intent: in, Text: text}, nil
}

// intN 以共用亂數來源取值
func (a *Assistant) intN(n int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.IntN(n)
}

// pick 均勻隨機挑一個食譜
func (a *Assistant) pick(recipes []kb.Recipe) (kb.Recipe, bool) {
	if len(recipes) == 0 {
		return kb.Recipe{}, false
	}
	return recipes[a.intN(len(recipes))], true
}

// pickString 均勻隨機挑一個字串
func (a *Assistant) pickString(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[a.intN(len(options))]
}

// lookup 依名稱取得食譜，找不到時回傳 ErrRecipeNotFound
func (a *Assistant) lookup(name string) (kb.Recipe, error) {
	r, ok := a.kb.Recipe(name)
	if !ok {
		return kb.Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, name)
	}
	return r, nil
}

// firstContained 回傳第一個出現在 text 中的候選字
func firstContained(text string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.Contains(text, c) {
			return c, true
		}
	}
	return "", false
}
