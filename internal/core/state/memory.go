package state

import (
	"context"
	"sort"
	"strings"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

type sessionState struct {
	favorites   map[string]struct{}
	ratings     map[string][]Rating
	plans       []MealPlan
	inventory   map[string]InventoryItem
	cooking     map[string]CookingSession
	goals       *NutritionGoals
	collections map[string]Collection
	challenges  map[string]Challenge
	cooked      []CookedRecipe
}

// MemoryStore 行程內的狀態儲存，重啟後資料消失
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	reviews      map[string]Review
	reviewOwners map[string]string
	helpful      map[string]map[string]struct{}
}

// NewMemoryStore 建立記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:     make(map[string]*sessionState),
		reviews:      make(map[string]Review),
		reviewOwners: make(map[string]string),
		helpful:      make(map[string]map[string]struct{}),
	}
}

// get 取得 session，需持有寫鎖
func (m *MemoryStore) get(id string) *sessionState {
	s, ok := m.sessions[id]
	if !ok {
		s = &sessionState{
			favorites:   make(map[string]struct{}),
			ratings:     make(map[string][]Rating),
			inventory:   make(map[string]InventoryItem),
			cooking:     make(map[string]CookingSession),
			collections: make(map[string]Collection),
			challenges:  make(map[string]Challenge),
		}
		m.sessions[id] = s
	}
	return s
}

func (m *MemoryStore) AddFavorite(ctx context.Context, sessionID, recipe string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(sessionID)
	s.favorites[recipe] = struct{}{}
	return len(s.favorites), nil
}

func (m *MemoryStore) Favorites(ctx context.Context, sessionID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return []string{}, nil
	}
	out := make([]string, 0, len(s.favorites))
	for name := range s.favorites {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) AddRating(ctx context.Context, sessionID string, rating Rating) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(sessionID)
	s.ratings[rating.Recipe] = append(s.ratings[rating.Recipe], rating)
	return nil
}

func (m *MemoryStore) Ratings(ctx context.Context, sessionID, recipe string) ([]Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]Rating(nil), s.ratings[recipe]...), nil
}

func (m *MemoryStore) RecordMealPlan(ctx context.Context, sessionID string, plan MealPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(sessionID)
	s.plans = append(s.plans, plan)
	if len(s.plans) > historyLimit {
		s.plans = s.plans[len(s.plans)-historyLimit:]
	}
	return nil
}

func (m *MemoryStore) MealPlans(ctx context.Context, sessionID string, limit int) ([]MealPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return []MealPlan{}, nil
	}
	if limit <= 0 || limit > len(s.plans) {
		limit = len(s.plans)
	}
	out := make([]MealPlan, 0, limit)
	for i := len(s.plans) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.plans[i])
	}
	return out, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) SaveInventoryItem(ctx context.Context, sessionID string, item InventoryItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(sessionID).inventory[InventoryKey(item.Name)] = item
	return nil
}

func (m *MemoryStore) InventoryItems(ctx context.Context, sessionID string) ([]InventoryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []InventoryItem{}
	if s, ok := m.sessions[sessionID]; ok {
		for _, item := range s.inventory {
			out = append(out, item)
		}
	}
	sortInventory(out)
	return out, nil
}

func (m *MemoryStore) DeleteInventoryItem(ctx context.Context, sessionID, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	key := InventoryKey(name)
	if _, ok := s.inventory[key]; !ok {
		return ErrNotFound
	}
	delete(s.inventory, key)
	return nil
}

func reviewOwnerKey(author, recipe string) string {
	return author + "|" + strings.ToLower(recipe)
}

func (m *MemoryStore) AddReview(ctx context.Context, review Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	owner := reviewOwnerKey(review.Author, review.Recipe)
	if _, ok := m.reviewOwners[owner]; ok {
		return ErrDuplicate
	}
	m.reviewOwners[owner] = review.ID
	m.reviews[review.ID] = cloneReview(review)
	return nil
}

func (m *MemoryStore) UpdateReview(ctx context.Context, review Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[review.ID]; !ok {
		return ErrNotFound
	}
	m.reviews[review.ID] = cloneReview(review)
	return nil
}

func (m *MemoryStore) DeleteReview(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reviews[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.reviews, id)
	delete(m.reviewOwners, reviewOwnerKey(r.Author, r.Recipe))
	delete(m.helpful, id)
	return nil
}

func (m *MemoryStore) Review(ctx context.Context, id string) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	r = cloneReview(r)
	r.HelpfulCount = len(m.helpful[id])
	return r, nil
}

func (m *MemoryStore) Reviews(ctx context.Context) ([]Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Review, 0, len(m.reviews))
	for id, r := range m.reviews {
		r = cloneReview(r)
		r.HelpfulCount = len(m.helpful[id])
		out = append(out, r)
	}
	sortReviews(out)
	return out, nil
}

func (m *MemoryStore) ToggleHelpful(ctx context.Context, reviewID, voter string) (bool, int, error) {
	if err := ctx.Err(); err != nil {
		return false, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[reviewID]; !ok {
		return false, 0, ErrNotFound
	}
	votes, ok := m.helpful[reviewID]
	if !ok {
		votes = make(map[string]struct{})
		m.helpful[reviewID] = votes
	}
	if _, voted := votes[voter]; voted {
		delete(votes, voter)
		return false, len(votes), nil
	}
	votes[voter] = struct{}{}
	return true, len(votes), nil
}

func (m *MemoryStore) SaveCookingSession(ctx context.Context, sessionID string, cooking CookingSession) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(sessionID).cooking[cooking.ID] = cloneCooking(cooking)
	return nil
}

func (m *MemoryStore) CookingSession(ctx context.Context, sessionID, id string) (CookingSession, error) {
	if err := ctx.Err(); err != nil {
		return CookingSession{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return CookingSession{}, ErrNotFound
	}
	cooking, ok := s.cooking[id]
	if !ok {
		return CookingSession{}, ErrNotFound
	}
	return cloneCooking(cooking), nil
}

func (m *MemoryStore) SetNutritionGoals(ctx context.Context, sessionID string, goals NutritionGoals) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(sessionID).goals = &goals
	return nil
}

func (m *MemoryStore) NutritionGoals(ctx context.Context, sessionID string) (NutritionGoals, error) {
	if err := ctx.Err(); err != nil {
		return NutritionGoals{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok || s.goals == nil {
		return NutritionGoals{}, ErrNotFound
	}
	return *s.goals, nil
}

func (m *MemoryStore) SaveCollection(ctx context.Context, sessionID string, collection Collection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	collection.Recipes = append([]string{}, collection.Recipes...)
	collection.Tags = append([]string{}, collection.Tags...)
	m.get(sessionID).collections[collection.ID] = collection
	return nil
}

func (m *MemoryStore) Collections(ctx context.Context, sessionID string) ([]Collection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Collection{}
	if s, ok := m.sessions[sessionID]; ok {
		for _, c := range s.collections {
			c.Recipes = append([]string{}, c.Recipes...)
			c.Tags = append([]string{}, c.Tags...)
			out = append(out, c)
		}
	}
	sortCollections(out)
	return out, nil
}

func (m *MemoryStore) SaveChallenge(ctx context.Context, sessionID string, challenge Challenge) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.get(sessionID).challenges[challenge.ID] = cloneChallenge(challenge)
	return nil
}

func (m *MemoryStore) Challenges(ctx context.Context, sessionID string) ([]Challenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Challenge{}
	if s, ok := m.sessions[sessionID]; ok {
		for _, c := range s.challenges {
			out = append(out, cloneChallenge(c))
		}
	}
	sortChallenges(out)
	return out, nil
}

func (m *MemoryStore) RecordCooked(ctx context.Context, sessionID string, entry CookedRecipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.get(sessionID)
	s.cooked = append(s.cooked, entry)
	if len(s.cooked) > cookedHistoryLimit {
		s.cooked = s.cooked[len(s.cooked)-cookedHistoryLimit:]
	}
	return nil
}

func (m *MemoryStore) CookedHistory(ctx context.Context, sessionID string) ([]CookedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return []CookedRecipe{}, nil
	}
	return append([]CookedRecipe{}, s.cooked...), nil
}

// 以下複製切片欄位，避免呼叫端修改到儲存中的資料

func cloneReview(r Review) Review {
	r.Pros = append([]string{}, r.Pros...)
	r.Cons = append([]string{}, r.Cons...)
	return r
}

func cloneCooking(c CookingSession) CookingSession {
	c.CompletedSteps = append([]string{}, c.CompletedSteps...)
	c.Notes = append([]StepNote{}, c.Notes...)
	if c.CompletedAt != nil {
		at := *c.CompletedAt
		c.CompletedAt = &at
	}
	return c
}

func cloneChallenge(c Challenge) Challenge {
	c.TargetRecipes = append([]string{}, c.TargetRecipes...)
	c.CompletedRecipes = append([]string{}, c.CompletedRecipes...)
	c.Rewards = append([]string{}, c.Rewards...)
	return c
}
