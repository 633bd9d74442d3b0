package assistant

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	ErrReviewNotFound   = common.ErrNotFound.WithMessage("Review not found")
	ErrAlreadyReviewed  = common.ErrConflict.WithMessage("You have already reviewed this recipe")
	ErrNotReviewOwner   = common.ErrForbidden.WithMessage("You can only modify your own reviews")
	ErrReviewStatsEmpty = common.ErrNotFound.WithMessage("Recipe statistics not found")
	ErrOwnReviewHelpful = common.NewValidationError("you cannot mark your own review as helpful")
	ErrEmptyReviewEdit  = common.NewValidationError("no updatable review fields provided")
	ErrReviewTitle      = common.NewValidationError("review title is required")
)

// 評論分頁預設值
const (
	defaultReviewPage    = 1
	defaultReviewPerPage = 10
	topReviewTerms       = 5
)

// ReviewSort 評論排序方式
type ReviewSort string

const (
	SortNewest        ReviewSort = "newest"
	SortOldest        ReviewSort = "oldest"
	SortHighestRating ReviewSort = "highest_rating"
	SortLowestRating  ReviewSort = "lowest_rating"
	SortMostHelpful   ReviewSort = "most_helpful"
)

// ReviewInput 新增評論的內容；子評分為 0 時使用 3，WouldMakeAgain 為 nil 時視為 true
type ReviewInput struct {
	Recipe           string
	Username         string
	Rating           int
	Title            string
	Comment          string
	Pros             []string
	Cons             []string
	WouldMakeAgain   *bool
	DifficultyRating int
	ValueRating      int
	TasteRating      int
	VerifiedPurchase bool
}

// ReviewUpdate 可修改的評論欄位，nil 表示不變
type ReviewUpdate struct {
	Rating           *int
	Title            *string
	Comment          *string
	Pros             []string
	Cons             []string
	WouldMakeAgain   *bool
	DifficultyRating *int
	ValueRating      *int
	TasteRating      *int
}

func (u ReviewUpdate) empty() bool {
	return u.Rating == nil && u.Title == nil && u.Comment == nil && u.Pros == nil && u.Cons == nil &&
		u.WouldMakeAgain == nil && u.DifficultyRating == nil && u.ValueRating == nil && u.TasteRating == nil
}

// ReviewResult 評論異動的結果，附上最新統計（沒有評論時為 nil）
type ReviewResult struct {
	ReviewID    string             `json:"review_id,omitempty"`
	Message     string             `json:"message"`
	RecipeStats *ReviewStatsReport `json:"recipe_stats"`
}

// ReviewPage 分頁後的評論
type ReviewPage struct {
	Reviews    []state.Review `json:"reviews"`
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
}

// ReviewSearchPage 評論搜尋結果
type ReviewSearchPage struct {
	ReviewPage
	Query        string `json:"query"`
	Recipe       string `json:"recipe_name,omitempty"`
	RatingFilter int    `json:"rating_filter,omitempty"`
}

// HelpfulResult 有用票切換結果
type HelpfulResult struct {
	ReviewID     string `json:"review_id"`
	HelpfulCount int    `json:"helpful_count"`
	Action       string `json:"action"`
	Message      string `json:"message"`
}

// ReviewStatsReport 食譜的評論統計
type ReviewStatsReport struct {
	Recipe                     string      `json:"recipe_name"`
	TotalReviews               int         `json:"total_reviews"`
	AverageRating              float64     `json:"average_rating"`
	RatingDistribution         map[int]int `json:"rating_distribution"`
	AverageDifficulty          float64     `json:"average_difficulty"`
	AverageValue               float64     `json:"average_value"`
	AverageTaste               float64     `json:"average_taste"`
	WouldMakeAgainPercentage   float64     `json:"would_make_again_percentage"`
	VerifiedPurchasePercentage float64     `json:"verified_purchase_percentage"`
	TopPros                    []string    `json:"top_pros"`
	TopCons                    []string    `json:"top_cons"`
}

// TopRecipe 評分最高的食譜
type TopRecipe struct {
	Recipe string            `json:"recipe_name"`
	Stats  ReviewStatsReport `json:"stats"`
}

// RecipeReviewCount 使用者評論過的食譜次數
type RecipeReviewCount struct {
	Recipe string `json:"recipe_name"`
	Count  int    `json:"review_count"`
}

// UserReviewSummary 使用者的評論摘要
type UserReviewSummary struct {
	TotalReviews        int                 `json:"total_reviews"`
	AverageRating       float64             `json:"average_rating"`
	RatingDistribution  map[int]int         `json:"rating_distribution"`
	MostReviewedRecipes []RecipeReviewCount `json:"most_reviewed_recipes"`
}

func subRating(v int) int {
	if v == 0 {
		return 3
	}
	return v
}

func validScore(v int) bool {
	return v >= 1 && v <= 5
}

// publicReview 隱藏作者的 session id
func publicReview(r state.Review) state.Review {
	r.Author = ""
	return r
}

func publicReviews(reviews []state.Review) []state.Review {
	out := make([]state.Review, len(reviews))
	for i, r := range reviews {
		out[i] = publicReview(r)
	}
	return out
}

// AddReview 新增評論，同一會話對同一食譜只能評論一次
func (a *Assistant) AddReview(ctx context.Context, session string, in ReviewInput) (ReviewResult, error) {
	if !validScore(in.Rating) {
		return ReviewResult{}, ErrInvalidRating
	}
	for _, v := range []int{in.DifficultyRating, in.ValueRating, in.TasteRating} {
		if v != 0 && !validScore(v) {
			return ReviewResult{}, ErrInvalidRating
		}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ReviewResult{}, ErrReviewTitle
	}
	r, err := a.lookup(in.Recipe)
	if err != nil {
		return ReviewResult{}, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = session
	}
	again := true
	if in.WouldMakeAgain != nil {
		again = *in.WouldMakeAgain
	}
	now := a.now()
	review := state.Review{
		ID:               common.GenerateUUID(),
		Recipe:           r.Name,
		Author:           session,
		Username:         username,
		Rating:           in.Rating,
		Title:            title,
		Comment:          strings.TrimSpace(in.Comment),
		Pros:             nonNil(in.Pros),
		Cons:             nonNil(in.Cons),
		WouldMakeAgain:   again,
		DifficultyRating: subRating(in.DifficultyRating),
		ValueRating:      subRating(in.ValueRating),
		TasteRating:      subRating(in.TasteRating),
		VerifiedPurchase: in.VerifiedPurchase,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := a.store.AddReview(ctx, review); err != nil {
		if errors.Is(err, state.ErrDuplicate) {
			return ReviewResult{}, ErrAlreadyReviewed
		}
		return ReviewResult{}, fmt.Errorf("add review: %w", err)
	}

	common.LogDebug("評論已新增",
		zap.String("session", session),
		zap.String("recipe", r.Name),
		zap.Int("rating", in.Rating),
	)

	stats, err := a.statsFor(ctx, r.Name)
	if err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{ReviewID: review.ID, Message: "Review added successfully", RecipeStats: stats}, nil
}

// ownedReview 取得評論並確認為該會話所有
func (a *Assistant) ownedReview(ctx context.Context, session, id string) (state.Review, error) {
	review, err := a.store.Review(ctx, id)
	if errors.Is(err, state.ErrNotFound) {
		return state.Review{}, ErrReviewNotFound
	}
	if err != nil {
		return state.Review{}, fmt.Errorf("load review: %w", err)
	}
	if review.Author != session {
		return state.Review{}, ErrNotReviewOwner
	}
	return review, nil
}

// UpdateReview 修改自己的評論
func (a *Assistant) UpdateReview(ctx context.Context, session, id string, u ReviewUpdate) (ReviewResult, error) {
	if u.empty() {
		return ReviewResult{}, ErrEmptyReviewEdit
	}
	for _, v := range []*int{u.Rating, u.DifficultyRating, u.ValueRating, u.TasteRating} {
		if v != nil && !validScore(*v) {
			return ReviewResult{}, ErrInvalidRating
		}
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return ReviewResult{}, ErrReviewTitle
	}

	review, err := a.ownedReview(ctx, session, id)
	if err != nil {
		return ReviewResult{}, err
	}
	if u.Rating != nil {
		review.Rating = *u.Rating
	}
	if u.Title != nil {
		review.Title = strings.TrimSpace(*u.Title)
	}
	if u.Comment != nil {
		review.Comment = strings.TrimSpace(*u.Comment)
	}
	if u.Pros != nil {
		review.Pros = u.Pros
	}
	if u.Cons != nil {
		review.Cons = u.Cons
	}
	if u.WouldMakeAgain != nil {
		review.WouldMakeAgain = *u.WouldMakeAgain
	}
	if u.DifficultyRating != nil {
		review.DifficultyRating = *u.DifficultyRating
	}
	if u.ValueRating != nil {
		review.ValueRating = *u.ValueRating
	}
	if u.TasteRating != nil {
		review.TasteRating = *u.TasteRating
	}
	review.UpdatedAt = a.now()

	if err := a.store.UpdateReview(ctx, review); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return ReviewResult{}, ErrReviewNotFound
		}
		return ReviewResult{}, fmt.Errorf("update review: %w", err)
	}
	stats, err := a.statsFor(ctx, review.Recipe)
	if err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{ReviewID: id, Message: "Review updated successfully", RecipeStats: stats}, nil
}

// DeleteReview 刪除自己的評論
func (a *Assistant) DeleteReview(ctx context.Context, session, id string) (ReviewResult, error) {
	review, err := a.ownedReview(ctx, session, id)
	if err != nil {
		return ReviewResult{}, err
	}
	if err := a.store.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return ReviewResult{}, ErrReviewNotFound
		}
		return ReviewResult{}, fmt.Errorf("delete review: %w", err)
	}
	stats, err := a.statsFor(ctx, review.Recipe)
	if err != nil {
		return ReviewResult{}, err
	}
	return ReviewResult{Message: "Review deleted successfully", RecipeStats: stats}, nil
}

// RecipeReviews 回傳食譜的評論；未知排序方式維持時間順序
func (a *Assistant) RecipeReviews(ctx context.Context, name string, by ReviewSort, page, perPage int) (ReviewPage, error) {
	r, err := a.lookup(name)
	if err != nil {
		return ReviewPage{}, err
	}
	reviews, err := a.reviewsWhere(ctx, func(rv state.Review) bool { return rv.Recipe == r.Name })
	if err != nil {
		return ReviewPage{}, err
	}
	sortReviewsBy(reviews, by)
	return paginate(reviews, page, perPage), nil
}

// UserReviews 回傳該會話寫過的評論（新到舊）
func (a *Assistant) UserReviews(ctx context.Context, session string, page, perPage int) (ReviewPage, error) {
	reviews, err := a.reviewsWhere(ctx, func(rv state.Review) bool { return rv.Author == session })
	if err != nil {
		return ReviewPage{}, err
	}
	sortReviewsBy(reviews, SortNewest)
	return paginate(reviews, page, perPage), nil
}

// MarkHelpful 切換有用票，不能投給自己的評論
func (a *Assistant) MarkHelpful(ctx context.Context, session, id string) (HelpfulResult, error) {
	review, err := a.store.Review(ctx, id)
	if errors.Is(err, state.ErrNotFound) {
		return HelpfulResult{}, ErrReviewNotFound
	}
	if err != nil {
		return HelpfulResult{}, fmt.Errorf("load review: %w", err)
	}
	if review.Author == session {
		return HelpfulResult{}, ErrOwnReviewHelpful
	}

	added, count, err := a.store.ToggleHelpful(ctx, id, session)
	if errors.Is(err, state.ErrNotFound) {
		return HelpfulResult{}, ErrReviewNotFound
	}
	if err != nil {
		return HelpfulResult{}, fmt.Errorf("toggle helpful: %w", err)
	}
	action := "removed"
	if added {
		action = "added"
	}
	return HelpfulResult{
		ReviewID:     id,
		HelpfulCount: count,
		Action:       action,
		Message:      fmt.Sprintf("Helpful vote %s successfully", action),
	}, nil
}

// ReviewStats 回傳食譜的評論統計，沒有評論時回傳 ErrReviewStatsEmpty
func (a *Assistant) ReviewStats(ctx context.Context, name string) (ReviewStatsReport, error) {
	r, err := a.lookup(name)
	if err != nil {
		return ReviewStatsReport{}, err
	}
	stats, err := a.statsFor(ctx, r.Name)
	if err != nil {
		return ReviewStatsReport{}, err
	}
	if stats == nil {
		return ReviewStatsReport{}, ErrReviewStatsEmpty
	}
	return *stats, nil
}

// TopRecipes 回傳評論數至少 minReviews 的食譜，依平均分數排序
func (a *Assistant) TopRecipes(ctx context.Context, limit, minReviews int) ([]TopRecipe, error) {
	if limit <= 0 {
		limit = 10
	}
	if minReviews <= 0 {
		minReviews = 1
	}
	reviews, err := a.store.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	byRecipe := map[string][]state.Review{}
	var order []string
	for _, rv := range reviews {
		if _, ok := byRecipe[rv.Recipe]; !ok {
			order = append(order, rv.Recipe)
		}
		byRecipe[rv.Recipe] = append(byRecipe[rv.Recipe], rv)
	}

	out := []TopRecipe{}
	for _, name := range order {
		group := byRecipe[name]
		if len(group) < minReviews {
			continue
		}
		out = append(out, TopRecipe{Recipe: name, Stats: buildReviewStats(name, group)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Stats.AverageRating > out[j].Stats.AverageRating
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchReviews 在標題、內容、優缺點中搜尋（不分大小寫），可再以食譜與分數篩選
func (a *Assistant) SearchReviews(ctx context.Context, query, recipe string, rating, page, perPage int) (ReviewSearchPage, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ReviewSearchPage{}, common.NewValidationError("search query is required")
	}
	if rating != 0 && !validScore(rating) {
		return ReviewSearchPage{}, ErrInvalidRating
	}
	canonical := ""
	if strings.TrimSpace(recipe) != "" {
		r, err := a.lookup(recipe)
		if err != nil {
			return ReviewSearchPage{}, err
		}
		canonical = r.Name
	}

	reviews, err := a.reviewsWhere(ctx, func(rv state.Review) bool {
		if canonical != "" && rv.Recipe != canonical {
			return false
		}
		if rating != 0 && rv.Rating != rating {
			return false
		}
		text := strings.Join([]string{rv.Title, rv.Comment, strings.Join(rv.Pros, " "), strings.Join(rv.Cons, " ")}, " ")
		return strings.Contains(strings.ToLower(text), q)
	})
	if err != nil {
		return ReviewSearchPage{}, err
	}
	sortReviewsBy(reviews, SortNewest)
	return ReviewSearchPage{
		ReviewPage:   paginate(reviews, page, perPage),
		Query:        query,
		Recipe:       canonical,
		RatingFilter: rating,
	}, nil
}

// UserReviewSummary 回傳該會話的評論摘要
func (a *Assistant) UserReviewSummary(ctx context.Context, session string) (UserReviewSummary, error) {
	reviews, err := a.reviewsWhere(ctx, func(rv state.Review) bool { return rv.Author == session })
	if err != nil {
		return UserReviewSummary{}, err
	}
	summary := UserReviewSummary{
		RatingDistribution:  map[int]int{},
		MostReviewedRecipes: []RecipeReviewCount{},
	}
	if len(reviews) == 0 {
		return summary, nil
	}

	sum := 0
	counts := map[string]int{}
	var order []string
	for _, rv := range reviews {
		sum += rv.Rating
		summary.RatingDistribution[rv.Rating]++
		if counts[rv.Recipe] == 0 {
			order = append(order, rv.Recipe)
		}
		counts[rv.Recipe]++
	}
	summary.TotalReviews = len(reviews)
	summary.AverageRating = common.Round(float64(sum)/float64(len(reviews)), 1)
	for _, name := range order {
		summary.MostReviewedRecipes = append(summary.MostReviewedRecipes, RecipeReviewCount{Recipe: name, Count: counts[name]})
	}
	sort.SliceStable(summary.MostReviewedRecipes, func(i, j int) bool {
		return summary.MostReviewedRecipes[i].Count > summary.MostReviewedRecipes[j].Count
	})
	if len(summary.MostReviewedRecipes) > topReviewTerms {
		summary.MostReviewedRecipes = summary.MostReviewedRecipes[:topReviewTerms]
	}
	return summary, nil
}

func (a *Assistant) reviewsWhere(ctx context.Context, keep func(state.Review) bool) ([]state.Review, error) {
	all, err := a.store.Reviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := []state.Review{}
	for _, rv := range all {
		if keep(rv) {
			out = append(out, rv)
		}
	}
	return out, nil
}

// statsFor 計算食譜目前的統計，沒有評論時回傳 nil
func (a *Assistant) statsFor(ctx context.Context, recipe string) (*ReviewStatsReport, error) {
	reviews, err := a.reviewsWhere(ctx, func(rv state.Review) bool { return rv.Recipe == recipe })
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, nil
	}
	stats := buildReviewStats(recipe, reviews)
	return &stats, nil
}

func buildReviewStats(recipe string, reviews []state.Review) ReviewStatsReport {
	n := float64(len(reviews))
	var rating, difficulty, value, taste, again, verified float64
	dist := map[int]int{}
	var pros, cons []string
	for _, rv := range reviews {
		rating += float64(rv.Rating)
		difficulty += float64(rv.DifficultyRating)
		value += float64(rv.ValueRating)
		taste += float64(rv.TasteRating)
		if rv.WouldMakeAgain {
			again++
		}
		if rv.VerifiedPurchase {
			verified++
		}
		dist[rv.Rating]++
		pros = append(pros, rv.Pros...)
		cons = append(cons, rv.Cons...)
	}
	return ReviewStatsReport{
		Recipe:                     recipe,
		TotalReviews:               len(reviews),
		AverageRating:              common.Round(rating/n, 1),
		RatingDistribution:         dist,
		AverageDifficulty:          common.Round(difficulty/n, 1),
		AverageValue:               common.Round(value/n, 1),
		AverageTaste:               common.Round(taste/n, 1),
		WouldMakeAgainPercentage:   common.Round(again/n*100, 1),
		VerifiedPurchasePercentage: common.Round(verified/n*100, 1),
		TopPros:                    topTerms(pros, topReviewTerms),
		TopCons:                    topTerms(cons, topReviewTerms),
	}
}

// topTerms 依出現次數排序，次數相同時保留先出現的
func topTerms(terms []string, limit int) []string {
	counts := map[string]int{}
	var order []string
	for _, t := range terms {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}

func sortReviewsBy(reviews []state.Review, by ReviewSort) {
	switch by {
	case SortNewest:
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.After(reviews[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].CreatedAt.Before(reviews[j].CreatedAt) })
	case SortHighestRating:
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Rating > reviews[j].Rating })
	case SortLowestRating:
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].Rating < reviews[j].Rating })
	case SortMostHelpful:
		sort.SliceStable(reviews, func(i, j int) bool { return reviews[i].HelpfulCount > reviews[j].HelpfulCount })
	}
}

func paginate(reviews []state.Review, page, perPage int) ReviewPage {
	if page <= 0 {
		page = defaultReviewPage
	}
	if perPage <= 0 {
		perPage = defaultReviewPerPage
	}
	total := len(reviews)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return ReviewPage{
		Reviews:    publicReviews(reviews[start:end]),
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
