package recipe

import (
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const (
	maxReviewPage    = 1000
	maxReviewPerPage = 50
	defaultTopLimit  = 10
	defaultTopMin    = 5
)

// ReviewRequest 新增評論請求
type ReviewRequest struct {
	RecipeName       string   `json:"recipe_name" binding:"required"`
	Username         string   `json:"username"`
	Rating           int      `json:"rating" binding:"required,min=1,max=5"`
	Title            string   `json:"title" binding:"required"`
	Comment          string   `json:"comment"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	WouldMakeAgain   *bool    `json:"would_make_again"`
	DifficultyRating int      `json:"difficulty_rating" binding:"omitempty,min=1,max=5"`
	ValueRating      int      `json:"value_rating" binding:"omitempty,min=1,max=5"`
	TasteRating      int      `json:"taste_rating" binding:"omitempty,min=1,max=5"`
	VerifiedPurchase bool     `json:"verified_purchase"`
}

// ReviewUpdateRequest 修改評論請求
type ReviewUpdateRequest struct {
	Rating           *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	Title            *string  `json:"title"`
	Comment          *string  `json:"comment"`
	Pros             []string `json:"pros"`
	Cons             []string `json:"cons"`
	WouldMakeAgain   *bool    `json:"would_make_again"`
	DifficultyRating *int     `json:"difficulty_rating" binding:"omitempty,min=1,max=5"`
	ValueRating      *int     `json:"value_rating" binding:"omitempty,min=1,max=5"`
	TasteRating      *int     `json:"taste_rating" binding:"omitempty,min=1,max=5"`
}

// HelpfulRequest 有用票請求
type HelpfulRequest struct {
	ReviewID string `json:"review_id" binding:"required"`
}

// ReviewSearchRequest 評論搜尋請求
type ReviewSearchRequest struct {
	Query        string `json:"query" binding:"required"`
	RecipeName   string `json:"recipe_name"`
	RatingFilter int    `json:"rating_filter" binding:"omitempty,min=1,max=5"`
	Page         int    `json:"page" binding:"omitempty,min=1,max=1000"`
	PerPage      int    `json:"per_page" binding:"omitempty,min=1,max=50"`
}

// pageParams 讀取 page 與 per_page
func pageParams(c *gin.Context) (int, int, bool) {
	page, valid := queryInt(c, "page", 1, maxReviewPage)
	if !valid {
		return 0, 0, false
	}
	perPage, valid := queryInt(c, "per_page", 10, maxReviewPerPage)
	if !valid {
		return 0, 0, false
	}
	return page, perPage, true
}

// HandleAddReview 新增評論
func (h *Handler) HandleAddReview(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireText(c, req.RecipeName, "Recipe name cannot be empty") {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.AddReview(c.Request.Context(), sid, assistant.ReviewInput{
		Recipe:           req.RecipeName,
		Username:         req.Username,
		Rating:           req.Rating,
		Title:            req.Title,
		Comment:          req.Comment,
		Pros:             req.Pros,
		Cons:             req.Cons,
		WouldMakeAgain:   req.WouldMakeAgain,
		DifficultyRating: req.DifficultyRating,
		ValueRating:      req.ValueRating,
		TasteRating:      req.TasteRating,
		VerifiedPurchase: req.VerifiedPurchase,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleUpdateReview 修改自己的評論
func (h *Handler) HandleUpdateReview(c *gin.Context) {
	var req ReviewUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.UpdateReview(c.Request.Context(), sid, c.Param("review_id"), assistant.ReviewUpdate{
		Rating:           req.Rating,
		Title:            req.Title,
		Comment:          req.Comment,
		Pros:             req.Pros,
		Cons:             req.Cons,
		WouldMakeAgain:   req.WouldMakeAgain,
		DifficultyRating: req.DifficultyRating,
		ValueRating:      req.ValueRating,
		TasteRating:      req.TasteRating,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleDeleteReview 刪除自己的評論
func (h *Handler) HandleDeleteReview(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.DeleteReview(c.Request.Context(), sid, c.Param("review_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleRecipeReviews 列出食譜評論
func (h *Handler) HandleRecipeReviews(c *gin.Context) {
	page, perPage, valid := pageParams(c)
	if !valid {
		return
	}
	sortBy := assistant.ReviewSort(lower(c.DefaultQuery("sort_by", string(assistant.SortNewest))))
	switch sortBy {
	case assistant.SortNewest, assistant.SortOldest, assistant.SortHighestRating, assistant.SortLowestRating, assistant.SortMostHelpful:
	default:
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("sort_by must be one of newest, oldest, highest_rating, lowest_rating, most_helpful"))
		return
	}
	reviews, err := h.assistant.RecipeReviews(c.Request.Context(), c.Param("recipe_name"), sortBy, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"reviews": reviews})
}

// HandleUserReviews 列出會話寫過的評論
func (h *Handler) HandleUserReviews(c *gin.Context) {
	page, perPage, valid := pageParams(c)
	if !valid {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.assistant.UserReviews(c.Request.Context(), sid, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"reviews": reviews})
}

// HandleMarkHelpful 切換評論的有用票
func (h *Handler) HandleMarkHelpful(c *gin.Context) {
	var req HelpfulRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.MarkHelpful(c.Request.Context(), sid, req.ReviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleReviewStats 回傳食譜的評論統計
func (h *Handler) HandleReviewStats(c *gin.Context) {
	stats, err := h.assistant.ReviewStats(c.Request.Context(), c.Param("recipe_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"stats": stats})
}

// HandleTopRecipes 回傳評分最高的食譜
func (h *Handler) HandleTopRecipes(c *gin.Context) {
	limit, valid := queryInt(c, "limit", defaultTopLimit, 100)
	if !valid {
		return
	}
	minReviews, valid := queryInt(c, "min_reviews", defaultTopMin, 1000)
	if !valid {
		return
	}
	top, err := h.assistant.TopRecipes(c.Request.Context(), limit, minReviews)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"top_recipes": top})
}

// HandleSearchReviews 搜尋評論
func (h *Handler) HandleSearchReviews(c *gin.Context) {
	var req ReviewSearchRequest
	if !bindJSON(c, &req) {
		return
	}
	if !requireText(c, req.Query, "Search query cannot be empty") {
		return
	}
	results, err := h.assistant.SearchReviews(c.Request.Context(), req.Query, req.RecipeName, req.RatingFilter, req.Page, req.PerPage)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"search_results": results})
}

// HandleUserReviewSummary 回傳會話的評論摘要
func (h *Handler) HandleUserReviewSummary(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := h.assistant.UserReviewSummary(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"summary": summary})
}
