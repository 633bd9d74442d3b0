package recipe

import (
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// FavoriteRequest 收藏請求
type FavoriteRequest struct {
	RecipeName string `json:"recipe_name"`
}

// RateRequest 評分請求
type RateRequest struct {
	RecipeName string `json:"recipe_name"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
}

// SearchRequest 搜尋請求
type SearchRequest struct {
	Query   string            `json:"query"`
	Filters assistant.Filters `json:"filters"`
}

// HandleFavorites 列出會話收藏
func (h *Handler) HandleFavorites(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	favorites, err := h.assistant.Favorites(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"favorites": favorites})
}

// HandleAddFavorite 將食譜加入收藏
func (h *Handler) HandleAddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if !bindJSON(c, &req) {
		return
	}
	if lower(req.RecipeName) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Recipe name cannot be empty"))
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.AddFavorite(c.Request.Context(), sid, req.RecipeName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleRate 為食譜評分
func (h *Handler) HandleRate(c *gin.Context) {
	var req RateRequest
	if !bindJSON(c, &req) {
		return
	}
	if lower(req.RecipeName) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Recipe name cannot be empty"))
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.RateRecipe(c.Request.Context(), sid, req.RecipeName, req.Rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleRatingStats 回傳食譜評分統計
func (h *Handler) HandleRatingStats(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.assistant.RatingStats(c.Request.Context(), sid, c.Param("recipe_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"stats": stats})
}

// HandleSearch 以關鍵字與篩選條件搜尋食譜
func (h *Handler) HandleSearch(c *gin.Context) {
	var req SearchRequest
	if !bindJSON(c, &req) {
		return
	}
	if lower(req.Query) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Search query cannot be empty"))
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	filters := req.Filters
	filters.Dietary = lower(filters.Dietary)
	filters.Difficulty = lower(filters.Difficulty)

	results, err := h.assistant.Search(c.Request.Context(), sid, req.Query, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"results": results, "total": len(results)})
}
