package recipe

import (
	"recipe-assistant/internal/core/assistant"

	"github.com/gin-gonic/gin"
)

// CollectionRequest 建立收藏集請求
type CollectionRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
}

// RecipeNameRequest 只帶食譜名稱的請求
type RecipeNameRequest struct {
	RecipeName string `json:"recipe_name" binding:"required"`
}

// ChallengeRequest 建立挑戰請求
type ChallengeRequest struct {
	ChallengeType string   `json:"challenge_type" binding:"omitempty,oneof=weekly_recipe technique_master cuisine_explorer healthy_eating meal_prep speed_cooking"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	TargetRecipes []string `json:"target_recipes" binding:"required,min=1"`
	DurationDays  int      `json:"duration_days" binding:"omitempty,min=1,max=365"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// HandleCollections 列出收藏集
func (h *Handler) HandleCollections(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	collections, err := h.assistant.Collections(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"collections": collections, "total": len(collections)})
}

// HandleCreateCollection 建立收藏集
func (h *Handler) HandleCreateCollection(c *gin.Context) {
	var req CollectionRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.CreateCollection(c.Request.Context(), sid, assistant.CollectionInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"collection": result.Collection, "message": result.Message})
}

// HandleAddToCollection 把食譜加入收藏集
func (h *Handler) HandleAddToCollection(c *gin.Context) {
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.AddToCollection(c.Request.Context(), sid, c.Param("collection_id"), req.RecipeName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"collection": result.Collection, "message": result.Message})
}

// HandleChallenges 列出進行中的挑戰
func (h *Handler) HandleChallenges(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	challenges, err := h.assistant.ActiveChallenges(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"challenges": challenges, "total": len(challenges)})
}

// HandleCreateChallenge 建立挑戰
func (h *Handler) HandleCreateChallenge(c *gin.Context) {
	var req ChallengeRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.CreateChallenge(c.Request.Context(), sid, assistant.ChallengeInput{
		Type:          req.ChallengeType,
		Title:         req.Title,
		Description:   req.Description,
		TargetRecipes: req.TargetRecipes,
		DurationDays:  req.DurationDays,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"challenge": result.Challenge, "message": result.Message})
}

// HandleCompleteChallenge 記錄挑戰中完成的食譜
func (h *Handler) HandleCompleteChallenge(c *gin.Context) {
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.CompleteChallengeRecipe(c.Request.Context(), sid, c.Param("challenge_id"), req.RecipeName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"challenge": result.Challenge, "completed": result.Completed, "message": result.Message})
}

// HandleTrackCooked 記錄煮過的食譜
func (h *Handler) HandleTrackCooked(c *gin.Context) {
	var req RecipeNameRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.TrackCooked(c.Request.Context(), sid, req.RecipeName)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleCookingStats 回傳烹飪統計
func (h *Handler) HandleCookingStats(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := h.assistant.CookingStats(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"stats": report.Stats, "recent_recipes": report.RecentRecipes})
}
