package recipe

import (
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 食譜助理 HTTP 處理程序
type Handler struct {
	assistant        *assistant.Assistant
	aiService        *service.Service
	maxMessageLength int
	publicURL        string
}

// NewHandler 創建新的處理程序；aiService 可為 nil
func NewHandler(a *assistant.Assistant, aiService *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		assistant:        a,
		aiService:        aiService,
		maxMessageLength: cfg.Assistant.MaxMessageLength,
		publicURL:        cfg.Server.PublicURL,
	}
}

// SubstitutionRequest 食材替代查詢
type SubstitutionRequest struct {
	Ingredient string `json:"ingredient"`
}

// ShoppingListRequest 購物清單請求
type ShoppingListRequest struct {
	Recipes []string `json:"recipes"`
}

// ScaleRequest 調整份量請求
type ScaleRequest struct {
	RecipeName string `json:"recipe_name"`
	Servings   *int   `json:"servings" binding:"omitempty,min=1"`
}

// VariationsRequest 食譜變化請求
type VariationsRequest struct {
	RecipeName    string `json:"recipe_name"`
	VariationType string `json:"variation_type"`
}

// LeftoversRequest 剩餘食材請求
type LeftoversRequest struct {
	Ingredients []string `json:"ingredients"`
}

// HandleRecipes 依關鍵字與飲食條件建議食譜
func (h *Handler) HandleRecipes(c *gin.Context) {
	recipes := h.assistant.Suggestions(c.Query("query"), lower(c.Query("dietary")))
	ok(c, gin.H{"recipes": recipes})
}

// HandleSubstitutions 回傳食材替代建議
func (h *Handler) HandleSubstitutions(c *gin.Context) {
	var req SubstitutionRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient := lower(req.Ingredient)
	if ingredient == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Ingredient cannot be empty"))
		return
	}
	ok(c, gin.H{"substitutions": h.assistant.Substitutions(ingredient)})
}

// HandleTips 回傳分類的烹飪技巧
func (h *Handler) HandleTips(c *gin.Context) {
	ok(c, gin.H{"tips": h.assistant.Tips(c.Query("category"))})
}

// HandleNutrition 計算食譜營養
func (h *Handler) HandleNutrition(c *gin.Context) {
	report, err := h.assistant.Nutrition(c.Param("recipe_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"nutrition": report})
}

// HandleCost 估算食譜成本
func (h *Handler) HandleCost(c *gin.Context) {
	report, err := h.assistant.Cost(c.Param("recipe_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"cost": report})
}

// HandleShoppingList 合併多個食譜的購物清單
func (h *Handler) HandleShoppingList(c *gin.Context) {
	var req ShoppingListRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Recipes) == 0 {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Recipes list cannot be empty"))
		return
	}
	ok(c, gin.H{"shopping_list": h.assistant.ShoppingList(req.Recipes)})
}

// HandleShare 產生分享內容
func (h *Handler) HandleShare(c *gin.Context) {
	content, err := h.assistant.Share(c.Param("recipe_name"), h.baseURL(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"share_content": content})
}

// HandleScale 調整食譜份量
func (h *Handler) HandleScale(c *gin.Context) {
	var req ScaleRequest
	if !bindJSON(c, &req) {
		return
	}
	if lower(req.RecipeName) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Recipe name is required"))
		return
	}
	servings := h.assistant.ServingSize()
	if req.Servings != nil {
		servings = *req.Servings
	}
	result, err := h.assistant.Scale(req.RecipeName, servings)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleVariations 產生食譜變化
func (h *Handler) HandleVariations(c *gin.Context) {
	var req VariationsRequest
	if !bindJSON(c, &req) {
		return
	}
	if lower(req.RecipeName) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Recipe name is required"))
		return
	}
	result, err := h.assistant.Variations(req.RecipeName, assistant.VariationKind(lower(req.VariationType)))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"result": result})
}

// HandleLeftovers 依剩餘食材建議食譜
func (h *Handler) HandleLeftovers(c *gin.Context) {
	var req LeftoversRequest
	if !bindJSON(c, &req) {
		return
	}
	if len(req.Ingredients) == 0 {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage("Ingredients list is required"))
		return
	}
	ok(c, gin.H{"result": h.assistant.Leftovers(req.Ingredients)})
}
