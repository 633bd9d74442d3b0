package recipe

import (
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// InventoryRequest 新增庫存請求
type InventoryRequest struct {
	Name       string  `json:"name" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"gte=0"`
	Unit       string  `json:"unit"`
	ExpiryDate string  `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
	Location   string  `json:"location" binding:"omitempty,oneof=pantry fridge freezer"`
	Category   string  `json:"category"`
	Notes      string  `json:"notes"`
}

// InventoryUpdateRequest 修改庫存請求
type InventoryUpdateRequest struct {
	Quantity   *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Unit       *string  `json:"unit"`
	ExpiryDate *string  `json:"expiry_date"`
	Location   *string  `json:"location" binding:"omitempty,oneof=pantry fridge freezer"`
	Category   *string  `json:"category"`
	Notes      *string  `json:"notes"`
}

// HandleInventory 列出會話庫存
func (h *Handler) HandleInventory(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.assistant.Inventory(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"inventory": view})
}

// HandleAddInventory 加入庫存項目
func (h *Handler) HandleAddInventory(c *gin.Context) {
	var req InventoryRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.assistant.AddInventoryItem(c.Request.Context(), sid, assistant.InventoryInput{
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		ExpiryDate: req.ExpiryDate,
		Location:   req.Location,
		Category:   req.Category,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": result.Message, "inventory": result.Inventory})
}

// HandleUpdateInventory 修改庫存項目
func (h *Handler) HandleUpdateInventory(c *gin.Context) {
	var req InventoryUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	name := c.Param("item_name")
	item, err := h.assistant.UpdateInventoryItem(c.Request.Context(), sid, name, assistant.InventoryUpdate{
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		ExpiryDate: req.ExpiryDate,
		Location:   req.Location,
		Category:   req.Category,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Updated " + item.Name, "item": item})
}

// HandleRemoveInventory 移除庫存項目
func (h *Handler) HandleRemoveInventory(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	removed, err := h.assistant.RemoveInventoryItem(c.Request.Context(), sid, c.Param("item_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "Removed " + removed.Name + " from inventory", "removed_item": removed})
}

// HandleInventoryRecipes 以庫存食材建議食譜
func (h *Handler) HandleInventoryRecipes(c *gin.Context) {
	sid, err := session(c, "")
	if err != nil {
		respondError(c, err)
		return
	}
	result, found, err := h.assistant.InventoryRecipes(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		ok(c, gin.H{"message": "No ingredients in inventory", "suggestions": []string{}})
		return
	}
	ok(c, gin.H{"result": result})
}

// requireText 欄位為空白時回應 400
func requireText(c *gin.Context, value, message string) bool {
	if lower(value) == "" {
		middleware.Abort(c, common.ErrInvalidRequest.WithMessage(message))
		return false
	}
	return true
}
