package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"
)

var (
	ErrInventoryItemNotFound = common.ErrNotFound.WithMessage("Item not found in inventory")
	ErrInventoryName         = common.NewValidationError("item name is required")
	ErrInventoryQuantity     = common.NewValidationError("quantity must be greater than zero")
	ErrInventoryExpiry       = common.NewValidationError("expiry date must use the YYYY-MM-DD format")
	ErrInventoryLocation     = common.NewValidationError("location must be one of pantry, fridge, freezer")
	ErrEmptyInventoryEdit    = common.NewValidationError("no updatable inventory fields provided")
)

// 庫存存放位置
const (
	LocationPantry  = "pantry"
	LocationFridge  = "fridge"
	LocationFreezer = "freezer"
)

const (
	expiryLayout     = "2006-01-02"
	expiringSoonDays = 7
)

// InventoryInput 新增庫存的內容；空白欄位使用預設值
type InventoryInput struct {
	Name       string
	Quantity   float64
	Unit       string
	ExpiryDate string
	Location   string
	Category   string
	Notes      string
}

// InventoryUpdate 可修改的庫存欄位，nil 表示不變
type InventoryUpdate struct {
	Quantity   *float64
	Unit       *string
	ExpiryDate *string
	Location   *string
	Category   *string
	Notes      *string
}

// ExpiringItem 七天內到期的庫存
type ExpiringItem struct {
	Item            state.InventoryItem `json:"item"`
	DaysUntilExpiry int                 `json:"days_until_expiry"`
}

// InventoryView 依存放位置分組的庫存
type InventoryView struct {
	Inventory    map[string][]state.InventoryItem `json:"inventory"`
	TotalItems   int                              `json:"total_items"`
	ExpiringSoon []ExpiringItem                   `json:"expiring_soon"`
}

// InventoryResult 新增後的結果
type InventoryResult struct {
	Message   string                `json:"message"`
	Inventory []state.InventoryItem `json:"inventory"`
}

func validLocation(loc string) bool {
	switch loc {
	case LocationPantry, LocationFridge, LocationFreezer:
		return true
	}
	return false
}

func validExpiry(date string) bool {
	if date == "" {
		return true
	}
	_, err := time.Parse(expiryLayout, date)
	return err == nil
}

// AddInventoryItem 加入庫存，同名項目會被取代
func (a *Assistant) AddInventoryItem(ctx context.Context, session string, in InventoryInput) (InventoryResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return InventoryResult{}, ErrInventoryName
	}
	if in.Quantity < 0 {
		return InventoryResult{}, ErrInventoryQuantity
	}
	item := state.InventoryItem{
		Name:       name,
		Quantity:   in.Quantity,
		Unit:       strings.TrimSpace(in.Unit),
		ExpiryDate: strings.TrimSpace(in.ExpiryDate),
		Location:   strings.ToLower(strings.TrimSpace(in.Location)),
		Category:   strings.TrimSpace(in.Category),
		Notes:      strings.TrimSpace(in.Notes),
		AddedAt:    a.now(),
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Unit == "" {
		item.Unit = "item"
	}
	if item.Location == "" {
		item.Location = LocationPantry
	}
	if item.Category == "" {
		item.Category = "other"
	}
	if !validLocation(item.Location) {
		return InventoryResult{}, ErrInventoryLocation
	}
	if !validExpiry(item.ExpiryDate) {
		return InventoryResult{}, ErrInventoryExpiry
	}

	if err := a.store.SaveInventoryItem(ctx, session, item); err != nil {
		return InventoryResult{}, fmt.Errorf("save inventory item: %w", err)
	}
	items, err := a.store.InventoryItems(ctx, session)
	if err != nil {
		return InventoryResult{}, fmt.Errorf("list inventory: %w", err)
	}
	return InventoryResult{Message: fmt.Sprintf("Added %s to inventory", name), Inventory: items}, nil
}

// Inventory 回傳依位置分組的庫存與七天內到期的項目
func (a *Assistant) Inventory(ctx context.Context, session string) (InventoryView, error) {
	items, err := a.store.InventoryItems(ctx, session)
	if err != nil {
		return InventoryView{}, fmt.Errorf("list inventory: %w", err)
	}
	view := InventoryView{
		Inventory: map[string][]state.InventoryItem{
			LocationPantry:  {},
			LocationFridge:  {},
			LocationFreezer: {},
		},
		TotalItems:   len(items),
		ExpiringSoon: []ExpiringItem{},
	}

	now := a.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, item := range items {
		view.Inventory[item.Location] = append(view.Inventory[item.Location], item)
		if item.ExpiryDate == "" {
			continue
		}
		expiry, err := time.Parse(expiryLayout, item.ExpiryDate)
		if err != nil {
			continue
		}
		days := int(expiry.Sub(today).Hours() / 24)
		if days >= 0 && days <= expiringSoonDays {
			view.ExpiringSoon = append(view.ExpiringSoon, ExpiringItem{Item: item, DaysUntilExpiry: days})
		}
	}
	return view, nil
}

// findInventoryItem 依名稱取得庫存項目
func (a *Assistant) findInventoryItem(ctx context.Context, session, name string) (state.InventoryItem, error) {
	items, err := a.store.InventoryItems(ctx, session)
	if err != nil {
		return state.InventoryItem{}, fmt.Errorf("list inventory: %w", err)
	}
	key := state.InventoryKey(name)
	for _, item := range items {
		if state.InventoryKey(item.Name) == key {
			return item, nil
		}
	}
	return state.InventoryItem{}, ErrInventoryItemNotFound
}

// UpdateInventoryItem 修改既有庫存項目
func (a *Assistant) UpdateInventoryItem(ctx context.Context, session, name string, u InventoryUpdate) (state.InventoryItem, error) {
	if u == (InventoryUpdate{}) {
		return state.InventoryItem{}, ErrEmptyInventoryEdit
	}
	item, err := a.findInventoryItem(ctx, session, name)
	if err != nil {
		return state.InventoryItem{}, err
	}
	if u.Quantity != nil {
		if *u.Quantity <= 0 {
			return state.InventoryItem{}, ErrInventoryQuantity
		}
		item.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		item.Unit = strings.TrimSpace(*u.Unit)
	}
	if u.ExpiryDate != nil {
		date := strings.TrimSpace(*u.ExpiryDate)
		if !validExpiry(date) {
			return state.InventoryItem{}, ErrInventoryExpiry
		}
		item.ExpiryDate = date
	}
	if u.Location != nil {
		loc := strings.ToLower(strings.TrimSpace(*u.Location))
		if !validLocation(loc) {
			return state.InventoryItem{}, ErrInventoryLocation
		}
		item.Location = loc
	}
	if u.Category != nil {
		item.Category = strings.TrimSpace(*u.Category)
	}
	if u.Notes != nil {
		item.Notes = strings.TrimSpace(*u.Notes)
	}
	if err := a.store.SaveInventoryItem(ctx, session, item); err != nil {
		return state.InventoryItem{}, fmt.Errorf("save inventory item: %w", err)
	}
	return item, nil
}

// RemoveInventoryItem 移除庫存項目並回傳被移除的內容
func (a *Assistant) RemoveInventoryItem(ctx context.Context, session, name string) (state.InventoryItem, error) {
	item, err := a.findInventoryItem(ctx, session, name)
	if err != nil {
		return state.InventoryItem{}, err
	}
	if err := a.store.DeleteInventoryItem(ctx, session, name); err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return state.InventoryItem{}, ErrInventoryItemNotFound
		}
		return state.InventoryItem{}, fmt.Errorf("delete inventory item: %w", err)
	}
	return item, nil
}

// InventoryRecipes 以庫存食材比對食譜；庫存為空時 ok 為 false
func (a *Assistant) InventoryRecipes(ctx context.Context, session string) (LeftoverSuggestions, bool, error) {
	items, err := a.store.InventoryItems(ctx, session)
	if err != nil {
		return LeftoverSuggestions{}, false, fmt.Errorf("list inventory: %w", err)
	}
	if len(items) == 0 {
		return LeftoverSuggestions{}, false, nil
	}
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return a.Leftovers(names), true, nil
}
