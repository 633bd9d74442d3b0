package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"
)

var (
	ErrCollectionNotFound = common.ErrNotFound.WithMessage("Collection not found")
	ErrChallengeNotFound  = common.ErrNotFound.WithMessage("Challenge not found")
	ErrCollectionName     = common.NewValidationError("collection name is required")
	ErrChallengeTitle     = common.NewValidationError("challenge title is required")
	ErrChallengeTargets   = common.NewValidationError("challenge needs at least one target recipe")
	ErrChallengeType      = common.NewValidationError("invalid challenge type")
	ErrChallengeDuration  = common.NewValidationError("duration days must be greater than zero")
	ErrNotChallengeTarget = common.NewValidationError("recipe is not part of this challenge")
	ErrChallengeClosed    = common.ErrConflict.WithMessage("Challenge is no longer active")
)

const defaultChallengeDays = 7

// challengeRewards 各挑戰類型的獎勵
var challengeRewards = map[string][]string{
	"weekly_recipe":    {"Chef Badge", "Recipe Explorer"},
	"technique_master": {"Technique Master Badge", "Skill Level Up"},
	"cuisine_explorer": {"World Traveler Badge", "Cuisine Expert"},
	"healthy_eating":   {"Health Champion Badge", "Wellness Warrior"},
	"meal_prep":        {"Meal Prep Pro Badge", "Organization Master"},
	"speed_cooking":    {"Speed Chef Badge", "Time Saver"},
}

// CollectionInput 建立食譜集的內容
type CollectionInput struct {
	Name        string
	Description string
	Tags        []string
	IsPublic    bool
}

// CollectionResult 食譜集異動結果
type CollectionResult struct {
	Collection state.Collection `json:"collection"`
	Message    string           `json:"message"`
}

// ChallengeInput 建立挑戰的內容；Type 空白時為 weekly_recipe
type ChallengeInput struct {
	Type          string
	Title         string
	Description   string
	TargetRecipes []string
	DurationDays  int
	Difficulty    string
}

// ChallengeResult 挑戰異動結果
type ChallengeResult struct {
	Challenge state.Challenge `json:"challenge"`
	Completed bool            `json:"completed"`
	Message   string          `json:"message"`
}

// CreateCollection 建立食譜集
func (a *Assistant) CreateCollection(ctx context.Context, session string, in CollectionInput) (CollectionResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return CollectionResult{}, ErrCollectionName
	}
	now := a.now()
	c := state.Collection{
		ID:          common.GenerateUUID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Recipes:     []string{},
		Tags:        nonNil(in.Tags),
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.SaveCollection(ctx, session, c); err != nil {
		return CollectionResult{}, fmt.Errorf("save collection: %w", err)
	}
	return CollectionResult{Collection: c, Message: fmt.Sprintf("Collection %q created successfully", name)}, nil
}

// Collections 回傳會話的食譜集
func (a *Assistant) Collections(ctx context.Context, session string) ([]state.Collection, error) {
	cols, err := a.store.Collections(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// AddToCollection 將食譜加入食譜集，已存在時不重複加入
func (a *Assistant) AddToCollection(ctx context.Context, session, id, name string) (CollectionResult, error) {
	r, err := a.lookup(name)
	if err != nil {
		return CollectionResult{}, err
	}
	cols, err := a.Collections(ctx, session)
	if err != nil {
		return CollectionResult{}, err
	}
	for _, c := range cols {
		if c.ID != id {
			continue
		}
		if !containsString(c.Recipes, r.Name) {
			c.Recipes = append(c.Recipes, r.Name)
			c.UpdatedAt = a.now()
			if err := a.store.SaveCollection(ctx, session, c); err != nil {
				return CollectionResult{}, fmt.Errorf("save collection: %w", err)
			}
		}
		return CollectionResult{Collection: c, Message: fmt.Sprintf("Added %s to collection", r.Name)}, nil
	}
	return CollectionResult{}, ErrCollectionNotFound
}

// CreateChallenge 建立挑戰，目標食譜需存在於知識庫
func (a *Assistant) CreateChallenge(ctx context.Context, session string, in ChallengeInput) (ChallengeResult, error) {
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		kind = "weekly_recipe"
	}
	rewards, ok := challengeRewards[kind]
	if !ok {
		return ChallengeResult{}, ErrChallengeType
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return ChallengeResult{}, ErrChallengeTitle
	}
	if len(in.TargetRecipes) == 0 {
		return ChallengeResult{}, ErrChallengeTargets
	}
	days := in.DurationDays
	if days == 0 {
		days = defaultChallengeDays
	}
	if days < 0 {
		return ChallengeResult{}, ErrChallengeDuration
	}
	targets := []string{}
	for _, name := range in.TargetRecipes {
		r, err := a.lookup(name)
		if err != nil {
			return ChallengeResult{}, err
		}
		if !containsString(targets, r.Name) {
			targets = append(targets, r.Name)
		}
	}
	difficulty := strings.TrimSpace(in.Difficulty)
	if difficulty == "" {
		difficulty = "medium"
	}

	start := a.now()
	c := state.Challenge{
		ID:               common.GenerateUUID(),
		Type:             kind,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, days),
		TargetRecipes:    targets,
		CompletedRecipes: []string{},
		Rewards:          append([]string{}, rewards...),
		Difficulty:       difficulty,
		IsActive:         true,
	}
	if err := a.store.SaveChallenge(ctx, session, c); err != nil {
		return ChallengeResult{}, fmt.Errorf("save challenge: %w", err)
	}
	return ChallengeResult{Challenge: c, Message: fmt.Sprintf("Challenge %q created successfully", title)}, nil
}

// ActiveChallenges 回傳仍在進行且未過期的挑戰
func (a *Assistant) ActiveChallenges(ctx context.Context, session string) ([]state.Challenge, error) {
	all, err := a.store.Challenges(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	now := a.now()
	out := []state.Challenge{}
	for _, c := range all {
		if c.IsActive && !challengeExpired(c, now) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CompleteChallengeRecipe 記錄挑戰中完成的食譜，全部完成時結束挑戰
func (a *Assistant) CompleteChallengeRecipe(ctx context.Context, session, id, name string) (ChallengeResult, error) {
	r, err := a.lookup(name)
	if err != nil {
		return ChallengeResult{}, err
	}
	all, err := a.store.Challenges(ctx, session)
	if err != nil {
		return ChallengeResult{}, fmt.Errorf("list challenges: %w", err)
	}
	for _, c := range all {
		if c.ID != id {
			continue
		}
		if !c.IsActive || challengeExpired(c, a.now()) {
			return ChallengeResult{}, ErrChallengeClosed
		}
		if !containsString(c.TargetRecipes, r.Name) {
			return ChallengeResult{}, ErrNotChallengeTarget
		}
		if !containsString(c.CompletedRecipes, r.Name) {
			c.CompletedRecipes = append(c.CompletedRecipes, r.Name)
			c.ProgressPercentage = common.Round(float64(len(c.CompletedRecipes))/float64(len(c.TargetRecipes))*100, 1)
		}
		completed := len(c.CompletedRecipes) == len(c.TargetRecipes)
		if completed {
			c.IsActive = false
		}
		if err := a.store.SaveChallenge(ctx, session, c); err != nil {
			return ChallengeResult{}, fmt.Errorf("save challenge: %w", err)
		}
		msg := fmt.Sprintf("Completed %s!", r.Name)
		if completed {
			msg += " Challenge completed!"
		}
		return ChallengeResult{Challenge: c, Completed: completed, Message: msg}, nil
	}
	return ChallengeResult{}, ErrChallengeNotFound
}

// challengeExpired 結束時間（含）之後視為過期
func challengeExpired(c state.Challenge, now time.Time) bool {
	return !now.Before(c.EndDate)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
