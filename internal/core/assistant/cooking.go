package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	ErrCookingNotFound    = common.ErrNotFound.WithMessage("Cooking session not found")
	ErrNoCurrentStep      = common.ErrNotFound.WithMessage("No current step found")
	ErrStepsUnavailable   = common.ErrUnprocessable.WithMessage("Recipe steps not available")
	ErrNoMoreSteps        = common.ErrConflict.WithMessage("No more steps available")
	ErrCookingPaused      = common.ErrConflict.WithMessage("Cooking session is paused")
	ErrCookingFinished    = common.ErrConflict.WithMessage("Cooking session already completed")
	ErrInvalidSkillLevel  = common.NewValidationError("skill level must be one of beginner, intermediate, advanced, expert")
	ErrInvalidGuidanceKey = common.NewValidationError("guidance type must be one of basic, detailed, troubleshooting")
)

// GuidanceType 步驟說明的詳細程度
type GuidanceType string

const (
	GuidanceBasic           GuidanceType = "basic"
	GuidanceDetailed        GuidanceType = "detailed"
	GuidanceTroubleshooting GuidanceType = "troubleshooting"
)

// speedCookerLimit 完成時間低於此值可得到 Speed Cooker
const speedCookerLimit = 30 * time.Minute

// CookingStart 開始導引烹飪的結果
type CookingStart struct {
	SessionID        string              `json:"session_id"`
	Recipe           string              `json:"recipe_name"`
	CurrentStep      kb.CookingStep      `json:"current_step"`
	TotalSteps       int                 `json:"total_steps"`
	EstimatedTime    int                 `json:"estimated_time"`
	SkillAdjustments kb.SkillAdjustments `json:"skill_adjustments"`
	Message          string              `json:"message"`
}

// SessionTime 導引烹飪花費的時間
type SessionTime struct {
	TotalMinutes int       `json:"total_minutes"`
	Formatted    string    `json:"formatted_time"`
	Estimated    time.Time `json:"estimated_completion"`
	Actual       time.Time `json:"actual"`
}

// StepAdvance 前進一步的結果；完成最後一步時 Completed 為 true
type StepAdvance struct {
	SessionID    string          `json:"session_id"`
	PreviousStep *kb.CookingStep `json:"previous_step,omitempty"`
	CurrentStep  *kb.CookingStep `json:"current_step,omitempty"`
	Progress     float64         `json:"progress"`
	Completed    bool            `json:"completed"`
	FinalStep    *kb.CookingStep `json:"final_step,omitempty"`
	TotalTime    *SessionTime    `json:"total_time,omitempty"`
	Message      string          `json:"message"`
}

// StepGuidance 目前步驟的說明
type StepGuidance struct {
	Step            kb.CookingStep       `json:"step"`
	BasicTips       []string             `json:"basic_tips"`
	Warnings        []string             `json:"warnings"`
	TechniqueGuide  *kb.TechniqueGuide   `json:"technique_guide,omitempty"`
	SkillGuidance   *kb.SkillGuidance    `json:"skill_guidance,omitempty"`
	Troubleshooting []kb.Troubleshooting `json:"troubleshooting,omitempty"`
}

// PauseResult 暫停或繼續的結果
type PauseResult struct {
	SessionID   string          `json:"session_id"`
	Paused      bool            `json:"paused"`
	Reason      string          `json:"reason,omitempty"`
	CurrentStep *kb.CookingStep `json:"current_step,omitempty"`
	Message     string          `json:"message"`
}

// CookingSummary 導引烹飪的摘要
type CookingSummary struct {
	Session        state.CookingSession `json:"session"`
	TimeInfo       SessionTime          `json:"time_info"`
	CompletedSteps int                  `json:"completed_steps"`
	TotalSteps     int                  `json:"total_steps"`
	Notes          []state.StepNote     `json:"notes"`
	Achievements   []string             `json:"achievements"`
}

// StartCooking 為有步驟資料的食譜開始導引烹飪
func (a *Assistant) StartCooking(ctx context.Context, session, name, skill string) (CookingStart, error) {
	level := kb.SkillLevel(strings.ToLower(strings.TrimSpace(skill)))
	if level == "" {
		level = kb.Beginner
	}
	if !level.Valid() {
		return CookingStart{}, ErrInvalidSkillLevel
	}
	r, err := a.lookup(name)
	if err != nil {
		return CookingStart{}, err
	}
	steps, ok := a.kb.CookingSteps(r.Name)
	if !ok || len(steps) == 0 {
		return CookingStart{}, ErrStepsUnavailable
	}

	total := 0
	for _, s := range steps {
		total += s.DurationMinutes
	}
	now := a.now()
	cooking := state.CookingSession{
		ID:                  common.GenerateUUID(),
		Recipe:              r.Name,
		SkillLevel:          string(level),
		CurrentStep:         1,
		TotalSteps:          len(steps),
		StartedAt:           now,
		EstimatedCompletion: now.Add(time.Duration(total) * time.Minute),
		CompletedSteps:      []string{},
		Notes:               []state.StepNote{},
	}
	if err := a.store.SaveCookingSession(ctx, session, cooking); err != nil {
		return CookingStart{}, fmt.Errorf("save cooking session: %w", err)
	}

	common.LogDebug("導引烹飪開始",
		zap.String("session", session),
		zap.String("cooking_id", cooking.ID),
		zap.String("recipe", r.Name),
	)

	return CookingStart{
		SessionID:        cooking.ID,
		Recipe:           r.Name,
		CurrentStep:      steps[0],
		TotalSteps:       len(steps),
		EstimatedTime:    total,
		SkillAdjustments: level.Adjustments(),
		Message:          "Cooking session started for " + r.Name,
	}, nil
}

// cookingState 取得進度與食譜步驟
func (a *Assistant) cookingState(ctx context.Context, session, id string) (state.CookingSession, []kb.CookingStep, error) {
	cooking, err := a.store.CookingSession(ctx, session, id)
	if errors.Is(err, state.ErrNotFound) {
		return state.CookingSession{}, nil, ErrCookingNotFound
	}
	if err != nil {
		return state.CookingSession{}, nil, fmt.Errorf("load cooking session: %w", err)
	}
	steps, ok := a.kb.CookingSteps(cooking.Recipe)
	if !ok {
		return state.CookingSession{}, nil, ErrStepsUnavailable
	}
	return cooking, steps, nil
}

func currentStep(cooking state.CookingSession, steps []kb.CookingStep) (kb.CookingStep, bool) {
	if cooking.CurrentStep < 1 || cooking.CurrentStep > len(steps) {
		return kb.CookingStep{}, false
	}
	return steps[cooking.CurrentStep-1], true
}

// CurrentStep 回傳目前步驟，全部完成後回傳 ErrNoCurrentStep
func (a *Assistant) CurrentStep(ctx context.Context, session, id string) (kb.CookingStep, error) {
	cooking, steps, err := a.cookingState(ctx, session, id)
	if err != nil {
		return kb.CookingStep{}, err
	}
	step, ok := currentStep(cooking, steps)
	if !ok {
		return kb.CookingStep{}, ErrNoCurrentStep
	}
	return step, nil
}

// NextStep 完成目前步驟並前進，暫停中不能前進
func (a *Assistant) NextStep(ctx context.Context, session, id, note string) (StepAdvance, error) {
	cooking, steps, err := a.cookingState(ctx, session, id)
	if err != nil {
		return StepAdvance{}, err
	}
	done, ok := currentStep(cooking, steps)
	if !ok {
		return StepAdvance{}, ErrNoMoreSteps
	}
	if cooking.Paused {
		return StepAdvance{}, ErrCookingPaused
	}

	now := a.now()
	cooking.CompletedSteps = append(cooking.CompletedSteps, done.ID)
	cooking.CurrentStep++
	cooking.ProgressPercentage = common.Round(float64(cooking.CurrentStep-1)/float64(cooking.TotalSteps)*100, 1)
	if note = strings.TrimSpace(note); note != "" {
		cooking.Notes = append(cooking.Notes, state.StepNote{Step: done.ID, Note: note, At: now})
	}

	next, more := currentStep(cooking, steps)
	if !more {
		cooking.ProgressPercentage = 100
		cooking.CompletedAt = &now
	}
	if err := a.store.SaveCookingSession(ctx, session, cooking); err != nil {
		return StepAdvance{}, fmt.Errorf("save cooking session: %w", err)
	}

	if more {
		return StepAdvance{
			SessionID:    id,
			PreviousStep: &done,
			CurrentStep:  &next,
			Progress:     cooking.ProgressPercentage,
			Message:      fmt.Sprintf("Moved to step %d: %s", cooking.CurrentStep, next.Title),
		}, nil
	}

	if err := a.store.RecordCooked(ctx, session, state.CookedRecipe{Recipe: cooking.Recipe, CookedAt: now}); err != nil {
		return StepAdvance{}, fmt.Errorf("record cooked recipe: %w", err)
	}
	elapsed := a.sessionTime(cooking)
	return StepAdvance{
		SessionID: id,
		Progress:  100,
		Completed: true,
		FinalStep: &done,
		TotalTime: &elapsed,
		Message:   "Cooking session completed successfully!",
	}, nil
}

// Guidance 回傳目前步驟的說明；kind 空白時為 detailed
func (a *Assistant) Guidance(ctx context.Context, session, id string, kind GuidanceType) (StepGuidance, error) {
	if kind == "" {
		kind = GuidanceDetailed
	}
	switch kind {
	case GuidanceBasic, GuidanceDetailed, GuidanceTroubleshooting:
	default:
		return StepGuidance{}, ErrInvalidGuidanceKey
	}
	cooking, steps, err := a.cookingState(ctx, session, id)
	if err != nil {
		return StepGuidance{}, err
	}
	step, ok := currentStep(cooking, steps)
	if !ok {
		return StepGuidance{}, ErrNoCurrentStep
	}

	g := StepGuidance{Step: step, BasicTips: step.Tips, Warnings: step.Warnings}
	switch kind {
	case GuidanceDetailed:
		if guide, ok := a.kb.Technique(step); ok {
			g.TechniqueGuide = &guide
		}
		skill := kb.SkillLevel(cooking.SkillLevel).Guidance()
		g.SkillGuidance = &skill
	case GuidanceTroubleshooting:
		g.Troubleshooting = a.kb.Troubleshoot(step)
	}
	return g, nil
}

// PauseCooking 暫停導引烹飪
func (a *Assistant) PauseCooking(ctx context.Context, session, id, reason string) (PauseResult, error) {
	cooking, _, err := a.cookingState(ctx, session, id)
	if err != nil {
		return PauseResult{}, err
	}
	if cooking.Finished() {
		return PauseResult{}, ErrCookingFinished
	}
	cooking.Paused = true
	cooking.PauseReason = strings.TrimSpace(reason)
	if err := a.store.SaveCookingSession(ctx, session, cooking); err != nil {
		return PauseResult{}, fmt.Errorf("save cooking session: %w", err)
	}
	return PauseResult{SessionID: id, Paused: true, Reason: cooking.PauseReason, Message: "Cooking session paused"}, nil
}

// ResumeCooking 繼續導引烹飪並回傳目前步驟
func (a *Assistant) ResumeCooking(ctx context.Context, session, id string) (PauseResult, error) {
	cooking, steps, err := a.cookingState(ctx, session, id)
	if err != nil {
		return PauseResult{}, err
	}
	cooking.Paused = false
	cooking.PauseReason = ""
	if err := a.store.SaveCookingSession(ctx, session, cooking); err != nil {
		return PauseResult{}, fmt.Errorf("save cooking session: %w", err)
	}
	res := PauseResult{SessionID: id, Message: "Cooking session resumed"}
	if step, ok := currentStep(cooking, steps); ok {
		res.CurrentStep = &step
	}
	return res, nil
}

// CookingSummary 回傳進度、花費時間與成就
func (a *Assistant) CookingSummary(ctx context.Context, session, id string) (CookingSummary, error) {
	cooking, _, err := a.cookingState(ctx, session, id)
	if err != nil {
		return CookingSummary{}, err
	}
	elapsed := a.sessionTime(cooking)
	return CookingSummary{
		Session:        cooking,
		TimeInfo:       elapsed,
		CompletedSteps: len(cooking.CompletedSteps),
		TotalSteps:     cooking.TotalSteps,
		Notes:          cooking.Notes,
		Achievements:   achievements(cooking),
	}, nil
}

// sessionTime 計算到完成時間（未完成時到現在）為止的耗時
func (a *Assistant) sessionTime(cooking state.CookingSession) SessionTime {
	end := a.now()
	if cooking.CompletedAt != nil {
		end = *cooking.CompletedAt
	}
	d := end.Sub(cooking.StartedAt)
	if d < 0 {
		d = 0
	}
	return SessionTime{
		TotalMinutes: int(d / time.Minute),
		Formatted:    formatClock(d),
		Estimated:    cooking.EstimatedCompletion,
		Actual:       end,
	}
}

// formatClock 以 H:MM:SS 顯示
func formatClock(d time.Duration) string {
	secs := int64(d / time.Second)
	return strconv.FormatInt(secs/3600, 10) + fmt.Sprintf(":%02d:%02d", secs/60%60, secs%60)
}

func achievements(cooking state.CookingSession) []string {
	out := []string{}
	if cooking.ProgressPercentage == 100 {
		out = append(out, "Recipe Master - Completed full recipe")
	}
	if len(cooking.Notes) == 0 {
		out = append(out, "Confident Cook - No notes needed")
	}
	switch kb.SkillLevel(cooking.SkillLevel) {
	case kb.Advanced, kb.Expert:
		out = append(out, "Brave Chef - Attempted advanced recipe")
	}
	if cooking.CompletedAt != nil && cooking.CompletedAt.Sub(cooking.StartedAt) < speedCookerLimit {
		out = append(out, "Speed Cooker - Finished in under 30 minutes")
	}
	return out
}
