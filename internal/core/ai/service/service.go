package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

const systemPrompt = "You are a friendly home-cooking assistant. Answer cooking questions concisely and practically. " +
	"If a recipe is provided, base your answer on its ingredients and instructions."

// Generator 產生 AI 回應（OpenRouter 客戶端或測試替身）
type Generator interface {
	Generate(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error)
}

// Answer 烹飪問答結果
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Recipe   string `json:"recipe,omitempty"`
	Cached   bool   `json:"cached"`
}

// Service AI 烹飪問答服務
type Service struct {
	enabled      bool
	timeout      time.Duration
	cacheManager *cache.CacheManager
	queue        *queue.Manager
}

// NewService 創建 AI 服務；未啟用時 Ask 一律回傳 common.ErrAIDisabled
func NewService(cfg *config.Config, gen Generator) *Service {
	s := &Service{
		enabled: cfg.OpenRouter.Enabled && gen != nil,
		timeout: cfg.OpenRouter.Timeout,
	}
	if !s.enabled {
		common.LogInfo("AI 烹飪問答未啟用")
		return s
	}
	s.cacheManager = cache.NewManager(cfg.Cache)
	s.queue = queue.NewManager(cfg.Queue, gen.Generate)
	return s
}

// Enabled 是否可以提供問答
func (s *Service) Enabled() bool {
	return s.enabled
}

// Ask 回答烹飪問題；提供 recipe 時將食譜內容加入提示
func (s *Service) Ask(ctx context.Context, question string, recipe *kb.Recipe) (*Answer, error) {
	if !s.enabled {
		return nil, common.ErrAIDisabled
	}

	// 統一 prompt 格式，確保快取 key 一致
	question = strings.Join(strings.Fields(question), " ")
	if question == "" {
		return nil, common.ErrInvalidRequest.WithMessage("question is required")
	}
	prompt := buildPrompt(question, recipe)

	answer := &Answer{Question: question}
	if recipe != nil {
		answer.Recipe = recipe.Name
	}

	if val, err := s.cacheManager.Get(ctx, prompt); err == nil {
		answer.Answer = val
		answer.Cached = true
		return answer, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.queue.Submit(ctx, &openrouter.Request{
		Messages: []openrouter.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	common.LogAICall(time.Since(start), err, "")
	if err != nil {
		return nil, classify(err)
	}

	answer.Answer = strings.TrimSpace(resp.Content())
	_ = s.cacheManager.Set(ctx, prompt, answer.Answer)
	return answer, nil
}

// Stats 回傳快取與隊列狀態
func (s *Service) Stats() map[string]interface{} {
	if !s.enabled {
		return map[string]interface{}{"enabled": false}
	}
	return map[string]interface{}{
		"enabled": true,
		"cache":   s.cacheManager.GetStats(),
		"queue":   s.queue.GetQueueStatus(),
	}
}

// Close 關閉隊列與快取
func (s *Service) Close() error {
	if s.queue != nil {
		s.queue.Close()
	}
	return s.cacheManager.Close()
}

func buildPrompt(question string, recipe *kb.Recipe) string {
	if recipe == nil {
		return question
	}
	return fmt.Sprintf("Recipe: %s\nIngredients: %s\nInstructions: %s\nPrep time: %s\n\nQuestion: %s",
		recipe.Name, strings.Join(recipe.Ingredients, ", "), recipe.Instructions, recipe.PrepTime, question)
}

// classify 將底層錯誤轉為 API 錯誤
func classify(err error) error {
	switch {
	case errors.Is(err, queue.ErrQueueFull):
		return common.ErrTooManyRequests.WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithError(err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return common.ErrAIServiceError.WithError(err)
	}
}
