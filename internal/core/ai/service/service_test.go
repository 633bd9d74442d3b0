package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu       sync.Mutex
	calls    int
	lastUser string
	reply    string
	err      error
}

func (g *stubGenerator) Generate(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastUser = req.Messages[len(req.Messages)-1].Content
	if g.err != nil {
		return nil, g.err
	}
	return &openrouter.Response{Choices: []openrouter.Choice{{Message: openrouter.Message{Role: "assistant", Content: g.reply}}}}, nil
}

func testConfig(enabled bool) *config.Config {
	return &config.Config{
		OpenRouter: config.OpenRouterConfig{Enabled: enabled, Timeout: time.Second},
		Cache:      config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute},
		Queue:      config.QueueConfig{Workers: 1, MaxSize: 4},
	}
}

func newService(t *testing.T, gen Generator) *Service {
	t.Helper()
	s := NewService(testConfig(true), gen)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAskDisabled(t *testing.T) {
	s := NewService(testConfig(false), &stubGenerator{})
	assert.False(t, s.Enabled())

	_, err := s.Ask(context.Background(), "how long to rest steak?", nil)
	assert.ErrorIs(t, err, common.ErrAIDisabled)
	assert.NoError(t, s.Close())
}

func TestAskUsesRecipeAndCaches(t *testing.T) {
	gen := &stubGenerator{reply: "  Use less curry powder.  "}
	s := newService(t, gen)
	recipe, ok := kb.New().Recipe("Vegetable Curry")
	require.True(t, ok)

	answer, err := s.Ask(context.Background(), "how do I make it  milder?", &recipe)
	require.NoError(t, err)
	assert.Equal(t, "Use less curry powder.", answer.Answer)
	assert.Equal(t, "Vegetable Curry", answer.Recipe)
	assert.Equal(t, "how do I make it milder?", answer.Question)
	assert.False(t, answer.Cached)
	assert.Contains(t, gen.lastUser, "Recipe: Vegetable Curry")
	assert.Contains(t, gen.lastUser, "coconut milk")

	answer, err = s.Ask(context.Background(), "how do I make it milder?", &recipe)
	require.NoError(t, err)
	assert.True(t, answer.Cached)
	assert.Equal(t, 1, gen.calls)
}

func TestAskEmptyQuestion(t *testing.T) {
	s := newService(t, &stubGenerator{reply: "x"})

	_, err := s.Ask(context.Background(), "   ", nil)
	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, common.ErrCodeInvalidRequest, ce.Code)
}

func TestAskWrapsUpstreamError(t *testing.T) {
	upstream := errors.New("upstream down")
	s := newService(t, &stubGenerator{err: upstream})

	_, err := s.Ask(context.Background(), "why is my bread dense?", nil)
	require.ErrorIs(t, err, upstream)
	var ce *common.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "AI_SERVICE_ERROR", ce.Code)
}
