package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
	return &openrouter.Response{Choices: []openrouter.Choice{{Message: req.Messages[0]}}}, nil
}

func request(content string) *openrouter.Request {
	return &openrouter.Request{Messages: []openrouter.Message{{Role: "user", Content: content}}}
}

func TestSubmit(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 4}, echoHandler)
	t.Cleanup(m.Close)

	resp, err := m.Submit(context.Background(), request("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content())
	assert.Equal(t, int64(1), m.GetQueueStatus().ProcessedCount)
}

func TestSubmitPropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, func(context.Context, *openrouter.Request) (*openrouter.Response, error) {
		return nil, boom
	})
	t.Cleanup(m.Close)

	_, err := m.Submit(context.Background(), request("hi"))
	assert.ErrorIs(t, err, boom)
}

func TestEnqueueRejectsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, func(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
		started <- struct{}{}
		<-release
		return echoHandler(ctx, req)
	})
	t.Cleanup(m.Close)

	first, err := m.Enqueue(context.Background(), request("1"))
	require.NoError(t, err)
	<-started

	_, err = m.Enqueue(context.Background(), request("2"))
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), request("3"))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	select {
	case r := <-first:
		assert.NoError(t, r.Error)
	case <-time.After(time.Second):
		t.Fatal("first request not processed")
	}
}

func TestSubmitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 2}, func(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
		<-release
		return echoHandler(ctx, req)
	})
	t.Cleanup(func() {
		close(release)
		m.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Submit(ctx, request("slow"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClosedManager(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1}, echoHandler)
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), request("late"))
	assert.ErrorIs(t, err, ErrClosed)
}
