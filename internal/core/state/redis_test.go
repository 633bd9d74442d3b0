package state

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := NewRedisStore(ctx, RedisOptions{Addr: mr.Addr(), KeyPrefix: "recipe-assistant-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newTestRedisStore(t)
	exerciseStore(t, s, "redis-test")
}

func TestRedisStoreKeyLayout(t *testing.T) {
	s, mr := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.AddFavorite(ctx, "s1", "Beef Tacos")
	require.NoError(t, err)
	require.NoError(t, s.SaveInventoryItem(ctx, "s1", InventoryItem{Name: "Eggs"}))
	require.NoError(t, s.AddReview(ctx, Review{ID: "r1", Recipe: "Beef Tacos", Author: "s1"}))

	assert.True(t, mr.Exists("recipe-assistant-test:favorites:s1"))
	assert.True(t, mr.Exists("recipe-assistant-test:inventory:s1"))
	assert.True(t, mr.Exists("recipe-assistant-test:reviews"))
	assert.Equal(t, "r1", mr.HGet("recipe-assistant-test:review-owners", "s1|beef tacos"))
}

func TestRedisStoreHistoryIsCapped(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+2; i++ {
		require.NoError(t, s.RecordMealPlan(ctx, "s", MealPlan{ID: fmt.Sprint(i)}))
	}
	plans, err := s.MealPlans(ctx, "s", 0)
	require.NoError(t, err)
	assert.Len(t, plans, historyLimit)
	assert.Equal(t, fmt.Sprint(historyLimit+1), plans[0].ID)

	for i := 0; i < cookedHistoryLimit+2; i++ {
		require.NoError(t, s.RecordCooked(ctx, "s", CookedRecipe{Recipe: fmt.Sprint(i)}))
	}
	history, err := s.CookedHistory(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, history, cookedHistoryLimit)
	assert.Equal(t, "2", history[0].Recipe)
}

func TestRedisStoreCorruptRecord(t *testing.T) {
	s, mr := newTestRedisStore(t)

	mr.HSet("recipe-assistant-test:cooking:s", "c1", "{not json")
	_, err := s.CookingSession(context.Background(), "s", "c1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	require.Error(t, err)
}
