package state

import (
	"context"
	"fmt"
	"sort"

	"recipe-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var _ Store = (*RedisStore)(nil)

// RedisOptions Redis 連線設定
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore 以 Redis 保存會話狀態，多個實例可共用
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore 建立 Redis 儲存並測試連線
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "recipe-assistant"
	}

	common.LogInfo("Redis 狀態儲存已連線",
		zap.String("addr", opts.Addr),
		zap.Int("db", opts.DB),
		zap.String("prefix", prefix),
	)

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) favoritesKey(session string) string {
	return fmt.Sprintf("%s:favorites:%s", s.prefix, session)
}

func (s *RedisStore) ratingsKey(session, recipe string) string {
	return fmt.Sprintf("%s:ratings:%s:%s", s.prefix, session, recipe)
}

func (s *RedisStore) plansKey(session string) string {
	return fmt.Sprintf("%s:mealplans:%s", s.prefix, session)
}

func (s *RedisStore) AddFavorite(ctx context.Context, session, recipe string) (int, error) {
	key := s.favoritesKey(session)
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, recipe)
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to add favorite: %w", err)
	}
	return int(card.Val()), nil
}

func (s *RedisStore) Favorites(ctx context.Context, session string) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.favoritesKey(session)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	sort.Strings(members)
	return members, nil
}

func (s *RedisStore) AddRating(ctx context.Context, session string, rating Rating) error {
	data, err := common.ToJSON(rating)
	if err != nil {
		return fmt.Errorf("failed to marshal rating: %w", err)
	}
	if err := s.client.RPush(ctx, s.ratingsKey(session, rating.Recipe), data).Err(); err != nil {
		return fmt.Errorf("failed to store rating: %w", err)
	}
	return nil
}

func (s *RedisStore) Ratings(ctx context.Context, session, recipe string) ([]Rating, error) {
	raw, err := s.client.LRange(ctx, s.ratingsKey(session, recipe), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	out := make([]Rating, 0, len(raw))
	for _, item := range raw {
		var r Rating
		if err := common.ParseJSON(item, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RedisStore) RecordMealPlan(ctx context.Context, session string, plan MealPlan) error {
	data, err := common.ToJSON(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal meal plan: %w", err)
	}
	key := s.plansKey(session)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, historyLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store meal plan: %w", err)
	}
	return nil
}

func (s *RedisStore) MealPlans(ctx context.Context, session string, limit int) ([]MealPlan, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	raw, err := s.client.LRange(ctx, s.plansKey(session), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plans: %w", err)
	}
	out := make([]MealPlan, 0, len(raw))
	for _, item := range raw {
		var p MealPlan
		if err := common.ParseJSON(item, &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal plan: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
