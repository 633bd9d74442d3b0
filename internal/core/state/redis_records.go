package state

import (
	"context"
	"errors"
	"fmt"

	"recipe-assistant/internal/pkg/common"

	"github.com/go-redis/redis/v8"
)

func (s *RedisStore) inventoryKey(session string) string {
	return fmt.Sprintf("%s:inventory:%s", s.prefix, session)
}

func (s *RedisStore) reviewsKey() string {
	return s.prefix + ":reviews"
}

func (s *RedisStore) reviewOwnersKey() string {
	return s.prefix + ":review-owners"
}

func (s *RedisStore) helpfulKey(reviewID string) string {
	return fmt.Sprintf("%s:helpful:%s", s.prefix, reviewID)
}

func (s *RedisStore) cookingKey(session string) string {
	return fmt.Sprintf("%s:cooking:%s", s.prefix, session)
}

func (s *RedisStore) goalsKey(session string) string {
	return fmt.Sprintf("%s:goals:%s", s.prefix, session)
}

func (s *RedisStore) collectionsKey(session string) string {
	return fmt.Sprintf("%s:collections:%s", s.prefix, session)
}

func (s *RedisStore) challengesKey(session string) string {
	return fmt.Sprintf("%s:challenges:%s", s.prefix, session)
}

func (s *RedisStore) cookedKey(session string) string {
	return fmt.Sprintf("%s:cooked:%s", s.prefix, session)
}

// hashPut 將 v 以 JSON 寫入 hash 欄位
func (s *RedisStore) hashPut(ctx context.Context, key, field, what string, v interface{}) error {
	data, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	if err := s.client.HSet(ctx, key, field, data).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", what, err)
	}
	return nil
}

// hashGet 讀取 hash 欄位，不存在時回傳 ErrNotFound
func hashGet[T any](ctx context.Context, s *RedisStore, key, field, what string) (T, error) {
	var out T
	raw, err := s.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("failed to load %s: %w", what, err)
	}
	if err := common.ParseJSON(raw, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return out, nil
}

// hashValues 讀取 hash 所有欄位值
func hashValues[T any](ctx context.Context, s *RedisStore, key, what string) ([]T, error) {
	raw, err := s.client.HVals(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", what, err)
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		var v T
		if err := common.ParseJSON(item, &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", what, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *RedisStore) SaveInventoryItem(ctx context.Context, session string, item InventoryItem) error {
	return s.hashPut(ctx, s.inventoryKey(session), InventoryKey(item.Name), "inventory item", item)
}

func (s *RedisStore) InventoryItems(ctx context.Context, session string) ([]InventoryItem, error) {
	items, err := hashValues[InventoryItem](ctx, s, s.inventoryKey(session), "inventory")
	if err != nil {
		return nil, err
	}
	sortInventory(items)
	return items, nil
}

func (s *RedisStore) DeleteInventoryItem(ctx context.Context, session, name string) error {
	n, err := s.client.HDel(ctx, s.inventoryKey(session), InventoryKey(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) AddReview(ctx context.Context, review Review) error {
	owner := reviewOwnerKey(review.Author, review.Recipe)
	claimed, err := s.client.HSetNX(ctx, s.reviewOwnersKey(), owner, review.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to index review: %w", err)
	}
	if !claimed {
		return ErrDuplicate
	}
	review.HelpfulCount = 0
	if err := s.hashPut(ctx, s.reviewsKey(), review.ID, "review", review); err != nil {
		_ = s.client.HDel(ctx, s.reviewOwnersKey(), owner).Err()
		return err
	}
	return nil
}

func (s *RedisStore) UpdateReview(ctx context.Context, review Review) error {
	exists, err := s.client.HExists(ctx, s.reviewsKey(), review.ID).Result()
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	review.HelpfulCount = 0
	return s.hashPut(ctx, s.reviewsKey(), review.ID, "review", review)
}

func (s *RedisStore) DeleteReview(ctx context.Context, id string) error {
	r, err := hashGet[Review](ctx, s, s.reviewsKey(), id, "review")
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HDel(ctx, s.reviewsKey(), id)
	pipe.HDel(ctx, s.reviewOwnersKey(), reviewOwnerKey(r.Author, r.Recipe))
	pipe.Del(ctx, s.helpfulKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (s *RedisStore) Review(ctx context.Context, id string) (Review, error) {
	r, err := hashGet[Review](ctx, s, s.reviewsKey(), id, "review")
	if err != nil {
		return Review{}, err
	}
	count, err := s.client.SCard(ctx, s.helpfulKey(id)).Result()
	if err != nil {
		return Review{}, fmt.Errorf("failed to count helpful votes: %w", err)
	}
	r.HelpfulCount = int(count)
	return r, nil
}

func (s *RedisStore) Reviews(ctx context.Context) ([]Review, error) {
	reviews, err := hashValues[Review](ctx, s, s.reviewsKey(), "reviews")
	if err != nil {
		return nil, err
	}
	if len(reviews) > 0 {
		pipe := s.client.Pipeline()
		counts := make([]*redis.IntCmd, len(reviews))
		for i, r := range reviews {
			counts[i] = pipe.SCard(ctx, s.helpfulKey(r.ID))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to count helpful votes: %w", err)
		}
		for i := range reviews {
			reviews[i].HelpfulCount = int(counts[i].Val())
		}
	}
	sortReviews(reviews)
	return reviews, nil
}

func (s *RedisStore) ToggleHelpful(ctx context.Context, reviewID, voter string) (bool, int, error) {
	exists, err := s.client.HExists(ctx, s.reviewsKey(), reviewID).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to load review: %w", err)
	}
	if !exists {
		return false, 0, ErrNotFound
	}

	key := s.helpfulKey(reviewID)
	added, err := s.client.SAdd(ctx, key, voter).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to record helpful vote: %w", err)
	}
	if added == 0 {
		if err := s.client.SRem(ctx, key, voter).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to remove helpful vote: %w", err)
		}
	}
	count, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count helpful votes: %w", err)
	}
	return added > 0, int(count), nil
}

func (s *RedisStore) SaveCookingSession(ctx context.Context, session string, cooking CookingSession) error {
	return s.hashPut(ctx, s.cookingKey(session), cooking.ID, "cooking session", cooking)
}

func (s *RedisStore) CookingSession(ctx context.Context, session, id string) (CookingSession, error) {
	return hashGet[CookingSession](ctx, s, s.cookingKey(session), id, "cooking session")
}

func (s *RedisStore) SetNutritionGoals(ctx context.Context, session string, goals NutritionGoals) error {
	data, err := common.ToJSON(goals)
	if err != nil {
		return fmt.Errorf("failed to marshal nutrition goals: %w", err)
	}
	if err := s.client.Set(ctx, s.goalsKey(session), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store nutrition goals: %w", err)
	}
	return nil
}

func (s *RedisStore) NutritionGoals(ctx context.Context, session string) (NutritionGoals, error) {
	raw, err := s.client.Get(ctx, s.goalsKey(session)).Result()
	if errors.Is(err, redis.Nil) {
		return NutritionGoals{}, ErrNotFound
	}
	if err != nil {
		return NutritionGoals{}, fmt.Errorf("failed to load nutrition goals: %w", err)
	}
	var goals NutritionGoals
	if err := common.ParseJSON(raw, &goals); err != nil {
		return NutritionGoals{}, fmt.Errorf("failed to unmarshal nutrition goals: %w", err)
	}
	return goals, nil
}

func (s *RedisStore) SaveCollection(ctx context.Context, session string, collection Collection) error {
	return s.hashPut(ctx, s.collectionsKey(session), collection.ID, "collection", collection)
}

func (s *RedisStore) Collections(ctx context.Context, session string) ([]Collection, error) {
	out, err := hashValues[Collection](ctx, s, s.collectionsKey(session), "collections")
	if err != nil {
		return nil, err
	}
	sortCollections(out)
	return out, nil
}

func (s *RedisStore) SaveChallenge(ctx context.Context, session string, challenge Challenge) error {
	return s.hashPut(ctx, s.challengesKey(session), challenge.ID, "challenge", challenge)
}

func (s *RedisStore) Challenges(ctx context.Context, session string) ([]Challenge, error) {
	out, err := hashValues[Challenge](ctx, s, s.challengesKey(session), "challenges")
	if err != nil {
		return nil, err
	}
	sortChallenges(out)
	return out, nil
}

func (s *RedisStore) RecordCooked(ctx context.Context, session string, entry CookedRecipe) error {
	data, err := common.ToJSON(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cooked recipe: %w", err)
	}
	key := s.cookedKey(session)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -cookedHistoryLimit, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store cooked recipe: %w", err)
	}
	return nil
}

func (s *RedisStore) CookedHistory(ctx context.Context, session string) ([]CookedRecipe, error) {
	raw, err := s.client.LRange(ctx, s.cookedKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cooked history: %w", err)
	}
	out := make([]CookedRecipe, 0, len(raw))
	for _, item := range raw {
		var c CookedRecipe
		if err := common.ParseJSON(item, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cooked recipe: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}
