package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// FavoriteResult 加入收藏的結果
type FavoriteResult struct {
	Recipe         string `json:"recipe"`
	Message        string `json:"message"`
	TotalFavorites int    `json:"total_favorites"`
}

// RatingResult 評分結果
type RatingResult struct {
	Recipe        string    `json:"recipe"`
	Rating        int       `json:"rating"`
	Review        string    `json:"review"`
	Date          time.Time `json:"date"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
}

// RatingStats 食譜評分統計
type RatingStats struct {
	Recipe        string         `json:"recipe"`
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int            `json:"total_ratings"`
	Distribution  map[int]int    `json:"distribution"`
	Ratings       []state.Rating `json:"ratings"`
}

// AddFavorite 將知識庫中的食譜加入會話收藏
func (a *Assistant) AddFavorite(ctx context.Context, session, name string) (FavoriteResult, error) {
	r, err := a.lookup(name)
	if err != nil {
		return FavoriteResult{}, err
	}
	total, err := a.store.AddFavorite(ctx, session, r.Name)
	if err != nil {
		return FavoriteResult{}, fmt.Errorf("add favorite: %w", err)
	}
	return FavoriteResult{Recipe: r.Name, Message: "Added to favorites", TotalFavorites: total}, nil
}

// Favorites 回傳會話收藏（依名稱排序）
func (a *Assistant) Favorites(ctx context.Context, session string) ([]string, error) {
	favorites, err := a.store.Favorites(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// RateRecipe 先驗證分數再確認食譜存在，記錄後回傳最新平均
func (a *Assistant) RateRecipe(ctx context.Context, session, name string, score int, review string) (RatingResult, error) {
	if score < 1 || score > 5 {
		return RatingResult{}, ErrInvalidRating
	}
	r, err := a.lookup(name)
	if err != nil {
		return RatingResult{}, err
	}

	rating := state.Rating{
		ID:        common.GenerateUUID(),
		Recipe:    r.Name,
		Score:     score,
		Review:    strings.TrimSpace(review),
		CreatedAt: a.now(),
	}
	if err := a.store.AddRating(ctx, session, rating); err != nil {
		return RatingResult{}, fmt.Errorf("add rating: %w", err)
	}
	ratings, err := a.store.Ratings(ctx, session, r.Name)
	if err != nil {
		return RatingResult{}, fmt.Errorf("load ratings: %w", err)
	}

	common.LogDebug("評分已記錄",
		zap.String("session", session),
		zap.String("recipe", r.Name),
		zap.Int("rating", score),
	)

	return RatingResult{
		Recipe:        r.Name,
		Rating:        score,
		Review:        rating.Review,
		Date:          rating.CreatedAt,
		AverageRating: common.Round(state.Average(ratings), 1),
		TotalRatings:  len(ratings),
	}, nil
}

// RatingStats 回傳食譜在會話中的評分統計
func (a *Assistant) RatingStats(ctx context.Context, session, name string) (RatingStats, error) {
	r, err := a.lookup(name)
	if err != nil {
		return RatingStats{}, err
	}
	ratings, err := a.store.Ratings(ctx, session, r.Name)
	if err != nil {
		return RatingStats{}, fmt.Errorf("load ratings: %w", err)
	}

	stats := RatingStats{
		Recipe:        r.Name,
		AverageRating: common.Round(state.Average(ratings), 1),
		TotalRatings:  len(ratings),
		Distribution:  map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Ratings:       ratings,
	}
	if stats.Ratings == nil {
		stats.Ratings = []state.Rating{}
	}
	for _, rt := range ratings {
		stats.Distribution[rt.Score]++
	}
	return stats, nil
}
