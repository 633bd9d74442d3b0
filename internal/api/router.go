package api

import (
	"context"
	"errors"
	"time"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/handlers/health"
	recipeHandler "recipe-assistant/internal/api/handlers/recipe"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Assistant *assistant.Assistant
	Store     state.Store
	AIService *service.Service
	Metrics   *metrics.Metrics
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Assistant == nil || deps.Store == nil {
		return nil, errors.New("assistant and state store are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.RegisterValidators(deps.Assistant.KnowledgeBase()); err != nil {
		return nil, err
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(deps.Metrics))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORS.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(requestTimeout(cfg.Server.WriteTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, deps.Assistant.KnowledgeBase().Len(), deps.Store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := recipeHandler.NewHandler(deps.Assistant, deps.AIService, cfg)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow).Middleware()

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	{
		api.POST("/chat", h.HandleChat)

		api.GET("/recipes", h.HandleRecipes)
		api.POST("/substitutions", h.HandleSubstitutions)
		api.GET("/tips", h.HandleTips)
		api.GET("/nutrition/:recipe_name", h.HandleNutrition)
		api.GET("/cost/:recipe_name", h.HandleCost)
		api.POST("/shopping-list", h.HandleShoppingList)
		api.GET("/share/:recipe_name", h.HandleShare)
		api.POST("/search", h.HandleSearch)

		api.POST("/meal-plan", h.HandleMealPlan)
		api.POST("/meal-plan/personalized", h.HandlePersonalizedMealPlan)
		api.GET("/meal-plans", h.HandleMealPlanHistory)

		api.GET("/favorites", h.HandleFavorites)
		api.POST("/favorites", dedup, h.HandleAddFavorite)
		api.POST("/rate", dedup, h.HandleRate)
		api.GET("/ratings/:recipe_name", h.HandleRatingStats)

		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("/scale", h.HandleScale)
			recipeGroup.POST("/variations", h.HandleVariations)
			recipeGroup.POST("/leftover-suggestions", h.HandleLeftovers)
		}

		cookGroup := api.Group("/cook")
		{
			cookGroup.POST("/qa", h.HandleCookQA)
		}

		inventoryGroup := api.Group("/inventory")
		{
			inventoryGroup.GET("", h.HandleInventory)
			inventoryGroup.POST("", dedup, h.HandleAddInventory)
			inventoryGroup.PUT("/:item_name", h.HandleUpdateInventory)
			inventoryGroup.DELETE("/:item_name", h.HandleRemoveInventory)
			inventoryGroup.GET("/recipes", h.HandleInventoryRecipes)
		}

		reviewGroup := api.Group("/reviews")
		{
			reviewGroup.POST("", dedup, h.HandleAddReview)
			reviewGroup.PUT("/:review_id", h.HandleUpdateReview)
			reviewGroup.DELETE("/:review_id", h.HandleDeleteReview)
			reviewGroup.GET("/recipe/:recipe_name", h.HandleRecipeReviews)
			reviewGroup.GET("/user", h.HandleUserReviews)
			reviewGroup.GET("/user-summary", h.HandleUserReviewSummary)
			reviewGroup.POST("/helpful", h.HandleMarkHelpful)
			reviewGroup.GET("/stats/:recipe_name", h.HandleReviewStats)
			reviewGroup.GET("/top-recipes", h.HandleTopRecipes)
			reviewGroup.POST("/search", h.HandleSearchReviews)
		}

		cookingGroup := api.Group("/cooking-sessions")
		{
			cookingGroup.POST("", h.HandleStartCooking)
			cookingGroup.GET("/:cooking_id/current-step", h.HandleCurrentStep)
			cookingGroup.POST("/:cooking_id/next-step", h.HandleNextStep)
			cookingGroup.GET("/:cooking_id/guidance", h.HandleGuidance)
			cookingGroup.POST("/:cooking_id/pause", h.HandlePauseCooking)
			cookingGroup.POST("/:cooking_id/resume", h.HandleResumeCooking)
			cookingGroup.GET("/:cooking_id/summary", h.HandleCookingSummary)
		}

		goalsGroup := api.Group("/nutrition-goals")
		{
			goalsGroup.GET("", h.HandleNutritionGoals)
			goalsGroup.POST("", h.HandleSetNutritionGoals)
			goalsGroup.POST("/track", h.HandleTrackNutrition)
		}

		api.GET("/collections", h.HandleCollections)
		api.POST("/collections", h.HandleCreateCollection)
		api.POST("/collections/:collection_id/recipes", h.HandleAddToCollection)
		api.GET("/challenges", h.HandleChallenges)
		api.POST("/challenges", h.HandleCreateChallenge)
		api.POST("/challenges/:challenge_id/complete", h.HandleCompleteChallenge)

		statsGroup := api.Group("/stats")
		{
			statsGroup.POST("/track-recipe", dedup, h.HandleTrackCooked)
			statsGroup.GET("/cooking", h.HandleCookingStats)
		}

		api.GET("/ai/status", handlers.NewAIHandler(deps.AIService).Status)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("ai_enabled", deps.AIService != nil && deps.AIService.Enabled()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

// requestTimeout 為每個請求設定逾時
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
