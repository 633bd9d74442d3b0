package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"recipe-assistant/internal/api"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/assistant"
	"recipe-assistant/internal/core/kb"
	"recipe-assistant/internal/core/state"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LoggerOptions{
		Level:   cfg.LogLevel,
		Dir:     cfg.Log.Dir,
		Service: cfg.App.Name,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("env", cfg.App.Env),
		zap.String("state_backend", cfg.State.Backend),
		zap.Bool("openrouter_enabled", cfg.OpenRouter.Enabled),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.String("openrouter_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
	)

	store, err := newStore(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize state store", zap.Error(err))
	}
	defer store.Close()

	m := metrics.New()
	opts := []assistant.Option{
		assistant.WithServingSize(cfg.Assistant.ServingSize),
		assistant.WithObserver(m),
	}
	if cfg.Assistant.RandomSeed > 0 {
		opts = append(opts, assistant.WithSeed(cfg.Assistant.RandomSeed))
	}
	knowledge := kb.New()
	bot := assistant.New(knowledge, store, opts...)

	var gen service.Generator
	if cfg.OpenRouter.Enabled {
		gen = openrouter.NewClient(cfg.OpenRouter)
	}
	aiService := service.NewService(cfg, gen)
	defer aiService.Close()

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		Assistant: bot,
		Store:     store,
		AIService: aiService,
		Metrics:   m,
	})
	if err != nil {
		common.LogFatal("Failed to setup router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Int("recipes", knowledge.Len()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// newStore 依設定建立會話狀態儲存
func newStore(cfg *config.Config) (state.Store, error) {
	if cfg.State.Backend != config.BackendRedis {
		return state.NewMemoryStore(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	rs, err := state.NewRedisStore(ctx, state.RedisOptions{
		Addr:      cfg.State.Redis.Addr,
		Password:  cfg.State.Redis.Password,
		DB:        cfg.State.Redis.DB,
		KeyPrefix: cfg.State.Redis.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}
