package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/pasarde/recipe-app/internal/api"
	"github.com/pasarde/recipe-app/internal/api/handlers/health"
	"github.com/pasarde/recipe-app/internal/core/cache"
	"github.com/pasarde/recipe-app/internal/core/history"
	"github.com/pasarde/recipe-app/internal/core/image"
	"github.com/pasarde/recipe-app/internal/core/interaction"
	"github.com/pasarde/recipe-app/internal/core/provider"
	"github.com/pasarde/recipe-app/internal/core/provider/openweather"
	"github.com/pasarde/recipe-app/internal/core/provider/spoonacular"
	"github.com/pasarde/recipe-app/internal/core/provider/themealdb"
	"github.com/pasarde/recipe-app/internal/core/recipe"
	"github.com/pasarde/recipe-app/internal/core/user"
	"github.com/pasarde/recipe-app/internal/infrastructure/config"
	"github.com/pasarde/recipe-app/internal/infrastructure/database"
	"github.com/pasarde/recipe-app/internal/pkg/common"
)

// store is everything the services persist through.
type store interface {
	recipe.UserRecipeStore
	history.Store
	interaction.Store
	user.Store
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("configuration loaded",
		zap.String("spoonacular_key", config.MaskAPIKey(cfg.Providers.Spoonacular.APIKey)),
		zap.String("openweather_key", config.MaskAPIKey(cfg.Providers.OpenWeather.APIKey)),
		zap.Duration("provider_timeout", cfg.Providers.Timeout),
		zap.Bool("database", cfg.Database.URL != ""),
		zap.Bool("redis", cfg.Redis.Addr != ""),
	)

	st, err := openStore(cfg)
	if err != nil {
		common.LogFatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	checks := map[string]health.Pinger{"database": st}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			common.LogFatal("failed to connect to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		checks["redis"] = health.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	// 快取：Redis 優先，否則使用記憶體
	var providerCache cache.Store
	if cfg.Cache.Enabled {
		if rdb != nil {
			providerCache = cache.NewService(rdb, cfg.Cache.TTL)
		} else {
			manager := cache.NewManager(cfg.Cache)
			defer manager.Close()
			providerCache = manager
		}
	}

	var guard interaction.Guard
	if rdb != nil {
		guard = interaction.NewRedisGuard(rdb, cfg.Guard.TTL)
	} else {
		memGuard := interaction.NewMemoryGuard(cfg.Guard.TTL, time.Minute)
		defer memGuard.Close()
		guard = memGuard
	}

	placeholder := cfg.Recipes.PlaceholderImage
	providerConfig := func(baseURL, apiKey string) provider.Config {
		return provider.Config{
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Timeout:     cfg.Providers.Timeout,
			Placeholder: placeholder,
			Cache:       providerCache,
		}
	}

	recipes := recipe.NewService(
		spoonacular.NewClient(providerConfig(cfg.Providers.Spoonacular.BaseURL, cfg.Providers.Spoonacular.APIKey)),
		themealdb.NewClient(providerConfig(cfg.Providers.TheMealDB.BaseURL, "")),
		st,
		image.NewService(cfg.Upload.Dir, cfg.Upload.PublicPrefix, cfg.Upload.MaxSizeBytes),
		placeholder,
	)

	router := api.SetupRouter(cfg, &api.Services{
		Recipes:      recipes,
		Weather:      openweather.NewClient(providerConfig(cfg.Providers.OpenWeather.BaseURL, cfg.Providers.OpenWeather.APIKey)),
		History:      history.NewTracker(st),
		Interactions: interaction.NewService(st, guard, recipes),
		Users:        user.NewService(st),
		Checks:       checks,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo(common.MsgServerStarting,
			zap.Int("port", cfg.Server.Port),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("server forced to shutdown", zap.Error(err))
	}

	common.LogInfo(common.MsgServerExited)
}

// openStore uses Postgres when a database URL is configured and keeps
// everything in memory otherwise.
func openStore(cfg *config.Config) (store, error) {
	if cfg.Database.URL == "" {
		common.LogWarn("DATABASE_URL not set, using in-memory store")
		return database.NewMemoryStore(), nil
	}
	pg, err := database.NewPostgresStore(cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return nil, err
	}
	return pg, nil
}
