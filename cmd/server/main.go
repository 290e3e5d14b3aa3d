package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/config"
	"github.com/yukikurage/bizops-api/internal/database"
	"github.com/yukikurage/bizops-api/internal/logging"
	"github.com/yukikurage/bizops-api/internal/router"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logCfg := logging.Config{
		Service: "bizops-api",
		Env:     cfg.GinMode,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	}
	logger := logging.New(logCfg)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	opts := router.Options{
		DB:             database.GetDB(),
		Logger:         logging.Base(logger, logCfg),
		AllowedOrigins: cfg.AllowedOrigins,
		CacheTTL:       cfg.CacheTTL,
		RateLimit:      cfg.PublicRateLimit,
		RateWindow:     cfg.PublicRateWindow,
	}

	// Sessions and cache live in redis when it is configured
	sessionOptions := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	if addr := cfg.RedisAddr(); addr != "" {
		store, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			addr,
			cfg.RedisUser,
			cfg.RedisPassword,
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			logger.Fatalf("Failed to create Redis session store: %v", err)
		}
		store.Options(sessionOptions)
		opts.Sessions = store

		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Username: cfg.RedisUser,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			logger.WithError(err).Warn("Redis cache unreachable, using in-process cache")
			opts.Cache = cache.NewMemoryCache()
		} else {
			opts.Cache = cache.NewRedisCache(client, "bizops:")
		}
		cancel()
	} else {
		store := cookie.NewStore([]byte(cfg.SessionSecret))
		store.Options(sessionOptions)
		opts.Sessions = store
		opts.Cache = cache.NewMemoryCache()
		logger.Info("Redis not configured, using cookie sessions and in-process cache")
	}

	// Object storage for logos
	if cfg.MinIOEndpoint != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewMinIOStore(ctx, storage.Config{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Object storage unavailable, logo uploads disabled")
		} else {
			opts.Store = store
		}
	}

	// Initialize AI service
	if cfg.OpenAIAPIKey != "" {
		opts.Drafter = services.NewAIService(cfg.OpenAIAPIKey)
	}

	r := router.New(opts)

	// Start server
	logger.Infof("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
