package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfulfillment "github.com/printshop/backend/internal/application/fulfillment"
	"github.com/printshop/backend/internal/domain/fulfillment"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/cache"
	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/printshop/backend/internal/infrastructure/logger"
	"github.com/printshop/backend/internal/infrastructure/persistence"
	"github.com/printshop/backend/internal/infrastructure/printful"
	"github.com/printshop/backend/internal/interfaces/http/handler"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
	"github.com/printshop/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Initialize database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Printful provider. Without an API key every provider call reports
	// the integration as not configured instead of failing in odd ways.
	var provider fulfillment.Provider
	providerCfg := &printful.Config{
		APIKey:        cfg.Printful.APIKey,
		StoreID:       cfg.Printful.StoreID,
		WebhookSecret: cfg.Printful.WebhookSecret,
		BaseURL:       cfg.Printful.BaseURL,
		Timeout:       cfg.Printful.Timeout,
	}
	if cfg.Printful.Configured() {
		client, err := printful.NewClient(providerCfg)
		if err != nil {
			log.Fatal("Failed to create Printful client", zap.Error(err))
		}
		provider = client
	} else {
		log.Warn("Printful API key not configured, fulfillment endpoints will report the integration as unavailable")
		provider = printful.Disabled()
	}

	// Locking and webhook dedupe. Redis when available, in-memory otherwise.
	var (
		locker shared.Locker
		dedupe shared.IdempotencyStore
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = cache.NewRedisLocker(redisClient, "")
		dedupe = cache.NewRedisIdempotencyStoreWithClient(redisClient, "")
		log.Info("Redis connected", zap.String("host", cfg.Redis.Host))
	} else {
		log.Info("Redis disabled, using in-memory locker and idempotency store")
		locker = cache.NewInMemoryLocker()
		dedupe = cache.NewInMemoryIdempotencyStore()
	}

	// Application services
	fulfillmentService := appfulfillment.NewService(appfulfillment.ServiceConfig{
		Provider:       provider,
		Orders:         orderRepo,
		Locker:         locker,
		Dedupe:         dedupe,
		ProviderConfig: providerCfg,
		Logger:         log,
		LockTTL:        cfg.Printful.LockTTL,
		DedupeTTL:      cfg.Printful.WebhookDedupeTTL,
	})

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Middleware order matters:
	//  1. RequestID - generate/propagate request ID
	//  2. Recovery  - catch panics with the request ID already set
	//  3. Logger    - structured request logging
	//  4. Secure    - security headers
	//  5. CORS      - cross-origin policy
	//  6. BodyLimit - cap request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, "")
	r.Register(handler.NewFulfillmentHandler(fulfillmentService, cfg.Printful.ConfirmOrders)).
		Register(handler.NewOrderHandler(fulfillmentService)).
		Register(handler.NewWebhookHandler(fulfillmentService)).
		Register(handler.NewSystemHandler(version))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler reports liveness including database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
