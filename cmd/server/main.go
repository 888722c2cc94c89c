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

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"padron-agremiados/config"
	"padron-agremiados/internal/api/handler"
	"padron-agremiados/internal/api/middleware"
	"padron-agremiados/internal/api/router"
	"padron-agremiados/internal/repository"
	"padron-agremiados/internal/service"
	"padron-agremiados/internal/web"
	"padron-agremiados/pkg/client"
	"padron-agremiados/pkg/database"
	applogger "padron-agremiados/pkg/logger"
	"padron-agremiados/pkg/metrics"
	"padron-agremiados/pkg/redis"
)

func main() {
	// 0. .env is optional
	_ = godotenv.Load()

	// 1. config
	cfg, err := config.Load(os.Getenv("PADRON_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. store
	var (
		db   *gorm.DB
		repo *repository.Repository
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		repo = repository.NewMemoryRepository()
		logger.Warn("using in-memory store, data is lost on restart")
	default:
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get sql.DB failed", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		repo = repository.NewRepository(db)
	}

	if cfg.Database.Seed {
		n, err := repository.SeedIfEmpty(context.Background(), repo.Agremiado, time.Now().UTC())
		if err != nil {
			logger.Fatal("seeding failed", zap.Error(err))
		}
		logger.Info("seed applied", zap.Int("inserted", n))
	}

	// 4. redis (optional; rate limiting is skipped without it)
	var (
		rdb     *redis.Client
		limiter middleware.RateLimiter
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			limiter = rdb
		}
	}

	// 5. Repository → Service → Handler
	m := metrics.New()
	svc := service.NewService(repo, logger, m)
	h := handler.NewHandler(svc, repo)

	// 6. pages
	var pages router.Pages
	if cfg.Web.Enabled {
		api := client.New(cfg.Client.APIBaseURL,
			client.WithTimeout(cfg.Client.Timeout),
			client.WithCacheTTL(cfg.Client.CacheTTL),
		)
		wh, err := web.NewHandler(api, cfg.Web.SearchDebounce, logger)
		if err != nil {
			logger.Fatal("parse page templates failed", zap.Error(err))
		}
		pages = wh
	}

	engine := router.Setup(cfg, router.Deps{
		Handler: h,
		Limiter: limiter,
		Metrics: m,
		Pages:   pages,
		Logger:  logger,
	})

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			_ = sqlDB.Close()
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
}
