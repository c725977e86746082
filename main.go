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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/toyfactory/toyfactory/backend/go-services/handlers"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/bootstrap"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/handler"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/service"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/config"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	fmt.Println("MAIN: after logger.Init")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: backend=%s sink=%s rateLimit=%v redis=%v",
		cfg.Catalog.Backend, cfg.Uploads.Sink, cfg.RateLimit.Enabled, cfg.RateLimit.UseRedis)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenRepository(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open catalog store: %v", err)
	}
	defer store.Close()
	if cfg.Catalog.Seed {
		if err := bootstrap.SeedDemo(ctx, store.Repo); err != nil {
			logger.Warnf("%v", err)
		}
	}

	sink, err := bootstrap.OpenSink(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open asset sink: %v", err)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	checks := map[string]handlers.Check{"catalog": store.Ping}

	// Redis only backs the shared rate limiter
	var rdb *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("Connected to Redis for rate limiting: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	handlers.RegisterHealth(r, startTime, checks)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("")
	if cfg.RateLimit.Enabled {
		if rdb != nil {
			api.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	svc := service.New(store.Repo, sink)
	handler.RegisterProjectRoutes(api, svc, cfg.Uploads.MaxBytes)
	handler.RegisterAssetRoutes(api, sink, cfg.Uploads.PublicPrefix)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("catalog service listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
}
