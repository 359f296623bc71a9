package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/cardshop/hotspot-api/api/swagger"
	"github.com/cardshop/hotspot-api/internal/handler"
	"github.com/cardshop/hotspot-api/internal/middleware"
	"github.com/cardshop/hotspot-api/internal/models"
	"github.com/cardshop/hotspot-api/internal/repository"
	"github.com/cardshop/hotspot-api/internal/service"
	"github.com/cardshop/hotspot-api/pkg/cache"
	"github.com/cardshop/hotspot-api/pkg/catalog"
	"github.com/cardshop/hotspot-api/pkg/config"
	"github.com/cardshop/hotspot-api/pkg/database"
	"github.com/cardshop/hotspot-api/pkg/jobs"
	"github.com/cardshop/hotspot-api/pkg/logger"
	"github.com/cardshop/hotspot-api/pkg/lookup"
	corsmiddleware "github.com/cardshop/hotspot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cardshop/hotspot-api/pkg/middleware/requestid"
	"github.com/cardshop/hotspot-api/pkg/storage"
)

// @title Hotspot Configuration API
// @version 1.0.0
// @description Configuration intake, sizing and export for offline content hotspots
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Migrations.Run {
		if err := database.RunMigrations(db, cfg.Migrations.Dir, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Idempotency.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, idempotent replay disabled", zap.Error(err))
			redisClient = nil
		}
	}

	lookups, err := lookup.Default()
	if err != nil {
		logr.Fatal("failed to load lookups", zap.Error(err))
	}

	files, err := storage.NewLocalStorage(cfg.Branding.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare branding storage", zap.Error(err))
	}
	assets := storage.NewBrandingStore(files)
	orphans := jobs.NewQueue("branding-orphans", func(ctx context.Context, ref string) error {
		return assets.Delete(ref)
	}, jobs.QueueConfig{Workers: 1, MaxRetries: 5, RetryDelay: 30 * time.Second, Logger: logr})
	orphans.Start(context.Background())
	defer orphans.Stop()
	signer := storage.NewSignedURLSigner(cfg.Branding.SignedURLSecret, cfg.Branding.SignedURLTTL)
	packages := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout)
	validate := validator.New()

	configRepo := repository.NewConfigurationRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	addressRepo := repository.NewAddressRepository(db)

	metricsSvc := service.NewMetricsService()
	var cacheSvc *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Idempotency.TTL, logr, true)
	}

	sanitizer := service.NewConfigurationSanitizer(lookups.Languages, lookups.Timezones, validate, service.ConfigurationDefaults{
		ProjectName: cfg.Defaults.ProjectName,
		Language:    cfg.Defaults.Language,
		Timezone:    cfg.Defaults.Timezone,
	})
	sizingSvc := service.NewSizingService(packages, service.SizingConfig{
		BaseImageSize:  cfg.Content.BaseImageSize,
		KaliteSizes:    cfg.Content.KaliteSizes,
		WikifundiSizes: cfg.Content.WikifundiSizes,
		AflatounSize:   cfg.Content.AflatounSize,
		EdupiSize:      cfg.Content.EdupiSize,
	}, logr)
	mediaSvc := service.NewMediaService(mediaRepo, metricsSvc, logr)
	configSvc := service.NewConfigurationService(service.ConfigurationServiceDeps{
		Repo:          configRepo,
		Organizations: orgRepo,
		Catalog:       packages,
		Sanitizer:     sanitizer,
		Assets:        assets,
		Sizer:         sizingSvc,
		Media:         mediaSvc,
		Cache:         cacheSvc,
		Orphans:       orphans,
		Metrics:       metricsSvc,
	}, logr, service.ConfigurationServiceConfig{IdempotencyTTL: cfg.Idempotency.TTL})
	exportSvc := service.NewExportService(configSvc, lookups.Languages, nil, nil, logr)
	brandingSvc := service.NewBrandingService(configSvc, assets, signer, logr)
	addressSvc := service.NewAddressService(addressRepo, lookups.Countries, validate, logr)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret)

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	configHandler := handler.NewConfigurationHandler(configSvc, exportSvc)
	brandingHandler := handler.NewBrandingHandler(brandingSvc, cfg.APIPrefix+"/branding/download")
	mediaHandler := handler.NewMediaHandler(mediaSvc)
	addressHandler := handler.NewAddressHandler(addressSvc)
	lookupHandler := handler.NewLookupHandler(lookups)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/branding/download", brandingHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokenSvc), middleware.RequireRoles(models.RoleAdmin, models.RoleManager))

	configs := secured.Group("/configurations")
	configs.POST("", configHandler.Create)
	configs.GET("", configHandler.List)
	configs.GET("/export.csv", configHandler.CSV)
	configs.GET("/:id", configHandler.Get)
	configs.GET("/:id/export", configHandler.Export)
	configs.GET("/:id/sheet", configHandler.Sheet)
	configs.GET("/:id/branding/:kind/url", brandingHandler.URL)

	secured.GET("/media", mediaHandler.List)
	secured.GET("/media/minimal", mediaHandler.Minimal)

	secured.GET("/addresses", addressHandler.List)
	secured.POST("/addresses", addressHandler.Create)
	secured.PUT("/addresses/:id", addressHandler.Update)

	lookupsGroup := secured.Group("/lookups")
	lookupsGroup.GET("/languages", lookupHandler.Languages)
	lookupsGroup.GET("/timezones", lookupHandler.Timezones)
	lookupsGroup.GET("/countries", lookupHandler.Countries)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
