package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/landmarket/backend/internal/application/admin"
	identityapp "github.com/landmarket/backend/internal/application/identity"
	listingapp "github.com/landmarket/backend/internal/application/listing"
	mediaapp "github.com/landmarket/backend/internal/application/media"
	sellerapp "github.com/landmarket/backend/internal/application/seller"
	"github.com/landmarket/backend/internal/domain/media"
	"github.com/landmarket/backend/internal/infrastructure/auth"
	"github.com/landmarket/backend/internal/infrastructure/cache"
	"github.com/landmarket/backend/internal/infrastructure/config"
	"github.com/landmarket/backend/internal/infrastructure/event"
	"github.com/landmarket/backend/internal/infrastructure/imaging"
	"github.com/landmarket/backend/internal/infrastructure/logger"
	"github.com/landmarket/backend/internal/infrastructure/mail"
	"github.com/landmarket/backend/internal/infrastructure/metrics"
	"github.com/landmarket/backend/internal/infrastructure/persistence"
	"github.com/landmarket/backend/internal/infrastructure/scheduler"
	"github.com/landmarket/backend/internal/infrastructure/storage"
	"github.com/landmarket/backend/internal/infrastructure/telemetry"
	"github.com/landmarket/backend/internal/interfaces/http/handler"
	"github.com/landmarket/backend/internal/interfaces/http/middleware"
	"github.com/landmarket/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	version         = "1.0.0"
	jobTimeout      = 5 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting landmarket backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// GORM logs through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(200*time.Millisecond))

	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracing := telemetry.NewDBTracing(cfg.Database.DBName, cfg.Telemetry.DBLogFullSQL, log)
		if err := tracing.Register(db.DB); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	var registry *metrics.Registry
	if cfg.Metrics.Enabled {
		registry = metrics.New(cfg.Metrics.Namespace)
		if sqlDB, err := db.DB.DB(); err == nil {
			if err := registry.RegisterDB(sqlDB, cfg.Database.DBName); err != nil {
				log.Warn("Failed to register database metrics", zap.Error(err))
			}
		}
	}

	// Redis backs the token blacklist and the listing cache when enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-process state", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	// Domain events fan out to cache invalidation and, when enabled, NATS
	bus := event.NewInMemoryEventBus(log)
	listingCache := cache.NewListingCache(cfg.Cache, redisClient, log)

	healthChecks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if cfg.NATS.Enabled {
		nc, err := event.Connect(cfg.NATS, log)
		if err != nil {
			log.Warn("NATS unavailable, events stay in process", zap.Error(err))
		} else {
			defer nc.Drain()
			forwarder := event.NewNATSForwarder(nc, cfg.NATS.SubjectPrefix)
			bus.Subscribe(forwarder, forwarder.EventTypes()...)
			healthChecks["nats"] = func(context.Context) error {
				if !nc.IsConnected() {
					return errors.New("not connected")
				}
				return nil
			}
		}
	}

	files, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	var mailer identityapp.Mailer
	if cfg.Mail.Enabled {
		smtp, err := mail.NewSMTPMailer(cfg.Mail, log)
		if err != nil {
			log.Fatal("Failed to initialize mailer", zap.Error(err))
		}
		mailer = smtp
	} else {
		mailer = mail.NewLogMailer(log)
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	sellerRepo := persistence.NewGormSellerRepository(db.DB)
	resetRepo := persistence.NewGormPasswordResetRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB, files.URL)
	searchRepo := persistence.NewGormListingSearchRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)
	shareRepo := persistence.NewGormShareRepository(db.DB)

	invalidator := cache.NewListingInvalidator(listingCache, listingRepo)
	bus.Subscribe(invalidator, invalidator.EventTypes()...)

	// Initialize application services
	imageService := mediaapp.NewImageService(imageRepo, files, imaging.NewResizer(cfg.Image.JPEGQuality), imageConfig(cfg.Image), log)
	listingService := listingapp.NewService(searchRepo, listingRepo, shareRepo, imageService, listingCache, bus, log)
	sellerService := sellerapp.NewService(sellerRepo, listingService, imageService, bus, log)
	userService := identityapp.NewUserService(userRepo, sellerService, blacklist, cfg.JWT.RefreshTokenExpiration, log)
	authService := identityapp.NewAuthService(userRepo, resetRepo, jwtService, blacklist, mailer,
		identityapp.AuthServiceConfig{ResetTokenTTL: cfg.Scheduler.ResetTokenTTL}, log)
	adminService := adminapp.NewService(adminRepo, sellerRepo, bus, log)
	if registry != nil {
		imageService.SetRecorder(registry)
		listingService.SetRecorder(registry)
	}

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(log, jobTimeout)
		purger := scheduler.NewResetTokenPurger(resetRepo, cfg.Scheduler.ResetTokenTTL, log)
		if err := jobs.Add(cfg.Scheduler.ResetPurgeSchedule, purger); err != nil {
			log.Fatal("Failed to schedule job", zap.String("job", purger.Name()), zap.Error(err))
		}
		jobs.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := jobs.Stop(stopCtx); err != nil {
				log.Warn("Scheduler did not stop cleanly", zap.Error(err))
			}
		}()
	}

	// Initialize handlers
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Seller:  handler.NewSellerHandler(sellerService, imageService.URL),
		Listing: handler.NewListingHandler(listingService, imageService.URL),
		Admin:   handler.NewAdminHandler(adminService, imageService.URL),
		System:  handler.NewSystemHandler(cfg.App.Name, version, healthChecks),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.MaxMultipartMemory = cfg.Image.MaxUploadSize
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: panics are caught first, the request id exists
	// before anything logs, and the span is open before handlers run.
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes())
	if registry != nil {
		engine.Use(registry.Middleware())
	}
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	guards := router.Guards{
		Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		Admin: middleware.RequireAdmin(log),
	}
	if cfg.HTTP.AuthRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)
		go limiter.Run(ctx)
		guards.Credentials = middleware.RateLimit(limiter)
		log.Info("Credential rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimit),
			zap.Duration("window", cfg.HTTP.AuthRateWindow),
		)
	}

	engine.GET("/health", handlers.System.Health)
	if registry != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(registry.Handler()))
	}
	if local, ok := files.(*storage.LocalStorage); ok {
		engine.Static(cfg.Storage.PublicBaseURL, local.Root())
	}

	router.RegisterAPI(router.NewRouter(engine), handlers, guards).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// imageConfig maps configured rendition bounds onto the image service
func imageConfig(c config.ImageConfig) mediaapp.Config {
	out := mediaapp.DefaultConfig()
	out.Fullsize = media.Bounds{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
	out.Preview = media.Bounds{MaxWidth: c.MaxPreviewWidth, MaxHeight: c.MaxPreviewHeight}
	return out
}
