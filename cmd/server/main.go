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
	cartapp "github.com/styleco/storefront/internal/application/cart"
	catalogapp "github.com/styleco/storefront/internal/application/catalog"
	checkoutapp "github.com/styleco/storefront/internal/application/checkout"
	contentapp "github.com/styleco/storefront/internal/application/content"
	deliveryapp "github.com/styleco/storefront/internal/application/delivery"
	identityapp "github.com/styleco/storefront/internal/application/identity"
	notificationapp "github.com/styleco/storefront/internal/application/notification"
	orderapp "github.com/styleco/storefront/internal/application/order"
	"github.com/styleco/storefront/internal/infrastructure/auth"
	"github.com/styleco/storefront/internal/infrastructure/cache"
	"github.com/styleco/storefront/internal/infrastructure/config"
	"github.com/styleco/storefront/internal/infrastructure/email"
	"github.com/styleco/storefront/internal/infrastructure/event"
	"github.com/styleco/storefront/internal/infrastructure/export"
	"github.com/styleco/storefront/internal/infrastructure/logger"
	"github.com/styleco/storefront/internal/infrastructure/migration"
	"github.com/styleco/storefront/internal/infrastructure/persistence"
	"github.com/styleco/storefront/internal/infrastructure/printing"
	"github.com/styleco/storefront/internal/infrastructure/realtime"
	"github.com/styleco/storefront/internal/infrastructure/session"
	"github.com/styleco/storefront/internal/infrastructure/storage"
	"github.com/styleco/storefront/internal/infrastructure/telemetry"
	"github.com/styleco/storefront/internal/interfaces/http/handler"
	"github.com/styleco/storefront/internal/interfaces/http/middleware"
	"github.com/styleco/storefront/internal/interfaces/http/router"
	"github.com/styleco/storefront/migrations"
	"go.uber.org/zap"

	_ "github.com/styleco/storefront/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			StyleCo Storefront API
//	@version		1.0
//	@description	Catalog, cart, checkout and order administration for the StyleCo store

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	otel, profiler := setupTelemetry(ctx, cfg, log)

	// re-create the logger so records are also exported over OTLP
	if cfg.Telemetry.Enabled && cfg.OTELLogs.Enabled {
		level := cfg.OTELLogs.Level
		if level == "" {
			level = cfg.Log.Level
		}
		if exported, err := logger.New(logCfg, otel.LogCore(cfg.Telemetry.ServiceName, logger.ParseLevel(level))); err == nil {
			log = exported
		} else {
			log.Warn("Failed to attach OTLP log core", zap.Error(err))
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting StyleCo storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Log.SlowQuery),
		logger.WithSQL(cfg.Log.SQL),
	)
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog)
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
		if err := telemetry.RegisterDBTracing(db.DB, false, log); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	if otel.Metering() {
		plugin, err := telemetry.NewDBMetricsPlugin(otel, cfg.Log.SlowQuery, log)
		if err == nil {
			err = db.DB.Use(plugin)
		}
		if err != nil {
			log.Warn("Failed to enable database metrics", zap.Error(err))
		}
	}

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	stores, err := cache.NewStores(ctx, cfg.Redis, cfg.Cart, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cart storage", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing cart storage", zap.Error(err))
		}
	}()

	var revocations auth.Revocations = auth.NewMemoryRevocations()
	if stores.Redis != nil {
		revocations = auth.NewRedisRevocations(stores.Redis)
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryPriceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	heroRepo := persistence.NewGormHeroRepository(db.DB)

	// Order events feed the admin live view, the audit log and the business metrics
	eventBus := event.NewInMemoryEventBus(log)
	hub := realtime.NewHub(
		realtime.WithLogger(log),
		realtime.WithAllowedOrigins(cfg.HTTP.CORSAllowOrigins),
	)
	eventBus.Subscribe(hub)
	eventBus.Subscribe(event.OrderAuditLog(log))
	if otel.Metering() {
		orderMetrics, err := telemetry.NewOrderMetrics(otel)
		if err != nil {
			log.Warn("Failed to register order metrics", zap.Error(err))
		} else {
			eventBus.Subscribe(orderMetrics)
		}
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	notifier := buildNotifier(cfg, log)
	imageStorage := buildImageStorage(ctx, cfg, log)

	// Application services
	tokens := auth.NewTokenIssuer(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, tokens, revocations, log)
	userService := identityapp.NewUserService(userRepo, revocations, cfg.JWT.AccessTokenExpiration, log)
	cartService := cartapp.NewService(stores.Carts, productRepo, log)
	checkoutService := checkoutapp.NewService(cartService, orderRepo, deliveryRepo,
		checkoutapp.WithNotifier(notifier),
		checkoutapp.WithEventPublisher(eventBus),
		checkoutapp.WithIdempotencyStore(stores.Idempotency, cfg.Cart.IdempotencyTTL),
		checkoutapp.WithLogger(log),
	)
	orderService := orderapp.NewService(orderRepo, productRepo, userService, eventBus, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	imageService := catalogapp.NewImageService(imageStorage, cfg.Storage.MaxUploadSize, log)
	deliveryService := deliveryapp.NewService(deliveryRepo)
	contentService := contentapp.NewService(heroRepo)
	notificationService := notificationapp.NewService(notifier, log)

	sessions, err := session.NewManager(cfg.Session, log, session.WithTrustedOrigins(cfg.HTTP.CORSAllowOrigins...))
	if err != nil {
		log.Fatal("Failed to initialize sessions", zap.Error(err))
	}

	orderOpts := []handler.OrderHandlerOption{
		handler.WithSheetWriter(export.NewXLSXWriter()),
		handler.WithLiveFeed(hub),
		handler.WithStoreName(cfg.Email.StoreName),
		handler.WithOrderLogger(log),
	}
	if cfg.Printing.Enabled {
		renderer := printing.NewPrinter(cfg.Printing, log)
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		orderOpts = append(orderOpts, handler.WithPDFRenderer(renderer))
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService, cartService, sessions, log),
		Cart:         handler.NewCartHandler(cartService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Product:      handler.NewProductHandler(productService),
		Category:     handler.NewCategoryHandler(categoryService),
		Image:        handler.NewImageHandler(imageService),
		Delivery:     handler.NewDeliveryHandler(deliveryService),
		Content:      handler.NewContentHandler(contentService),
		User:         handler.NewUserHandler(userService),
		Order:        handler.NewOrderHandler(orderService, orderOpts...),
		Notification: handler.NewNotificationHandler(notificationService),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id is needed by the logger and the tracer,
	// and recovery must wrap everything after it.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     otel.Tracing(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log, "/health", "/ready"))
	if httpMetrics, err := middleware.HTTPMetrics(otel); err != nil {
		log.Warn("Failed to register HTTP metrics", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = profiler.IsEnabled()
	engine.Use(middleware.Profiling(profiling))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Session.Secure
	engine.Use(middleware.Secure(security))
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize,
		middleware.UploadOverride("/api/v1/admin/images", cfg.Storage.MaxUploadSize)))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	requireAuth := middleware.RequireAuth(authService, log)
	guards := router.Guards{
		RequireAuth:  requireAuth,
		OptionalAuth: middleware.OptionalAuth(authService, log),
		RequireAdmin: middleware.RequireAdmin(),
		CartOwner:    middleware.CartOwner(sessions, log),
		CSRF:         middleware.CSRF(sessions),
		Idempotency:  middleware.IdempotencyKey(),
	}
	if len(cfg.Admin.AllowedIPs) > 0 {
		adminIPs, err := middleware.ParseIPAllowList(cfg.Admin.AllowedIPs)
		if err != nil {
			log.Fatal("Invalid admin.allowed_ips", zap.Error(err))
		}
		guards.AdminNetwork = middleware.RestrictIPs(adminIPs, "The admin console is not reachable from this network")
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer authLimiter.Stop()
		guards.AuthRateLimit = middleware.RateLimit(authLimiter)
	}

	probes := []handler.HealthOption{
		handler.WithCheck("database", db.Ping),
		handler.WithLiveClients(hub.ClientCount),
	}
	if stores.Redis != nil {
		probes = append(probes, handler.WithCheck("redis", func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		}))
	}
	health := handler.NewHealthHandler(version, probes...)
	router.RegisterProbes(engine, health)

	docsIPs, err := middleware.ParseIPAllowList(cfg.Swagger.AllowedIPs)
	if err != nil {
		log.Fatal("Invalid swagger.allowed_ips", zap.Error(err))
	}
	docs := middleware.DocsProtection(middleware.DocsConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  docsIPs,
	}, requireAuth, middleware.RequireAdmin())
	engine.GET("/swagger/*any", append(docs, ginSwagger.WrapHandler(swaggerFiles.Handler))...)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	routes := r.Register(router.Storefront(handlers, guards)...).Setup()
	log.Info("Routes registered", zap.String("base_path", r.BasePath()), zap.Int("count", routes))

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// websocket connections are hijacked and not closed by Shutdown
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := otel.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing telemetry", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// setupTelemetry starts the OTLP exporters and the profiler. A component
// that fails to start is logged and left off; the server still starts.
func setupTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetry.Providers, *telemetry.Profiler) {
	on := cfg.Telemetry.Enabled
	otel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    cfg.Telemetry.ServiceName,
		Endpoint:       cfg.Telemetry.CollectorEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
		Traces:         on,
		SampleRatio:    cfg.Telemetry.SamplingRatio,
		Metrics:        on && cfg.Metrics.Enabled,
		ExportInterval: cfg.Metrics.ExportInterval,
		Logs:           on && cfg.OTELLogs.Enabled,
	}, log)
	if err != nil {
		log.Warn("Telemetry partly disabled", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Pyroscope.Enabled,
		ServerAddress:     cfg.Pyroscope.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Pyroscope.BasicAuthUser,
		BasicAuthPassword: cfg.Pyroscope.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Warn("Profiling disabled", zap.Error(err))
		profiler, _ = telemetry.NewProfiler(telemetry.ProfilerConfig{}, log)
	}
	if profiler.IsEnabled() && cfg.Pyroscope.SpanProfileEnabled {
		otel.EnableSpanProfiles()
	}
	return otel, profiler
}

// buildNotifier emails the admin through Resend when email is enabled, and
// logs orders otherwise
func buildNotifier(cfg *config.Config, log *zap.Logger) notificationapp.OrderNotifier {
	if !cfg.Email.Enabled {
		log.Info("Email disabled, new orders are only logged")
		return notificationapp.NewLogNotifier(log)
	}
	client, err := email.NewResendClient(cfg.Email)
	if err != nil {
		log.Warn("Email client unavailable, new orders are only logged", zap.Error(err))
		return notificationapp.NewLogNotifier(log)
	}
	notifier, err := notificationapp.NewEmailNotifier(client, notificationapp.EmailConfig{
		From:       cfg.Email.From,
		AdminEmail: cfg.Email.AdminEmail,
		StoreName:  cfg.Email.StoreName,
	}, log)
	if err != nil {
		log.Warn("Email notifier unavailable, new orders are only logged", zap.Error(err))
		return notificationapp.NewLogNotifier(log)
	}
	return notifier
}

// buildImageStorage uses S3 when storage is enabled and keeps images in
// memory otherwise
func buildImageStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) catalogapp.ImageStorage {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ImageStore(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err == nil {
			if err := s3.EnsureBucket(ctx); err != nil {
				log.Warn("Failed to verify image bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
			}
			return s3
		}
		log.Error("S3 storage unavailable, images are kept in memory", zap.Error(err))
	}
	return storage.NewMemoryImageStore(cfg.App.PublicURL + "/images")
}

func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	return m.Up()
}
