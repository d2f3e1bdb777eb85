package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/kivalao/backend/internal/application/identity"
	ledgerapp "github.com/kivalao/backend/internal/application/ledger"
	offerapp "github.com/kivalao/backend/internal/application/offer"
	partnershipapp "github.com/kivalao/backend/internal/application/partnership"
	referralapp "github.com/kivalao/backend/internal/application/referral"
	"github.com/kivalao/backend/internal/infrastructure/auth"
	"github.com/kivalao/backend/internal/infrastructure/cache"
	"github.com/kivalao/backend/internal/infrastructure/config"
	"github.com/kivalao/backend/internal/infrastructure/logger"
	"github.com/kivalao/backend/internal/infrastructure/notification"
	"github.com/kivalao/backend/internal/infrastructure/persistence"
	"github.com/kivalao/backend/internal/infrastructure/telemetry"
	"github.com/kivalao/backend/internal/interfaces/http/handler"
	"github.com/kivalao/backend/internal/interfaces/http/middleware"
	"github.com/kivalao/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting Kivalao Partner API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// No-op provider when tracing is disabled, so wiring stays the same.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
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
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		if err := telemetry.NewDBTracingPlugin(dbTracingCfg, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	deps, err := buildServices(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to wire services", zap.Error(err))
	}

	engine := newEngine(cfg, log)
	mountRoutes(engine, cfg, db, deps, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}
	serve(srv, log)
}

// services holds everything the HTTP layer needs, wired once at startup.
type services struct {
	jwt         *auth.JWTService
	revocations auth.RevocationList

	auth        *handler.AuthHandler
	partnership *handler.PartnershipHandler
	offer       *handler.OfferHandler
	code        *handler.CodeHandler
	transaction *handler.TransactionHandler
	dashboard   *handler.DashboardHandler
	system      *handler.SystemHandler
}

func buildServices(cfg *config.Config, db *persistence.Database, log *zap.Logger) (*services, error) {
	userRepo := persistence.NewGormUserRepository(db.DB)
	partnershipRepo := persistence.NewGormPartnershipRepository(db.DB)
	offerRepo := persistence.NewGormOfferRepository(db.DB)
	codeRepo := persistence.NewGormCodeRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	transactionScope := persistence.NewGormTransactionScope(db.DB)

	// Balance cache: Redis with in-memory fallback for single-instance setups.
	balanceCache, err := cache.NewBalanceCacheFactory(cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		return nil, err
	}

	// Token revocations back logout. Without Redis they stay local to
	// this instance, which is acceptable for development.
	var revocations auth.RevocationList
	redisRevocations, err := auth.NewRedisRevocationList(auth.RedisRevocationConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token revocations. "+
			"Revocations will not propagate across instances.",
			zap.Error(err),
		)
		revocations = auth.NewInMemoryRevocationList()
	} else {
		revocations = redisRevocations
	}

	webhookNotifier := notification.NewWebhookNotifier(cfg.Webhook, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	partnershipService := partnershipapp.NewService(partnershipRepo, userRepo, log)
	offerService := offerapp.NewService(offerRepo, partnershipRepo, userRepo, log)
	codeService := referralapp.NewCodeService(codeRepo, offerRepo, transactionScope, webhookNotifier, balanceCache, log)
	transactionService := ledgerapp.NewTransactionService(transactionRepo, codeRepo, userRepo, log)
	dashboardService := ledgerapp.NewDashboardService(transactionRepo, codeRepo, balanceCache, log)

	return &services{
		jwt:         jwtService,
		revocations: revocations,
		auth:        handler.NewAuthHandler(authService),
		partnership: handler.NewPartnershipHandler(partnershipService),
		offer:       handler.NewOfferHandler(offerService),
		code:        handler.NewCodeHandler(codeService),
		transaction: handler.NewTransactionHandler(transactionService),
		dashboard:   handler.NewDashboardHandler(dashboardService),
		system:      handler.NewSystemHandler(),
	}, nil
}

// newEngine builds the gin engine with the cross-cutting middleware stack.
// Order matters: the request ID and recovery run first so every later
// stage, including the access log and trace span, sees them.
func newEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	return engine
}

// mountRoutes attaches the health endpoint and the versioned API surface.
func mountRoutes(engine *gin.Engine, cfg *config.Config, db *persistence.Database, deps *services, log *zap.Logger) {
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Everything under /api/v1 requires a valid access token except the
	// listed public paths.
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:  deps.jwt,
		Revocations: deps.revocations,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))

	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		// Stricter per-IP budget on credential endpoints to slow
		// down brute forcing, separate from the global limiter.
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return c.ClientIP()
		}))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/register", deps.auth.Register)
	authRoutes.POST("/login", deps.auth.Login)
	authRoutes.POST("/refresh", deps.auth.RefreshToken)
	authRoutes.POST("/logout", deps.auth.Logout)
	authRoutes.POST("/logout-all", deps.auth.LogoutAll)
	authRoutes.GET("/me", deps.auth.GetCurrentUser)

	partnershipRoutes := router.NewDomainGroup("partnership", "/partnerships")
	partnershipRoutes.POST("/invite", deps.partnership.Invite)
	partnershipRoutes.PATCH("/accept/:token", deps.partnership.Accept)
	partnershipRoutes.GET("/offers", deps.offer.ListPartnerOffers)

	offerRoutes := router.NewDomainGroup("offer", "/offers")
	offerRoutes.POST("", deps.offer.Create)

	codeRoutes := router.NewDomainGroup("code", "/code")
	codeRoutes.POST("/generate", deps.code.Generate)
	codeRoutes.POST("/validate", deps.code.Validate)

	transactionRoutes := router.NewDomainGroup("transaction", "/transactions")
	transactionRoutes.GET("/:id", deps.transaction.Get)

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/balance", deps.dashboard.Balance)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", deps.system.GetSystemInfo)
	systemRoutes.GET("/ping", deps.system.Ping)

	r.Register(authRoutes).
		Register(partnershipRoutes).
		Register(offerRoutes).
		Register(codeRoutes).
		Register(transactionRoutes).
		Register(dashboardRoutes).
		Register(systemRoutes)

	r.Setup()
}

// serve runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds.
func serve(srv *http.Server, log *zap.Logger) {
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "error",
				"time":     time.Now().Format(time.RFC3339),
			})
			return
		}
		payload := gin.H{
			"status":   "healthy",
			"database": "ok",
			"time":     time.Now().Format(time.RFC3339),
		}
		if stats, err := db.Stats(); err == nil {
			payload["pool"] = gin.H{
				"open":   stats.OpenConnections,
				"in_use": stats.InUse,
				"idle":   stats.Idle,
			}
		}
		c.JSON(http.StatusOK, payload)
	}
}
