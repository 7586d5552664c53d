package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chinaboxmv/chinabox_api/internal/cache"
	"github.com/chinaboxmv/chinabox_api/internal/config"
	"github.com/chinaboxmv/chinabox_api/internal/database"
	"github.com/chinaboxmv/chinabox_api/internal/handler"
	"github.com/chinaboxmv/chinabox_api/internal/middleware"
	"github.com/chinaboxmv/chinabox_api/internal/repository"
	"github.com/chinaboxmv/chinabox_api/internal/service"
	"github.com/chinaboxmv/chinabox_api/internal/sse"
	"github.com/chinaboxmv/chinabox_api/internal/utils"
	"github.com/chinaboxmv/chinabox_api/internal/worker"
)

// main is the application entrypoint for the ChinaBox storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting chinabox api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize Redis-backed caches
	confirmCache := cache.NewRemovalConfirmCache(redisClient, cfg.Box.RemoveConfirmTTL)
	quoteCache := cache.NewQuoteCache(redisClient, cfg.Box.QuoteTTL)

	// 4. Initialize blob storage
	blobSvc, err := service.NewBlobService(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("Blob storage initialization failed - file uploads will be disabled")
	}

	// 5. Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	requestRepo := repository.NewProductRequestRepository(db)
	boxRepo := repository.NewBoxRepository(db)
	deliveryRepo := repository.NewDeliveryInfoRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 6. Initialize SSE hub for admin real-time updates
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 7. Initialize services
	authSvc := service.NewAuthService(customerRepo)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)
	intakeSvc := service.NewIntakeService(requestRepo, boxRepo, blobSvc)
	boxSvc := service.NewBoxService(requestRepo, boxRepo, confirmCache)
	curationSvc := service.NewCurationService(requestRepo, paymentRepo, purchaseRepo, blobSvc, notifier)
	checkoutSvc := service.NewCheckoutService(boxRepo, deliveryRepo, purchaseRepo, paymentRepo, blobSvc, quoteCache)

	// 8. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(db, redisClient),
		Auth:     handler.NewAuthHandler(authSvc, adminAuthSvc),
		Request:  handler.NewRequestHandler(intakeSvc),
		Box:      handler.NewBoxHandler(boxSvc, checkoutSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc),
		Admin:    handler.NewAdminHandler(curationSvc),
		SSE:      handler.NewSSEHandler(hub),
	}

	// 9. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 10. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 11. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 12. Start workers
	go worker.NewReconcileWorker(boxRepo, cfg.Worker.ReconcileInterval).Start(ctx)

	// 13. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 15. Cancel context to stop workers
	cancel()

	// 16. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Request  *handler.RequestHandler
	Box      *handler.BoxHandler
	Checkout *handler.CheckoutHandler
	Admin    *handler.AdminHandler
	SSE      *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Auth routes (public)
	router.POST("/v1/auth/register", handlers.Auth.Register)
	router.POST("/v1/auth/login", handlers.Auth.Login)

	// Customer routes (JWT protected)
	customer := router.Group("/v1")
	customer.Use(jwtMiddleware.Handle())
	{
		// Product requests
		customer.POST("/requests", handlers.Request.Create)
		customer.GET("/requests", handlers.Request.List)
		customer.PUT("/requests/:id", handlers.Request.Update)
		customer.DELETE("/requests/:id", handlers.Request.Delete)

		// Box
		customer.GET("/box", handlers.Box.List)
		customer.POST("/box/items", handlers.Box.Promote)
		customer.GET("/box/quote", handlers.Box.Quote)
		customer.POST("/box/items/:id/remove-request", handlers.Box.RequestRemoval)
		customer.POST("/box/items/:id/cancel-removal", handlers.Box.CancelRemoval)
		customer.DELETE("/box/items/:id", handlers.Box.Remove)

		// Checkout and purchases
		customer.GET("/delivery", handlers.Checkout.ListDeliveryInfo)
		customer.POST("/checkout", handlers.Checkout.Checkout)
		customer.POST("/purchases/:id/slip", handlers.Checkout.UploadSlip)
		customer.GET("/purchases", handlers.Checkout.ListPurchases)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.AdminLogin)
	// SSE authenticates via query param; EventSource cannot set headers.
	admin.GET("/sse", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireAdmin())
	{
		// Staff provisioning
		admin.POST("/users", handlers.Auth.CreateAdmin)

		// Product request curation
		admin.GET("/requests", handlers.Admin.ListRequests)
		admin.PATCH("/requests/:id/status", handlers.Admin.SetStatus)
		admin.PATCH("/requests/:id/price", handlers.Admin.SetPrice)

		// Payment review
		admin.GET("/payments", handlers.Admin.ListPayments)
		admin.PATCH("/payments/:id/status", handlers.Admin.SetPaymentStatus)

		// Purchases
		admin.GET("/purchases", handlers.Admin.ListPurchases)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
