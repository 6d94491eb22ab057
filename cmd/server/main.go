package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/tourops/backend/internal/application/billing"
	"github.com/tourops/backend/internal/application/settlement"
	tourapp "github.com/tourops/backend/internal/application/tour"
	"github.com/tourops/backend/internal/infrastructure/config"
	"github.com/tourops/backend/internal/infrastructure/event"
	"github.com/tourops/backend/internal/infrastructure/logger"
	"github.com/tourops/backend/internal/infrastructure/persistence"
	"github.com/tourops/backend/internal/interfaces/http/handler"
	"github.com/tourops/backend/internal/interfaces/http/middleware"
	"github.com/tourops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
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

	log.Info("Starting TourOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	// Initialize database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Initialize repositories
	tourRepo := persistence.NewGormTourRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	requestRepo := persistence.NewGormPaymentRequestRepository(db.DB)
	disbursementRepo := persistence.NewGormDisbursementRepository(db.DB)

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewActivityLogger(log))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Initialize application services
	recalcService := settlement.NewRecalculationService(tourRepo, orderRepo, receiptRepo, requestRepo, eventBus)
	tourService := tourapp.NewTourService(tourRepo, orderRepo, recalcService, eventBus)
	orderService := tourapp.NewOrderService(orderRepo, tourRepo, recalcService, eventBus)
	receiptService := billingapp.NewReceiptService(receiptRepo, orderRepo, tourRepo, recalcService, eventBus)
	requestService := billingapp.NewPaymentRequestService(requestRepo, tourRepo, recalcService, eventBus)
	disbursementService := billingapp.NewDisbursementService(disbursementRepo, requestRepo, recalcService, eventBus)

	// Initialize handlers
	tourHandler := handler.NewTourHandler(tourService)
	orderHandler := handler.NewOrderHandler(orderService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	requestHandler := handler.NewPaymentRequestHandler(requestService)
	disbursementHandler := handler.NewDisbursementHandler(disbursementService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(int64(cfg.HTTP.MaxHeaderBytes)))

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitMax, cfg.HTTP.RateLimitWindow)
	engine.Use(middleware.RateLimit(limiter))

	engine.GET("/health", healthHandler(db))

	// Register API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	tours := router.NewDomainGroup("tours", "/tours")
	tours.POST("", tourHandler.Create)
	tours.GET("", tourHandler.List)
	tours.GET("/:id", tourHandler.GetByID)
	tours.PUT("/:id", tourHandler.Update)
	tours.POST("/:id/open", tourHandler.Open)
	tours.POST("/:id/close", tourHandler.Close)
	tours.POST("/:id/recalculate", tourHandler.Recalculate)
	tours.GET("/:id/orders", orderHandler.ListByTour)

	orders := router.NewDomainGroup("orders", "/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.GetByID)
	orders.POST("/:id/members", orderHandler.AddMember)
	orders.DELETE("/:id/members/:member_id", orderHandler.RemoveMember)

	receipts := router.NewDomainGroup("receipts", "/receipts")
	receipts.POST("", receiptHandler.Create)
	receipts.GET("", receiptHandler.List)
	receipts.GET("/:id", receiptHandler.GetByID)
	receipts.POST("/:id/confirm", receiptHandler.Confirm)
	receipts.POST("/:id/void", receiptHandler.Void)

	requests := router.NewDomainGroup("payment-requests", "/payment-requests")
	requests.POST("", requestHandler.Create)
	requests.GET("", requestHandler.List)
	requests.GET("/:id", requestHandler.GetByID)
	requests.POST("/:id/approve", requestHandler.Approve)
	requests.POST("/:id/confirm", requestHandler.Confirm)
	requests.POST("/:id/reject", requestHandler.Reject)
	requests.DELETE("/:id", requestHandler.Delete)

	disbursements := router.NewDomainGroup("disbursements", "/disbursements")
	disbursements.POST("", disbursementHandler.Create)
	disbursements.GET("", disbursementHandler.List)
	disbursements.GET("/:id", disbursementHandler.GetByID)
	disbursements.POST("/:id/confirm", disbursementHandler.Confirm)

	system := router.NewDomainGroup("system", "/system")
	system.GET("/info", systemHandler.GetSystemInfo)
	system.GET("/ping", systemHandler.Ping)

	r.Register(tours).
		Register(orders).
		Register(receipts).
		Register(requests).
		Register(disbursements).
		Register(system)
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
		log.Info("Server listening", zap.String("addr", srv.Addr))
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
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus stop error", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		dbStatus := "ok"
		code := http.StatusOK

		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Error("Health check database ping failed", zap.Error(err))
			status = "degraded"
			dbStatus = "unreachable"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":   status,
			"time":     time.Now().UTC().Format(time.RFC3339),
			"database": dbStatus,
		})
	}
}
