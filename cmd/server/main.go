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

	deliveryapp "github.com/shipshape/backend/internal/application/delivery"
	notificationapp "github.com/shipshape/backend/internal/application/notification"
	outgoingapp "github.com/shipshape/backend/internal/application/outgoing"
	partnerapp "github.com/shipshape/backend/internal/application/partner"
	reportapp "github.com/shipshape/backend/internal/application/report"
	"github.com/shipshape/backend/internal/application/verification"
	"github.com/shipshape/backend/internal/domain/notification"
	"github.com/shipshape/backend/internal/infrastructure/auth"
	"github.com/shipshape/backend/internal/infrastructure/config"
	"github.com/shipshape/backend/internal/infrastructure/event"
	"github.com/shipshape/backend/internal/infrastructure/extraction"
	"github.com/shipshape/backend/internal/infrastructure/logger"
	"github.com/shipshape/backend/internal/infrastructure/persistence"
	"github.com/shipshape/backend/internal/infrastructure/realtime"
	"github.com/shipshape/backend/internal/infrastructure/storage"
	"github.com/shipshape/backend/internal/interfaces/http/handler"
	"github.com/shipshape/backend/internal/interfaces/http/middleware"
	"github.com/shipshape/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
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
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting shipshape backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database, with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	outgoingRepo := persistence.NewGormOutgoingRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	connectionRepo := persistence.NewGormConnectionRequestRepository(db.DB)

	// Receipt image storage
	imageStore, err := newImageStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize receipt image store", zap.Error(err))
	}

	// Realtime notification channel. Optional: without Redis the inbox
	// still works, clients just fall back to polling.
	var livePublisher notification.Publisher
	redisPublisher, err := realtime.NewRedisPublisher(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, realtime notifications disabled", zap.Error(err))
	} else {
		livePublisher = redisPublisher
		defer func() {
			_ = redisPublisher.Close()
		}()
	}

	// Application services
	deliveryService := deliveryapp.NewDeliveryService(deliveryRepo, reportRepo, log)
	reportService := reportapp.NewReportService(reportRepo, log)
	outgoingService := outgoingapp.NewOutgoingService(outgoingRepo, reportRepo, deliveryRepo, log)
	connectionService := partnerapp.NewConnectionService(connectionRepo, supplierRepo, productRepo, log)
	inboxService := notificationapp.NewInboxService(notificationRepo)

	extractor := extraction.NewHTTPExtractor(cfg.Extractor, log)
	scanService := verification.NewScanService(extractor, deliveryService, log)
	scanService.SetPageTimeout(cfg.Extractor.PageTimeout)

	// Event bus: business transitions publish, the dispatcher turns events
	// into inbox notifications
	eventBus := event.NewInMemoryEventBus(log)
	dispatcher := notificationapp.NewDispatcher(notificationRepo, livePublisher, log)
	eventBus.Subscribe(dispatcher)
	deliveryService.SetEventPublisher(eventBus)
	reportService.SetEventPublisher(eventBus)
	outgoingService.SetEventPublisher(eventBus)
	connectionService.SetEventPublisher(eventBus)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxy configuration", zap.Error(err))
		}
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	// Probes live outside the authenticated API group
	handler.NewSystemHandler(db, version).RegisterRoutes(engine)

	router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(middleware.Auth(jwtService, log)),
	).Register(
		handler.NewDeliveryHandler(deliveryService),
		handler.NewScanHandler(scanService, imageStore, cfg.Storage.PresignExpiration),
		handler.NewReportHandler(reportService),
		handler.NewOutgoingHandler(outgoingService),
		handler.NewNotificationHandler(inboxService),
		handler.NewConnectionHandler(connectionService),
	).Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// newImageStore builds the receipt image store for the configured driver.
// The stub driver is rejected in production by config validation.
func newImageStore(cfg *config.Config, log *zap.Logger) (verification.ReceiptImageStore, error) {
	if cfg.Storage.Driver == "stub" {
		log.Warn("Using in-memory stub image store, uploads will not survive restarts")
		return storage.NewStubImageStore(), nil
	}

	store, err := storage.NewS3ImageStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
