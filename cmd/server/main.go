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

	financeapp "github.com/estate/backend/internal/application/finance"
	landapp "github.com/estate/backend/internal/application/land"
	ledgerapp "github.com/estate/backend/internal/application/ledger"
	"github.com/estate/backend/internal/application/notification"
	salesapp "github.com/estate/backend/internal/application/sales"
	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/cache"
	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/estate/backend/internal/infrastructure/event"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/estate/backend/internal/infrastructure/persistence"
	"github.com/estate/backend/internal/infrastructure/scheduler"
	"github.com/estate/backend/internal/infrastructure/sms"
	"github.com/estate/backend/internal/interfaces/http/handler"
	"github.com/estate/backend/internal/interfaces/http/router"
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

	log.Info("Starting Estate Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	parcelRepo := persistence.NewGormParcelRepository(db.DB)
	plotRepo := persistence.NewGormPlotRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	cancellationRepo := persistence.NewGormCancellationRepository(db.DB)
	refundRepo := persistence.NewGormRefundRepository(db.DB)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	numberGen := persistence.NewDocumentNumberGenerator(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Application services
	parcelService := landapp.NewParcelService(parcelRepo, plotRepo)
	plotService := landapp.NewPlotService(plotRepo, parcelRepo, txManager)
	saleService := salesapp.NewSaleService(saleRepo, plotRepo, parcelRepo, entryRepo, numberGen, txManager)
	receiptService := salesapp.NewReceiptService(receiptRepo, saleRepo, entryRepo, numberGen, txManager)
	expenseService := financeapp.NewExpenseService(expenseRepo, entryRepo, numberGen, txManager)
	settlementService := financeapp.NewSettlementService(
		cancellationRepo, refundRepo, saleRepo, plotRepo, parcelRepo,
		entryRepo, numberGen, txManager,
	)
	ledgerService := ledgerapp.NewLedgerService(entryRepo)

	// Domain events are delivered in-process
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	plotService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)
	expenseService.SetEventPublisher(eventBus)
	settlementService.SetEventPublisher(eventBus)

	// Client SMS notifications, keyed for at-most-once delivery
	if cfg.Notification.Enabled {
		sender, err := sms.NewSender(cfg.Notification, log)
		if err != nil {
			log.Fatal("Failed to initialize SMS sender", zap.Error(err))
		}
		idemStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(true),
		).CreateStore()
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		dispatcher := notification.NewDispatcher(sender, idemStore, log)
		saleService.SetNotifier(dispatcher)
		receiptService.SetNotifier(dispatcher)
		settlementService.SetNotifier(dispatcher)
		log.Info("SMS notifications enabled", zap.String("provider", cfg.Notification.Provider))
	}

	// Token issuance and revocation
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
	}

	// Nightly-style sweep that marks installments due and overdue
	var sweeper *scheduler.InstallmentSweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewInstallmentSweeper(cfg.Scheduler, saleService, saleRepo, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start installment sweeper", zap.Error(err))
		}
		log.Info("Installment sweeper started",
			zap.Duration("interval", cfg.Scheduler.SweepInterval))
	}

	engine := router.NewEngine(router.Handlers{
		System:     handler.NewSystemHandler(db.DB),
		Auth:       handler.NewAuthHandler(jwtService, blacklist, log),
		Parcel:     handler.NewParcelHandler(parcelService),
		Plot:       handler.NewPlotHandler(plotService),
		Sale:       handler.NewSaleHandler(saleService),
		Receipt:    handler.NewReceiptHandler(receiptService),
		Expense:    handler.NewExpenseHandler(expenseService),
		Settlement: handler.NewSettlementHandler(settlementService),
		Ledger:     handler.NewLedgerHandler(ledgerService),
	}, router.Options{
		Config:     cfg,
		JWTService: jwtService,
		Blacklist:  blacklist,
		Logger:     log,
	})

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sweeper != nil {
		if err := sweeper.Stop(ctx); err != nil {
			log.Error("Installment sweeper did not stop cleanly", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
