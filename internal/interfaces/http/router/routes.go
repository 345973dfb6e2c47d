package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/estate/backend/internal/infrastructure/auth"
	"github.com/estate/backend/internal/infrastructure/config"
	"github.com/estate/backend/internal/infrastructure/logger"
	"github.com/estate/backend/internal/interfaces/http/handler"
	"github.com/estate/backend/internal/interfaces/http/middleware"
)

// Handlers collects every HTTP handler wired into the API.
type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Parcel     *handler.ParcelHandler
	Plot       *handler.PlotHandler
	Sale       *handler.SaleHandler
	Receipt    *handler.ReceiptHandler
	Expense    *handler.ExpenseHandler
	Settlement *handler.SettlementHandler
	Ledger     *handler.LedgerHandler
}

// Options carries the cross-cutting dependencies of the HTTP layer.
type Options struct {
	Config     *config.Config
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Logger     *zap.Logger
}

// NewEngine builds the gin engine with the full middleware stack and
// route table. Everything under /api/v1 except auth and health checks
// requires a valid access token.
func NewEngine(h Handlers, opts Options) *gin.Engine {
	engine := gin.New()

	if len(opts.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(opts.Config.HTTP.TrustedProxies)
	}

	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(opts.Config.HTTP)))
	if opts.Config.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.Config.HTTP.MaxBodySize))
	}
	engine.Use(middleware.RateLimit(middleware.NewRateLimiter(300, time.Minute)))

	// Liveness probes sit outside the versioned API
	engine.GET("/health", h.System.Health)
	engine.GET("/healthz", h.System.Ping)

	jwtMW := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     opts.JWTService,
		TokenBlacklist: opts.Blacklist,
		Logger:         opts.Logger,
	})

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(systemRoutes(h.System))
	r.Register(authRoutes(h.Auth))
	r.Register(parcelRoutes(h.Parcel, jwtMW))
	r.Register(plotRoutes(h.Plot, jwtMW))
	r.Register(saleRoutes(h.Sale, jwtMW))
	r.Register(receiptRoutes(h.Receipt, jwtMW))
	r.Register(expenseRoutes(h.Expense, jwtMW))
	r.Register(settlementRoutes(h.Settlement, jwtMW))
	r.Register(refundRoutes(h.Settlement, jwtMW))
	r.Register(ledgerRoutes(h.Ledger, jwtMW))
	r.Setup()

	return engine
}

func corsConfig(cfg config.HTTPConfig) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	}
	if len(cfg.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.CORSAllowMethods
	}
	if len(cfg.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.CORSAllowHeaders
	}
	return corsCfg
}

func systemRoutes(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	g.GET("/ping", h.Ping)
	g.GET("/health", h.Health)
	return g
}

func authRoutes(h *handler.AuthHandler) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	g.POST("/refresh", h.Refresh)
	return g
}

func parcelRoutes(h *handler.ParcelHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("parcels", "/parcels").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Deactivate)
	return g
}

func plotRoutes(h *handler.PlotHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("plots", "/plots").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/reserve", h.Reserve)
	g.POST("/:id/block", h.Block)
	g.POST("/:id/unblock", h.Unblock)
	g.DELETE("/:id", h.Delete)
	return g
}

func saleRoutes(h *handler.SaleHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("sales", "/sales").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/number/:number", h.GetByNumber)
	g.POST("/:id/hold", h.Hold)
	g.POST("/:id/resume", h.Resume)
	g.POST("/:id/schedule", h.RegenerateSchedule)
	return g
}

func receiptRoutes(h *handler.ReceiptHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("receipts", "/receipts").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	return g
}

func expenseRoutes(h *handler.ExpenseHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("expenses", "/expenses").Use(jwtMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.POST("/:id/submit", h.Submit)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	return g
}

func settlementRoutes(h *handler.SettlementHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("cancellations", "/cancellations").Use(jwtMW)
	g.POST("", h.Open)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.GET("/by-sale/:saleId", h.GetBySale)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/refunds", h.GenerateRefundSchedule)
	g.GET("/:id/refunds", h.ListRefunds)
	return g
}

func refundRoutes(h *handler.SettlementHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("refunds", "/refunds").Use(jwtMW)
	g.POST("/:id/submit", h.SubmitRefund)
	g.POST("/:id/approve", h.ApproveRefund)
	g.POST("/:id/reject", h.RejectRefund)
	g.POST("/:id/paid", h.MarkRefundPaid)
	return g
}

func ledgerRoutes(h *handler.LedgerHandler, jwtMW gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("ledger", "/ledger").Use(jwtMW)
	g.GET("/entries", h.List)
	g.GET("/entries/reference/:referenceId", h.ByReference)
	g.GET("/trial-balance", h.TrialBalance)
	return g
}
