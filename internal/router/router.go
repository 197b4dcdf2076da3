package router

import (
	"time"

	"ledgercore/internal/config"
	"ledgercore/internal/handler"
	"ledgercore/internal/middleware"
	"ledgercore/internal/service"

	"github.com/gin-gonic/gin"
)

// Services groups the wired core services handed in by the composition root.
type Services struct {
	Documents service.DocumentService
	Bank      service.BankService
	Cash      service.CashService
	Stock     service.StockService
	Payments  service.PaymentService
	Sales     service.SaleService
}

// New returns a configured Gin engine over the core services.
// Dependency graph: Handler ← Service ← Repository (in-memory).
func New(cfg *config.Config, svcs Services) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Handlers ─────────────────────────────────────────────────────────────
	documentsH := handler.NewDocumentsHandler(svcs.Documents)
	bankH := handler.NewBankHandler(svcs.Bank)
	cashH := handler.NewCashHandler(svcs.Cash)
	stockH := handler.NewStockHandler(svcs.Stock)
	paymentsH := handler.NewPaymentsHandler(svcs.Payments)
	salesH := handler.NewSalesHandler(svcs.Sales)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health())

	v1 := r.Group("/v1")
	{
		// Documents: sales invoices and purchase bills
		v1.POST("/invoices", documentsH.CreateSales)
		v1.GET("/invoices", documentsH.ListSales)
		v1.POST("/purchases", documentsH.CreatePurchase)
		v1.GET("/purchases", documentsH.ListPurchases)
		v1.GET("/documents/:id", documentsH.Get)
		v1.PUT("/documents/:id", documentsH.Update)
		v1.DELETE("/documents/:id", documentsH.Delete)

		// Payments — the ledger router
		v1.POST("/payments", paymentsH.Record)

		// Bank
		v1.POST("/bank/accounts", bankH.CreateAccount)
		v1.GET("/bank/accounts", bankH.ListAccounts)
		v1.GET("/bank/accounts/:id", bankH.GetAccount)
		v1.PUT("/bank/accounts/:id", bankH.UpdateAccount)
		v1.DELETE("/bank/accounts/:id", bankH.DeleteAccount)
		v1.GET("/bank/accounts/:id/transactions", bankH.ListTransactions)
		v1.POST("/bank/transactions", bankH.AddTransaction)
		v1.DELETE("/bank/transactions/:id", bankH.DeleteTransaction)

		// Cash
		v1.POST("/cash/sessions", cashH.OpenSession)
		v1.GET("/cash/sessions", cashH.ListSessions)
		v1.GET("/cash/sessions/active", cashH.GetActive)
		v1.GET("/cash/sessions/:id/report", cashH.Report)
		v1.POST("/cash/sessions/:id/close", cashH.CloseSession)
		v1.POST("/cash/sessions/:id/transactions", cashH.AddTransaction)

		// Stock
		v1.POST("/warehouses", stockH.CreateWarehouse)
		v1.GET("/warehouses", stockH.ListWarehouses)
		v1.POST("/products", stockH.CreateProduct)
		v1.GET("/products", stockH.ListProducts)
		v1.GET("/products/:id", stockH.GetProduct)
		v1.POST("/stock/transfers", stockH.Transfer)
		v1.GET("/stock/transfers", stockH.ListTransfers)
		v1.POST("/stock/adjustments", stockH.Adjust)
		v1.GET("/stock/alerts", stockH.Alerts)

		// Sales (POS)
		v1.POST("/sales", salesH.Register)
		v1.GET("/sales", salesH.List)
		v1.GET("/sales/:id", salesH.Get)
		v1.DELETE("/sales/:id", salesH.Void)
	}

	return r
}
