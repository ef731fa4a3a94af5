package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/auth"
	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/internal/application/reports"
	"github.com/jhoicas/gestion-comercial-api/internal/application/usecase"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	UserUC           *usecase.UserUseCase
	CustomerUC       *billing.CustomerUseCase
	CategoryUC       *usecase.CategoryUseCase
	ProductUC        *usecase.ProductUseCase
	RatesUC          *rates.RatesUseCase
	SaleUC           *billing.SaleUseCase
	InvoicePDF       *billing.PDFUseCase
	QuoteUC          *billing.QuoteUseCase
	PaymentUC        *finance.PaymentUseCase
	ChequeUC         *finance.ChequeUseCase
	CurrentAccountUC *finance.CurrentAccountUseCase
	ReportUC         *reports.ReportUseCase
	AsyncInvoice     bool // facturación vía cola por defecto
	JWTSecret        string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	adminOnly := RequireRole(RoleAdmin)

	api := app.Group("/api")

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC, log)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Patch("/:id/status", userHandler.UpdateStatus)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, log)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Products (low-stock antes de /:id)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id/stock", adminOnly, productHandler.AdjustStock)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Exchange rates
	ratesGroup := protected.Group("/exchange-rates")
	rateHandler := NewExchangeRateHandler(deps.RatesUC, log)
	ratesGroup.Get("/latest", rateHandler.Latest)
	ratesGroup.Get("/", rateHandler.History)
	ratesGroup.Post("/", adminOnly, rateHandler.Create)
	ratesGroup.Post("/refresh", rateHandler.Refresh)

	// Sales
	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.InvoicePDF, deps.AsyncInvoice, log)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/invoice", saleHandler.Invoice)
	sales.Post("/:id/cancel", saleHandler.Cancel)
	sales.Get("/:id/pdf", saleHandler.PDF)

	// Quotes
	quotes := protected.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, log)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/", quoteHandler.List)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)

	// Payments
	payments := protected.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC, log)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/", paymentHandler.List)
	payments.Get("/:id", paymentHandler.GetByID)

	// Cheques
	cheques := protected.Group("/cheques")
	chequeHandler := NewChequeHandler(deps.ChequeUC, log)
	cheques.Get("/", chequeHandler.List)
	cheques.Get("/:id", chequeHandler.GetByID)
	cheques.Patch("/:id/status", chequeHandler.UpdateStatus)

	// Current accounts (balances antes de /:customerId)
	accounts := protected.Group("/current-accounts")
	accountHandler := NewCurrentAccountHandler(deps.CurrentAccountUC, log)
	accounts.Get("/balances", accountHandler.Balances)
	accounts.Get("/:customerId", accountHandler.Statement)
	accounts.Get("/:customerId/export", accountHandler.Export)
	accounts.Post("/:customerId/adjustments", adminOnly, accountHandler.Adjust)

	// Reports
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, log)
	reportsGroup.Get("/sales/summary", reportHandler.SalesSummary)
	reportsGroup.Get("/sales/export", reportHandler.ExportSales)
}
