package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myinvois-erp/internal/application/auth"
	"github.com/jhoicas/myinvois-erp/internal/application/billing"
	"github.com/jhoicas/myinvois-erp/internal/application/currency"
	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/application/inventory"
	"github.com/jhoicas/myinvois-erp/internal/application/usecase"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	Modules       *usecase.ModuleService
	CustomerUC    *billing.CustomerUseCase
	CreateInvoice *billing.CreateInvoiceUseCase
	InvoicePDF    *billing.PDFUseCase // nil = descarga de PDF deshabilitada
	EInvoices     *appeinvoice.Service
	CurrencyUC    *currency.UseCase
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	Products      *inventory.ProductUseCase
	Forecast      *inventory.ForecastUseCase
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta y consulta públicas (onboarding del contribuyente)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Modules)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empresa del token (solo admin)
	me := protected.Group("/me", RequireRole(entity.RoleAdmin))
	me.Patch("/company", companyHandler.Update)
	me.Get("/modules", companyHandler.ListModules)
	me.Post("/modules", companyHandler.ActivateModule)

	userHandler := NewUserHandler(deps.UserUC)
	me.Get("/users", userHandler.List)
	me.Get("/users/:id", userHandler.Get)

	billingModule := RequireModule(entity.ModuleBilling, deps.Modules)
	einvoiceModule := RequireModule(entity.ModuleEInvoice, deps.Modules)
	inventoryModule := RequireModule(entity.ModuleInventory, deps.Modules)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleAccountant, entity.RoleSales)
	finance := RequireRole(entity.RoleAdmin, entity.RoleAccountant)

	protected.Get("/users/me", anyRole, userHandler.Me)

	// Customers (facturación)
	customers := protected.Group("/customers", billingModule, anyRole)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.Get)

	// Invoices (facturación)
	invoices := protected.Group("/invoices", billingModule, anyRole)
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", einvoiceModule, invoiceHandler.DownloadPDF)

	// e-Invoice: consultar cualquier rol; ejecutar acciones solo admin/accountant
	einvoiceHandler := NewEInvoiceHandler(deps.EInvoices)
	invoices.Get("/:id/einvoice", einvoiceModule, einvoiceHandler.ViewByInvoice)
	invoices.Get("/:id/validation-url", einvoiceModule, einvoiceHandler.ValidationURL)

	einvoices := protected.Group("/einvoices", einvoiceModule, anyRole)
	einvoices.Get("/", einvoiceHandler.List)
	einvoices.Get("/summary", einvoiceHandler.Summary)
	einvoices.Get("/export", finance, einvoiceHandler.Export)
	einvoices.Post("/actions", finance, einvoiceHandler.Act)
	einvoices.Get("/:id", einvoiceHandler.View)
	einvoices.Post("/:id/cancel", finance, einvoiceHandler.Cancel)

	// Inventario: pronóstico de demanda y reposición
	inv := protected.Group("/inventory", inventoryModule, anyRole)
	inventoryHandler := NewInventoryHandler(deps.Products, deps.Forecast, deps.Replenishment)
	inv.Get("/products", inventoryHandler.ListProducts)
	inv.Post("/products", finance, inventoryHandler.CreateProduct)
	inv.Get("/products/:id", inventoryHandler.GetProduct)
	inv.Put("/products/:id/stock", finance, inventoryHandler.SetStock)
	inv.Post("/products/:id/demand", inventoryHandler.RecordDemand)
	inv.Get("/products/:id/forecast", inventoryHandler.Forecast)
	inv.Get("/products/:id/stock-optimization", inventoryHandler.StockOptimization)
	inv.Get("/products/:id/seasonality", inventoryHandler.Seasonality)
	inv.Post("/forecasts/bulk", inventoryHandler.BulkForecast)
	inv.Get("/replenishment-list", finance, inventoryHandler.GetReplenishmentList)

	// Currencies
	currencies := protected.Group("/currencies", anyRole)
	currencyHandler := NewCurrencyHandler(deps.CurrencyUC)
	currencies.Get("/", currencyHandler.List)
	currencies.Get("/rates", currencyHandler.ListRates)
	currencies.Put("/rates", finance, currencyHandler.SetRate)
	currencies.Post("/convert", currencyHandler.Convert)
	currencies.Post("/format", currencyHandler.Format)
	currencies.Post("/parse", currencyHandler.Parse)
}
