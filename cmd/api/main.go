package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/myinvois-erp/internal/application/auth"
	"github.com/jhoicas/myinvois-erp/internal/application/billing"
	"github.com/jhoicas/myinvois-erp/internal/application/currency"
	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/application/inventory"
	"github.com/jhoicas/myinvois-erp/internal/application/usecase"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/archive"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/export"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/myinvois"
	infrapdf "github.com/jhoicas/myinvois-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/myinvois-erp/internal/interfaces/http"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/config"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("myinvois_env", cfg.MyInvois.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate").Zerolog()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	einvoiceRepo := postgres.NewEInvoiceRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Catálogo de monedas: archivo YAML opcional, si no el incorporado.
	catalogue := money.DefaultCatalogue()
	if path := cfg.Currency.CataloguePath; path != "" {
		catalogue, err = money.LoadCatalogueFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("catálogo de monedas")
		}
	}

	clk := clock.Real()

	// MyInvois: simulador en dev, API REST en sandbox/production.
	portalURL := cfg.MyInvois.PortalURL
	if portalURL == "" {
		portalURL = lhdn.PortalURL(cfg.MyInvois.Env)
	}
	var submitter appeinvoice.Submitter
	if cfg.MyInvois.IsDev() {
		submitter = myinvois.NewDevSubmitter(clk, log)
		log.Warn().Msg("MYINVOIS_ENV=dev: los documentos no se envían a LHDN")
	} else {
		apiURL := cfg.MyInvois.APIBaseURL
		if apiURL == "" {
			apiURL = lhdn.APIBaseURL(cfg.MyInvois.Env)
		}
		identityURL := cfg.MyInvois.IdentityURL
		if identityURL == "" {
			identityURL = lhdn.IdentityURL(cfg.MyInvois.Env)
		}
		submitter = myinvois.NewClient(myinvois.Config{
			APIBaseURL:   apiURL,
			IdentityURL:  identityURL,
			ClientID:     cfg.MyInvois.ClientID,
			ClientSecret: cfg.MyInvois.ClientSecret,
			OnBehalfOf:   cfg.MyInvois.OnBehalfOf,
			Timeout:      cfg.MyInvois.Timeout,
		}, clk, log)
	}

	// Archivo S3/MinIO de los documentos enviados (opcional).
	var docArchive appeinvoice.Archive
	if cfg.Archive.Enabled() {
		a, err := archive.NewMinioArchive(archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			Region:    cfg.Archive.Region,
			UseSSL:    cfg.Archive.UseSSL,
			URLExpiry: cfg.Archive.URLExpiry,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("archivo de documentos")
		}
		if err := a.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Archive.Bucket).Msg("bucket de documentos")
		}
		docArchive = a
	}

	einvoiceSvc := appeinvoice.NewService(
		einvoiceRepo, invoiceRepo, companyRepo, customerRepo,
		myinvois.NewUBLBuilder(), submitter, docArchive, export.NewXLSXRegister(),
		catalogue, appeinvoice.NewDispatcher(), clk, log,
		appeinvoice.Config{PortalURL: portalURL, PipelineTimeout: cfg.EInvoice.PipelineTimeout},
	)

	customerUC := billing.NewCustomerUseCase(customerRepo)
	createInvoiceUC := billing.NewCreateInvoiceUseCase(txRunner, customerRepo, invoiceRepo, rateRepo, catalogue)

	// PDF: representación visual del e-Invoice validado
	invoicePDFUC := billing.NewPDFUseCase(
		invoiceRepo, companyRepo, customerRepo, einvoiceRepo,
		infrapdf.NewMarotoPDFGenerator(), catalogue, portalURL,
	)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	currencyUC := currency.NewUseCase(catalogue, rateRepo, clk)
	productUC := inventory.NewProductUseCase(productRepo, clk)
	forecastUC := inventory.NewForecastUseCase(productRepo, clk, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, forecastUC)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.EInvoice.PipelineTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MyInvois ERP API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     companyUC,
		Modules:       moduleSvc,
		CustomerUC:    customerUC,
		CreateInvoice: createInvoiceUC,
		InvoicePDF:    invoicePDFUC,
		EInvoices:     einvoiceSvc,
		CurrencyUC:    currencyUC,
		AuthUC:        authUC,
		UserUC:        userUC,
		Products:      productUC,
		Forecast:      forecastUC,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
