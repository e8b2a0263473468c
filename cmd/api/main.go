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
	"github.com/tu-usuario/fiscal-pro/internal/application/auth"
	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/application/declaration"
	"github.com/tu-usuario/fiscal-pro/internal/application/taxsettings"
	"github.com/tu-usuario/fiscal-pro/internal/domain/taxrules"
	infrapdf "github.com/tu-usuario/fiscal-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/fiscal-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/fiscal-pro/internal/interfaces/http"
	"github.com/tu-usuario/fiscal-pro/pkg/config"
	"github.com/tu-usuario/fiscal-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("country", cfg.Fiscal.CountryCode).
		Msg("iniciando motor de declaraciones")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	declRepo := postgres.NewDeclarationRepository(pool)
	salesRepo := postgres.NewSalesBookRepository(pool)
	purchaseRepo := postgres.NewPurchaseBookRepository(pool)
	billingRepo := postgres.NewBillingDocumentRepository(pool)
	taxSettingRepo := postgres.NewTaxSettingRepository(pool)

	// Reglas tributarias por país. El motor solo conoce el registro;
	// agregar un país es registrar otro proveedor aquí.
	registry := taxrules.NewRegistry(taxrules.NewVenezuela())
	if _, err := registry.Resolve(cfg.Fiscal.CountryCode); err != nil {
		log.Fatal().Str("country", cfg.Fiscal.CountryCode).Msg("país sin proveedor de reglas tributarias")
	}

	salesSummarizer := books.NewSalesSummarizer(salesRepo)
	purchaseSummarizer := books.NewPurchaseSummarizer(purchaseRepo)
	reconciler := books.NewReconciler(billingRepo, salesRepo)
	txtExporter := books.NewTXTExporter(salesRepo)

	declarationUC := declaration.NewUseCase(
		declRepo, salesSummarizer, purchaseSummarizer, reconciler,
		cfg.Fiscal.DeclarationPrefix,
	)

	// PDF: resumen gráfico de la declaración
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	declarationPDFUC := declaration.NewPDFUseCase(declRepo, pdfGenerator)

	taxSettingsUC := taxsettings.NewUseCase(taxSettingRepo, registry)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fiscal Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		DeclarationUC: declarationUC,
		PDFUC:         declarationPDFUC,
		Sales:         salesSummarizer,
		Purchases:     purchaseSummarizer,
		Reconciler:    reconciler,
		TXTExporter:   txtExporter,
		TaxSettingsUC: taxSettingsUC,
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
