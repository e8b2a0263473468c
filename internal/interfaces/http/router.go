package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/fiscal-pro/internal/application/auth"
	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/application/declaration"
	"github.com/tu-usuario/fiscal-pro/internal/application/taxsettings"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	DeclarationUC *declaration.UseCase
	PDFUC         *declaration.PDFUseCase
	Sales         *books.SalesSummarizer
	Purchases     *books.PurchaseSummarizer
	Reconciler    *books.Reconciler
	TXTExporter   *books.TXTExporter
	TaxSettingsUC *taxsettings.UseCase
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

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Roles: consulta solo lee; contador opera el ciclo fiscal; admin todo.
	readRoles := []string{entity.RoleAdmin, entity.RoleContador, entity.RoleConsulta}
	writeRoles := []string{entity.RoleAdmin, entity.RoleContador}

	// Declaraciones (protegido)
	declarations := protected.Group("/declarations")
	declarationHandler := NewDeclarationHandler(deps.DeclarationUC, deps.PDFUC)
	declarations.Post("/calculate", RequireRole(writeRoles...), declarationHandler.Calculate)
	declarations.Get("/", RequireRole(readRoles...), declarationHandler.List)
	declarations.Get("/period/:year/:month", RequireRole(readRoles...), declarationHandler.GetByPeriod)
	declarations.Get("/:id", RequireRole(readRoles...), declarationHandler.GetByID)
	declarations.Put("/:id", RequireRole(writeRoles...), declarationHandler.Update)
	declarations.Post("/:id/file", RequireRole(writeRoles...), declarationHandler.File)
	declarations.Post("/:id/payment", RequireRole(writeRoles...), declarationHandler.RecordPayment)
	declarations.Delete("/:id", RequireRole(entity.RoleAdmin), declarationHandler.Delete)
	declarations.Get("/:id/document", RequireRole(readRoles...), declarationHandler.DownloadDocument)
	declarations.Get("/:id/document/preview", RequireRole(readRoles...), declarationHandler.PreviewDocument)
	declarations.Get("/:id/pdf", RequireRole(readRoles...), declarationHandler.DownloadPDF)

	// Libros fiscales (protegido)
	booksGroup := protected.Group("/books")
	booksHandler := NewBooksHandler(deps.Sales, deps.Purchases, deps.Reconciler, deps.TXTExporter)
	booksGroup.Get("/sales/:year/:month", RequireRole(readRoles...), booksHandler.SalesSummary)
	booksGroup.Get("/sales/:year/:month/entries", RequireRole(readRoles...), booksHandler.SalesEntries)
	booksGroup.Get("/purchases/:year/:month", RequireRole(readRoles...), booksHandler.PurchasesSummary)
	booksGroup.Get("/purchases/:year/:month/entries", RequireRole(readRoles...), booksHandler.PurchaseEntries)
	booksGroup.Post("/sales/:year/:month/reconcile", RequireRole(writeRoles...), booksHandler.Reconcile)
	booksGroup.Get("/sales/:year/:month/export", RequireRole(writeRoles...), booksHandler.ExportSalesTXT)

	// Catálogo de impuestos (protegido)
	taxGroup := protected.Group("/tax-settings")
	taxHandler := NewTaxSettingsHandler(deps.TaxSettingsUC)
	taxGroup.Get("/", RequireRole(readRoles...), taxHandler.List)
	taxGroup.Post("/", RequireRole(entity.RoleAdmin), taxHandler.Create)
	taxGroup.Get("/rules/:country", RequireRole(readRoles...), taxHandler.CountryRules)
}
