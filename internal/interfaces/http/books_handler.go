package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
)

// BooksHandler maneja los libros fiscales de ventas y compras (protegido).
type BooksHandler struct {
	sales     *books.SalesSummarizer
	purchases *books.PurchaseSummarizer
	recon     *books.Reconciler
	exporter  *books.TXTExporter
}

// NewBooksHandler construye el handler.
func NewBooksHandler(sales *books.SalesSummarizer, purchases *books.PurchaseSummarizer, recon *books.Reconciler, exporter *books.TXTExporter) *BooksHandler {
	return &BooksHandler{sales: sales, purchases: purchases, recon: recon, exporter: exporter}
}

// SalesSummary resume el libro de ventas del período.
// GET /api/books/sales/:year/:month
func (h *BooksHandler) SalesSummary(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.sales.Summarize(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// PurchasesSummary resume el libro de compras del período.
// GET /api/books/purchases/:year/:month
func (h *BooksHandler) PurchasesSummary(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.purchases.Summarize(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// SalesEntries lista las entradas del libro de ventas del período.
// GET /api/books/sales/:year/:month/entries
func (h *BooksHandler) SalesEntries(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.sales.ListEntries(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// PurchaseEntries lista las entradas del libro de compras del período.
// GET /api/books/purchases/:year/:month/entries
func (h *BooksHandler) PurchaseEntries(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.purchases.ListEntries(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// Reconcile proyecta los documentos de facturación del período al libro de ventas.
// POST /api/books/sales/:year/:month/reconcile
func (h *BooksHandler) Reconcile(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.recon.Reconcile(c.Context(), tenantID, month, year, userID)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// ExportSalesTXT exporta el libro de ventas en el formato TXT del Portal Fiscal
// (columnas tabuladas, líneas CRLF, codificación ISO-8859-1).
// GET /api/books/sales/:year/:month/export
func (h *BooksHandler) ExportSalesTXT(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	data, filename, err := h.exporter.ExportSales(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=iso-8859-1")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}
