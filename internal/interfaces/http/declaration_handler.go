package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/fiscal-pro/internal/application/declaration"
	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

// DeclarationHandler maneja las peticiones HTTP de declaraciones de IVA (protegido).
type DeclarationHandler struct {
	uc    *declaration.UseCase
	pdfUC *declaration.PDFUseCase
}

// NewDeclarationHandler construye el handler.
func NewDeclarationHandler(uc *declaration.UseCase, pdfUC *declaration.PDFUseCase) *DeclarationHandler {
	return &DeclarationHandler{uc: uc, pdfUC: pdfUC}
}

// Calculate calcula (o recalcula) la declaración del período.
// POST /api/declarations/calculate
func (h *DeclarationHandler) Calculate(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CalculateDeclarationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Calculate(c.Context(), tenantID, in, userID)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// List lista declaraciones del tenant con filtros opcionales.
// GET /api/declarations?year=&status=&page=&limit=
func (h *DeclarationHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	f := repository.DeclarationFilter{
		Year:   c.QueryInt("year", 0),
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
	}
	out, err := h.uc.List(c.Context(), tenantID, f)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una declaración por id.
// GET /api/declarations/:id
func (h *DeclarationHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.Get(c.Context(), tenantID, id)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// GetByPeriod obtiene la declaración de un período mes/año.
// GET /api/declarations/period/:year/:month
func (h *DeclarationHandler) GetByPeriod(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	month, year, err := periodParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.GetByPeriod(c.Context(), tenantID, month, year)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// Update ajusta montos manuales de una declaración mutable.
// PUT /api/declarations/:id
func (h *DeclarationHandler) Update(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateDeclarationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), tenantID, c.Params("id"), in, userID)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// File presenta la declaración ante la administración tributaria.
// POST /api/declarations/:id/file
func (h *DeclarationHandler) File(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.FileDeclarationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.File(c.Context(), tenantID, c.Params("id"), in, userID)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment registra el pago de una declaración presentada.
// POST /api/declarations/:id/payment
func (h *DeclarationHandler) RecordPayment(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.RecordPayment(c.Context(), tenantID, c.Params("id"), in, userID)
	if err != nil {
		return declarationError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una declaración no pagada.
// DELETE /api/declarations/:id
func (h *DeclarationHandler) Delete(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), tenantID, c.Params("id")); err != nil {
		return declarationError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadDocument descarga el XML generado al presentar la declaración.
// GET /api/declarations/:id/document
func (h *DeclarationHandler) DownloadDocument(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	xmlDoc, filename, err := h.uc.DownloadDocument(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return declarationError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.SendString(xmlDoc)
}

// PreviewDocument genera el XML al vuelo sin presentar la declaración.
// GET /api/declarations/:id/document/preview
func (h *DeclarationHandler) PreviewDocument(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	xmlDoc, err := h.uc.PreviewDocument(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return declarationError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(xmlDoc)
}

// DownloadPDF descarga el resumen de la declaración en PDF.
// GET /api/declarations/:id/pdf
func (h *DeclarationHandler) DownloadPDF(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdfBytes, filename, err := h.pdfUC.DownloadDeclarationPDF(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return declarationError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(pdfBytes)
}

// periodParams parsea /:year/:month validando solo formato; el rango lo valida
// el caso de uso.
func periodParams(c *fiber.Ctx) (month, year int, err error) {
	year, err = strconv.Atoi(c.Params("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("year inválido")
	}
	month, err = strconv.Atoi(c.Params("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("month inválido")
	}
	return month, year, nil
}

// declarationError traduce errores de dominio a códigos HTTP.
func declarationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "declaración no encontrada"})
	case errors.Is(err, domain.ErrDocumentNotGenerated):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "DOCUMENT_NOT_GENERATED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDeclarationPaid):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DECLARATION_PAID", Message: err.Error()})
	case errors.Is(err, domain.ErrDeclarationFiled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DECLARATION_FILED", Message: err.Error()})
	case errors.Is(err, domain.ErrDeclarationNotFiled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DECLARATION_NOT_FILED", Message: err.Error()})
	case errors.Is(err, domain.ErrValidationPending):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION_PENDING", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientPayment):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_PAYMENT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
