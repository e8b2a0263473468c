package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/application/taxsettings"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
)

// TaxSettingsHandler maneja el catálogo de impuestos por tenant (protegido).
type TaxSettingsHandler struct {
	uc *taxsettings.UseCase
}

// NewTaxSettingsHandler construye el handler.
func NewTaxSettingsHandler(uc *taxsettings.UseCase) *TaxSettingsHandler {
	return &TaxSettingsHandler{uc: uc}
}

// Create crea una configuración de impuesto. Requiere rol admin o contador.
// POST /api/tax-settings
func (h *TaxSettingsHandler) Create(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTaxSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), tenantID, userID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "tax_type, name y code son requeridos; las tasas no pueden ser negativas"})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CODE_EXISTS", Message: "ya existe un impuesto con ese código"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista las configuraciones activas del tenant.
// GET /api/tax-settings?tax_type=IVA
func (h *TaxSettingsHandler) List(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.List(c.Context(), tenantID, c.Query("tax_type"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// CountryRules devuelve las reglas tributarias del proveedor del país.
// GET /api/tax-settings/rules/:country
func (h *TaxSettingsHandler) CountryRules(c *fiber.Ctx) error {
	out, err := h.uc.CountryRules(c.Params("country"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay proveedor de reglas para ese país"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
