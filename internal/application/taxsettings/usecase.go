// Package taxsettings administra el catálogo de impuestos por tenant y expone
// las reglas tributarias del proveedor por país.
package taxsettings

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/taxrules"
)

// UseCase casos de uso del catálogo de impuestos.
type UseCase struct {
	repo     repository.TaxSettingRepository
	registry *taxrules.Registry
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.TaxSettingRepository, registry *taxrules.Registry) *UseCase {
	return &UseCase{repo: repo, registry: registry}
}

// Create crea una configuración de impuesto del tenant.
// Devuelve ErrDuplicate si el código ya existe en el tenant.
func (uc *UseCase) Create(ctx context.Context, tenantID, actor string, in dto.CreateTaxSettingRequest) (*dto.TaxSettingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.TaxType == "" || in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Rate.IsNegative() || in.WithholdingRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.FindByCode(tenantID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	effective := now
	if in.EffectiveDate != nil {
		effective = *in.EffectiveDate
	}
	applicableTo := in.ApplicableTo
	if applicableTo == "" {
		applicableTo = "all"
	}
	s := &entity.TaxSetting{
		ID:                     uuid.New().String(),
		TenantID:               tenantID,
		TaxType:                strings.ToUpper(in.TaxType),
		Name:                   in.Name,
		Code:                   in.Code,
		Rate:                   in.Rate,
		Description:            in.Description,
		AccountCode:            in.AccountCode,
		AccountName:            in.AccountName,
		ApplicableTo:           applicableTo,
		IsDefault:              in.IsDefault,
		IsWithholding:          in.IsWithholding,
		WithholdingRate:        in.WithholdingRate,
		WithholdingAccountCode: in.WithholdingAccountCode,
		Status:                 "active",
		EffectiveDate:          effective,
		CreatedBy:              actor,
		UpdatedBy:              actor,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := uc.repo.Create(s); err != nil {
		return nil, err
	}
	return toResponse(s), nil
}

// List lista las configuraciones activas del tenant; taxType vacío = todas.
func (uc *UseCase) List(ctx context.Context, tenantID, taxType string) ([]*dto.TaxSettingResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	settings, err := uc.repo.ListActive(tenantID, strings.ToUpper(taxType))
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TaxSettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, toResponse(s))
	}
	return out, nil
}

// CountryRules devuelve las reglas tributarias del proveedor del país.
// Devuelve ErrNotFound si no hay proveedor registrado para el código.
func (uc *UseCase) CountryRules(countryCode string) (*dto.CountryRulesResponse, error) {
	provider, err := uc.registry.Resolve(countryCode)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.CountryRulesResponse{
		CountryCode: provider.CountryCode(),
		ExemptTypes: provider.ExemptDocumentTypes(),
	}
	for _, t := range provider.DefaultTaxes() {
		out.Taxes = append(out.Taxes, dto.CountryTaxLine{
			Type:           t.Type,
			Code:           t.Code,
			Name:           t.Name,
			Rate:           t.Rate,
			AppliesTo:      t.AppliesTo,
			PerTransaction: t.PerTransaction,
			IsDefault:      t.IsDefault,
		})
	}
	for _, w := range provider.WithholdingRules() {
		out.Withholdings = append(out.Withholdings, dto.CountryWithholding{
			Type:      w.Type,
			Code:      w.Code,
			Name:      w.Name,
			Rate:      w.Rate,
			OverTax:   w.OverTax,
			AppliesTo: w.AppliesTo,
			Condition: w.Condition,
		})
	}
	return out, nil
}

func toResponse(s *entity.TaxSetting) *dto.TaxSettingResponse {
	return &dto.TaxSettingResponse{
		ID:                     s.ID,
		TenantID:               s.TenantID,
		TaxType:                s.TaxType,
		Name:                   s.Name,
		Code:                   s.Code,
		Rate:                   s.Rate,
		Description:            s.Description,
		AccountCode:            s.AccountCode,
		AccountName:            s.AccountName,
		ApplicableTo:           s.ApplicableTo,
		IsDefault:              s.IsDefault,
		IsWithholding:          s.IsWithholding,
		WithholdingRate:        s.WithholdingRate,
		WithholdingAccountCode: s.WithholdingAccountCode,
		Status:                 s.Status,
		EffectiveDate:          s.EffectiveDate,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
