package taxsettings

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/taxrules"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeTaxRepo struct {
	settings []*entity.TaxSetting
}

func (f *fakeTaxRepo) Create(s *entity.TaxSetting) error {
	f.settings = append(f.settings, s)
	return nil
}

func (f *fakeTaxRepo) ListActive(tenantID, taxType string) ([]*entity.TaxSetting, error) {
	var out []*entity.TaxSetting
	for _, s := range f.settings {
		if s.TenantID != tenantID || s.Status != "active" {
			continue
		}
		if taxType != "" && s.TaxType != taxType {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeTaxRepo) FindByCode(tenantID, code string) (*entity.TaxSetting, error) {
	for _, s := range f.settings {
		if s.TenantID == tenantID && s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeTaxRepo) CountByTenant(tenantID string) (int, error) {
	n := 0
	for _, s := range f.settings {
		if s.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func newUC() (*UseCase, *fakeTaxRepo) {
	repo := &fakeTaxRepo{}
	return NewUseCase(repo, taxrules.NewRegistry(taxrules.NewVenezuela())), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create / List
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_ImpuestoNuevo(t *testing.T) {
	uc, repo := newUC()

	out, err := uc.Create(context.Background(), "tenant-1", "user-1", dto.CreateTaxSettingRequest{
		TaxType: "iva",
		Name:    "IVA General",
		Code:    "IVA-16",
		Rate:    decimal.NewFromInt(16),
	})
	require.NoError(t, err)

	assert.Equal(t, "IVA", out.TaxType, "el tipo debe normalizarse a mayúsculas")
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, "all", out.ApplicableTo, "applicable_to por defecto es all")
	assert.Len(t, repo.settings, 1)
	assert.NotEmpty(t, repo.settings[0].ID)
}

func TestCreate_CodigoDuplicado(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, "tenant-1", "user-1", dto.CreateTaxSettingRequest{
		TaxType: "IVA", Name: "IVA General", Code: "IVA-16", Rate: decimal.NewFromInt(16),
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "tenant-1", "user-1", dto.CreateTaxSettingRequest{
		TaxType: "IVA", Name: "Otro", Code: "IVA-16", Rate: decimal.NewFromInt(8),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Mismo código en otro tenant sí se permite.
	_, err = uc.Create(ctx, "tenant-2", "user-9", dto.CreateTaxSettingRequest{
		TaxType: "IVA", Name: "IVA General", Code: "IVA-16", Rate: decimal.NewFromInt(16),
	})
	assert.NoError(t, err)
}

func TestCreate_EntradaInvalida(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, "tenant-1", "user-1", dto.CreateTaxSettingRequest{
		TaxType: "", Name: "Sin tipo", Code: "X",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "tenant-1", "user-1", dto.CreateTaxSettingRequest{
		TaxType: "IVA", Name: "Negativo", Code: "NEG", Rate: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_FiltraPorTipo(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()

	for _, in := range []dto.CreateTaxSettingRequest{
		{TaxType: "IVA", Name: "IVA General", Code: "IVA-16", Rate: decimal.NewFromInt(16)},
		{TaxType: "IVA", Name: "IVA Reducido", Code: "IVA-8", Rate: decimal.NewFromInt(8)},
		{TaxType: "IGTF", Name: "IGTF", Code: "IGTF-3", Rate: decimal.NewFromInt(3)},
	} {
		_, err := uc.Create(ctx, "tenant-1", "user-1", in)
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, "tenant-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	iva, err := uc.List(ctx, "tenant-1", "iva")
	require.NoError(t, err)
	assert.Len(t, iva, 2, "el filtro por tipo debe ser case-insensitive")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CountryRules
// ──────────────────────────────────────────────────────────────────────────────

func TestCountryRules_Venezuela(t *testing.T) {
	uc, _ := newUC()

	out, err := uc.CountryRules("VE")
	require.NoError(t, err)

	assert.Equal(t, "VE", out.CountryCode)
	require.NotEmpty(t, out.Taxes)

	codes := make([]string, 0, len(out.Taxes))
	for _, tax := range out.Taxes {
		codes = append(codes, tax.Code)
	}
	assert.Contains(t, codes, "IVA-16")
	assert.NotEmpty(t, out.Withholdings, "VE define retenciones de IVA e ISLR")
}

func TestCountryRules_PaisSinProveedor(t *testing.T) {
	uc, _ := newUC()

	_, err := uc.CountryRules("CO")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
