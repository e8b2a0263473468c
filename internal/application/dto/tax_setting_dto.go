package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTaxSettingRequest entrada para crear una configuración de impuesto.
type CreateTaxSettingRequest struct {
	TaxType      string          `json:"tax_type" validate:"required,oneof=IVA IGTF ISLR"`
	Name         string          `json:"name" validate:"required,max=200"`
	Code         string          `json:"code" validate:"required,max=50"`
	Rate         decimal.Decimal `json:"rate"`
	Description  string          `json:"description"`
	AccountCode  string          `json:"account_code"`
	AccountName  string          `json:"account_name"`
	ApplicableTo string          `json:"applicable_to"` // all | products | services

	IsDefault              bool            `json:"is_default"`
	IsWithholding          bool            `json:"is_withholding"`
	WithholdingRate        decimal.Decimal `json:"withholding_rate"`
	WithholdingAccountCode string          `json:"withholding_account_code"`

	EffectiveDate *time.Time `json:"effective_date"`
}

// TaxSettingResponse salida de una configuración de impuesto.
type TaxSettingResponse struct {
	ID           string          `json:"id"`
	TenantID     string          `json:"tenant_id"`
	TaxType      string          `json:"tax_type"`
	Name         string          `json:"name"`
	Code         string          `json:"code"`
	Rate         decimal.Decimal `json:"rate"`
	Description  string          `json:"description,omitempty"`
	AccountCode  string          `json:"account_code,omitempty"`
	AccountName  string          `json:"account_name,omitempty"`
	ApplicableTo string          `json:"applicable_to"`

	IsDefault              bool            `json:"is_default"`
	IsWithholding          bool            `json:"is_withholding"`
	WithholdingRate        decimal.Decimal `json:"withholding_rate"`
	WithholdingAccountCode string          `json:"withholding_account_code,omitempty"`

	Status        string    `json:"status"`
	EffectiveDate time.Time `json:"effective_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CountryRulesResponse reglas tributarias vigentes de un país según su proveedor.
type CountryRulesResponse struct {
	CountryCode  string               `json:"country_code"`
	Taxes        []CountryTaxLine     `json:"taxes"`
	Withholdings []CountryWithholding `json:"withholdings"`
	ExemptTypes  []string             `json:"exempt_document_types"`
}

// CountryTaxLine impuesto definido por el proveedor del país.
type CountryTaxLine struct {
	Type           string          `json:"type"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Rate           decimal.Decimal `json:"rate"`
	AppliesTo      string          `json:"applies_to"`
	PerTransaction bool            `json:"per_transaction"`
	IsDefault      bool            `json:"is_default"`
}

// CountryWithholding regla de retención definida por el proveedor del país.
type CountryWithholding struct {
	Type      string          `json:"type"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	OverTax   bool            `json:"over_tax"`
	AppliesTo string          `json:"applies_to"`
	Condition string          `json:"condition,omitempty"`
}
