package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxSetting configuración de impuesto por tenant (catálogo editable).
// Complementa al proveedor de reglas por país: el proveedor define las reglas
// legales; el catálogo permite al tenant activar/desactivar y parametrizar.
type TaxSetting struct {
	ID       string
	TenantID string

	TaxType     string // IVA | IGTF | ISLR
	Name        string
	Code        string // Único por tenant (ej. IVA-16, RET-IVA-75)
	Rate        decimal.Decimal
	Description string

	AccountCode string
	AccountName string

	ApplicableTo string // all | products | services

	IsDefault     bool
	IsWithholding bool
	WithholdingRate        decimal.Decimal // Porcentaje del impuesto que se retiene (75, 100)
	WithholdingAccountCode string

	Status        string // active | archived
	EffectiveDate time.Time

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
