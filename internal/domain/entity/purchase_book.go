package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseBookEntry entrada del libro de compras (IVA crédito fiscal).
type PurchaseBookEntry struct {
	ID       string
	TenantID string
	Month    int
	Year     int

	OperationDate time.Time

	SupplierID      string
	SupplierName    string
	SupplierRIF     string
	SupplierAddress string

	InvoiceNumber        string
	InvoiceControlNumber string
	InvoiceDate          time.Time
	DocumentType         string // invoice | credit_note | debit_note | import

	BaseAmount             decimal.Decimal
	TaxRate                decimal.Decimal
	TaxAmount              decimal.Decimal
	WithheldTaxAmount      decimal.Decimal // IVA retenido al proveedor por la entidad
	WithholdingCertificate string
	TotalAmount            decimal.Decimal // Neto de retención: base + IVA - retenido

	Status string

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
