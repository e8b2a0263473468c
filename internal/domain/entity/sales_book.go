package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una entrada de libro fiscal.
const (
	BookEntryStatusConfirmed = "confirmed"
	BookEntryStatusExported  = "exported"
	BookEntryStatusAnnulled  = "annulled"
)

// Tipos de transacción del libro de ventas.
const (
	TransactionTypeSale       = "sale"
	TransactionTypeCreditNote = "credit_note"
	TransactionTypeDebitNote  = "debit_note"
	TransactionTypeExport     = "export"
)

// SalesBookEntry entrada del libro de ventas (IVA débito fiscal).
type SalesBookEntry struct {
	ID       string
	TenantID string
	Month    int
	Year     int

	OperationDate time.Time

	CustomerID      string
	CustomerName    string
	CustomerRIF     string
	CustomerAddress string

	InvoiceNumber        string // Único por tenant
	InvoiceControlNumber string // Número de control SENIAT
	InvoiceDate          time.Time
	TransactionType      string

	BaseAmount             decimal.Decimal
	TaxRate                decimal.Decimal // Alícuota en puntos porcentuales (16, 8, 0)
	TaxAmount              decimal.Decimal
	WithheldTaxAmount      decimal.Decimal // IVA retenido por el cliente
	WithholdingCertificate string
	TotalAmount            decimal.Decimal // Neto de retención: base + IVA - retenido

	IsElectronic   bool
	ElectronicCode string // Código de autorización de factura electrónica

	// Referencia al documento de facturación origen; clave de idempotencia
	// para la reconciliación (una entrada por documento).
	BillingDocumentID string

	Status          string
	AnnulmentReason string
	AnnulmentDate   *time.Time

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}
