package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de facturación (subsistema de billing, fuente de datos).
const (
	BillingDocTypeInvoice      = "invoice"
	BillingDocTypeCreditNote   = "credit_note"
	BillingDocTypeDebitNote    = "debit_note"
	BillingDocTypeDeliveryNote = "delivery_note"
	BillingDocTypeQuote        = "quote" // Nunca se reconcilia: no es un documento emitido legalmente
)

// Estados que marcan un documento como emitido legalmente.
// Solo estos participan en la reconciliación del libro de ventas.
var BillingDocFinalStatuses = []string{
	"issued", "paid", "partially_paid", "sent", "validated", "closed",
}

// BillingDocument documento del subsistema de facturación (solo lectura aquí).
type BillingDocument struct {
	ID       string
	TenantID string

	Type           string
	DocumentNumber string
	ControlNumber  string
	IssueDate      time.Time
	Status         string

	CustomerID      string
	CustomerName    string
	CustomerTaxID   string
	CustomerAddress string

	Subtotal               decimal.Decimal // Base imponible
	TaxRate                decimal.Decimal
	TaxAmount              decimal.Decimal
	WithheldTaxAmount      decimal.Decimal
	WithholdingCertificate string
	GrandTotal             decimal.Decimal // Bruto: subtotal + impuestos, sin descontar retención

	CurrencyCode  string // Moneda de liquidación de la línea (ej. VES, USD)
	PaymentMethod string // Instrumento de pago; determina impuestos transaccionales (IGTF)

	IsElectronic bool
}
