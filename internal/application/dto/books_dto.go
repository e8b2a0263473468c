package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSummaryLine montos agregados por alícuota dentro de un libro.
type RateSummaryLine struct {
	Rate       decimal.Decimal `json:"rate"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
}

// BookSummaryResponse resumen de un libro fiscal (ventas o compras) para un
// período. Errors trae los problemas estructurales detectados; una lista no
// vacía bloquea la presentación de la declaración del período.
type BookSummaryResponse struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	TotalBaseAmount  decimal.Decimal `json:"total_base_amount"`
	TotalTaxAmount   decimal.Decimal `json:"total_tax_amount"`
	TotalWithheldTax decimal.Decimal `json:"total_withheld_tax"`

	ByRate []RateSummaryLine `json:"by_rate"`

	TotalEntries       int `json:"total_entries"`
	ElectronicInvoices int `json:"electronic_invoices"`
	PhysicalInvoices   int `json:"physical_invoices"`

	Errors []string `json:"errors,omitempty"`
}

// SalesBookEntryResponse entrada del libro de ventas.
type SalesBookEntryResponse struct {
	ID                   string          `json:"id"`
	OperationDate        time.Time       `json:"operation_date"`
	CustomerName         string          `json:"customer_name"`
	CustomerRIF          string          `json:"customer_rif"`
	InvoiceNumber        string          `json:"invoice_number"`
	InvoiceControlNumber string          `json:"invoice_control_number,omitempty"`
	TransactionType      string          `json:"transaction_type"`
	BaseAmount           decimal.Decimal `json:"base_amount"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	WithheldTaxAmount    decimal.Decimal `json:"withheld_tax_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	IsElectronic         bool            `json:"is_electronic"`
	Status               string          `json:"status"`
	BillingDocumentID    string          `json:"billing_document_id,omitempty"`
}

// PurchaseBookEntryResponse entrada del libro de compras.
type PurchaseBookEntryResponse struct {
	ID                   string          `json:"id"`
	OperationDate        time.Time       `json:"operation_date"`
	SupplierName         string          `json:"supplier_name"`
	SupplierRIF          string          `json:"supplier_rif"`
	InvoiceNumber        string          `json:"invoice_number"`
	InvoiceControlNumber string          `json:"invoice_control_number,omitempty"`
	DocumentType         string          `json:"document_type"`
	BaseAmount           decimal.Decimal `json:"base_amount"`
	TaxRate              decimal.Decimal `json:"tax_rate"`
	TaxAmount            decimal.Decimal `json:"tax_amount"`
	WithheldTaxAmount    decimal.Decimal `json:"withheld_tax_amount"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Status               string          `json:"status"`
}

// SalesBookEntriesResponse listado del libro de ventas de un período.
type SalesBookEntriesResponse struct {
	Month   int                      `json:"month"`
	Year    int                      `json:"year"`
	Total   int                      `json:"total"`
	Entries []SalesBookEntryResponse `json:"entries"`
}

// PurchaseBookEntriesResponse listado del libro de compras de un período.
type PurchaseBookEntriesResponse struct {
	Month   int                         `json:"month"`
	Year    int                         `json:"year"`
	Total   int                         `json:"total"`
	Entries []PurchaseBookEntryResponse `json:"entries"`
}

// ReconcileItemResult resultado por documento de una corrida de conciliación.
type ReconcileItemResult struct {
	BillingDocumentID string `json:"billing_document_id"`
	InvoiceNumber     string `json:"invoice_number"`
	Outcome           string `json:"outcome"` // created|existing|failed
	Error             string `json:"error,omitempty"`
}

// ReconcileReportResponse reporte de POST /api/books/sales/reconcile.
type ReconcileReportResponse struct {
	Month    int                   `json:"month"`
	Year     int                   `json:"year"`
	Created  int                   `json:"created"`
	Existing int                   `json:"existing"`
	Failed   int                   `json:"failed"`
	Items    []ReconcileItemResult `json:"items"`
}
