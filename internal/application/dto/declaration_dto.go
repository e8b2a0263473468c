package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// CalculateDeclarationRequest body para POST /api/declarations/calculate.
// Recalcular un período existente es válido mientras la declaración no esté
// pagada; los ajustes manuales previos se conservan.
type CalculateDeclarationRequest struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year" validate:"min=2000"`
	// Excedente de crédito fiscal del período anterior. Opcional: ausente en
	// una recalculación se conserva el valor ya almacenado.
	PreviousCreditBalance *decimal.Decimal `json:"previous_credit_balance,omitempty"`
}

// UpdateDeclarationRequest campos editables de una declaración en borrador o
// calculada. Los punteros distinguen "no enviado" de "poner en cero".
type UpdateDeclarationRequest struct {
	PreviousCreditBalance *decimal.Decimal `json:"previous_credit_balance,omitempty"`
	Adjustments           *decimal.Decimal `json:"adjustments,omitempty"`
	AdjustmentsReason     *string          `json:"adjustments_reason,omitempty"`
	Penalties             *decimal.Decimal `json:"penalties,omitempty"`
	Interests             *decimal.Decimal `json:"interests,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
}

// FileDeclarationRequest body para POST /api/declarations/:id/file.
type FileDeclarationRequest struct {
	FilingDate           *time.Time `json:"filing_date,omitempty"`
	GenerateDocument     *bool      `json:"generate_document,omitempty"`      // default true
	ValidateBeforeFiling *bool      `json:"validate_before_filing,omitempty"` // default true
}

// RecordPaymentRequest body para POST /api/declarations/:id/payment.
type RecordPaymentRequest struct {
	PaymentDate      time.Time       `json:"payment_date"`
	PaymentReference string          `json:"payment_reference"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Notes            string          `json:"notes,omitempty"`
}

// DeclarationResponse declaración completa para respuestas.
type DeclarationResponse struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	Month             int    `json:"month"`
	Year              int    `json:"year"`
	DeclarationNumber string `json:"declaration_number"`
	Status            string `json:"status"`

	SalesBaseAmount        decimal.Decimal `json:"sales_base_amount"`
	SalesTaxAmount         decimal.Decimal `json:"sales_tax_amount"`
	PurchasesBaseAmount    decimal.Decimal `json:"purchases_base_amount"`
	PurchasesTaxAmount     decimal.Decimal `json:"purchases_tax_amount"`
	TaxWithheldOnSales     decimal.Decimal `json:"tax_withheld_on_sales"`
	TaxWithheldOnPurchases decimal.Decimal `json:"tax_withheld_on_purchases"`

	PreviousCreditBalance decimal.Decimal `json:"previous_credit_balance"`
	Adjustments           decimal.Decimal `json:"adjustments"`
	AdjustmentsReason     string          `json:"adjustments_reason,omitempty"`
	Penalties             decimal.Decimal `json:"penalties"`
	Interests             decimal.Decimal `json:"interests"`

	TotalDebitFiscal   decimal.Decimal `json:"total_debit_fiscal"`
	TotalCreditFiscal  decimal.Decimal `json:"total_credit_fiscal"`
	TotalCreditToApply decimal.Decimal `json:"total_credit_to_apply"`
	AmountToPay        decimal.Decimal `json:"amount_to_pay"`
	CreditBalance      decimal.Decimal `json:"credit_balance"`
	TotalToPay         decimal.Decimal `json:"total_to_pay"`

	Validated        bool                       `json:"validated"`
	RateBreakdown    []entity.RateBreakdownLine `json:"rate_breakdown"`
	ValidationErrors []string                   `json:"validation_errors,omitempty"`

	TotalSalesTransactions     int `json:"total_sales_transactions"`
	TotalPurchasesTransactions int `json:"total_purchases_transactions"`
	ElectronicInvoices         int `json:"electronic_invoices"`
	PhysicalInvoices           int `json:"physical_invoices"`

	FilingDate       *time.Time      `json:"filing_date,omitempty"`
	FiledBy          string          `json:"filed_by,omitempty"`
	ExportedToSENIAT bool            `json:"exported_to_seniat"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	Notes            string          `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeclarationListResponse respuesta paginada de GET /api/declarations.
type DeclarationListResponse struct {
	Data []DeclarationResponse `json:"data"`
	Meta PageResponse          `json:"meta"`
}

// ToDeclarationResponse convierte la entidad a su representación HTTP.
func ToDeclarationResponse(d *entity.TaxDeclaration) DeclarationResponse {
	return DeclarationResponse{
		ID:                d.ID,
		TenantID:          d.TenantID,
		Month:             d.Month,
		Year:              d.Year,
		DeclarationNumber: d.DeclarationNumber,
		Status:            d.Status,

		SalesBaseAmount:        d.SalesBaseAmount,
		SalesTaxAmount:         d.SalesTaxAmount,
		PurchasesBaseAmount:    d.PurchasesBaseAmount,
		PurchasesTaxAmount:     d.PurchasesTaxAmount,
		TaxWithheldOnSales:     d.TaxWithheldOnSales,
		TaxWithheldOnPurchases: d.TaxWithheldOnPurchases,

		PreviousCreditBalance: d.PreviousCreditBalance,
		Adjustments:           d.Adjustments,
		AdjustmentsReason:     d.AdjustmentsReason,
		Penalties:             d.Penalties,
		Interests:             d.Interests,

		TotalDebitFiscal:   d.TotalDebitFiscal,
		TotalCreditFiscal:  d.TotalCreditFiscal,
		TotalCreditToApply: d.TotalCreditToApply,
		AmountToPay:        d.AmountToPay,
		CreditBalance:      d.CreditBalance,
		TotalToPay:         d.TotalToPay,

		Validated:        d.Validated,
		RateBreakdown:    d.RateBreakdown,
		ValidationErrors: d.ValidationErrors,

		TotalSalesTransactions:     d.TotalSalesTransactions,
		TotalPurchasesTransactions: d.TotalPurchasesTransactions,
		ElectronicInvoices:         d.ElectronicInvoices,
		PhysicalInvoices:           d.PhysicalInvoices,

		FilingDate:       d.FilingDate,
		FiledBy:          d.FiledBy,
		ExportedToSENIAT: d.ExportedToSENIAT,
		PaymentDate:      d.PaymentDate,
		PaymentReference: d.PaymentReference,
		AmountPaid:       d.AmountPaid,
		Notes:            d.Notes,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
