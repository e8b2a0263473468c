package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una declaración.
// "draft" existe solo conceptualmente: la primera calculación exitosa crea el
// registro ya en "calculated". "paid" es terminal e inmutable.
const (
	DeclarationStatusDraft      = "draft"
	DeclarationStatusCalculated = "calculated"
	DeclarationStatusFiled      = "filed"
	DeclarationStatusPaid       = "paid"
)

// RateBreakdownLine subtotales por alícuota, unión de ambos libros.
type RateBreakdownLine struct {
	Rate          decimal.Decimal `json:"rate"`
	SalesBase     decimal.Decimal `json:"salesBase"`
	SalesTax      decimal.Decimal `json:"salesTax"`
	PurchasesBase decimal.Decimal `json:"purchasesBase"`
	PurchasesTax  decimal.Decimal `json:"purchasesTax"`
}

// TaxDeclaration declaración periódica de IVA: una por (tenant, mes, año).
type TaxDeclaration struct {
	ID                string
	TenantID          string
	Month             int // 1-12
	Year              int
	DeclarationNumber string // DEC-IVA-{MM}{YYYY}-{secuencial:6}, único por tenant

	// Entradas de la calculación (editables mientras no esté presentada).
	SalesBaseAmount        decimal.Decimal
	SalesTaxAmount         decimal.Decimal
	PurchasesBaseAmount    decimal.Decimal
	PurchasesTaxAmount     decimal.Decimal
	TaxWithheldOnSales     decimal.Decimal // IVA retenido por clientes (comprobantes recibidos)
	TaxWithheldOnPurchases decimal.Decimal // IVA retenido a proveedores
	PreviousCreditBalance  decimal.Decimal // Excedente de crédito del período anterior
	Adjustments            decimal.Decimal // Ajuste manual con signo; sobrevive recalculaciones
	AdjustmentsReason      string
	Penalties              decimal.Decimal
	Interests              decimal.Decimal

	// Totales derivados: nunca los fija el caller, siempre RecomputeTotals.
	TotalDebitFiscal   decimal.Decimal
	TotalCreditFiscal  decimal.Decimal
	TotalCreditToApply decimal.Decimal
	AmountToPay        decimal.Decimal // IVA a pagar del período
	CreditBalance      decimal.Decimal // Excedente que se traslada al período siguiente
	TotalToPay         decimal.Decimal // AmountToPay + Penalties + Interests

	// Diagnóstico, recalculado en cada calculación (nunca persiste obsoleto).
	Validated        bool
	ValidationErrors []string

	RateBreakdown []RateBreakdownLine

	// Estadísticas de transacciones (no participan en el cálculo).
	TotalSalesTransactions     int
	TotalPurchasesTransactions int
	ElectronicInvoices         int
	PhysicalInvoices           int

	// Ciclo de vida.
	Status           string
	FilingDate       *time.Time
	FiledBy          string
	ExportedToSENIAT bool
	DocumentXML      string // Artefacto de presentación; vacío hasta presentar
	PaymentDate      *time.Time
	PaymentReference string
	AmountPaid       decimal.Decimal
	Notes            string

	// Auditoría y control de concurrencia.
	CreatedBy string
	UpdatedBy string
	Version   int // Incrementado en cada escritura; el repositorio lo usa como update condicional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeTotals recalcula todos los campos derivados a partir de las entradas.
// Débito fiscal = IVA de ventas; crédito fiscal = IVA de compras;
// crédito a aplicar = crédito fiscal + retenciones recibidas + excedente anterior;
// neto = débito - crédito a aplicar + ajustes. Exactamente uno de
// AmountToPay/CreditBalance es distinto de cero (salvo ambos cero).
func (d *TaxDeclaration) RecomputeTotals() {
	d.TotalDebitFiscal = d.SalesTaxAmount
	d.TotalCreditFiscal = d.PurchasesTaxAmount

	d.TotalCreditToApply = d.TotalCreditFiscal.
		Add(d.TaxWithheldOnSales).
		Add(d.PreviousCreditBalance)

	net := d.TotalDebitFiscal.Sub(d.TotalCreditToApply).Add(d.Adjustments)

	if net.IsPositive() {
		d.AmountToPay = net
		d.CreditBalance = decimal.Zero
	} else {
		d.AmountToPay = decimal.Zero
		d.CreditBalance = net.Abs()
	}

	d.TotalToPay = d.AmountToPay.Add(d.Penalties).Add(d.Interests)
}

// IsMutable indica si la declaración admite ediciones manuales de campos.
func (d *TaxDeclaration) IsMutable() bool {
	return d.Status != DeclarationStatusFiled && d.Status != DeclarationStatusPaid
}

// ClearFilingArtifacts limpia solo los campos propios de la presentación.
// Se usa al recalcular una declaración presentada pero no pagada: vuelve a
// "calculated" sin tocar campos de pago (que solo existen después de presentar).
func (d *TaxDeclaration) ClearFilingArtifacts() {
	d.FilingDate = nil
	d.FiledBy = ""
	d.ExportedToSENIAT = false
	d.DocumentXML = ""
}
