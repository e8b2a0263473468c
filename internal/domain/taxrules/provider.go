package taxrules

import "github.com/shopspring/decimal"

// Tipos de impuesto conocidos por el motor.
const (
	TaxTypeIVA  = "IVA"  // Impuesto al valor agregado (por línea)
	TaxTypeIGTF = "IGTF" // Impuesto a las grandes transacciones financieras (por transacción)
	TaxTypeISLR = "ISLR" // Impuesto sobre la renta (retención)
)

// TaxDefinition definición de un impuesto aplicable.
type TaxDefinition struct {
	Type           string
	Code           string
	Name           string
	Rate           decimal.Decimal // Puntos porcentuales (16 = 16%)
	AppliesTo      string          // all | goods_services | services | foreign_currency
	PerTransaction bool            // true: se calcula sobre la transacción, no por línea
	IsDefault      bool
}

// WithholdingRule regla de retención.
type WithholdingRule struct {
	Type      string
	Code      string
	Name      string
	Rate      decimal.Decimal // Porcentaje a retener
	OverTax   bool            // true: el porcentaje se aplica sobre el impuesto; false: sobre la base
	AppliesTo string          // all | services | rents
	Condition string          // special_taxpayer | ordinary_taxpayer | "" (siempre)
}

// TransactionContext contexto que determina los impuestos transaccionales.
type TransactionContext struct {
	PaymentMethod string // ej. efectivo_ves, efectivo_usd, zelle, transferencia
	CurrencyCode  string // Moneda de liquidación (VES, USD, ...)
	DocumentType  string
}

// LineItem línea de documento a gravar.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Exempt      bool
}

// LineTax impuesto resultante sobre una línea.
type LineTax struct {
	Type   string
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// Document documento completo a gravar.
type Document struct {
	Type        string
	Lines       []LineItem
	Transaction TransactionContext
}

// DocumentTaxes resultado del cálculo de impuestos de un documento.
type DocumentTaxes struct {
	Subtotal            decimal.Decimal
	TotalTax            decimal.Decimal // Impuestos por línea (IVA)
	TotalTransactionTax decimal.Decimal // Impuestos por transacción (IGTF)
	GrandTotal          decimal.Decimal
	Breakdown           []LineTax // Agregado por (tipo, alícuota)
}

// Provider contrato de reglas tributarias por país. Las implementaciones son
// puras y sin estado: el motor de declaraciones depende solo de este contrato,
// nunca de las reglas de un país concreto.
type Provider interface {
	CountryCode() string
	// DefaultTaxes impuestos por línea vigentes (todas las alícuotas).
	DefaultTaxes() []TaxDefinition
	// TransactionTaxes impuestos que dependen del instrumento de pago o la moneda.
	TransactionTaxes(ctx TransactionContext) []TaxDefinition
	WithholdingRules() []WithholdingRule
	// ExemptDocumentTypes tipos de documento que no generan obligación (ej. cotizaciones).
	ExemptDocumentTypes() []string
	// CalculateLineTax aplica las definiciones por línea: amount * rate / 100.
	CalculateLineTax(item LineItem, taxes []TaxDefinition) []LineTax
	// CalculateDocumentTaxes calcula subtotal, impuestos y total de un documento completo.
	CalculateDocumentTaxes(doc Document) (*DocumentTaxes, error)
}
