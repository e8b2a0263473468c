package taxrules

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Alícuotas y tasas vigentes en Venezuela (SENIAT).
var (
	veIVAGeneral        = decimal.NewFromInt(16)
	veIVAReducida       = decimal.NewFromInt(8)
	veIVAExenta         = decimal.Zero
	veIGTF              = decimal.NewFromInt(3)
	veISLRHonorarios    = decimal.NewFromInt(5)
	veISLRArrendamiento = decimal.NewFromInt(3)
	veRetIVAOrdinario   = decimal.NewFromInt(75)
	veRetIVAEspecial    = decimal.NewFromInt(100)

	cien = decimal.NewFromInt(100)
)

// Instrumentos de pago en moneda extranjera: disparan IGTF aunque el documento
// esté expresado en bolívares.
var veForeignInstruments = map[string]bool{
	"efectivo_usd": true,
	"efectivo_eur": true,
	"zelle":        true,
	"paypal":       true,
	"binance":      true,
}

// Venezuela implementa Provider con las reglas tributarias venezolanas.
type Venezuela struct{}

// NewVenezuela construye el provider.
func NewVenezuela() Venezuela { return Venezuela{} }

// CountryCode código ISO 3166-1 alfa-2.
func (Venezuela) CountryCode() string { return "VE" }

// DefaultTaxes alícuotas de IVA vigentes: general 16%, reducida 8%, exenta 0%.
func (Venezuela) DefaultTaxes() []TaxDefinition {
	return []TaxDefinition{
		{Type: TaxTypeIVA, Code: "IVA-16", Name: "IVA General", Rate: veIVAGeneral, AppliesTo: "goods_services", IsDefault: true},
		{Type: TaxTypeIVA, Code: "IVA-8", Name: "IVA Reducido", Rate: veIVAReducida, AppliesTo: "goods_services"},
		{Type: TaxTypeIVA, Code: "IVA-0", Name: "IVA Exento", Rate: veIVAExenta, AppliesTo: "goods_services"},
	}
}

// TransactionTaxes IGTF 3% cuando la liquidación es en moneda extranjera,
// sea por el instrumento de pago o por la moneda del documento.
func (Venezuela) TransactionTaxes(ctx TransactionContext) []TaxDefinition {
	foreign := veForeignInstruments[ctx.PaymentMethod] ||
		(ctx.CurrencyCode != "" && ctx.CurrencyCode != "VES")
	if !foreign {
		return nil
	}
	return []TaxDefinition{
		{Type: TaxTypeIGTF, Code: "IGTF-3", Name: "IGTF Transacciones en Divisas", Rate: veIGTF, AppliesTo: "foreign_currency", PerTransaction: true, IsDefault: true},
	}
}

// WithholdingRules retenciones de IVA (75% ordinario, 100% contribuyente
// especial) e ISLR sobre honorarios y arrendamientos.
func (Venezuela) WithholdingRules() []WithholdingRule {
	return []WithholdingRule{
		{Type: TaxTypeIVA, Code: "RET-IVA-75", Name: "Retención IVA 75%", Rate: veRetIVAOrdinario, OverTax: true, AppliesTo: "all", Condition: "ordinary_taxpayer"},
		{Type: TaxTypeIVA, Code: "RET-IVA-100", Name: "Retención IVA 100%", Rate: veRetIVAEspecial, OverTax: true, AppliesTo: "all", Condition: "special_taxpayer"},
		{Type: TaxTypeISLR, Code: "ISLR-HP-5", Name: "ISLR Honorarios Profesionales", Rate: veISLRHonorarios, OverTax: false, AppliesTo: "services"},
		{Type: TaxTypeISLR, Code: "ISLR-ARR-3", Name: "ISLR Arrendamiento", Rate: veISLRArrendamiento, OverTax: false, AppliesTo: "rents"},
	}
}

// ExemptDocumentTypes cotizaciones y notas de entrega no generan obligación.
func (Venezuela) ExemptDocumentTypes() []string {
	return []string{"quote", "delivery_note"}
}

// CalculateLineTax aplica cada definición por línea: monto * alícuota / 100.
// Las líneas exentas tributan a 0% (se reporta la línea con monto cero para el
// desglose por alícuota).
func (Venezuela) CalculateLineTax(item LineItem, taxes []TaxDefinition) []LineTax {
	amount := item.Quantity.Mul(item.UnitPrice)
	var result []LineTax
	for _, def := range taxes {
		if def.PerTransaction {
			continue
		}
		rate := def.Rate
		if item.Exempt {
			rate = decimal.Zero
		}
		result = append(result, LineTax{
			Type:   def.Type,
			Rate:   rate,
			Amount: amount.Mul(rate).Div(cien),
		})
	}
	return result
}

// CalculateDocumentTaxes calcula subtotal, IVA por línea, IGTF transaccional y
// total. La alícuota por línea es la general salvo línea exenta. El IGTF grava
// el monto pagado (subtotal + IVA).
func (v Venezuela) CalculateDocumentTaxes(doc Document) (*DocumentTaxes, error) {
	for _, exempt := range v.ExemptDocumentTypes() {
		if doc.Type == exempt {
			return &DocumentTaxes{
				Subtotal:            sumLines(doc.Lines),
				TotalTax:            decimal.Zero,
				TotalTransactionTax: decimal.Zero,
				GrandTotal:          sumLines(doc.Lines),
			}, nil
		}
	}
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("taxrules: documento sin líneas")
	}

	general := []TaxDefinition{v.DefaultTaxes()[0]}

	result := &DocumentTaxes{}
	byKey := make(map[string]*LineTax)
	var order []string
	for _, line := range doc.Lines {
		result.Subtotal = result.Subtotal.Add(line.Quantity.Mul(line.UnitPrice))
		for _, lt := range v.CalculateLineTax(line, general) {
			result.TotalTax = result.TotalTax.Add(lt.Amount)
			key := lt.Type + "|" + lt.Rate.String()
			agg, ok := byKey[key]
			if !ok {
				agg = &LineTax{Type: lt.Type, Rate: lt.Rate}
				byKey[key] = agg
				order = append(order, key)
			}
			agg.Amount = agg.Amount.Add(lt.Amount)
		}
	}

	paid := result.Subtotal.Add(result.TotalTax)
	for _, def := range v.TransactionTaxes(doc.Transaction) {
		amount := paid.Mul(def.Rate).Div(cien)
		result.TotalTransactionTax = result.TotalTransactionTax.Add(amount)
		key := def.Type + "|" + def.Rate.String()
		byKey[key] = &LineTax{Type: def.Type, Rate: def.Rate, Amount: amount}
		order = append(order, key)
	}

	for _, key := range order {
		result.Breakdown = append(result.Breakdown, *byKey[key])
	}
	result.GrandTotal = paid.Add(result.TotalTransactionTax)
	return result, nil
}

func sumLines(lines []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}
