package taxrules_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/fiscal-pro/internal/domain/taxrules"
)

// ──────────────────────────────────────────────────────────────────────────────
// Provider Venezuela: reglas SENIAT (IVA 16/8/0, IGTF 3%, retenciones)
// ──────────────────────────────────────────────────────────────────────────────

func TestVenezuela_DefaultTaxes(t *testing.T) {
	ve := taxrules.NewVenezuela()
	taxes := ve.DefaultTaxes()

	require.Len(t, taxes, 3)
	assert.Equal(t, taxrules.TaxTypeIVA, taxes[0].Type)
	assert.True(t, taxes[0].IsDefault, "la alícuota general debe ser la default")
	assert.True(t, taxes[0].Rate.Equal(decimal.NewFromInt(16)))
	assert.True(t, taxes[1].Rate.Equal(decimal.NewFromInt(8)))
	assert.True(t, taxes[2].Rate.IsZero())
}

// El IGTF solo aplica cuando la liquidación es en moneda extranjera, por
// instrumento de pago o por moneda del documento.
func TestVenezuela_TransactionTaxes_IGTF(t *testing.T) {
	ve := taxrules.NewVenezuela()

	casos := []struct {
		nombre  string
		ctx     taxrules.TransactionContext
		espera  bool
	}{
		{"efectivo USD dispara IGTF", taxrules.TransactionContext{PaymentMethod: "efectivo_usd"}, true},
		{"zelle dispara IGTF", taxrules.TransactionContext{PaymentMethod: "zelle"}, true},
		{"moneda USD dispara IGTF", taxrules.TransactionContext{PaymentMethod: "transferencia", CurrencyCode: "USD"}, true},
		{"bolívares no dispara IGTF", taxrules.TransactionContext{PaymentMethod: "transferencia", CurrencyCode: "VES"}, false},
		{"efectivo local no dispara IGTF", taxrules.TransactionContext{PaymentMethod: "efectivo_ves"}, false},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			taxes := ve.TransactionTaxes(c.ctx)
			if !c.espera {
				assert.Empty(t, taxes)
				return
			}
			require.Len(t, taxes, 1)
			assert.Equal(t, taxrules.TaxTypeIGTF, taxes[0].Type)
			assert.True(t, taxes[0].Rate.Equal(decimal.NewFromInt(3)))
			assert.True(t, taxes[0].PerTransaction)
		})
	}
}

func TestVenezuela_CalculateLineTax(t *testing.T) {
	ve := taxrules.NewVenezuela()
	general := []taxrules.TaxDefinition{ve.DefaultTaxes()[0]}

	// 2 unidades x 500.00 al 16% → IVA 160.00
	item := taxrules.LineItem{
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(500),
	}
	result := ve.CalculateLineTax(item, general)
	require.Len(t, result, 1)
	assert.True(t, result[0].Amount.Equal(decimal.NewFromInt(160)),
		"IVA esperado 160.00, obtenido %s", result[0].Amount)

	// Línea exenta: tributa a 0%
	item.Exempt = true
	result = ve.CalculateLineTax(item, general)
	require.Len(t, result, 1)
	assert.True(t, result[0].Amount.IsZero())
	assert.True(t, result[0].Rate.IsZero())
}

func TestVenezuela_CalculateDocumentTaxes_ConIGTF(t *testing.T) {
	ve := taxrules.NewVenezuela()

	doc := taxrules.Document{
		Type: "invoice",
		Lines: []taxrules.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1000)},
		},
		Transaction: taxrules.TransactionContext{PaymentMethod: "zelle"},
	}

	result, err := ve.CalculateDocumentTaxes(doc)
	require.NoError(t, err)

	// Subtotal 1000, IVA 160, pagado 1160, IGTF 3% de 1160 = 34.80
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(160)))
	assert.True(t, result.TotalTransactionTax.Equal(decimal.RequireFromString("34.8")),
		"IGTF esperado 34.80, obtenido %s", result.TotalTransactionTax)
	assert.True(t, result.GrandTotal.Equal(decimal.RequireFromString("1194.8")))
	assert.Len(t, result.Breakdown, 2, "desglose: IVA e IGTF")
}

// Una cotización no genera obligación tributaria.
func TestVenezuela_CalculateDocumentTaxes_DocumentoExento(t *testing.T) {
	ve := taxrules.NewVenezuela()

	doc := taxrules.Document{
		Type: "quote",
		Lines: []taxrules.LineItem{
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(300)},
		},
	}
	result, err := ve.CalculateDocumentTaxes(doc)
	require.NoError(t, err)
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(300)))
}

func TestVenezuela_WithholdingRules(t *testing.T) {
	ve := taxrules.NewVenezuela()
	rules := ve.WithholdingRules()

	require.Len(t, rules, 4)

	byCode := make(map[string]taxrules.WithholdingRule)
	for _, r := range rules {
		byCode[r.Code] = r
	}
	assert.True(t, byCode["RET-IVA-75"].OverTax, "la retención de IVA se aplica sobre el impuesto")
	assert.True(t, byCode["RET-IVA-100"].Rate.Equal(decimal.NewFromInt(100)))
	assert.False(t, byCode["ISLR-HP-5"].OverTax, "la retención de ISLR se aplica sobre la base")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registry
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistry_ResolvePorPais(t *testing.T) {
	reg := taxrules.NewRegistry(taxrules.NewVenezuela())

	p, err := reg.Resolve("ve")
	require.NoError(t, err, "la resolución no distingue mayúsculas")
	assert.Equal(t, "VE", p.CountryCode())

	_, err = reg.Resolve("CO")
	assert.Error(t, err, "país no registrado debe fallar")
}
