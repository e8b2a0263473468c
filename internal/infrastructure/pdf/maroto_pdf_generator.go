// Package pdf implementa la representación imprimible de la declaración de
// IVA para archivo del contribuyente. El documento oficial es el XML que se
// presenta ante el SENIAT; este PDF es el soporte de revisión y archivo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Declaración de IVA  │  N° Declaración + Período    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DÉBITO FISCAL (ventas)  |  CRÉDITO FISCAL (compras)        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Alícuota | Ventas Base | Ventas IVA | Compras ...    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: crédito a aplicar / IVA a pagar / excedente        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado, presentación y leyenda legal                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var monthNames = [13]string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera el PDF de la declaración usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDeclarationPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDeclarationPDF(_ context.Context, d *entity.TaxDeclaration) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("pdf: declaración nil")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Declaración de IVA "+d.DeclarationNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fiscalSectionsRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range breakdownRows(d.RateBreakdown) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(d))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(d) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y número de declaración + período (der).
func headerRow(d *entity.TaxDeclaration) core.Row {
	periodo := fmt.Sprintf("%s %d", monthNames[d.Month], d.Year)

	return row.New(18).Add(
		col.New(7).Add(
			text.New("DECLARACIÓN DE IVA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Impuesto al Valor Agregado — Período fiscal", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(d.DeclarationNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Período: "+periodo, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// fiscalSectionsRow: débito fiscal (ventas) y crédito fiscal (compras) lado a lado.
func fiscalSectionsRow(d *entity.TaxDeclaration) core.Row {
	section := func(title string, base, tax decimal.Decimal, withheld decimal.Decimal, withheldLabel string) []core.Component {
		return []core.Component{
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New("Base imponible: Bs. "+base.StringFixed(2), props.Text{Size: 8, Top: 7}),
			text.New("IVA: Bs. "+tax.StringFixed(2), props.Text{Size: 8, Top: 12}),
			text.New(withheldLabel+": Bs. "+withheld.StringFixed(2), props.Text{
				Size: 8, Top: 17, Color: colorGray,
			}),
		}
	}

	return row.New(24).Add(
		col.New(6).Add(section("DÉBITO FISCAL (VENTAS)",
			d.SalesBaseAmount, d.SalesTaxAmount, d.TaxWithheldOnSales, "IVA retenido por clientes")...),
		col.New(6).Add(section("CRÉDITO FISCAL (COMPRAS)",
			d.PurchasesBaseAmount, d.PurchasesTaxAmount, d.TaxWithheldOnPurchases, "IVA retenido a proveedores")...),
	)
}

// tableHeaderRow: cabecera de la tabla de desglose por alícuota.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Alícuota", 2, align.Center),
		h("Ventas Base", 2, align.Right),
		h("Ventas IVA", 2, align.Right),
		h("Compras Base", 3, align.Right),
		h("Compras IVA", 3, align.Right),
	)
}

// breakdownRows: una fila por alícuota.
func breakdownRows(lines []entity.RateBreakdownLine) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			cell(l.Rate.StringFixed(2)+"%", 2, align.Center),
			cell(l.SalesBase.StringFixed(2), 2, align.Right),
			cell(l.SalesTax.StringFixed(2), 2, align.Right),
			cell(l.PurchasesBase.StringFixed(2), 3, align.Right),
			cell(l.PurchasesTax.StringFixed(2), 3, align.Right),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(d *entity.TaxDeclaration) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(34).Add(
		col.New(2),
		col.New(5).Add(
			label("Excedente período anterior:"),
			label("Crédito a aplicar:"),
			label("Ajustes:"),
			label("IVA a pagar:"),
			label("Excedente resultante:"),
			grandLabel("TOTAL A PAGAR:"),
		),
		col.New(3).Add(
			value("Bs. "+d.PreviousCreditBalance.StringFixed(2)),
			value("Bs. "+d.TotalCreditToApply.StringFixed(2)),
			value("Bs. "+d.Adjustments.StringFixed(2)),
			value("Bs. "+d.AmountToPay.StringFixed(2)),
			value("Bs. "+d.CreditBalance.StringFixed(2)),
			grandValue("Bs. "+d.TotalToPay.StringFixed(2)),
		),
		col.New(2),
	)
}

// footerRows: estado de la declaración y leyenda legal.
func footerRows(d *entity.TaxDeclaration) []core.Row {
	estado := fmt.Sprintf("Estado: %s", d.Status)
	if d.FilingDate != nil {
		estado += "   |   Presentada: " + d.FilingDate.Format("02/01/2006")
		if d.FiledBy != "" {
			estado += "   |   Por: " + d.FiledBy
		}
	}

	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(estado, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Resumen generado a partir de los libros fiscales de ventas y compras del período. "+
				"El documento con validez tributaria es la declaración presentada ante el SENIAT. "+
				"Conserve este soporte junto con los libros del período.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}
