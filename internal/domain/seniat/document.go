// Package seniat genera el documento de presentación de la declaración de IVA
// en el formato estructurado exigido por el SENIAT, más utilidades de
// validación fiscal (RIF).
//
// Secciones del documento:
//
//	<DeclaracionIVA>
//	  <Periodo>            mes y año
//	  <NumeroDeclaracion>
//	  <DebitoFiscal>       base y IVA de ventas
//	  <CreditoFiscal>      base y IVA de compras
//	  <Retenciones>        recibidas y practicadas
//	  <Calculo>            excedente anterior → crédito a aplicar → IVA a pagar / excedente
//	  <Estadisticas>       operaciones y facturas electrónicas
//	  <FechaPresentacion>  dd/MM/yyyy
//	</DeclaracionIVA>
package seniat

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// Formato de fecha exigido por el SENIAT en la presentación.
const filingDateLayout = "02/01/2006"

// GenerateDeclarationXML serializa el snapshot de la declaración al documento
// de presentación. Función pura y determinista: el mismo snapshot produce
// siempre bytes idénticos (el resultado se canonicaliza con c14n), por lo que
// sirve tanto para vista previa como para el artefacto almacenado al presentar.
// Los montos se renderizan con exactamente dos decimales; el redondeo ocurre
// únicamente aquí, nunca en pasos intermedios del cálculo.
func GenerateDeclarationXML(d *entity.TaxDeclaration) (string, error) {
	if d == nil {
		return "", fmt.Errorf("seniat: declaración nil")
	}

	doc := etree.NewDocument()
	root := doc.CreateElement("DeclaracionIVA")

	periodo := root.CreateElement("Periodo")
	periodo.CreateElement("Mes").SetText(fmt.Sprintf("%02d", d.Month))
	periodo.CreateElement("Anio").SetText(strconv.Itoa(d.Year))

	root.CreateElement("NumeroDeclaracion").SetText(d.DeclarationNumber)

	debito := root.CreateElement("DebitoFiscal")
	debito.CreateElement("BaseImponible").SetText(money(d.SalesBaseAmount))
	debito.CreateElement("IVA").SetText(money(d.SalesTaxAmount))
	debito.CreateElement("Total").SetText(money(d.TotalDebitFiscal))

	credito := root.CreateElement("CreditoFiscal")
	credito.CreateElement("BaseImponible").SetText(money(d.PurchasesBaseAmount))
	credito.CreateElement("IVA").SetText(money(d.PurchasesTaxAmount))
	credito.CreateElement("Total").SetText(money(d.TotalCreditFiscal))

	ret := root.CreateElement("Retenciones")
	ret.CreateElement("RetencionesRecibidas").SetText(money(d.TaxWithheldOnSales))
	ret.CreateElement("RetencionesPracticadas").SetText(money(d.TaxWithheldOnPurchases))

	calculo := root.CreateElement("Calculo")
	calculo.CreateElement("ExcedentePeriodoAnterior").SetText(money(d.PreviousCreditBalance))
	calculo.CreateElement("TotalCreditoAplicar").SetText(money(d.TotalCreditToApply))
	calculo.CreateElement("Ajustes").SetText(money(d.Adjustments))
	calculo.CreateElement("IVAaPagar").SetText(money(d.AmountToPay))
	calculo.CreateElement("Excedente").SetText(money(d.CreditBalance))
	calculo.CreateElement("TotalAPagar").SetText(money(d.TotalToPay))

	// Desglose por alícuota, en el orden observado en los libros.
	desglose := root.CreateElement("DesglosePorAlicuota")
	for _, line := range d.RateBreakdown {
		alicuota := desglose.CreateElement("Alicuota")
		alicuota.CreateAttr("tasa", money(line.Rate))
		alicuota.CreateElement("VentasBase").SetText(money(line.SalesBase))
		alicuota.CreateElement("VentasIVA").SetText(money(line.SalesTax))
		alicuota.CreateElement("ComprasBase").SetText(money(line.PurchasesBase))
		alicuota.CreateElement("ComprasIVA").SetText(money(line.PurchasesTax))
	}

	stats := root.CreateElement("Estadisticas")
	stats.CreateElement("OperacionesVenta").SetText(strconv.Itoa(d.TotalSalesTransactions))
	stats.CreateElement("OperacionesCompra").SetText(strconv.Itoa(d.TotalPurchasesTransactions))
	stats.CreateElement("FacturasElectronicas").SetText(strconv.Itoa(d.ElectronicInvoices))
	stats.CreateElement("FacturasFisicas").SetText(strconv.Itoa(d.PhysicalInvoices))

	fechaPresentacion := ""
	if d.FilingDate != nil {
		fechaPresentacion = d.FilingDate.Format(filingDateLayout)
	}
	root.CreateElement("FechaPresentacion").SetText(fechaPresentacion)

	doc.Indent(2)
	raw, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("seniat: serializar declaración: %w", err)
	}

	// Canonicalización C14N: garantiza artefacto byte-exacto independiente de
	// la serialización del builder.
	dec := xml.NewDecoder(strings.NewReader(raw))
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("seniat: canonicalizar declaración: %w", err)
	}
	return string(canonical), nil
}

// money renderiza un monto con exactamente dos decimales.
func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}
