// Package books resume y concilia los libros fiscales de ventas y compras.
//
// Los resúmenes son de solo lectura y deterministas: los totales se calculan
// con decimal exacto y los errores estructurales se reportan, nunca se
// corrigen en silencio. El conciliador es el único escritor del libro de
// ventas y es idempotente por documento de facturación.
package books

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/seniat"
)

// Tolerancia aritmética para validar montos capturados a dos decimales.
var arithmeticTolerance = decimal.NewFromFloat(0.01)

// SalesSummarizer agrega el libro de ventas de un período.
type SalesSummarizer struct {
	salesRepo repository.SalesBookRepository
}

// NewSalesSummarizer construye el resumidor del libro de ventas.
func NewSalesSummarizer(salesRepo repository.SalesBookRepository) *SalesSummarizer {
	return &SalesSummarizer{salesRepo: salesRepo}
}

// Summarize calcula el resumen del libro de ventas del período: totales,
// desglose por alícuota (en orden de primera aparición), conteos de facturas
// electrónicas/físicas y la lista de errores estructurales. Las entradas
// anuladas se excluyen de los montos pero igual se validan estructuralmente.
func (s *SalesSummarizer) Summarize(ctx context.Context, tenantID string, month, year int) (*dto.BookSummaryResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.salesRepo.ListByPeriod(tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("listar libro de ventas %02d/%d: %w", month, year, err)
	}

	summary := &dto.BookSummaryResponse{Month: month, Year: year}
	acc := newRateAccumulator()

	for i, e := range entries {
		row := i + 1

		if !seniat.ValidateRIF(e.CustomerRIF) {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: RIF del cliente inválido (%s)", row, e.CustomerRIF))
		}
		if e.InvoiceNumber == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: número de factura vacío", row))
		}
		if !e.IsElectronic && e.InvoiceControlNumber == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: factura física sin número de control", row))
		}
		if e.IsElectronic && e.ElectronicCode == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: factura electrónica sin código de autorización", row))
		}
		summary.Errors = append(summary.Errors, checkArithmetic(row, e.BaseAmount, e.TaxRate, e.TaxAmount, e.WithheldTaxAmount, e.TotalAmount)...)

		if e.Status == entity.BookEntryStatusAnnulled {
			continue
		}

		summary.TotalEntries++
		summary.TotalBaseAmount = summary.TotalBaseAmount.Add(e.BaseAmount)
		summary.TotalTaxAmount = summary.TotalTaxAmount.Add(e.TaxAmount)
		summary.TotalWithheldTax = summary.TotalWithheldTax.Add(e.WithheldTaxAmount)
		acc.add(e.TaxRate, e.BaseAmount, e.TaxAmount)

		if e.IsElectronic {
			summary.ElectronicInvoices++
		} else {
			summary.PhysicalInvoices++
		}
	}

	summary.Errors = append(summary.Errors, findDuplicateInvoices(entries)...)
	summary.ByRate = acc.lines()
	return summary, nil
}

// checkArithmetic valida la coherencia base × alícuota = IVA y
// base + IVA - retenido = total, con tolerancia de un céntimo por redondeo de
// captura. El total del libro es neto de retención.
func checkArithmetic(row int, base, rate, tax, withheld, total decimal.Decimal) []string {
	var errs []string

	expectedTax := base.Mul(rate).Div(decimal.NewFromInt(100))
	if expectedTax.Sub(tax).Abs().GreaterThan(arithmeticTolerance) {
		errs = append(errs, fmt.Sprintf("Fila %d: IVA inconsistente (esperado %s, registrado %s)",
			row, expectedTax.StringFixed(2), tax.StringFixed(2)))
	}
	expectedTotal := base.Add(tax).Sub(withheld)
	if expectedTotal.Sub(total).Abs().GreaterThan(arithmeticTolerance) {
		errs = append(errs, fmt.Sprintf("Fila %d: total inconsistente (esperado %s, registrado %s)",
			row, expectedTotal.StringFixed(2), total.StringFixed(2)))
	}
	return errs
}

// findDuplicateInvoices reporta números de factura repetidos dentro del
// período (excluyendo anuladas, que pueden reutilizar el número).
func findDuplicateInvoices(entries []*entity.SalesBookEntry) []string {
	seen := make(map[string]int)
	var errs []string
	for _, e := range entries {
		if e.Status == entity.BookEntryStatusAnnulled || e.InvoiceNumber == "" {
			continue
		}
		seen[e.InvoiceNumber]++
		if seen[e.InvoiceNumber] == 2 {
			errs = append(errs, fmt.Sprintf("Número de factura duplicado: %s", e.InvoiceNumber))
		}
	}
	return errs
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: mes %d", domain.ErrInvalidInput, month)
	}
	if year < 2000 {
		return fmt.Errorf("%w: año %d", domain.ErrInvalidInput, year)
	}
	return nil
}

// rateAccumulator agrupa montos por alícuota preservando el orden de primera
// aparición, para que el resumen sea determinista.
type rateAccumulator struct {
	order []string
	byKey map[string]*dto.RateSummaryLine
}

func newRateAccumulator() *rateAccumulator {
	return &rateAccumulator{byKey: make(map[string]*dto.RateSummaryLine)}
}

func (a *rateAccumulator) add(rate, base, tax decimal.Decimal) {
	key := rate.String()
	line, ok := a.byKey[key]
	if !ok {
		line = &dto.RateSummaryLine{Rate: rate}
		a.byKey[key] = line
		a.order = append(a.order, key)
	}
	line.BaseAmount = line.BaseAmount.Add(base)
	line.TaxAmount = line.TaxAmount.Add(tax)
}

func (a *rateAccumulator) lines() []dto.RateSummaryLine {
	out := make([]dto.RateSummaryLine, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, *a.byKey[key])
	}
	return out
}
