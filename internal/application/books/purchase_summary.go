package books

import (
	"context"
	"fmt"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/seniat"
)

// PurchaseSummarizer agrega el libro de compras de un período.
// El libro de compras no distingue facturas electrónicas: esos contadores
// quedan en cero en el resumen.
type PurchaseSummarizer struct {
	purchaseRepo repository.PurchaseBookRepository
}

// NewPurchaseSummarizer construye el resumidor del libro de compras.
func NewPurchaseSummarizer(purchaseRepo repository.PurchaseBookRepository) *PurchaseSummarizer {
	return &PurchaseSummarizer{purchaseRepo: purchaseRepo}
}

// Summarize calcula el resumen del libro de compras del período.
func (s *PurchaseSummarizer) Summarize(ctx context.Context, tenantID string, month, year int) (*dto.BookSummaryResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.purchaseRepo.ListByPeriod(tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("listar libro de compras %02d/%d: %w", month, year, err)
	}

	summary := &dto.BookSummaryResponse{Month: month, Year: year}
	acc := newRateAccumulator()

	for i, e := range entries {
		row := i + 1

		if !seniat.ValidateRIF(e.SupplierRIF) {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: RIF del proveedor inválido (%s)", row, e.SupplierRIF))
		}
		if e.InvoiceNumber == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Fila %d: número de factura vacío", row))
		}
		summary.Errors = append(summary.Errors, checkArithmetic(row, e.BaseAmount, e.TaxRate, e.TaxAmount, e.WithheldTaxAmount, e.TotalAmount)...)

		summary.TotalEntries++
		summary.TotalBaseAmount = summary.TotalBaseAmount.Add(e.BaseAmount)
		summary.TotalTaxAmount = summary.TotalTaxAmount.Add(e.TaxAmount)
		summary.TotalWithheldTax = summary.TotalWithheldTax.Add(e.WithheldTaxAmount)
		acc.add(e.TaxRate, e.BaseAmount, e.TaxAmount)
	}

	summary.ByRate = acc.lines()
	return summary, nil
}
