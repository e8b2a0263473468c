package books

import (
	"context"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
)

// ListEntries lista las entradas del libro de ventas del período, en el orden
// cronológico del libro físico.
func (s *SalesSummarizer) ListEntries(ctx context.Context, tenantID string, month, year int) (*dto.SalesBookEntriesResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := s.salesRepo.ListByPeriod(tenantID, month, year)
	if err != nil {
		return nil, err
	}
	out := &dto.SalesBookEntriesResponse{
		Month:   month,
		Year:    year,
		Total:   len(entries),
		Entries: make([]dto.SalesBookEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.SalesBookEntryResponse{
			ID:                   e.ID,
			OperationDate:        e.OperationDate,
			CustomerName:         e.CustomerName,
			CustomerRIF:          e.CustomerRIF,
			InvoiceNumber:        e.InvoiceNumber,
			InvoiceControlNumber: e.InvoiceControlNumber,
			TransactionType:      e.TransactionType,
			BaseAmount:           e.BaseAmount,
			TaxRate:              e.TaxRate,
			TaxAmount:            e.TaxAmount,
			WithheldTaxAmount:    e.WithheldTaxAmount,
			TotalAmount:          e.TotalAmount,
			IsElectronic:         e.IsElectronic,
			Status:               e.Status,
			BillingDocumentID:    e.BillingDocumentID,
		})
	}
	return out, nil
}

// ListEntries lista las entradas del libro de compras del período.
func (s *PurchaseSummarizer) ListEntries(ctx context.Context, tenantID string, month, year int) (*dto.PurchaseBookEntriesResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := s.purchaseRepo.ListByPeriod(tenantID, month, year)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseBookEntriesResponse{
		Month:   month,
		Year:    year,
		Total:   len(entries),
		Entries: make([]dto.PurchaseBookEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.PurchaseBookEntryResponse{
			ID:                   e.ID,
			OperationDate:        e.OperationDate,
			SupplierName:         e.SupplierName,
			SupplierRIF:          e.SupplierRIF,
			InvoiceNumber:        e.InvoiceNumber,
			InvoiceControlNumber: e.InvoiceControlNumber,
			DocumentType:         e.DocumentType,
			BaseAmount:           e.BaseAmount,
			TaxRate:              e.TaxRate,
			TaxAmount:            e.TaxAmount,
			WithheldTaxAmount:    e.WithheldTaxAmount,
			TotalAmount:          e.TotalAmount,
			Status:               e.Status,
		})
	}
	return out, nil
}
