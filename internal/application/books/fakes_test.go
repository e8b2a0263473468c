package books_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// Fakes en memoria de los puertos de repositorio.

type fakeSalesRepo struct {
	entries   []*entity.SalesBookEntry
	createErr error
	exported  []string
}

func (r *fakeSalesRepo) Create(e *entity.SalesBookEntry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeSalesRepo) ListByPeriod(tenantID string, month, year int) ([]*entity.SalesBookEntry, error) {
	var out []*entity.SalesBookEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.Month == month && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeSalesRepo) FindByBillingRef(tenantID, billingDocumentID, invoiceNumber string) (*entity.SalesBookEntry, error) {
	for _, e := range r.entries {
		if e.TenantID != tenantID {
			continue
		}
		if billingDocumentID != "" && e.BillingDocumentID == billingDocumentID {
			return e, nil
		}
		if invoiceNumber != "" && e.InvoiceNumber == invoiceNumber {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeSalesRepo) MarkExported(tenantID string, ids []string, exportDate time.Time) error {
	r.exported = append(r.exported, ids...)
	for _, e := range r.entries {
		for _, id := range ids {
			if e.ID == id {
				e.Status = entity.BookEntryStatusExported
			}
		}
	}
	return nil
}

type fakePurchaseRepo struct {
	entries []*entity.PurchaseBookEntry
}

func (r *fakePurchaseRepo) ListByPeriod(tenantID string, month, year int) ([]*entity.PurchaseBookEntry, error) {
	var out []*entity.PurchaseBookEntry
	for _, e := range r.entries {
		if e.TenantID == tenantID && e.Month == month && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeBillingRepo struct {
	docs []*entity.BillingDocument
}

func (r *fakeBillingRepo) ListFinalizedByPeriod(tenantID string, from, to time.Time) ([]*entity.BillingDocument, error) {
	var out []*entity.BillingDocument
	for _, d := range r.docs {
		if d.TenantID != tenantID {
			continue
		}
		if d.IssueDate.Before(from) || d.IssueDate.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Constructores de datos de prueba.

func salesEntry(n int, base, rate float64) *entity.SalesBookEntry {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	return &entity.SalesBookEntry{
		ID:                   fmt.Sprintf("sale-%d", n),
		TenantID:             "tenant-1",
		Month:                1,
		Year:                 2026,
		CustomerName:         fmt.Sprintf("Cliente %d", n),
		CustomerRIF:          "J-12345678-9",
		InvoiceNumber:        fmt.Sprintf("FAC-%04d", n),
		InvoiceControlNumber: fmt.Sprintf("00-%06d", n),
		InvoiceDate:          time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		OperationDate:        time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		TransactionType:      entity.TransactionTypeSale,
		BaseAmount:           b,
		TaxRate:              r,
		TaxAmount:            tax,
		TotalAmount:          b.Add(tax),
		Status:               entity.BookEntryStatusConfirmed,
	}
}

func purchaseEntry(n int, base, rate float64) *entity.PurchaseBookEntry {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	return &entity.PurchaseBookEntry{
		ID:            fmt.Sprintf("purch-%d", n),
		TenantID:      "tenant-1",
		Month:         1,
		Year:          2026,
		SupplierName:  fmt.Sprintf("Proveedor %d", n),
		SupplierRIF:   "J-87654321-0",
		InvoiceNumber: fmt.Sprintf("PFAC-%04d", n),
		InvoiceDate:   time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		DocumentType:  "invoice",
		BaseAmount:    b,
		TaxRate:       r,
		TaxAmount:     tax,
		TotalAmount:   b.Add(tax),
		Status:        entity.BookEntryStatusConfirmed,
	}
}

func billingDoc(n int, docType, status string, base, rate float64) *entity.BillingDocument {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	return &entity.BillingDocument{
		ID:             fmt.Sprintf("bill-%d", n),
		TenantID:       "tenant-1",
		Type:           docType,
		DocumentNumber: fmt.Sprintf("FAC-%04d", n),
		ControlNumber:  fmt.Sprintf("00-%06d", n),
		IssueDate:      time.Date(2026, 1, n, 12, 0, 0, 0, time.UTC),
		Status:         status,
		CustomerName:   fmt.Sprintf("Cliente %d", n),
		CustomerTaxID:  "J-12345678-9",
		Subtotal:       b,
		TaxRate:        r,
		TaxAmount:      tax,
		GrandTotal:     b.Add(tax),
		IsElectronic:   true,
	}
}
