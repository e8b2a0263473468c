package declaration_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/application/declaration"
	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

// fakeDeclRepo repositorio en memoria con update condicional por versión,
// igual que el repositorio Postgres real.
type fakeDeclRepo struct {
	byID map[string]*entity.TaxDeclaration
}

func newFakeDeclRepo() *fakeDeclRepo {
	return &fakeDeclRepo{byID: make(map[string]*entity.TaxDeclaration)}
}

func (r *fakeDeclRepo) Create(d *entity.TaxDeclaration) error {
	for _, e := range r.byID {
		if e.TenantID == d.TenantID && e.Month == d.Month && e.Year == d.Year {
			return domain.ErrDuplicate
		}
	}
	cp := *d
	r.byID[d.ID] = &cp
	return nil
}

func (r *fakeDeclRepo) Update(d *entity.TaxDeclaration) error {
	stored, ok := r.byID[d.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != d.Version {
		return domain.ErrConflict
	}
	cp := *d
	cp.Version = d.Version + 1
	r.byID[d.ID] = &cp
	d.Version = cp.Version
	return nil
}

func (r *fakeDeclRepo) GetByID(tenantID, id string) (*entity.TaxDeclaration, error) {
	d, ok := r.byID[id]
	if !ok || d.TenantID != tenantID {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeclRepo) GetByPeriod(tenantID string, month, year int) (*entity.TaxDeclaration, error) {
	for _, d := range r.byID {
		if d.TenantID == tenantID && d.Month == month && d.Year == year {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDeclRepo) List(tenantID string, f repository.DeclarationFilter) ([]*entity.TaxDeclaration, int, error) {
	var out []*entity.TaxDeclaration
	for _, d := range r.byID {
		if d.TenantID != tenantID {
			continue
		}
		if f.Year != 0 && d.Year != f.Year {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeDeclRepo) CountByNumberPrefix(tenantID, prefix string) (int, error) {
	n := 0
	for _, d := range r.byID {
		if d.TenantID == tenantID && strings.HasPrefix(d.DeclarationNumber, prefix) {
			n++
		}
	}
	return n, nil
}

func (r *fakeDeclRepo) Delete(tenantID, id string) error {
	d, ok := r.byID[id]
	if !ok || d.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Fakes de libros y facturación.

type fakeSalesRepo struct {
	entries []*entity.SalesBookEntry
}

func (r *fakeSalesRepo) Create(e *entity.SalesBookEntry) error {
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
		if d.TenantID != tenantID || d.IssueDate.Before(from) || d.IssueDate.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// engine agrupa el motor bajo prueba y sus fakes.
type engine struct {
	uc       *declaration.UseCase
	decls    *fakeDeclRepo
	sales    *fakeSalesRepo
	purchase *fakePurchaseRepo
	billing  *fakeBillingRepo
}

func newEngine() *engine {
	decls := newFakeDeclRepo()
	sales := &fakeSalesRepo{}
	purchase := &fakePurchaseRepo{}
	billing := &fakeBillingRepo{}

	uc := declaration.NewUseCase(
		decls,
		books.NewSalesSummarizer(sales),
		books.NewPurchaseSummarizer(purchase),
		books.NewReconciler(billing, sales),
		"DEC-IVA",
	)
	return &engine{uc: uc, decls: decls, sales: sales, purchase: purchase, billing: billing}
}

func (e *engine) addSale(n int, base, rate float64) {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	e.sales.entries = append(e.sales.entries, &entity.SalesBookEntry{
		ID:                   fmt.Sprintf("sale-%d", n),
		TenantID:             "tenant-1",
		Month:                1,
		Year:                 2026,
		CustomerRIF:          "J-12345678-9",
		CustomerName:         fmt.Sprintf("Cliente %d", n),
		InvoiceNumber:        fmt.Sprintf("FAC-%04d", n),
		InvoiceControlNumber: fmt.Sprintf("00-%06d", n),
		InvoiceDate:          time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		TransactionType:      entity.TransactionTypeSale,
		BaseAmount:           b,
		TaxRate:              r,
		TaxAmount:            tax,
		TotalAmount:          b.Add(tax),
		Status:               entity.BookEntryStatusConfirmed,
	})
}

func (e *engine) addPurchase(n int, base, rate, withheld float64) {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	w := decimal.NewFromFloat(withheld)
	e.purchase.entries = append(e.purchase.entries, &entity.PurchaseBookEntry{
		ID:                fmt.Sprintf("purch-%d", n),
		TenantID:          "tenant-1",
		Month:             1,
		Year:              2026,
		SupplierRIF:       "J-87654321-0",
		SupplierName:      fmt.Sprintf("Proveedor %d", n),
		InvoiceNumber:     fmt.Sprintf("PFAC-%04d", n),
		InvoiceDate:       time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC),
		DocumentType:      "invoice",
		BaseAmount:        b,
		TaxRate:           r,
		TaxAmount:         tax,
		WithheldTaxAmount: w,
		TotalAmount:       b.Add(tax).Sub(w),
	})
}

func listFilter(status string) repository.DeclarationFilter {
	return repository.DeclarationFilter{Status: status, Page: 1, Limit: 20}
}

func calcReq(month, year int) dto.CalculateDeclarationRequest {
	return dto.CalculateDeclarationRequest{Month: month, Year: year}
}

func (e *engine) addBillingDoc(n int, base, rate float64) {
	b := decimal.NewFromFloat(base)
	r := decimal.NewFromFloat(rate)
	tax := b.Mul(r).Div(decimal.NewFromInt(100))
	e.billing.docs = append(e.billing.docs, &entity.BillingDocument{
		ID:             fmt.Sprintf("bill-%d", n),
		TenantID:       "tenant-1",
		Type:           entity.BillingDocTypeInvoice,
		DocumentNumber: fmt.Sprintf("FAC-B%04d", n),
		ControlNumber:  fmt.Sprintf("00-B%06d", n),
		IssueDate:      time.Date(2026, 1, n, 12, 0, 0, 0, time.UTC),
		Status:         "issued",
		CustomerTaxID:  "J-12345678-9",
		CustomerName:   fmt.Sprintf("Cliente B%d", n),
		Subtotal:       b,
		TaxRate:        r,
		TaxAmount:      tax,
		GrandTotal:     b.Add(tax),
	})
}
