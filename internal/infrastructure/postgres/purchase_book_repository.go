package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

var _ repository.PurchaseBookRepository = (*PurchaseBookRepo)(nil)

// PurchaseBookRepo lectura del libro de compras sobre PostgreSQL.
type PurchaseBookRepo struct {
	q Querier
}

// NewPurchaseBookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseBookRepository(q Querier) *PurchaseBookRepo {
	return &PurchaseBookRepo{q: q}
}

// ListByPeriod lista las entradas del período ordenadas por fecha de
// operación y número de factura.
func (r *PurchaseBookRepo) ListByPeriod(tenantID string, month, year int) ([]*entity.PurchaseBookEntry, error) {
	query := `
		SELECT id, tenant_id, month, year, operation_date,
		       supplier_id, supplier_name, supplier_rif, supplier_address,
		       invoice_number, invoice_control_number, invoice_date, document_type,
		       base_amount, tax_rate, tax_amount, withheld_tax_amount, withholding_certificate, total_amount,
		       status, created_by, updated_by, created_at, updated_at
		FROM purchase_book_entries
		WHERE tenant_id = $1 AND month = $2 AND year = $3
		ORDER BY operation_date, invoice_number`
	rows, err := r.q.Query(context.Background(), query, tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list libro de compras: %w", err)
	}
	defer rows.Close()

	var out []*entity.PurchaseBookEntry
	for rows.Next() {
		var e entity.PurchaseBookEntry
		var supplierID, supplierAddress, controlNumber, withholdingCert, createdBy, updatedBy *string
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.Month, &e.Year, &e.OperationDate,
			&supplierID, &e.SupplierName, &e.SupplierRIF, &supplierAddress,
			&e.InvoiceNumber, &controlNumber, &e.InvoiceDate, &e.DocumentType,
			&e.BaseAmount, &e.TaxRate, &e.TaxAmount, &e.WithheldTaxAmount, &withholdingCert, &e.TotalAmount,
			&e.Status, &createdBy, &updatedBy, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entrada libro de compras: %w", err)
		}
		e.SupplierID = derefStr(supplierID)
		e.SupplierAddress = derefStr(supplierAddress)
		e.InvoiceControlNumber = derefStr(controlNumber)
		e.WithholdingCertificate = derefStr(withholdingCert)
		e.CreatedBy = derefStr(createdBy)
		e.UpdatedBy = derefStr(updatedBy)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar libro de compras: %w", err)
	}
	return out, nil
}
