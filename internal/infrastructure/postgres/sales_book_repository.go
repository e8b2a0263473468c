package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

var _ repository.SalesBookRepository = (*SalesBookRepo)(nil)

// SalesBookRepo implementación de SalesBookRepository sobre PostgreSQL
// (usable con pool o tx).
type SalesBookRepo struct {
	q Querier
}

// NewSalesBookRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesBookRepository(q Querier) *SalesBookRepo {
	return &SalesBookRepo{q: q}
}

const salesBookColumns = `
	id, tenant_id, month, year, operation_date,
	customer_id, customer_name, customer_rif, customer_address,
	invoice_number, invoice_control_number, invoice_date, transaction_type,
	base_amount, tax_rate, tax_amount, withheld_tax_amount, withholding_certificate, total_amount,
	is_electronic, electronic_code, billing_document_id,
	status, annulment_reason, annulment_date,
	created_by, updated_by, created_at, updated_at`

// Create persiste una entrada del libro de ventas. ErrDuplicate si el número
// de factura o la referencia de facturación ya existen para el tenant.
func (r *SalesBookRepo) Create(e *entity.SalesBookEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_book_entries (` + salesBookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.TenantID, e.Month, e.Year, e.OperationDate,
		nullIfEmpty(e.CustomerID), e.CustomerName, e.CustomerRIF, nullIfEmpty(e.CustomerAddress),
		e.InvoiceNumber, nullIfEmpty(e.InvoiceControlNumber), e.InvoiceDate, e.TransactionType,
		e.BaseAmount, e.TaxRate, e.TaxAmount, e.WithheldTaxAmount, nullIfEmpty(e.WithholdingCertificate), e.TotalAmount,
		e.IsElectronic, nullIfEmpty(e.ElectronicCode), nullIfEmpty(e.BillingDocumentID),
		e.Status, nullIfEmpty(e.AnnulmentReason), e.AnnulmentDate,
		nullIfEmpty(e.CreatedBy), nullIfEmpty(e.UpdatedBy), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entrada del libro de ventas ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert entrada libro de ventas: %w", err)
	}
	return nil
}

// ListByPeriod lista las entradas del período ordenadas por fecha de
// operación y número de factura.
func (r *SalesBookRepo) ListByPeriod(tenantID string, month, year int) ([]*entity.SalesBookEntry, error) {
	query := `SELECT ` + salesBookColumns + ` FROM sales_book_entries
		WHERE tenant_id = $1 AND month = $2 AND year = $3
		ORDER BY operation_date, invoice_number`
	rows, err := r.q.Query(context.Background(), query, tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list libro de ventas: %w", err)
	}
	defer rows.Close()

	var out []*entity.SalesBookEntry
	for rows.Next() {
		e, err := scanSalesEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar libro de ventas: %w", err)
	}
	return out, nil
}

// FindByBillingRef busca por referencia al documento de facturación o por
// número de factura. (nil, nil) si no existe.
func (r *SalesBookRepo) FindByBillingRef(tenantID, billingDocumentID, invoiceNumber string) (*entity.SalesBookEntry, error) {
	query := `SELECT ` + salesBookColumns + ` FROM sales_book_entries
		WHERE tenant_id = $1
		  AND (($2 != '' AND billing_document_id = $2) OR ($3 != '' AND invoice_number = $3))
		LIMIT 1`
	e, err := scanSalesEntry(r.q.QueryRow(context.Background(), query, tenantID, billingDocumentID, invoiceNumber))
	if err != nil {
		return nil, err
	}
	return e, nil
}

// MarkExported marca las entradas como exportadas a SENIAT.
func (r *SalesBookRepo) MarkExported(tenantID string, ids []string, exportDate time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales_book_entries SET status = $1, updated_at = $2
		 WHERE tenant_id = $3 AND id = ANY($4)`,
		entity.BookEntryStatusExported, exportDate, tenantID, ids)
	if err != nil {
		return fmt.Errorf("marcar exportadas: %w", err)
	}
	return nil
}

func scanSalesEntry(row pgx.Row) (*entity.SalesBookEntry, error) {
	var e entity.SalesBookEntry
	var customerID, customerAddress, controlNumber, withholdingCert *string
	var electronicCode, billingDocID, annulmentReason, createdBy, updatedBy *string

	err := row.Scan(
		&e.ID, &e.TenantID, &e.Month, &e.Year, &e.OperationDate,
		&customerID, &e.CustomerName, &e.CustomerRIF, &customerAddress,
		&e.InvoiceNumber, &controlNumber, &e.InvoiceDate, &e.TransactionType,
		&e.BaseAmount, &e.TaxRate, &e.TaxAmount, &e.WithheldTaxAmount, &withholdingCert, &e.TotalAmount,
		&e.IsElectronic, &electronicCode, &billingDocID,
		&e.Status, &annulmentReason, &e.AnnulmentDate,
		&createdBy, &updatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entrada libro de ventas: %w", err)
	}

	e.CustomerID = derefStr(customerID)
	e.CustomerAddress = derefStr(customerAddress)
	e.InvoiceControlNumber = derefStr(controlNumber)
	e.WithholdingCertificate = derefStr(withholdingCert)
	e.ElectronicCode = derefStr(electronicCode)
	e.BillingDocumentID = derefStr(billingDocID)
	e.AnnulmentReason = derefStr(annulmentReason)
	e.CreatedBy = derefStr(createdBy)
	e.UpdatedBy = derefStr(updatedBy)
	return &e, nil
}
