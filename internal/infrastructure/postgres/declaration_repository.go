package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

var _ repository.DeclarationRepository = (*DeclarationRepo)(nil)

// DeclarationRepo implementación de DeclarationRepository sobre PostgreSQL
// (usable con pool o tx). El desglose por alícuota y los errores de validación
// se guardan como JSONB; la columna version implementa el update condicional.
type DeclarationRepo struct {
	q Querier
}

// NewDeclarationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDeclarationRepository(q Querier) *DeclarationRepo {
	return &DeclarationRepo{q: q}
}

const declarationColumns = `
	id, tenant_id, month, year, declaration_number,
	sales_base_amount, sales_tax_amount, purchases_base_amount, purchases_tax_amount,
	tax_withheld_on_sales, tax_withheld_on_purchases,
	previous_credit_balance, adjustments, adjustments_reason, penalties, interests,
	total_debit_fiscal, total_credit_fiscal, total_credit_to_apply,
	amount_to_pay, credit_balance, total_to_pay,
	validated, validation_errors, rate_breakdown,
	total_sales_transactions, total_purchases_transactions, electronic_invoices, physical_invoices,
	status, filing_date, filed_by, exported_to_seniat, document_xml,
	payment_date, payment_reference, amount_paid, notes,
	created_by, updated_by, version, created_at, updated_at`

// Create persiste una declaración nueva. ErrDuplicate si el período o el
// número ya existen para el tenant.
func (r *DeclarationRepo) Create(d *entity.TaxDeclaration) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.Version = 1

	breakdown, validationErrs, err := marshalDiagnostics(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tax_declarations (` + declarationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		        $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42, $43)`
	_, err = r.q.Exec(context.Background(), query,
		d.ID, d.TenantID, d.Month, d.Year, d.DeclarationNumber,
		d.SalesBaseAmount, d.SalesTaxAmount, d.PurchasesBaseAmount, d.PurchasesTaxAmount,
		d.TaxWithheldOnSales, d.TaxWithheldOnPurchases,
		d.PreviousCreditBalance, d.Adjustments, nullIfEmpty(d.AdjustmentsReason), d.Penalties, d.Interests,
		d.TotalDebitFiscal, d.TotalCreditFiscal, d.TotalCreditToApply,
		d.AmountToPay, d.CreditBalance, d.TotalToPay,
		d.Validated, validationErrs, breakdown,
		d.TotalSalesTransactions, d.TotalPurchasesTransactions, d.ElectronicInvoices, d.PhysicalInvoices,
		d.Status, d.FilingDate, nullIfEmpty(d.FiledBy), d.ExportedToSENIAT, nullIfEmpty(d.DocumentXML),
		d.PaymentDate, nullIfEmpty(d.PaymentReference), d.AmountPaid, nullIfEmpty(d.Notes),
		nullIfEmpty(d.CreatedBy), nullIfEmpty(d.UpdatedBy), d.Version, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: declaración del período o número ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert declaración: %w", err)
	}
	return nil
}

// Update reemplaza el snapshot completo de forma condicional por versión.
// Si la versión persistida ya no coincide, otro escritor ganó: ErrConflict.
func (r *DeclarationRepo) Update(d *entity.TaxDeclaration) error {
	breakdown, validationErrs, err := marshalDiagnostics(d)
	if err != nil {
		return err
	}

	query := `
		UPDATE tax_declarations SET
			sales_base_amount = $3, sales_tax_amount = $4,
			purchases_base_amount = $5, purchases_tax_amount = $6,
			tax_withheld_on_sales = $7, tax_withheld_on_purchases = $8,
			previous_credit_balance = $9, adjustments = $10, adjustments_reason = $11,
			penalties = $12, interests = $13,
			total_debit_fiscal = $14, total_credit_fiscal = $15, total_credit_to_apply = $16,
			amount_to_pay = $17, credit_balance = $18, total_to_pay = $19,
			validated = $20, validation_errors = $21, rate_breakdown = $22,
			total_sales_transactions = $23, total_purchases_transactions = $24,
			electronic_invoices = $25, physical_invoices = $26,
			status = $27, filing_date = $28, filed_by = $29,
			exported_to_seniat = $30, document_xml = $31,
			payment_date = $32, payment_reference = $33, amount_paid = $34, notes = $35,
			updated_by = $36, updated_at = $37,
			version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		d.ID, d.Version,
		d.SalesBaseAmount, d.SalesTaxAmount,
		d.PurchasesBaseAmount, d.PurchasesTaxAmount,
		d.TaxWithheldOnSales, d.TaxWithheldOnPurchases,
		d.PreviousCreditBalance, d.Adjustments, nullIfEmpty(d.AdjustmentsReason),
		d.Penalties, d.Interests,
		d.TotalDebitFiscal, d.TotalCreditFiscal, d.TotalCreditToApply,
		d.AmountToPay, d.CreditBalance, d.TotalToPay,
		d.Validated, validationErrs, breakdown,
		d.TotalSalesTransactions, d.TotalPurchasesTransactions,
		d.ElectronicInvoices, d.PhysicalInvoices,
		d.Status, d.FilingDate, nullIfEmpty(d.FiledBy),
		d.ExportedToSENIAT, nullIfEmpty(d.DocumentXML),
		d.PaymentDate, nullIfEmpty(d.PaymentReference), d.AmountPaid, nullIfEmpty(d.Notes),
		nullIfEmpty(d.UpdatedBy), d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update declaración: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// O la fila no existe o la versión cambió; distinguirlo.
		var exists bool
		checkErr := r.q.QueryRow(context.Background(),
			`SELECT EXISTS(SELECT 1 FROM tax_declarations WHERE id = $1)`, d.ID).Scan(&exists)
		if checkErr == nil && !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	d.Version++
	return nil
}

// GetByID obtiene una declaración por ID dentro del tenant. (nil, nil) si no existe.
func (r *DeclarationRepo) GetByID(tenantID, id string) (*entity.TaxDeclaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM tax_declarations WHERE id = $1 AND tenant_id = $2`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id, tenantID))
}

// GetByPeriod obtiene la declaración del período. (nil, nil) si no existe.
func (r *DeclarationRepo) GetByPeriod(tenantID string, month, year int) (*entity.TaxDeclaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM tax_declarations
		WHERE tenant_id = $1 AND month = $2 AND year = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, tenantID, month, year))
}

// List lista declaraciones del tenant, más recientes primero, con filtros y
// paginación. Devuelve también el total sin paginar.
func (r *DeclarationRepo) List(tenantID string, f repository.DeclarationFilter) ([]*entity.TaxDeclaration, int, error) {
	where := `WHERE tenant_id = $1`
	args := []any{tenantID}
	if f.Year != 0 {
		args = append(args, f.Year)
		where += fmt.Sprintf(` AND year = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tax_declarations ` + where
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count declaraciones: %w", err)
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := `SELECT ` + declarationColumns + ` FROM tax_declarations ` + where +
		fmt.Sprintf(` ORDER BY year DESC, month DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list declaraciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.TaxDeclaration
	for rows.Next() {
		d, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterar declaraciones: %w", err)
	}
	return out, total, nil
}

// CountByNumberPrefix cuenta declaraciones cuyo número inicia con prefix.
func (r *DeclarationRepo) CountByNumberPrefix(tenantID, prefix string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tax_declarations WHERE tenant_id = $1 AND declaration_number LIKE $2 || '%'`,
		tenantID, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count por prefijo: %w", err)
	}
	return n, nil
}

// Delete elimina una declaración del tenant.
func (r *DeclarationRepo) Delete(tenantID, id string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM tax_declarations WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("delete declaración: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanOne escanea una fila completa. Acepta pgx.Row o pgx.Rows.
func (r *DeclarationRepo) scanOne(row pgx.Row) (*entity.TaxDeclaration, error) {
	var d entity.TaxDeclaration
	var adjustmentsReason, filedBy, documentXML, paymentReference, notes, createdBy, updatedBy *string
	var validationErrs, breakdown []byte

	err := row.Scan(
		&d.ID, &d.TenantID, &d.Month, &d.Year, &d.DeclarationNumber,
		&d.SalesBaseAmount, &d.SalesTaxAmount, &d.PurchasesBaseAmount, &d.PurchasesTaxAmount,
		&d.TaxWithheldOnSales, &d.TaxWithheldOnPurchases,
		&d.PreviousCreditBalance, &d.Adjustments, &adjustmentsReason, &d.Penalties, &d.Interests,
		&d.TotalDebitFiscal, &d.TotalCreditFiscal, &d.TotalCreditToApply,
		&d.AmountToPay, &d.CreditBalance, &d.TotalToPay,
		&d.Validated, &validationErrs, &breakdown,
		&d.TotalSalesTransactions, &d.TotalPurchasesTransactions, &d.ElectronicInvoices, &d.PhysicalInvoices,
		&d.Status, &d.FilingDate, &filedBy, &d.ExportedToSENIAT, &documentXML,
		&d.PaymentDate, &paymentReference, &d.AmountPaid, &notes,
		&createdBy, &updatedBy, &d.Version, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan declaración: %w", err)
	}

	d.AdjustmentsReason = derefStr(adjustmentsReason)
	d.FiledBy = derefStr(filedBy)
	d.DocumentXML = derefStr(documentXML)
	d.PaymentReference = derefStr(paymentReference)
	d.Notes = derefStr(notes)
	d.CreatedBy = derefStr(createdBy)
	d.UpdatedBy = derefStr(updatedBy)

	if len(validationErrs) > 0 {
		if err := json.Unmarshal(validationErrs, &d.ValidationErrors); err != nil {
			return nil, fmt.Errorf("decodificar validation_errors: %w", err)
		}
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &d.RateBreakdown); err != nil {
			return nil, fmt.Errorf("decodificar rate_breakdown: %w", err)
		}
	}
	return &d, nil
}

func marshalDiagnostics(d *entity.TaxDeclaration) (breakdown, validationErrs []byte, err error) {
	breakdown, err = json.Marshal(d.RateBreakdown)
	if err != nil {
		return nil, nil, fmt.Errorf("codificar rate_breakdown: %w", err)
	}
	validationErrs, err = json.Marshal(d.ValidationErrors)
	if err != nil {
		return nil, nil, fmt.Errorf("codificar validation_errors: %w", err)
	}
	return breakdown, validationErrs, nil
}
