package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

var _ repository.BillingDocumentRepository = (*BillingDocumentRepo)(nil)

// BillingDocumentRepo acceso de solo lectura a la tabla del subsistema de
// facturación. El motor nunca escribe aquí.
type BillingDocumentRepo struct {
	q Querier
}

// NewBillingDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillingDocumentRepository(q Querier) *BillingDocumentRepo {
	return &BillingDocumentRepo{q: q}
}

// ListFinalizedByPeriod retorna documentos emitidos legalmente en [from, to].
// Cotizaciones y notas de entrega quedan fuera por tipo; borradores y
// anulados, por estado.
func (r *BillingDocumentRepo) ListFinalizedByPeriod(tenantID string, from, to time.Time) ([]*entity.BillingDocument, error) {
	query := `
		SELECT id, tenant_id, type, document_number, control_number, issue_date, status,
		       customer_id, customer_name, customer_tax_id, customer_address,
		       subtotal, tax_rate, tax_amount, withheld_tax_amount, withholding_certificate, grand_total,
		       currency_code, payment_method, is_electronic
		FROM billing_documents
		WHERE tenant_id = $1
		  AND issue_date BETWEEN $2 AND $3
		  AND type NOT IN ($4, $5)
		  AND status = ANY($6)
		ORDER BY issue_date, document_number`
	rows, err := r.q.Query(context.Background(), query,
		tenantID, from, to,
		entity.BillingDocTypeQuote, entity.BillingDocTypeDeliveryNote,
		entity.BillingDocFinalStatuses,
	)
	if err != nil {
		return nil, fmt.Errorf("list documentos de facturación: %w", err)
	}
	defer rows.Close()

	var out []*entity.BillingDocument
	for rows.Next() {
		var d entity.BillingDocument
		var controlNumber, customerID, customerAddress, withholdingCert, currencyCode, paymentMethod *string
		err := rows.Scan(
			&d.ID, &d.TenantID, &d.Type, &d.DocumentNumber, &controlNumber, &d.IssueDate, &d.Status,
			&customerID, &d.CustomerName, &d.CustomerTaxID, &customerAddress,
			&d.Subtotal, &d.TaxRate, &d.TaxAmount, &d.WithheldTaxAmount, &withholdingCert, &d.GrandTotal,
			&currencyCode, &paymentMethod, &d.IsElectronic,
		)
		if err != nil {
			return nil, fmt.Errorf("scan documento de facturación: %w", err)
		}
		d.ControlNumber = derefStr(controlNumber)
		d.CustomerID = derefStr(customerID)
		d.CustomerAddress = derefStr(customerAddress)
		d.WithholdingCertificate = derefStr(withholdingCert)
		d.CurrencyCode = derefStr(currencyCode)
		d.PaymentMethod = derefStr(paymentMethod)
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar documentos de facturación: %w", err)
	}
	return out, nil
}
