package books

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

// Resultados por documento de una corrida de conciliación.
const (
	OutcomeCreated  = "created"
	OutcomeExisting = "existing"
	OutcomeFailed   = "failed"
)

// Reconciler sincroniza el libro de ventas desde el subsistema de
// facturación. Es idempotente: cada documento emitido produce a lo sumo una
// entrada del libro, identificada por la referencia al documento o, en su
// defecto, por el número de factura.
type Reconciler struct {
	billingRepo repository.BillingDocumentRepository
	salesRepo   repository.SalesBookRepository
}

// NewReconciler construye el conciliador del libro de ventas.
func NewReconciler(billingRepo repository.BillingDocumentRepository, salesRepo repository.SalesBookRepository) *Reconciler {
	return &Reconciler{billingRepo: billingRepo, salesRepo: salesRepo}
}

// Reconcile recorre los documentos emitidos legalmente en el período y crea
// las entradas del libro de ventas que falten. Un documento que falla se
// registra en el reporte y no detiene el resto de la corrida: la conciliación
// siempre avanza lo máximo posible.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID string, month, year int, actor string) (*dto.ReconcileReportResponse, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	docs, err := r.billingRepo.ListFinalizedByPeriod(tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listar documentos de facturación %02d/%d: %w", month, year, err)
	}

	report := &dto.ReconcileReportResponse{Month: month, Year: year}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Las cotizaciones y notas de entrega no son documentos emitidos
		// legalmente aunque el repositorio los devolviera.
		if doc.Type == entity.BillingDocTypeQuote || doc.Type == entity.BillingDocTypeDeliveryNote {
			continue
		}

		item := dto.ReconcileItemResult{
			BillingDocumentID: doc.ID,
			InvoiceNumber:     doc.DocumentNumber,
		}

		existing, err := r.salesRepo.FindByBillingRef(tenantID, doc.ID, doc.DocumentNumber)
		if err != nil {
			item.Outcome = OutcomeFailed
			item.Error = err.Error()
			report.Failed++
			report.Items = append(report.Items, item)
			log.Printf("[CONCILIACION][%s] documento %s: error consultando libro: %v", tenantID, doc.ID, err)
			continue
		}
		if existing != nil {
			item.Outcome = OutcomeExisting
			report.Existing++
			report.Items = append(report.Items, item)
			continue
		}

		entry := entryFromBillingDocument(doc, month, year, actor)
		if err := r.salesRepo.Create(entry); err != nil {
			item.Outcome = OutcomeFailed
			item.Error = err.Error()
			report.Failed++
			report.Items = append(report.Items, item)
			log.Printf("[CONCILIACION][%s] documento %s: error creando entrada: %v", tenantID, doc.ID, err)
			continue
		}

		item.Outcome = OutcomeCreated
		report.Created++
		report.Items = append(report.Items, item)
	}

	log.Printf("[CONCILIACION][%s] período %02d/%d: %d creadas, %d existentes, %d fallidas",
		tenantID, month, year, report.Created, report.Existing, report.Failed)
	return report, nil
}

// entryFromBillingDocument proyecta un documento de facturación a una entrada
// del libro de ventas. El total del documento es bruto; el del libro queda
// neto de retención.
func entryFromBillingDocument(doc *entity.BillingDocument, month, year int, actor string) *entity.SalesBookEntry {
	now := time.Now()
	return &entity.SalesBookEntry{
		ID:       uuid.New().String(),
		TenantID: doc.TenantID,
		Month:    month,
		Year:     year,

		OperationDate: doc.IssueDate,

		CustomerID:      doc.CustomerID,
		CustomerName:    doc.CustomerName,
		CustomerRIF:     doc.CustomerTaxID,
		CustomerAddress: doc.CustomerAddress,

		InvoiceNumber:        doc.DocumentNumber,
		InvoiceControlNumber: doc.ControlNumber,
		InvoiceDate:          doc.IssueDate,
		TransactionType:      transactionTypeFor(doc.Type),

		BaseAmount:             doc.Subtotal,
		TaxRate:                doc.TaxRate,
		TaxAmount:              doc.TaxAmount,
		WithheldTaxAmount:      doc.WithheldTaxAmount,
		WithholdingCertificate: doc.WithholdingCertificate,
		TotalAmount:            doc.GrandTotal.Sub(doc.WithheldTaxAmount),

		IsElectronic: doc.IsElectronic,

		BillingDocumentID: doc.ID,

		Status: entity.BookEntryStatusConfirmed,

		CreatedBy: actor,
		UpdatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func transactionTypeFor(docType string) string {
	switch docType {
	case entity.BillingDocTypeCreditNote:
		return entity.TransactionTypeCreditNote
	case entity.BillingDocTypeDebitNote:
		return entity.TransactionTypeDebitNote
	default:
		return entity.TransactionTypeSale
	}
}
