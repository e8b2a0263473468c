package repository

import (
	"time"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// SalesBookRepository puerto de persistencia del libro de ventas.
type SalesBookRepository interface {
	Create(e *entity.SalesBookEntry) error
	// ListByPeriod lista entradas confirmadas o exportadas del período,
	// ordenadas por fecha de operación y número de factura.
	ListByPeriod(tenantID string, month, year int) ([]*entity.SalesBookEntry, error)
	// FindByBillingRef busca por referencia al documento de facturación o por
	// número de factura (clave de idempotencia de la reconciliación).
	// Retorna (nil, nil) si no existe.
	FindByBillingRef(tenantID, billingDocumentID, invoiceNumber string) (*entity.SalesBookEntry, error)
	// MarkExported marca entradas como exportadas a SENIAT.
	MarkExported(tenantID string, ids []string, exportDate time.Time) error
}
