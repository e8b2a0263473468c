package repository

import (
	"time"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// BillingDocumentRepository acceso de solo lectura a los documentos del
// subsistema de facturación (fuente autorizada para la reconciliación).
type BillingDocumentRepository interface {
	// ListFinalizedByPeriod retorna documentos emitidos legalmente (estados en
	// entity.BillingDocFinalStatuses, cotizaciones excluidas) cuya fecha de
	// emisión cae en [from, to].
	ListFinalizedByPeriod(tenantID string, from, to time.Time) ([]*entity.BillingDocument, error)
}
