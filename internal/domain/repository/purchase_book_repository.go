package repository

import "github.com/tu-usuario/fiscal-pro/internal/domain/entity"

// PurchaseBookRepository puerto de persistencia del libro de compras.
// El motor de declaraciones solo lee; la captura de entradas pertenece al
// subsistema de compras.
type PurchaseBookRepository interface {
	ListByPeriod(tenantID string, month, year int) ([]*entity.PurchaseBookEntry, error)
}
