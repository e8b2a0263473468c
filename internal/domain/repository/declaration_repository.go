package repository

import "github.com/tu-usuario/fiscal-pro/internal/domain/entity"

// DeclarationFilter filtros de listado de declaraciones.
type DeclarationFilter struct {
	Year   int    // 0 = sin filtro
	Status string // vacío = sin filtro
	Page   int
	Limit  int
}

// DeclarationRepository puerto de persistencia de TaxDeclaration.
// El motor es el único escritor de esta tabla.
type DeclarationRepository interface {
	Create(d *entity.TaxDeclaration) error
	// Update reemplaza el snapshot completo de forma condicional: la escritura
	// solo aplica si la versión persistida coincide con d.Version; en ese caso
	// incrementa la versión. Retorna domain.ErrConflict si otro escritor ganó.
	Update(d *entity.TaxDeclaration) error
	// GetByID retorna (nil, nil) si no existe.
	GetByID(tenantID, id string) (*entity.TaxDeclaration, error)
	// GetByPeriod retorna (nil, nil) si no hay declaración para el período.
	GetByPeriod(tenantID string, month, year int) (*entity.TaxDeclaration, error)
	List(tenantID string, f DeclarationFilter) ([]*entity.TaxDeclaration, int, error)
	// CountByNumberPrefix cuenta declaraciones cuyo número inicia con prefix
	// (para asignar el secuencial del número de declaración).
	CountByNumberPrefix(tenantID, prefix string) (int, error)
	Delete(tenantID, id string) error
}
