package repository

import "github.com/tu-usuario/fiscal-pro/internal/domain/entity"

// TaxSettingRepository puerto de persistencia del catálogo de impuestos.
type TaxSettingRepository interface {
	Create(s *entity.TaxSetting) error
	// ListActive lista configuraciones activas; taxType vacío = todas.
	ListActive(tenantID, taxType string) ([]*entity.TaxSetting, error)
	// FindByCode retorna (nil, nil) si no existe.
	FindByCode(tenantID, code string) (*entity.TaxSetting, error)
	CountByTenant(tenantID string) (int, error)
}
