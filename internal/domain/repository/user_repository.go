package repository

import "github.com/tu-usuario/fiscal-pro/internal/domain/entity"

// UserRepository puerto de persistencia de usuarios (auth del host).
type UserRepository interface {
	Create(u *entity.User) error
	// FindByEmail retorna (nil, nil) si no existe.
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndTenant(email, tenantID string) (*entity.User, error)
}
