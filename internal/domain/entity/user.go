package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin    = "admin"
	RoleContador = "contador"
	RoleConsulta = "consulta"
)

// User usuario del sistema (el motor solo lo usa para login y auditoría).
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
