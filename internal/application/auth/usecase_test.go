package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	pkgjwt "github.com/tu-usuario/fiscal-pro/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users []*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.users = append(f.users, u)
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailAndTenant(email, tenantID string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.TenantID == tenantID {
			return u, nil
		}
	}
	return nil, nil
}

var testJWT = JWTConfig{Secret: "secret-para-tests", ExpMinutes: 60, Issuer: "fiscal-pro-test"}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaPasswordYRolPorDefecto(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewAuthUseCase(repo, testJWT)

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "contador@empresa.com",
		Password: "clave-segura-123",
		TenantID: "tenant-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RoleConsulta, out.Role, "sin rol explícito el usuario queda en consulta")
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, "contador@empresa.com", out.Name, "sin nombre se usa el email")

	require.Len(t, repo.users, 1)
	stored := repo.users[0]
	assert.NotEqual(t, "clave-segura-123", stored.PasswordHash, "la password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-segura-123")))
}

func TestRegisterUser_EmailDuplicadoEnTenant(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "a@b.com", Password: "clave-segura-123", TenantID: "tenant-1",
	})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email: "a@b.com", Password: "otra-clave-456", TenantID: "tenant-1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	// El mismo email en otro tenant es válido.
	_, err = uc.RegisterUser(dto.RegisterRequest{
		Email: "a@b.com", Password: "otra-clave-456", TenantID: "tenant-2",
	})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConClaims(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "admin@empresa.com", Password: "clave-segura-123", TenantID: "tenant-1", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "admin@empresa.com", Password: "clave-segura-123"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	userID, tenantID, role, err := pkgjwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, "tenant-1", tenantID)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "user@empresa.com", Password: "clave-segura-123", TenantID: "tenant-1",
	})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "user@empresa.com", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@empresa.com", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_CuentaInactiva(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewAuthUseCase(repo, testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "baja@empresa.com", Password: "clave-segura-123", TenantID: "tenant-1",
	})
	require.NoError(t, err)
	repo.users[0].Status = "disabled"

	_, err = uc.Login(dto.LoginRequest{Email: "baja@empresa.com", Password: "clave-segura-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
