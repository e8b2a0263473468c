package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Guardas del ciclo de vida de la declaración.
	ErrDeclarationPaid      = errors.New("la declaración ya fue pagada y es inmutable")
	ErrDeclarationFiled     = errors.New("la declaración ya fue presentada")
	ErrDeclarationNotFiled  = errors.New("solo se puede pagar una declaración presentada")
	ErrValidationPending    = errors.New("la declaración tiene errores de validación sin resolver")
	ErrInsufficientPayment  = errors.New("el monto pagado es menor al total a pagar")
	ErrDocumentNotGenerated = errors.New("la declaración no tiene documento generado")
)
