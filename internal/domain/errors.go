package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrUsernameTaken        = errors.New("el nombre de usuario ya está registrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrReversalExceedsStock = errors.New("stock insuficiente para revertir la entrada")
	ErrLoanAlreadyReturned  = errors.New("el préstamo ya fue devuelto")
	ErrManagedByLoan        = errors.New("el movimiento pertenece a un préstamo; modifíquelo desde el préstamo")
	ErrUnitInUse            = errors.New("la unidad está asignada a uno o más artículos")
	ErrLastAdmin            = errors.New("no se puede desactivar al último administrador")
)

// conflictErrors son violaciones de reglas de negocio dado el estado actual.
var conflictErrors = []error{
	ErrConflict,
	ErrDuplicate,
	ErrUsernameTaken,
	ErrInsufficientStock,
	ErrReversalExceedsStock,
	ErrLoanAlreadyReturned,
	ErrManagedByLoan,
	ErrUnitInUse,
	ErrLastAdmin,
}

// IsConflict informa si err es un error de regla de negocio (se reporta como mensaje único al cliente).
func IsConflict(err error) bool {
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ValidationError agrupa errores de formato por campo. Se devuelve antes de tocar la base de datos.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError crea un ValidationError vacío.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add registra un mensaje para el campo indicado.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors indica si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil devuelve nil si no hay errores; útil al final de una validación manual.
func (e *ValidationError) OrNil() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return ErrInvalidInput.Error() + ": " + strings.Join(fields, ", ")
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// AsValidation extrae el ValidationError de la cadena de err, si existe.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
