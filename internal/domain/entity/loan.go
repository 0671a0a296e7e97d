package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// LoanStatus estado de un préstamo. Única transición válida: Outstanding -> Returned.
type LoanStatus string

const (
	LoanOutstanding LoanStatus = "outstanding"
	LoanReturned    LoanStatus = "returned"
)

// Categorías de prestatario.
const (
	BorrowerCitizen     = "citizen"
	BorrowerInstitution = "institution"
)

// Borrower datos de identidad del prestatario.
type Borrower struct {
	IDNumber string // exactamente 16 dígitos
	Name     string
	Category string
	Phone    string // al menos 10 dígitos
	Address  string
}

// Label texto usado en los movimientos espejo: "Nombre (categoría)".
func (b Borrower) Label() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Category)
}

// LoanRecord representa un préstamo. Mientras está Outstanding, Quantity está descontada
// de Item.StockOnHand (espejada por OutboundID); una vez Returned se repuso exactamente una vez.
type LoanRecord struct {
	ID         string
	ItemID     string
	Borrower   Borrower
	Quantity   int
	LoanDate   time.Time
	Status     LoanStatus
	OutboundID string // salida espejo creada con el préstamo
	InboundID  string // entrada espejo creada al devolver
	ReturnedAt *time.Time
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsOutstanding informa si el préstamo aún no se ha devuelto.
func (l *LoanRecord) IsOutstanding() bool {
	return l.Status == LoanOutstanding
}

// MarkReturned aplica la transición Outstanding -> Returned. Cualquier otro estado de origen
// es rechazado; nunca se repone stock dos veces.
func (l *LoanRecord) MarkReturned(at time.Time) error {
	if l.Status != LoanOutstanding {
		return errLoanTransition(l.Status)
	}
	l.Status = LoanReturned
	l.ReturnedAt = &at
	l.UpdatedAt = at
	return nil
}

// ParseLoanStatus valida un estado recibido desde fuera (filtros, base de datos).
func ParseLoanStatus(s string) (LoanStatus, bool) {
	switch LoanStatus(s) {
	case LoanOutstanding:
		return LoanOutstanding, true
	case LoanReturned:
		return LoanReturned, true
	}
	return "", false
}

// ValidBorrowerCategory informa si c es una categoría de prestatario conocida.
func ValidBorrowerCategory(c string) bool {
	return c == BorrowerCitizen || c == BorrowerInstitution
}

func errLoanTransition(from LoanStatus) error {
	if from == LoanReturned {
		return domain.ErrLoanAlreadyReturned
	}
	return fmt.Errorf("%w: estado %q", domain.ErrConflict, from)
}
