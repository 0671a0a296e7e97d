package entity

import (
	"fmt"
	"time"
)

// Orígenes de una entrada de stock.
const (
	InboundSourcePurchase     = "purchase"
	InboundSourceGift         = "gift"
	InboundSourceOther        = "other"
	InboundSourceInitialStock = "initial_stock"
	InboundSourceLoanReturn   = "loan_return"
)

// InboundEntry representa una entrada de stock (compra, donación, stock inicial, devolución).
// Mientras exista, Item.StockOnHand refleja Quantity exactamente una vez.
type InboundEntry struct {
	ID         string
	ItemID     string
	Quantity   int
	ReceivedAt time.Time
	Source     string // texto libre compuesto con FormatInboundSource
	LoanID     string // préstamo que originó la entrada (devolución); vacío si no aplica
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FormatInboundSource compone el texto del origen. detail aplica a gift, other y loan_return.
func FormatInboundSource(kind, detail string) (string, error) {
	switch kind {
	case InboundSourcePurchase:
		return "Compra", nil
	case InboundSourceInitialStock:
		return "Stock inicial", nil
	case InboundSourceGift:
		if detail == "" {
			return "", fmt.Errorf("origen %q requiere detalle", kind)
		}
		return "Donación: " + detail, nil
	case InboundSourceOther:
		if detail == "" {
			return "", fmt.Errorf("origen %q requiere detalle", kind)
		}
		return "Otro: " + detail, nil
	case InboundSourceLoanReturn:
		return "Devuelto por " + detail, nil
	}
	return "", fmt.Errorf("origen desconocido %q", kind)
}
