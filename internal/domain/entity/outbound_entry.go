package entity

import (
	"fmt"
	"time"
)

// Motivos de una salida de stock.
const (
	OutboundReasonConsumed = "consumed"
	OutboundReasonGivenTo  = "given_to"
	OutboundReasonDamaged  = "damaged"
	OutboundReasonExpired  = "expired"
	OutboundReasonOther    = "other"
	OutboundReasonLoanedTo = "loaned_to"
)

// OutboundEntry representa una salida de stock. Mientras exista, Item.StockOnHand
// fue decrementado por Quantity exactamente una vez.
type OutboundEntry struct {
	ID        string
	ItemID    string
	Quantity  int
	IssuedAt  time.Time
	Reason    string // texto libre compuesto con FormatOutboundReason
	LoanID    string // préstamo espejado por esta salida; vacío si no aplica
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FormatOutboundReason compone el texto del motivo. detail aplica a given_to, other y loaned_to.
func FormatOutboundReason(kind, detail string) (string, error) {
	switch kind {
	case OutboundReasonConsumed:
		return "Consumido", nil
	case OutboundReasonDamaged:
		return "Dañado", nil
	case OutboundReasonExpired:
		return "Vencido", nil
	case OutboundReasonGivenTo:
		if detail == "" {
			return "", fmt.Errorf("motivo %q requiere detalle", kind)
		}
		return "Entregado a " + detail, nil
	case OutboundReasonOther:
		if detail == "" {
			return "", fmt.Errorf("motivo %q requiere detalle", kind)
		}
		return "Otro: " + detail, nil
	case OutboundReasonLoanedTo:
		return "Prestado a " + detail, nil
	}
	return "", fmt.Errorf("motivo desconocido %q", kind)
}
