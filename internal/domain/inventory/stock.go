package inventory

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// ApplyDelta suma delta al stock actual (delta negativo = salida).
// Nunca devuelve stock negativo: en ese caso responde ErrInsufficientStock.
func ApplyDelta(stock, delta int) (int, error) {
	next := stock + delta
	if next < 0 {
		return stock, fmt.Errorf("%w: disponible %d, requerido %d", domain.ErrInsufficientStock, stock, -delta)
	}
	return next, nil
}

// Issue descuenta qty del stock (salida o préstamo).
func Issue(stock, qty int) (int, error) {
	return ApplyDelta(stock, -qty)
}

// Restore repone qty al stock (borrado de salida, devolución). Nunca falla.
func Restore(stock, qty int) int {
	return stock + qty
}

// ReverseInbound retira el efecto de una entrada de qty unidades. Si el stock actual
// es menor que qty la reversión dejaría stock negativo: ErrReversalExceedsStock.
func ReverseInbound(stock, qty int) (int, error) {
	if stock < qty {
		return stock, fmt.Errorf("%w: disponible %d, entrada %d", domain.ErrReversalExceedsStock, stock, qty)
	}
	return stock - qty, nil
}

// Drift diferencia entre el stock almacenado y el recalculado desde el historial.
type Drift struct {
	ItemID        string
	ItemName      string
	StoredStock   int
	InboundTotal  int
	OutboundTotal int
}

// ExpectedStock stock que corresponde al historial: entradas - salidas.
// Los préstamos pendientes ya están incluidos vía su salida espejo.
func (d Drift) ExpectedStock() int {
	return d.InboundTotal - d.OutboundTotal
}

// Delta stock almacenado menos stock esperado; 0 si el artículo está consistente.
func (d Drift) Delta() int {
	return d.StoredStock - d.ExpectedStock()
}

// Consistent informa si el stock almacenado coincide con el historial.
func (d Drift) Consistent() bool {
	return d.Delta() == 0
}

// NameKey normaliza un nombre de artículo para la comparación de unicidad:
// NFC, sin distinción de mayúsculas y con espacios colapsados.
func NameKey(name string) string {
	n := norm.NFC.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(cases.Fold().String(n)), " ")
}
