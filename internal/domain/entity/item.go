package entity

import "time"

// Categorías de stock (informativas, no afectan la aritmética).
const (
	StockCategoryRegular = "regular"
	StockCategoryMonthly = "monthly" // consumible mensual
)

// Item representa un artículo del catálogo. StockOnHand es el agregado materializado
// de sus movimientos (entradas - salidas); solo la edición manual lo sobrescribe.
type Item struct {
	ID            string
	Name          string
	NameKey       string // nombre normalizado para unicidad (ver inventory.NameKey)
	StockOnHand   int
	UnitOfMeasure string
	StockCategory string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidStockCategory informa si c es una categoría conocida.
func ValidStockCategory(c string) bool {
	return c == StockCategoryRegular || c == StockCategoryMonthly
}
