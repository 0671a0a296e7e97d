package entity

import "time"

// Unit unidad de medida de la lista de referencia (pcs, box, kg...).
type Unit struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
