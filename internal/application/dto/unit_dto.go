package dto

import "time"

// CreateUnitRequest entrada para registrar una unidad de medida.
type CreateUnitRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
