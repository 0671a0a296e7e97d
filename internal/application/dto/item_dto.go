package dto

import "time"

// CreateItemRequest entrada para crear un artículo. InitialStock > 0 genera una entrada "Stock inicial".
type CreateItemRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	InitialStock  int    `json:"initial_stock" validate:"gte=0"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"required,max=50"`
	StockCategory string `json:"stock_category" validate:"required,oneof=regular monthly"`
	ReceivedAt    string `json:"received_at" validate:"omitempty,datetime=2006-01-02"` // fecha del stock inicial; vacío = hoy
}

// UpdateItemRequest edición directa (corrección manual): sobrescribe StockOnHand sin pasar por el libro.
type UpdateItemRequest struct {
	Name          string `json:"name" validate:"required,max=200"`
	StockOnHand   int    `json:"stock_on_hand" validate:"gte=0"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"required,max=50"`
	StockCategory string `json:"stock_category" validate:"required,oneof=regular monthly"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StockOnHand   int       `json:"stock_on_hand"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	StockCategory string    `json:"stock_category"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
