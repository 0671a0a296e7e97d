package dto

import "time"

// CreateInboundRequest body para POST /api/inbound.
type CreateInboundRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	ReceivedAt   string `json:"received_at" validate:"required,datetime=2006-01-02"`
	SourceKind   string `json:"source_kind" validate:"required,oneof=purchase gift other"`
	SourceDetail string `json:"source_detail" validate:"max=200"` // obligatorio para gift y other
}

// UpdateInboundRequest body para PUT /api/inbound/:id.
type UpdateInboundRequest struct {
	Quantity     int    `json:"quantity" validate:"gt=0"`
	ReceivedAt   string `json:"received_at" validate:"required,datetime=2006-01-02"`
	SourceKind   string `json:"source_kind" validate:"required,oneof=purchase gift other initial_stock"`
	SourceDetail string `json:"source_detail" validate:"max=200"`
}

// InboundResponse salida de una entrada de stock.
type InboundResponse struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"item_id"`
	Quantity   int       `json:"quantity"`
	ReceivedAt string    `json:"received_at"`
	Source     string    `json:"source"`
	LoanID     string    `json:"loan_id,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateOutboundRequest body para POST /api/outbound.
type CreateOutboundRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	IssuedAt     string `json:"issued_at" validate:"required,datetime=2006-01-02"`
	ReasonKind   string `json:"reason_kind" validate:"required,oneof=consumed given_to damaged expired other"`
	ReasonDetail string `json:"reason_detail" validate:"max=200"` // obligatorio para given_to y other
}

// UpdateOutboundRequest body para PUT /api/outbound/:id. ItemID vacío = mismo artículo.
type UpdateOutboundRequest struct {
	ItemID       string `json:"item_id" validate:"omitempty,uuid"`
	Quantity     int    `json:"quantity" validate:"gt=0"`
	IssuedAt     string `json:"issued_at" validate:"required,datetime=2006-01-02"`
	ReasonKind   string `json:"reason_kind" validate:"required,oneof=consumed given_to damaged expired other"`
	ReasonDetail string `json:"reason_detail" validate:"max=200"`
}

// OutboundResponse salida de una salida de stock.
type OutboundResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	IssuedAt  string    `json:"issued_at"`
	Reason    string    `json:"reason"`
	LoanID    string    `json:"loan_id,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InboundListResponse lista paginada de entradas.
type InboundListResponse struct {
	Items []InboundResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// OutboundListResponse lista paginada de salidas.
type OutboundListResponse struct {
	Items []OutboundResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
