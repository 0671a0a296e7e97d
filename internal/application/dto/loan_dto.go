package dto

import "time"

// BorrowerDTO datos del prestatario.
type BorrowerDTO struct {
	IDNumber string `json:"id_number" validate:"required,len=16,digits"`
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,oneof=citizen institution"`
	Phone    string `json:"phone" validate:"required,min=10,max=20,digits"`
	Address  string `json:"address" validate:"required,max=500"`
}

// CreateLoanRequest body para POST /api/loans.
type CreateLoanRequest struct {
	Borrower BorrowerDTO `json:"borrower"`
	ItemID   string      `json:"item_id" validate:"required,uuid"`
	Quantity int         `json:"quantity" validate:"gt=0"`
	LoanDate string      `json:"loan_date" validate:"required,datetime=2006-01-02"`
}

// UpdateLoanRequest body para PUT /api/loans/:id. ItemID vacío = mismo artículo.
type UpdateLoanRequest struct {
	Borrower BorrowerDTO `json:"borrower"`
	ItemID   string      `json:"item_id" validate:"omitempty,uuid"`
	Quantity int         `json:"quantity" validate:"gt=0"`
	LoanDate string      `json:"loan_date" validate:"required,datetime=2006-01-02"`
}

// LoanResponse salida de un préstamo.
type LoanResponse struct {
	ID         string      `json:"id"`
	ItemID     string      `json:"item_id"`
	Borrower   BorrowerDTO `json:"borrower"`
	Quantity   int         `json:"quantity"`
	LoanDate   string      `json:"loan_date"`
	Status     string      `json:"status"`
	OutboundID string      `json:"outbound_id,omitempty"`
	InboundID  string      `json:"inbound_id,omitempty"`
	ReturnedAt *time.Time  `json:"returned_at,omitempty"`
	CreatedBy  string      `json:"created_by,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// LoanListResponse lista paginada de préstamos.
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
