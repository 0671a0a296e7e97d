package dto

import (
	"fmt"
	"time"
)

// DateLayout formato de fechas de negocio (recepción, salida, préstamo).
const DateLayout = "2006-01-02"

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP (fallos de transporte y de autenticación).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MutationResult forma uniforme de respuesta para toda mutación del libro de stock.
// FieldErrors solo aparece en errores de validación; Message lleva los errores de negocio.
type MutationResult struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
	Data        any                 `json:"data,omitempty"`
}

// ParseDate interpreta una fecha AAAA-MM-DD (ya validada con el tag datetime).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha inválida %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formatea una fecha de negocio para las respuestas.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
