package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: fila referenciada por otra tabla.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// nullable convierte "" en NULL para columnas uuid opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref inverso de nullable al escanear.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isInvalidText 22P02: el valor no es válido para el tipo (p. ej. un ID que no es uuid).
// Las búsquedas por ID lo tratan como "no existe".
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
