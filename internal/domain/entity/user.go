package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole informa si r es un rol conocido.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleStaff
}

// Actor identidad del llamador, provista por el middleware de autenticación.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin informa si el actor tiene rol admin.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsAuthenticated informa si el actor tiene identidad y un rol válido.
func (a Actor) IsAuthenticated() bool { return a.UserID != "" && ValidRole(a.Role) }
