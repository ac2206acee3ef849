package models

import "time"

// Role represents the two access levels of the system.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleSecretaria    Role = "Secretaria"
)

// AllowedRoles lists every role accepted on registration and user management.
var AllowedRoles = []Role{RoleAdministrador, RoleSecretaria}

// ValidRole reports whether the given role belongs to the allowed set.
func ValidRole(r Role) bool {
	for _, allowed := range AllowedRoles {
		if r == allowed {
			return true
		}
	}
	return false
}

// User is a staff login account stored in the usuarios table. Accounts are
// never hard-deleted, only toggled through the activo flag.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	FirstName    string    `db:"primer_nombre" json:"primer_nombre"`
	LastName     string    `db:"primer_apellido" json:"primer_apellido"`
	Role         Role      `db:"rol" json:"rol"`
	Active       bool      `db:"activo" json:"activo"`
	CreatedAt    time.Time `db:"fecha_creacion" json:"fecha_creacion"`
	UpdatedAt    time.Time `db:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"primer_nombre" validate:"required"`
	LastName  string `json:"primer_apellido" validate:"required"`
	Role      Role   `json:"rol" validate:"required"`
}

// UpdateUserRequest is a partial update; nil fields keep their stored values.
// A new password must come with a matching confirmation.
type UpdateUserRequest struct {
	Username        *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
	ConfirmPassword *string `json:"confirmar_password"`
	FirstName       *string `json:"primer_nombre"`
	LastName        *string `json:"primer_apellido"`
	Role            *Role   `json:"rol"`
}
