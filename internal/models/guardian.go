package models

import "time"

// Guardian (responsable) is a person linked to one or more students. It is not
// a system user. numero_identificacion and email are unique across guardians.
type Guardian struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"primer_nombre" json:"primer_nombre"`
	MiddleName     *string   `db:"segundo_nombre" json:"segundo_nombre,omitempty"`
	LastName       string    `db:"primer_apellido" json:"primer_apellido"`
	SecondLastName *string   `db:"segundo_apellido" json:"segundo_apellido,omitempty"`
	Identification string    `db:"numero_identificacion" json:"numero_identificacion"`
	Address        *string   `db:"direccion" json:"direccion,omitempty"`
	Phone          *string   `db:"telefono" json:"telefono,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Relationship   string    `db:"parentesco" json:"parentesco"`
	CreatedAt      time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// GuardianRequest is the payload for creating or replacing a guardian.
type GuardianRequest struct {
	FirstName      string  `json:"primer_nombre" validate:"required"`
	MiddleName     *string `json:"segundo_nombre"`
	LastName       string  `json:"primer_apellido" validate:"required"`
	SecondLastName *string `json:"segundo_apellido"`
	Identification string  `json:"numero_identificacion" validate:"required"`
	Address        *string `json:"direccion"`
	Phone          *string `json:"telefono"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Relationship   string  `json:"parentesco" validate:"required"`
}
