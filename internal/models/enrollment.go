package models

import "time"

// EnrollmentStatus is the two-value lifecycle of a matrícula.
type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "Activo"
	EnrollmentInactive EnrollmentStatus = "Inactivo"
)

// ValidEnrollmentStatus reports whether the status is one of the two values.
func ValidEnrollmentStatus(s EnrollmentStatus) bool {
	return s == EnrollmentActive || s == EnrollmentInactive
}

// Enrollment registers a student into a section for an academic year
// (matriculas). At most one enrollment per (student, academic year); the
// level/grade hierarchy is derived from the section, never stored.
type Enrollment struct {
	ID           int64            `db:"id" json:"id"`
	StudentID    int64            `db:"estudiante_id" json:"estudiante_id"`
	SectionID    int64            `db:"seccion_id" json:"seccion_id"`
	AcademicYear int              `db:"anio_academico" json:"anio_academico"`
	Date         time.Time        `db:"fecha_matricula" json:"fecha_matricula"`
	Status       EnrollmentStatus `db:"estado" json:"estado"`
}

// EnrollmentDetail joins student and hierarchy names for listings.
type EnrollmentDetail struct {
	Enrollment
	StudentFirstName string `db:"estudiante_primer_nombre" json:"estudiante_primer_nombre"`
	StudentLastName  string `db:"estudiante_primer_apellido" json:"estudiante_primer_apellido"`
	LevelName        string `db:"nombre_nivel" json:"nombre_nivel"`
	GradeName        string `db:"nombre_grado" json:"nombre_grado"`
	SectionName      string `db:"nombre_seccion" json:"nombre_seccion"`
}

// CreateEnrollmentRequest registers a student into a section. The date is
// optional and defaults to today.
type CreateEnrollmentRequest struct {
	StudentID    int64            `json:"estudiante_id" validate:"required,gt=0"`
	SectionID    int64            `json:"seccion_id" validate:"required,gt=0"`
	AcademicYear int              `json:"anio_academico" validate:"required,gt=0"`
	Date         *string          `json:"fecha_matricula" validate:"omitempty,datetime=2006-01-02"`
	Status       EnrollmentStatus `json:"estado" validate:"required"`
}

// UpdateEnrollmentRequest is a partial update; nil fields keep their stored
// values.
type UpdateEnrollmentRequest struct {
	SectionID    *int64            `json:"seccion_id" validate:"omitempty,gt=0"`
	AcademicYear *int              `json:"anio_academico" validate:"omitempty,gt=0"`
	Date         *string           `json:"fecha_matricula" validate:"omitempty,datetime=2006-01-02"`
	Status       *EnrollmentStatus `json:"estado"`
}

// EnrollmentFilter narrows enrollment listings.
type EnrollmentFilter struct {
	StudentID    int64
	AcademicYear int
}
