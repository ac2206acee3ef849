package models

import "time"

// Student is a learner registered in the estudiantes table. Students are
// hard-deleted; the schema cascades the delete onto their enrollments.
type Student struct {
	ID             int64     `db:"id" json:"id"`
	FirstName      string    `db:"primer_nombre" json:"primer_nombre"`
	MiddleName     *string   `db:"segundo_nombre" json:"segundo_nombre,omitempty"`
	LastName       string    `db:"primer_apellido" json:"primer_apellido"`
	SecondLastName *string   `db:"segundo_apellido" json:"segundo_apellido,omitempty"`
	BirthDate      time.Time `db:"fecha_nacimiento" json:"fecha_nacimiento"`
	Gender         string    `db:"genero" json:"genero"`
	Identification string    `db:"numero_identificacion" json:"numero_identificacion"`
	Address        *string   `db:"direccion" json:"direccion,omitempty"`
	Phone          *string   `db:"telefono" json:"telefono,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	CreatedAt      time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// StudentRequest is the payload for creating or replacing a student. The
// birth date travels as YYYY-MM-DD and is parsed by the service.
type StudentRequest struct {
	FirstName      string  `json:"primer_nombre" validate:"required"`
	MiddleName     *string `json:"segundo_nombre"`
	LastName       string  `json:"primer_apellido" validate:"required"`
	SecondLastName *string `json:"segundo_apellido"`
	BirthDate      string  `json:"fecha_nacimiento" validate:"required,datetime=2006-01-02"`
	Gender         string  `json:"genero" validate:"required"`
	Identification string  `json:"numero_identificacion" validate:"required"`
	Address        *string `json:"direccion"`
	Phone          *string `json:"telefono"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

// AttachGuardianRequest links an existing guardian to a student.
type AttachGuardianRequest struct {
	GuardianID int64 `json:"responsable_id" validate:"required,gt=0"`
}

// StudentDetail enriches a Student with its active enrollment context,
// resolved through the section → grade → level hierarchy.
type StudentDetail struct {
	Student
	EnrollmentID     *int64  `db:"matricula_id" json:"matricula_id,omitempty"`
	AcademicYear     *int    `db:"anio_academico" json:"anio_academico,omitempty"`
	EnrollmentStatus *string `db:"estado_matricula" json:"estado_matricula,omitempty"`
	SectionName      *string `db:"nombre_seccion" json:"nombre_seccion,omitempty"`
	GradeName        *string `db:"nombre_grado" json:"nombre_grado,omitempty"`
	LevelName        *string `db:"nombre_nivel" json:"nombre_nivel,omitempty"`
}
