package models

// Level is a top-level education level (niveles_educativos).
type Level struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"nombre" json:"nombre"`
}

// Grade belongs to a level (grados). LevelName is joined for display.
type Grade struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"nombre" json:"nombre"`
	LevelID   int64  `db:"nivel_id" json:"nivel_id"`
	LevelName string `db:"nombre_nivel" json:"nombre_nivel"`
}

// Section belongs to a grade (secciones). GradeName and LevelName are joined.
type Section struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"nombre" json:"nombre"`
	GradeID   int64  `db:"grado_id" json:"grado_id"`
	GradeName string `db:"nombre_grado" json:"nombre_grado"`
	LevelName string `db:"nombre_nivel" json:"nombre_nivel"`
}

// LevelRequest names a level.
type LevelRequest struct {
	Name string `json:"nombre" validate:"required"`
}

// GradeRequest names a grade and its parent level.
type GradeRequest struct {
	Name    string `json:"nombre" validate:"required"`
	LevelID int64  `json:"nivel_id" validate:"required,gt=0"`
}

// SectionRequest names a section and its parent grade.
type SectionRequest struct {
	Name    string `json:"nombre" validate:"required"`
	GradeID int64  `json:"grado_id" validate:"required,gt=0"`
}

// InstitutionRequest carries the institution profile to save.
type InstitutionRequest struct {
	Name    string  `json:"nombre" validate:"required"`
	Address *string `json:"direccion"`
	Phone   *string `json:"telefono"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Website *string `json:"sitio_web"`
}

// Institution is the singleton configuration row (institucion).
type Institution struct {
	ID      int64   `db:"id" json:"id"`
	Name    string  `db:"nombre" json:"nombre"`
	Address *string `db:"direccion" json:"direccion,omitempty"`
	Phone   *string `db:"telefono" json:"telefono,omitempty"`
	Email   *string `db:"email" json:"email,omitempty"`
	Website *string `db:"sitio_web" json:"sitio_web,omitempty"`
}
