package models

import "time"

// PaymentStatus is the lifecycle of a pago.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pendiente"
	PaymentCompleted PaymentStatus = "Completado"
	PaymentVoided    PaymentStatus = "Anulado"
)

// ValidPaymentStatus reports whether the status belongs to the closed set.
func ValidPaymentStatus(s PaymentStatus) bool {
	return s == PaymentPending || s == PaymentCompleted || s == PaymentVoided
}

// PaymentType categorises a charge (tipos_pago). A mandatory type fans out a
// pending payment to every active enrollment on creation.
type PaymentType struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"nombre" json:"nombre"`
	Description *string    `db:"descripcion" json:"descripcion,omitempty"`
	FixedPrice  *float64   `db:"precio_fijo" json:"precio_fijo,omitempty"`
	DueDate     *time.Time `db:"fecha_vencimiento" json:"fecha_vencimiento,omitempty"`
	Mandatory   bool       `db:"es_obligatorio" json:"es_obligatorio"`
}

// PaymentMethod is a way of paying (metodos_pago); deletion is blocked while
// payments reference it.
type PaymentMethod struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"nombre" json:"nombre"`
	Description *string `db:"descripcion" json:"descripcion,omitempty"`
}

// Payment records an amount against an enrollment (pagos). The method is
// optional and stored as NULL when absent.
type Payment struct {
	ID           int64         `db:"id" json:"id"`
	EnrollmentID int64         `db:"matricula_id" json:"matricula_id"`
	TypeID       int64         `db:"tipo_pago_id" json:"tipo_pago_id"`
	MethodID     *int64        `db:"metodo_pago_id" json:"metodo_pago_id,omitempty"`
	Amount       float64       `db:"monto" json:"monto"`
	Date         time.Time     `db:"fecha_pago" json:"fecha_pago"`
	Reference    *string       `db:"referencia_pago" json:"referencia_pago,omitempty"`
	Status       PaymentStatus `db:"estado" json:"estado"`
	CreatedAt    time.Time     `db:"fecha_creacion" json:"fecha_creacion"`
}

// PaymentDetail joins display names for listings and receipts.
type PaymentDetail struct {
	Payment
	StudentFirstName string  `db:"estudiante_primer_nombre" json:"estudiante_primer_nombre"`
	StudentLastName  string  `db:"estudiante_primer_apellido" json:"estudiante_primer_apellido"`
	AcademicYear     int     `db:"anio_academico" json:"anio_academico"`
	TypeName         string  `db:"tipo_pago_nombre" json:"tipo_pago_nombre"`
	MethodName       *string `db:"metodo_pago_nombre" json:"metodo_pago_nombre,omitempty"`
}

// CreatePaymentRequest registers a payment against an enrollment. A zero or
// absent method is stored as NULL.
type CreatePaymentRequest struct {
	EnrollmentID int64         `json:"matricula_id" validate:"required,gt=0"`
	TypeID       int64         `json:"tipo_pago_id" validate:"required,gt=0"`
	MethodID     *int64        `json:"metodo_pago_id"`
	Amount       float64       `json:"monto" validate:"required,gt=0"`
	Date         string        `json:"fecha_pago" validate:"required,datetime=2006-01-02"`
	Reference    *string       `json:"referencia_pago"`
	Status       PaymentStatus `json:"estado" validate:"required"`
}

// UpdatePaymentRequest is a partial update; nil fields keep their stored
// values. A present-but-zero method clears it.
type UpdatePaymentRequest struct {
	TypeID    *int64         `json:"tipo_pago_id" validate:"omitempty,gt=0"`
	MethodID  *int64         `json:"metodo_pago_id"`
	Amount    *float64       `json:"monto" validate:"omitempty,gt=0"`
	Date      *string        `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
	Reference *string        `json:"referencia_pago"`
	Status    *PaymentStatus `json:"estado"`
}

// PaymentTypeRequest is the payload for creating or replacing a payment type.
type PaymentTypeRequest struct {
	Name        string   `json:"nombre" validate:"required"`
	Description *string  `json:"descripcion"`
	FixedPrice  *float64 `json:"precio_fijo" validate:"omitempty,gt=0"`
	DueDate     *string  `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Mandatory   bool     `json:"es_obligatorio"`
}

// PaymentMethodRequest is the payload for creating or replacing a payment
// method.
type PaymentMethodRequest struct {
	Name        string  `json:"nombre" validate:"required"`
	Description *string `json:"descripcion"`
}

// AccountStatement is the per-enrollment payment summary.
type AccountStatement struct {
	Enrollment EnrollmentDetail `json:"matricula"`
	Payments   []PaymentDetail  `json:"pagos"`
	TotalPaid  float64          `json:"totalPagado"`
	TotalDue   float64          `json:"totalPendiente"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	EnrollmentID int64
	TypeID       int64
	MethodID     int64
	Status       PaymentStatus
}
