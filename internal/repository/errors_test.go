package repository

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

var (
	pqError23505 = pq.Error{Code: "23505", Constraint: "matriculas_estudiante_id_anio_academico_key"}
	pqError23503 = pq.Error{Code: "23503"}
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pqError23505, ""))
	assert.True(t, IsUniqueViolation(&pqError23505, "anio_academico"))
	assert.False(t, IsUniqueViolation(&pqError23505, "otro_indice"))
	assert.False(t, IsUniqueViolation(&pqError23503, ""))
	assert.False(t, IsUniqueViolation(fmt.Errorf("plain"), ""))

	wrapped := fmt.Errorf("create enrollment: %w", &pqError23505)
	assert.True(t, IsUniqueViolation(wrapped, ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pqError23503))
	assert.False(t, IsForeignKeyViolation(&pqError23505))
	assert.False(t, IsForeignKeyViolation(nil))
}
