package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-operations-api/internal/domain"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("create operation: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, isUniqueViolation(wrapped))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión rechazada")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"40001", true},
		{"40P01", true},
		{"23505", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("increment quant: %w", &pgconn.PgError{Code: tt.code})
			assert.Equal(t, tt.want, isRetryable(err))
		})
	}
	assert.False(t, isRetryable(errors.New("timeout")))
}

func TestWrapQueryError_TextoInvalidoEsEntradaInvalida(t *testing.T) {
	badUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "WH-IN-001"`}
	err := wrapQueryError("get operation", badUUID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, badUUID)
	assert.Contains(t, err.Error(), "get operation")

	err = wrapQueryError("get operation", &pgconn.PgError{Code: "08006"})
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, domain.IsDomainError(err), "una conexión caída sigue siendo fallo de almacenamiento")
}
