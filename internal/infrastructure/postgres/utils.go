package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-operations-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isRetryable serialización (40001) o deadlock (40P01): la transacción se abortó entera.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// isInvalidTextRepresentation texto inválido para el tipo de la columna (22P02), p.ej. un id que no es UUID.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// wrapQueryError agrega contexto a un fallo de lectura. 22P02 es un error del llamador
// (domain.ErrInvalidInput), no del almacenamiento.
func wrapQueryError(op string, err error) error {
	if isInvalidTextRepresentation(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
