package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-operations-api/internal/domain"
)

// checkOperationID vacío es entrada inválida; un id que no es UUID no puede existir (ErrNotFound).
func checkOperationID(id string) error {
	if id == "" {
		return fmt.Errorf("id de operación requerido: %w", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("operación %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// checkRefID ids de productos y ubicaciones: deben ser UUID.
func checkRefID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %q no es un UUID: %w", field, id, domain.ErrInvalidInput)
	}
	return nil
}
