package inventory

import (
	"errors"
	"fmt"

	"github.com/jhoicas/stock-operations-api/internal/domain"
)

// asStorageError deja pasar los errores de dominio y envuelve el resto en domain.ErrStorage:
// cualquier fallo de infraestructura dentro de la unidad implica rollback completo y es reintentable.
func asStorageError(err error) error {
	if err == nil || domain.IsDomainError(err) || errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}
