package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada uno se traduce a una señal HTTP distinta en interfaces/http.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrInvalidState = errors.New("transición no permitida desde el estado actual")
	ErrConflict     = errors.New("conflicto con un recurso existente")
	ErrStorage      = errors.New("la unidad de trabajo no pudo confirmarse")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
)

// IsDomainError indica si err pertenece a la taxonomía de dominio (excepto ErrStorage).
// Los errores que no lo son se consideran fallos de almacenamiento.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
