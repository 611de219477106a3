package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// NormalizePage aplica los límites de paginación: limit en [1, 100] (20 por defecto), offset >= 0.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
// Retryable=true indica que no quedó nada aplicado y el cliente puede reintentar la misma llamada.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}
