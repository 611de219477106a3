package repository

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

// LocationRepository lectura de ubicaciones (las administra el servicio de ubicaciones).
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	// GetByIDs devuelve las ubicaciones encontradas indexadas por ID; las ausentes no aparecen.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error)
}
