package repository

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

// ProductRepository lectura de productos (los administra el servicio de catálogo).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
}
