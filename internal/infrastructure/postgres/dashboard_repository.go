package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.CountProducts: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) CountOperations(ctx context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error) {
	st := make([]string, 0, len(statuses))
	for _, s := range statuses {
		st = append(st, string(s))
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM operations WHERE type = $1 AND status = ANY($2::text[])`,
		string(opType), st,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("dashboard.CountOperations: %w", err)
	}
	return n, nil
}

// CountLowStock productos con mínimo configurado cuyo saldo en ubicaciones INTERNAL no lo alcanza.
// Un producto sin quants internos cuenta con saldo 0.
func (r *DashboardRepo) CountLowStock(ctx context.Context) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM products p
	LEFT JOIN (
	    SELECT q.product_id, SUM(q.quantity) AS on_hand
	    FROM quants q
	    JOIN locations l ON l.id = q.location_id AND l.type = 'INTERNAL'
	    GROUP BY q.product_id
	) s ON s.product_id = p.id
	WHERE p.min_stock_level > 0
	  AND COALESCE(s.on_hand, 0) < p.min_stock_level`
	var n int
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("dashboard.CountLowStock: %w", err)
	}
	return n, nil
}
