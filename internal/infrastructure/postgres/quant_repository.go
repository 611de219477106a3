package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.QuantRepository = (*QuantRepo)(nil)

// QuantRepo saldos por (producto, ubicación) sobre PostgreSQL (usable con pool o tx).
type QuantRepo struct {
	q Querier
}

// NewQuantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuantRepository(q Querier) *QuantRepo {
	return &QuantRepo{q: q}
}

// Increment suma delta en una sola sentencia: la fila se crea o se actualiza de forma atómica,
// así dos transacciones sobre la misma clave se serializan en el bloqueo de la fila y ninguna pierde su delta.
func (r *QuantRepo) Increment(ctx context.Context, productID, locationID string, delta decimal.Decimal) (*entity.Quant, error) {
	query := `
		INSERT INTO quants (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = quants.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING product_id, location_id, quantity, updated_at`
	var q entity.Quant
	err := r.q.QueryRow(ctx, query, productID, locationID, delta).Scan(
		&q.ProductID, &q.LocationID, &q.Quantity, &q.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("increment quant: %w", err)
	}
	return &q, nil
}

// Get saldo actual; cero si la fila no existe.
func (r *QuantRepo) Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT quantity FROM quants WHERE product_id = $1 AND location_id = $2`,
		productID, locationID,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, wrapQueryError("get quant", err)
	}
	return qty, nil
}

func (r *QuantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Quant, error) {
	return r.list(ctx, `WHERE product_id = $1 ORDER BY location_id`, productID)
}

func (r *QuantRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Quant, error) {
	return r.list(ctx, `WHERE location_id = $1 ORDER BY product_id`, locationID)
}

func (r *QuantRepo) list(ctx context.Context, where string, arg string) ([]*entity.Quant, error) {
	rows, err := r.q.Query(ctx, `SELECT product_id, location_id, quantity, updated_at FROM quants `+where, arg)
	if err != nil {
		return nil, wrapQueryError("list quants", err)
	}
	defer rows.Close()

	out := make([]*entity.Quant, 0)
	for rows.Next() {
		var q entity.Quant
		if err := rows.Scan(&q.ProductID, &q.LocationID, &q.Quantity, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quant: %w", err)
		}
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quants: %w", err)
	}
	return out, nil
}
