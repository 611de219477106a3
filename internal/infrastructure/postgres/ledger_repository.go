package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, product_id, quantity, source_location_id, destination_location_id, operation_reference, date`

// LedgerRepo bitácora de movimientos (stock_ledger). Solo INSERT y SELECT: la tabla además
// rechaza UPDATE y DELETE con un trigger.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta un asiento.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_ledger (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ProductID, e.Quantity, e.SourceLocationID, e.DestinationLocationID, e.OperationReference, e.Date,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// QueryByProduct asientos de un producto en el rango [from, to] (extremos opcionales).
func (r *LedgerRepo) QueryByProduct(ctx context.Context, productID string, dates entity.DateRange) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM stock_ledger WHERE product_id = $1`
	args := []any{productID}
	if dates.From != nil {
		args = append(args, *dates.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if dates.To != nil {
		args = append(args, *dates.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return r.query(ctx, query+` ORDER BY seq`, args...)
}

func (r *LedgerRepo) QueryByOperationReference(ctx context.Context, reference string) ([]*entity.LedgerEntry, error) {
	return r.query(ctx, `SELECT `+ledgerColumns+` FROM stock_ledger WHERE operation_reference = $1 ORDER BY seq`, reference)
}

// QueryByLocation historial de una ubicación: IN = destino, OUT = origen, ANY = cualquiera.
func (r *LedgerRepo) QueryByLocation(ctx context.Context, locationID string, direction entity.Direction) ([]*entity.LedgerEntry, error) {
	var where string
	switch direction {
	case entity.DirectionIn:
		where = `destination_location_id = $1`
	case entity.DirectionOut:
		where = `source_location_id = $1`
	default:
		where = `(destination_location_id = $1 OR source_location_id = $1)`
	}
	return r.query(ctx, `SELECT `+ledgerColumns+` FROM stock_ledger WHERE `+where+` ORDER BY seq`, locationID)
}

// SumEffect entradas menos salidas del producto en la ubicación.
func (r *LedgerRepo) SumEffect(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(
			CASE WHEN destination_location_id = $2 THEN quantity ELSE 0 END -
			CASE WHEN source_location_id = $2 THEN quantity ELSE 0 END
		), 0)
		FROM stock_ledger
		WHERE product_id = $1 AND (destination_location_id = $2 OR source_location_id = $2)`,
		productID, locationID,
	).Scan(&sum)
	if err != nil {
		return decimal.Zero, wrapQueryError("sum ledger effect", err)
	}
	return sum, nil
}

func (r *LedgerRepo) query(ctx context.Context, query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapQueryError("query ledger", err)
	}
	defer rows.Close()

	out := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.Quantity, &e.SourceLocationID,
			&e.DestinationLocationID, &e.OperationReference, &e.Date,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	return out, nil
}
