package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, name, type, address, created_at, updated_at`

// LocationRepo lectura de ubicaciones (las escribe el servicio de ubicaciones).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// GetByID obtiene una ubicación por ID; (nil, nil) si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	loc, err := scanLocation(r.q.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapQueryError("get location", err)
	}
	return loc, nil
}

// GetByIDs obtiene varias ubicaciones en una sola consulta.
func (r *LocationRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Location, error) {
	out := make(map[string]*entity.Location, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, wrapQueryError("get locations", err)
	}
	defer rows.Close()
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out[loc.ID] = loc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get locations: %w", err)
	}
	return out, nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var (
		loc     entity.Location
		locType string
	)
	if err := row.Scan(&loc.ID, &loc.Name, &locType, &loc.Address, &loc.CreatedAt, &loc.UpdatedAt); err != nil {
		return nil, err
	}
	loc.Type = entity.LocationType(locType)
	return &loc, nil
}
