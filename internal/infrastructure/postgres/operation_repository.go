package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

const operationColumns = `id, reference, type, status, source_location_id, destination_location_id,
	partner_id, scheduled_date, created_at, updated_at`

// OperationRepo operaciones y sus líneas sobre PostgreSQL (usable con pool o tx).
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

// Create inserta la cabecera y las líneas. Con el pool hay que llamarlo dentro de un TxRunner
// para que cabecera y líneas queden juntas.
func (r *OperationRepo) Create(ctx context.Context, op *entity.Operation) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		op.ID, op.Reference, string(op.Type), string(op.Status),
		op.SourceLocationID, op.DestinationLocationID, op.PartnerID,
		op.ScheduledDate, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("referencia %s: %w", op.Reference, domain.ErrConflict)
		}
		return fmt.Errorf("create operation: %w", err)
	}

	for i, l := range op.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO operation_lines (operation_id, line_no, product_id, demand_quantity, done_quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			op.ID, i+1, l.ProductID, l.DemandQuantity, l.DoneQuantity,
		)
		if err != nil {
			return fmt.Errorf("create operation line %d: %w", i+1, err)
		}
	}
	return nil
}

// GetByID obtiene la operación con sus líneas; (nil, nil) si no existe.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la fila (SELECT ... FOR UPDATE) hasta el fin de la tx.
func (r *OperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	return r.get(ctx, id, true)
}

func (r *OperationRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	op, err := scanOperation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapQueryError("get operation", err)
	}

	lines, err := r.linesFor(ctx, []string{op.ID})
	if err != nil {
		return nil, err
	}
	op.Lines = lines[op.ID]
	return op, nil
}

// UpdateStatus cambia estado y updated_at.
func (r *OperationRepo) UpdateStatus(ctx context.Context, id string, status entity.OperationStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE operations SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update operation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("operación %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateDoneQuantities guarda done_quantity línea por línea (line_no = posición + 1).
func (r *OperationRepo) UpdateDoneQuantities(ctx context.Context, id string, lines []entity.OperationLine) error {
	for i, l := range lines {
		tag, err := r.q.Exec(ctx,
			`UPDATE operation_lines SET done_quantity = $3 WHERE operation_id = $1 AND line_no = $2`,
			id, i+1, l.DoneQuantity,
		)
		if err != nil {
			return fmt.Errorf("update done quantity line %d: %w", i+1, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("línea %d de la operación %s: %w", i+1, id, domain.ErrNotFound)
		}
	}
	return nil
}

// List lista operaciones (más recientes primero) con filtros opcionales y el total sin paginar.
func (r *OperationRepo) List(ctx context.Context, f repository.OperationFilter) ([]*entity.Operation, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.Type != nil {
		args = append(args, string(*f.Type))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM operations`+where, args...).Scan(&total); err != nil {
		return nil, 0, wrapQueryError("count operations", err)
	}

	query := `SELECT ` + operationColumns + ` FROM operations` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapQueryError("list operations", err)
	}
	defer rows.Close()

	var (
		ops []*entity.Operation
		ids []string
	)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan operation: %w", err)
		}
		ops = append(ops, op)
		ids = append(ids, op.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list operations: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return []*entity.Operation{}, total, nil
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, op := range ops {
		op.Lines = lines[op.ID]
	}
	return ops, total, nil
}

func (r *OperationRepo) linesFor(ctx context.Context, ids []string) (map[string][]entity.OperationLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT operation_id, product_id, demand_quantity, done_quantity
		FROM operation_lines
		WHERE operation_id = ANY($1::uuid[])
		ORDER BY operation_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list operation lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.OperationLine, len(ids))
	for rows.Next() {
		var (
			opID string
			l    entity.OperationLine
		)
		if err := rows.Scan(&opID, &l.ProductID, &l.DemandQuantity, &l.DoneQuantity); err != nil {
			return nil, fmt.Errorf("scan operation line: %w", err)
		}
		out[opID] = append(out[opID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list operation lines: %w", err)
	}
	return out, nil
}

func scanOperation(row pgx.Row) (*entity.Operation, error) {
	var (
		op             entity.Operation
		opType, status string
	)
	err := row.Scan(
		&op.ID, &op.Reference, &opType, &status,
		&op.SourceLocationID, &op.DestinationLocationID, &op.PartnerID,
		&op.ScheduledDate, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	op.Type = entity.OperationType(opType)
	op.Status = entity.OperationStatus(status)
	return &op, nil
}
