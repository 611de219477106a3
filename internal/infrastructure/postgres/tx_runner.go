package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// Los bloqueos FOR UPDATE tomados dentro de fn se liberan con el Commit o el Rollback.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallos de Begin/Commit, serialización o deadlock se devuelven envueltos en domain.ErrStorage.
func (r *TxRunner) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	quantRepo repository.QuantRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	opRepo := NewOperationRepository(tx)
	quantRepo := NewQuantRepository(tx)
	ledgerRepo := NewLedgerRepository(tx)

	if err := fn(opRepo, quantRepo, ledgerRepo); err != nil {
		if isRetryable(err) {
			return fmt.Errorf("%w: %w", domain.ErrStorage, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrStorage, err)
	}
	return nil
}
