package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-operations-api/internal/domain/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

// CancelOperationUseCase pasa una operación DRAFT/READY a CANCELLED.
// No toca quants ni bitácora: nunca se aplicó nada.
type CancelOperationUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	presenter presenter
	timeout   time.Duration
	log       *logger.Logger
}

// NewCancelOperationUseCase construye el caso de uso.
func NewCancelOperationUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	timeout time.Duration,
	log *logger.Logger,
) *CancelOperationUseCase {
	return &CancelOperationUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		presenter: presenter{locations: locationRepo, products: productRepo, log: log},
		timeout:   timeout,
		log:       log.Named("cancel"),
	}
}

// Cancel cancela la operación. Falla con domain.ErrInvalidState si ya es DONE o CANCELLED.
func (uc *CancelOperationUseCase) Cancel(ctx context.Context, operationID string) (*dto.OperationResponse, error) {
	if err := checkOperationID(operationID); err != nil {
		return nil, err
	}

	op, err := transitionLocked(ctx, uc.txRunner, uc.timeout, operationID, domaininv.CheckCancellable,
		func(op *entity.Operation, now time.Time) error { return op.MarkCancelled(now) })
	if err != nil {
		err = asStorageError(err)
		uc.log.Warn().Err(err).Str("operation_id", operationID).Msg("cancelación rechazada")
		return nil, err
	}

	uc.log.Info().Str("operation_id", op.ID).Str("reference", op.Reference).Msg("operación cancelada")
	publish(ctx, uc.publisher, uc.log, op, entity.EventOperationCancelled)
	return uc.presenter.present(ctx, op), nil
}

// transitionLocked cambia solo el estado de la operación bajo el bloqueo de fila.
// check corre dentro de la unidad, después de obtener el bloqueo.
func transitionLocked(
	ctx context.Context,
	txRunner TxRunner,
	timeout time.Duration,
	operationID string,
	check func(*entity.Operation) error,
	mark func(*entity.Operation, time.Time) error,
) (*entity.Operation, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var result *entity.Operation
	err := txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		_ repository.QuantRepository,
		_ repository.LedgerRepository,
	) error {
		op, err := opRepo.GetForUpdate(ctx, operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("operación %s: %w", operationID, domain.ErrNotFound)
		}
		if err := check(op); err != nil {
			return err
		}
		if err := mark(op, time.Now()); err != nil {
			return fmt.Errorf("%v: %w", err, domain.ErrInvalidState)
		}
		if err := opRepo.UpdateStatus(ctx, op.ID, op.Status, op.UpdatedAt); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		result = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
