package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-operations-api/internal/domain/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

// ValidateOperationUseCase motor de validación: aplica una operación de forma atómica.
// Dentro de una sola unidad de trabajo bloquea la operación (SELECT FOR UPDATE), repite las
// guardas, mueve el stock línea por línea (origen -q, destino +q, un asiento por línea) y
// marca la operación DONE. Cualquier fallo descarta todo.
type ValidateOperationUseCase struct {
	txRunner  TxRunner
	publisher EventPublisher
	presenter presenter
	timeout   time.Duration
	log       *logger.Logger
}

// NewValidateOperationUseCase construye el caso de uso. timeout acota la unidad de trabajo (0 = sin plazo propio).
func NewValidateOperationUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	timeout time.Duration,
	log *logger.Logger,
) *ValidateOperationUseCase {
	return &ValidateOperationUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		presenter: presenter{locations: locationRepo, products: productRepo, log: log},
		timeout:   timeout,
		log:       log.Named("validate"),
	}
}

// Validate valida la operación operationID y devuelve la operación DONE poblada.
// Errores: domain.ErrNotFound, domain.ErrInvalidState (ya DONE/CANCELLED),
// domain.ErrInvalidInput (sin líneas o cantidad efectiva no positiva),
// domain.ErrStorage (no se pudo confirmar; reintentable porque nada quedó aplicado).
func (uc *ValidateOperationUseCase) Validate(ctx context.Context, operationID string) (*dto.OperationResponse, error) {
	if err := checkOperationID(operationID); err != nil {
		return nil, err
	}

	op, err := uc.apply(ctx, operationID)
	if err != nil {
		err = asStorageError(err)
		uc.log.Warn().Err(err).Str("operation_id", operationID).Msg("validación rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("operation_id", op.ID).
		Str("reference", op.Reference).
		Str("type", string(op.Type)).
		Int("lines", len(op.Lines)).
		Msg("operación validada")

	publish(ctx, uc.publisher, uc.log, op, entity.EventOperationValidated)
	return uc.presenter.present(ctx, op), nil
}

// apply ejecuta la unidad de trabajo y devuelve la operación ya confirmada.
func (uc *ValidateOperationUseCase) apply(ctx context.Context, operationID string) (*entity.Operation, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var validated *entity.Operation
	err := uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		quantRepo repository.QuantRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		// Bloquea la fila de la operación hasta el commit/rollback: un segundo validate concurrente
		// espera aquí y, al obtener el bloqueo, ve el estado DONE.
		op, err := opRepo.GetForUpdate(ctx, operationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("operación %s: %w", operationID, domain.ErrNotFound)
		}
		if err := domaininv.CheckValidatable(op); err != nil {
			return err
		}

		now := time.Now()
		for i := range op.Lines {
			line := &op.Lines[i]
			qty := domaininv.EffectiveQuantity(*line)

			// El origen puede quedar negativo: proveedores y ubicaciones virtuales son fuentes ilimitadas.
			if _, err := quantRepo.Increment(ctx, line.ProductID, op.SourceLocationID, qty.Neg()); err != nil {
				return fmt.Errorf("línea %d: descontar origen: %w", i+1, err)
			}
			if _, err := quantRepo.Increment(ctx, line.ProductID, op.DestinationLocationID, qty); err != nil {
				return fmt.Errorf("línea %d: sumar destino: %w", i+1, err)
			}
			entry := &entity.LedgerEntry{
				ID:                    uuid.New().String(),
				ProductID:             line.ProductID,
				Quantity:              qty,
				SourceLocationID:      op.SourceLocationID,
				DestinationLocationID: op.DestinationLocationID,
				OperationReference:    op.Reference,
				Date:                  now,
			}
			if err := ledgerRepo.Append(ctx, entry); err != nil {
				return fmt.Errorf("línea %d: registrar asiento: %w", i+1, err)
			}
			line.DoneQuantity = qty
		}

		if err := opRepo.UpdateDoneQuantities(ctx, op.ID, op.Lines); err != nil {
			return fmt.Errorf("guardar cantidades hechas: %w", err)
		}
		if err := op.MarkDone(now); err != nil {
			return fmt.Errorf("%v: %w", err, domain.ErrInvalidState)
		}
		if err := opRepo.UpdateStatus(ctx, op.ID, op.Status, op.UpdatedAt); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		validated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return validated, nil
}

// publish emite el evento tras el commit; los errores solo se registran.
func publish(ctx context.Context, p EventPublisher, log *logger.Logger, op *entity.Operation, eventType string) {
	if p == nil {
		return
	}
	evt := entity.OperationEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		OperationID: op.ID,
		Reference:   op.Reference,
		Type:        op.Type,
		Status:      op.Status,
		Lines:       len(op.Lines),
		OccurredAt:  op.UpdatedAt,
	}
	if err := p.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("reference", op.Reference).Str("event", eventType).Msg("publicar evento")
	}
}
