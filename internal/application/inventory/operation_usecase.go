package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-operations-api/internal/domain/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// OperationUseCase alta, consulta y confirmación de operaciones.
// Validar y cancelar viven en sus propios casos de uso.
type OperationUseCase struct {
	txRunner     TxRunner
	opRepo       repository.OperationRepository
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	presenter    presenter
	timeout      time.Duration
	log          *logger.Logger
}

// NewOperationUseCase construye el caso de uso. opRepo es el repositorio fuera de transacción (pool).
func NewOperationUseCase(
	txRunner TxRunner,
	opRepo repository.OperationRepository,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	timeout time.Duration,
	log *logger.Logger,
) *OperationUseCase {
	return &OperationUseCase{
		txRunner:     txRunner,
		opRepo:       opRepo,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		presenter:    presenter{locations: locationRepo, products: productRepo, log: log},
		timeout:      timeout,
		log:          log.Named("operations"),
	}
}

// Create registra una operación en DRAFT.
// Errores: domain.ErrInvalidInput (campos faltantes, ids que no son UUID o cantidades inválidas), domain.ErrNotFound
// (ubicación o producto inexistente), domain.ErrConflict (referencia duplicada).
func (uc *OperationUseCase) Create(ctx context.Context, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	op, err := uc.buildOperation(in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, op); err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(
		opRepo repository.OperationRepository,
		_ repository.QuantRepository,
		_ repository.LedgerRepository,
	) error {
		return opRepo.Create(ctx, op)
	})
	if err != nil {
		return nil, asStorageError(err)
	}

	uc.log.Info().
		Str("operation_id", op.ID).
		Str("reference", op.Reference).
		Str("type", string(op.Type)).
		Int("lines", len(op.Lines)).
		Msg("operación creada")
	return uc.presenter.present(ctx, op), nil
}

func (uc *OperationUseCase) buildOperation(in dto.CreateOperationRequest) (*entity.Operation, error) {
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return nil, fmt.Errorf("reference es requerido: %w", domain.ErrInvalidInput)
	}
	opType, err := entity.ParseOperationType(in.Type)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	if in.SourceLocationID == "" || in.DestinationLocationID == "" {
		return nil, fmt.Errorf("ubicación de origen y destino requeridas: %w", domain.ErrInvalidInput)
	}
	if err := checkRefID("source_location_id", in.SourceLocationID); err != nil {
		return nil, err
	}
	if err := checkRefID("destination_location_id", in.DestinationLocationID); err != nil {
		return nil, err
	}
	if in.SourceLocationID == in.DestinationLocationID {
		return nil, fmt.Errorf("origen y destino deben ser distintos: %w", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("se requiere al menos una línea: %w", domain.ErrInvalidInput)
	}

	lines := make([]entity.OperationLine, 0, len(in.Lines))
	for i, l := range in.Lines {
		line := entity.OperationLine{
			ProductID:      l.ProductID,
			DemandQuantity: l.DemandQuantity,
			DoneQuantity:   decimal.Zero,
		}
		if l.DoneQuantity != nil {
			line.DoneQuantity = *l.DoneQuantity
		}
		if err := domaininv.CheckLine(line); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		if err := checkRefID("product_id", line.ProductID); err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}

	now := time.Now()
	scheduled := now
	if in.ScheduledDate != nil && !in.ScheduledDate.IsZero() {
		scheduled = *in.ScheduledDate
	}
	var partner *string
	if in.PartnerID != nil && *in.PartnerID != "" {
		p := *in.PartnerID
		partner = &p
	}

	return &entity.Operation{
		ID:                    uuid.New().String(),
		Reference:             reference,
		Type:                  opType,
		Status:                entity.OperationStatusDraft,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		PartnerID:             partner,
		ScheduledDate:         scheduled,
		Lines:                 lines,
		CreatedAt:             now,
		UpdatedAt:             now,
	}, nil
}

// checkReferences comprueba que ubicaciones y productos existan al momento de crear.
// Las ubicaciones VIEW solo agrupan y no pueden mover stock.
func (uc *OperationUseCase) checkReferences(ctx context.Context, op *entity.Operation) error {
	locs, err := uc.locationRepo.GetByIDs(ctx, []string{op.SourceLocationID, op.DestinationLocationID})
	if err != nil {
		return asStorageError(err)
	}
	for _, id := range []string{op.SourceLocationID, op.DestinationLocationID} {
		loc, ok := locs[id]
		if !ok {
			return fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
		}
		if loc.Type == entity.LocationTypeView {
			return fmt.Errorf("la ubicación %s es de tipo VIEW: %w", loc.Name, domain.ErrInvalidInput)
		}
	}

	productIDs := make([]string, 0, len(op.Lines))
	for _, l := range op.Lines {
		productIDs = append(productIDs, l.ProductID)
	}
	prods, err := uc.productRepo.GetByIDs(ctx, unique(productIDs))
	if err != nil {
		return asStorageError(err)
	}
	for _, id := range productIDs {
		if _, ok := prods[id]; !ok {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// GetByID devuelve la operación poblada o domain.ErrNotFound.
func (uc *OperationUseCase) GetByID(ctx context.Context, id string) (*dto.OperationResponse, error) {
	if err := checkOperationID(id); err != nil {
		return nil, err
	}
	op, err := uc.opRepo.GetByID(ctx, id)
	if err != nil {
		return nil, asStorageError(err)
	}
	if op == nil {
		return nil, fmt.Errorf("operación %s: %w", id, domain.ErrNotFound)
	}
	return uc.presenter.present(ctx, op), nil
}

// List lista operaciones filtradas por tipo y/o estado con paginación.
func (uc *OperationUseCase) List(ctx context.Context, in dto.ListOperationsRequest) (*dto.OperationListResponse, error) {
	filter := repository.OperationFilter{}
	if in.Type != "" {
		t, err := entity.ParseOperationType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		filter.Type = &t
	}
	if in.Status != "" {
		s, err := entity.ParseOperationStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		filter.Status = &s
	}
	filter.Limit, filter.Offset = dto.NormalizePage(in.Limit, in.Offset)

	ops, total, err := uc.opRepo.List(ctx, filter)
	if err != nil {
		return nil, asStorageError(err)
	}
	return &dto.OperationListResponse{
		Items: uc.presenter.presentMany(ctx, ops),
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	}, nil
}

// Confirm pasa la operación de DRAFT a READY bajo el mismo bloqueo que validate/cancel.
func (uc *OperationUseCase) Confirm(ctx context.Context, operationID string) (*dto.OperationResponse, error) {
	if err := checkOperationID(operationID); err != nil {
		return nil, err
	}
	op, err := transitionLocked(ctx, uc.txRunner, uc.timeout, operationID, domaininv.CheckValidatable,
		func(op *entity.Operation, now time.Time) error { return op.MarkReady(now) })
	if err != nil {
		return nil, asStorageError(err)
	}
	uc.log.Info().Str("operation_id", op.ID).Str("reference", op.Reference).Msg("operación confirmada")
	return uc.presenter.present(ctx, op), nil
}
