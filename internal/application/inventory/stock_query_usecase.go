package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

// StockQueryUseCase lecturas de saldos y bitácora para los servicios colaboradores.
type StockQueryUseCase struct {
	quantRepo  repository.QuantRepository
	ledgerRepo repository.LedgerRepository
}

func NewStockQueryUseCase(quantRepo repository.QuantRepository, ledgerRepo repository.LedgerRepository) *StockQueryUseCase {
	return &StockQueryUseCase{quantRepo: quantRepo, ledgerRepo: ledgerRepo}
}

// ListQuants lista los saldos de un producto o de una ubicación (exactamente uno de los dos).
func (uc *StockQueryUseCase) ListQuants(ctx context.Context, productID, locationID string) (*dto.QuantListResponse, error) {
	var (
		quants []*entity.Quant
		err    error
	)
	switch {
	case productID != "" && locationID != "":
		return nil, fmt.Errorf("use product_id o location_id, no ambos: %w", domain.ErrInvalidInput)
	case productID != "":
		if err := checkRefID("product_id", productID); err != nil {
			return nil, err
		}
		quants, err = uc.quantRepo.ListByProduct(ctx, productID)
	case locationID != "":
		if err := checkRefID("location_id", locationID); err != nil {
			return nil, err
		}
		quants, err = uc.quantRepo.ListByLocation(ctx, locationID)
	default:
		return nil, fmt.Errorf("product_id o location_id requerido: %w", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, asStorageError(err)
	}

	items := make([]dto.QuantResponse, 0, len(quants))
	for _, q := range quants {
		updated := q.UpdatedAt
		items = append(items, dto.QuantResponse{
			ProductID:  q.ProductID,
			LocationID: q.LocationID,
			Quantity:   q.Quantity,
			UpdatedAt:  &updated,
		})
	}
	return &dto.QuantListResponse{Items: items, Total: len(items)}, nil
}

// GetQuant saldo de (producto, ubicación); 0 si nunca hubo movimiento.
func (uc *StockQueryUseCase) GetQuant(ctx context.Context, productID, locationID string) (*dto.QuantResponse, error) {
	if err := checkPair(productID, locationID); err != nil {
		return nil, err
	}
	qty, err := uc.quantRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, asStorageError(err)
	}
	return &dto.QuantResponse{ProductID: productID, LocationID: locationID, Quantity: qty}, nil
}

// QueryLedger consulta la bitácora por producto (con rango de fechas opcional),
// por referencia de operación o por ubicación (con sentido IN/OUT/ANY).
func (uc *StockQueryUseCase) QueryLedger(ctx context.Context, q dto.LedgerQuery) (*dto.LedgerListResponse, error) {
	selectors := 0
	for _, s := range []string{q.ProductID, q.Reference, q.LocationID} {
		if s != "" {
			selectors++
		}
	}
	if selectors != 1 {
		return nil, fmt.Errorf("indique exactamente uno de product_id, reference o location_id: %w", domain.ErrInvalidInput)
	}
	if q.ProductID != "" {
		if err := checkRefID("product_id", q.ProductID); err != nil {
			return nil, err
		}
	}
	if q.LocationID != "" {
		if err := checkRefID("location_id", q.LocationID); err != nil {
			return nil, err
		}
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, fmt.Errorf("from posterior a to: %w", domain.ErrInvalidInput)
	}

	var (
		entries []*entity.LedgerEntry
		err     error
	)
	switch {
	case q.ProductID != "":
		entries, err = uc.ledgerRepo.QueryByProduct(ctx, q.ProductID, entity.DateRange{From: q.From, To: q.To})
	case q.Reference != "":
		entries, err = uc.ledgerRepo.QueryByOperationReference(ctx, q.Reference)
	default:
		dir, ok := entity.ParseDirection(q.Direction)
		if !ok {
			return nil, fmt.Errorf("direction inválida %q: %w", q.Direction, domain.ErrInvalidInput)
		}
		entries, err = uc.ledgerRepo.QueryByLocation(ctx, q.LocationID, dir)
	}
	if err != nil {
		return nil, asStorageError(err)
	}

	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.LedgerEntryResponse{
			ID:                    e.ID,
			ProductID:             e.ProductID,
			Quantity:              e.Quantity,
			SourceLocationID:      e.SourceLocationID,
			DestinationLocationID: e.DestinationLocationID,
			OperationReference:    e.OperationReference,
			Date:                  e.Date,
		})
	}
	return &dto.LedgerListResponse{Items: items, Total: len(items)}, nil
}

// Reconcile compara el quant con la suma de efectos de la bitácora sobre el mismo par.
// Son dos lecturas separadas: con validaciones concurrentes sobre el par puede reportar
// una diferencia transitoria.
func (uc *StockQueryUseCase) Reconcile(ctx context.Context, productID, locationID string) (*dto.ReconciliationResponse, error) {
	if err := checkPair(productID, locationID); err != nil {
		return nil, err
	}
	quantQty, err := uc.quantRepo.Get(ctx, productID, locationID)
	if err != nil {
		return nil, asStorageError(err)
	}
	ledgerQty, err := uc.ledgerRepo.SumEffect(ctx, productID, locationID)
	if err != nil {
		return nil, asStorageError(err)
	}
	return &dto.ReconciliationResponse{
		ProductID:      productID,
		LocationID:     locationID,
		QuantQuantity:  quantQty,
		LedgerQuantity: ledgerQty,
		Consistent:     quantQty.Equal(ledgerQty),
	}, nil
}

func checkPair(productID, locationID string) error {
	if productID == "" || locationID == "" {
		return fmt.Errorf("product_id y location_id requeridos: %w", domain.ErrInvalidInput)
	}
	if err := checkRefID("product_id", productID); err != nil {
		return err
	}
	return checkRefID("location_id", locationID)
}
