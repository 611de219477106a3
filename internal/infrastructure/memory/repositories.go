package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Operations repositorio fuera de unidad de trabajo: cada escritura se confirma sola.
func (s *Store) Operations() repository.OperationRepository { return autoOperationRepo{s} }

// Quants lecturas e incrementos autoconfirmados.
func (s *Store) Quants() repository.QuantRepository { return autoQuantRepo{s} }

// Ledger lecturas y anotaciones autoconfirmadas.
func (s *Store) Ledger() repository.LedgerRepository { return autoLedgerRepo{s} }

func (s *Store) Locations() repository.LocationRepository { return locationRepo{s} }

func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{s} }

type autoOperationRepo struct{ s *Store }

func (r autoOperationRepo) Create(ctx context.Context, op *entity.Operation) error {
	return r.s.autocommit(ctx, func(u *unit) error { return operationRepo{u}.Create(ctx, op) })
}

func (r autoOperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	return operationRepo{r.s.newUnit()}.GetByID(ctx, id)
}

func (r autoOperationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	// Fuera de una unidad el bloqueo se liberaría de inmediato.
	return r.GetByID(ctx, id)
}

func (r autoOperationRepo) UpdateStatus(ctx context.Context, id string, status entity.OperationStatus, updatedAt time.Time) error {
	return r.s.autocommit(ctx, func(u *unit) error {
		return operationRepo{u}.UpdateStatus(ctx, id, status, updatedAt)
	})
}

func (r autoOperationRepo) UpdateDoneQuantities(ctx context.Context, id string, lines []entity.OperationLine) error {
	return r.s.autocommit(ctx, func(u *unit) error {
		return operationRepo{u}.UpdateDoneQuantities(ctx, id, lines)
	})
}

func (r autoOperationRepo) List(ctx context.Context, f repository.OperationFilter) ([]*entity.Operation, int, error) {
	return operationRepo{r.s.newUnit()}.List(ctx, f)
}

type autoQuantRepo struct{ s *Store }

func (r autoQuantRepo) Increment(ctx context.Context, productID, locationID string, delta decimal.Decimal) (*entity.Quant, error) {
	var q *entity.Quant
	err := r.s.autocommit(ctx, func(u *unit) error {
		var err error
		q, err = quantRepo{u}.Increment(ctx, productID, locationID, delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r autoQuantRepo) Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	return quantRepo{r.s.newUnit()}.Get(ctx, productID, locationID)
}

func (r autoQuantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Quant, error) {
	return quantRepo{r.s.newUnit()}.ListByProduct(ctx, productID)
}

func (r autoQuantRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.Quant, error) {
	return quantRepo{r.s.newUnit()}.ListByLocation(ctx, locationID)
}

type autoLedgerRepo struct{ s *Store }

func (r autoLedgerRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	return r.s.autocommit(ctx, func(u *unit) error { return ledgerRepo{u}.Append(ctx, entry) })
}

func (r autoLedgerRepo) QueryByProduct(ctx context.Context, productID string, dates entity.DateRange) ([]*entity.LedgerEntry, error) {
	return ledgerRepo{r.s.newUnit()}.QueryByProduct(ctx, productID, dates)
}

func (r autoLedgerRepo) QueryByOperationReference(ctx context.Context, reference string) ([]*entity.LedgerEntry, error) {
	return ledgerRepo{r.s.newUnit()}.QueryByOperationReference(ctx, reference)
}

func (r autoLedgerRepo) QueryByLocation(ctx context.Context, locationID string, direction entity.Direction) ([]*entity.LedgerEntry, error) {
	return ledgerRepo{r.s.newUnit()}.QueryByLocation(ctx, locationID, direction)
}

func (r autoLedgerRepo) SumEffect(ctx context.Context, productID, locationID string) (decimal.Decimal, error) {
	return ledgerRepo{r.s.newUnit()}.SumEffect(ctx, productID, locationID)
}

// ── Referencias ───────────────────────────────────────────────────────────────

type locationRepo struct{ s *Store }

func (r locationRepo) GetByID(_ context.Context, id string) (*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	loc, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	c := *loc
	return &c, nil
}

func (r locationRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Location, len(ids))
	for _, id := range ids {
		if loc, ok := r.s.locations[id]; ok {
			c := *loc
			out[id] = &c
		}
	}
	return out, nil
}

type productRepo struct{ s *Store }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			c := *p
			out[id] = &c
		}
	}
	return out, nil
}

type dashboardRepo struct{ s *Store }

func (r dashboardRepo) CountProducts(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products), nil
}

func (r dashboardRepo) CountOperations(_ context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, op := range r.s.operations {
		if op.Type != opType {
			continue
		}
		for _, st := range statuses {
			if op.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}

func (r dashboardRepo) CountLowStock(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	onHand := make(map[string]decimal.Decimal)
	for k, q := range r.s.quants {
		loc, ok := r.s.locations[k.locationID]
		if !ok || loc.Type != entity.LocationTypeInternal {
			continue
		}
		onHand[k.productID] = onHand[k.productID].Add(q.Quantity)
	}

	n := 0
	for id, p := range r.s.products {
		if p.MinStockLevel.IsPositive() && onHand[id].LessThan(p.MinStockLevel) {
			n++
		}
	}
	return n, nil
}
