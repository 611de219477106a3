// Package memory implementa los puertos de persistencia en memoria con semántica de unidad de trabajo:
// las escrituras de Run se acumulan y se aplican juntas en el commit; si fn falla no queda nada.
// GetForUpdate toma un bloqueo por operación que se libera al terminar Run.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Pasos donde SetFault puede inyectar un fallo.
const (
	StepOperationCreate = "operation.create"
	StepOperationUpdate = "operation.update"
	StepQuantIncrement  = "quant.increment"
	StepLedgerAppend    = "ledger.append"
	StepCommit          = "commit"
)

// FaultFunc decide si el paso step falla. Se usa en pruebas de atomicidad.
type FaultFunc func(step string) error

type quantKey struct {
	productID  string
	locationID string
}

// Store estado confirmado más los bloqueos por operación.
type Store struct {
	mu          sync.RWMutex
	operations  map[string]*entity.Operation
	order       []string // IDs de operaciones en orden de creación
	byReference map[string]string
	quants      map[quantKey]*entity.Quant
	ledger      []*entity.LedgerEntry
	locations   map[string]*entity.Location
	products    map[string]*entity.Product
	fault       FaultFunc

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		operations:  make(map[string]*entity.Operation),
		byReference: make(map[string]string),
		quants:      make(map[quantKey]*entity.Quant),
		locations:   make(map[string]*entity.Location),
		products:    make(map[string]*entity.Product),
		locks:       make(map[string]chan struct{}),
	}
}

// AddLocation registra una ubicación de referencia.
func (s *Store) AddLocation(loc *entity.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *loc
	s.locations[loc.ID] = &c
}

// AddProduct registra un producto de referencia.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.products[p.ID] = &c
}

// SetFault instala (o quita, con nil) el inyector de fallos.
func (s *Store) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

func (s *Store) check(step string) error {
	s.mu.RLock()
	f := s.fault
	s.mu.RUnlock()
	if f == nil {
		return nil
	}
	return f(step)
}

// ── Unidad de trabajo ─────────────────────────────────────────────────────────

type statusChange struct {
	status    entity.OperationStatus
	updatedAt time.Time
}

// unit escrituras pendientes de una llamada a Run.
type unit struct {
	s        *Store
	created  []*entity.Operation
	statuses map[string]statusChange
	done     map[string][]entity.OperationLine
	deltas   map[quantKey]decimal.Decimal
	stamps   map[quantKey]time.Time
	ledger   []*entity.LedgerEntry
	locked   map[string]chan struct{}
}

func (s *Store) newUnit() *unit {
	return &unit{
		s:        s,
		statuses: make(map[string]statusChange),
		done:     make(map[string][]entity.OperationLine),
		deltas:   make(map[quantKey]decimal.Decimal),
		stamps:   make(map[quantKey]time.Time),
		locked:   make(map[string]chan struct{}),
	}
}

// Run ejecuta fn en una unidad de trabajo. Implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	opRepo repository.OperationRepository,
	quantRepo repository.QuantRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("iniciar unidad: %w", err)
	}
	u := s.newUnit()
	defer u.release()

	if err := fn(operationRepo{u}, quantRepo{u}, ledgerRepo{u}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return u.commit()
}

func (s *Store) autocommit(ctx context.Context, fn func(u *unit) error) error {
	u := s.newUnit()
	defer u.release()
	if err := fn(u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return u.commit()
}

func (u *unit) lock(ctx context.Context, id string) error {
	if _, held := u.locked[id]; held {
		return nil
	}
	u.s.locksMu.Lock()
	ch, ok := u.s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		u.s.locks[id] = ch
	}
	u.s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		u.locked[id] = ch
		return nil
	case <-ctx.Done():
		return fmt.Errorf("esperando bloqueo de operación %s: %w", id, ctx.Err())
	}
}

func (u *unit) release() {
	for id, ch := range u.locked {
		<-ch
		delete(u.locked, id)
	}
}

func (u *unit) commit() error {
	if err := u.s.check(StepCommit); err != nil {
		return err
	}

	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(u.created))
	for _, op := range u.created {
		if _, dup := s.byReference[op.Reference]; dup {
			return fmt.Errorf("referencia %s: %w", op.Reference, domain.ErrConflict)
		}
		if _, dup := seen[op.Reference]; dup {
			return fmt.Errorf("referencia %s: %w", op.Reference, domain.ErrConflict)
		}
		seen[op.Reference] = struct{}{}
	}

	for _, op := range u.created {
		s.operations[op.ID] = cloneOperation(op)
		s.byReference[op.Reference] = op.ID
		s.order = append(s.order, op.ID)
	}
	for id, lines := range u.done {
		if op, ok := s.operations[id]; ok {
			op.Lines = cloneLines(lines)
		}
	}
	for id, ch := range u.statuses {
		if op, ok := s.operations[id]; ok {
			op.Status = ch.status
			op.UpdatedAt = ch.updatedAt
		}
	}
	for k, delta := range u.deltas {
		q, ok := s.quants[k]
		if !ok {
			q = &entity.Quant{ProductID: k.productID, LocationID: k.locationID, Quantity: decimal.Zero}
			s.quants[k] = q
		}
		q.Quantity = q.Quantity.Add(delta)
		q.UpdatedAt = u.stamps[k]
	}
	for _, e := range u.ledger {
		c := *e
		s.ledger = append(s.ledger, &c)
	}
	return nil
}

// operation devuelve la vista de la operación dentro de la unidad: confirmado + pendiente.
func (u *unit) operation(id string) *entity.Operation {
	var op *entity.Operation
	for _, c := range u.created {
		if c.ID == id {
			op = cloneOperation(c)
		}
	}
	if op == nil {
		u.s.mu.RLock()
		committed, ok := u.s.operations[id]
		if ok {
			op = cloneOperation(committed)
		}
		u.s.mu.RUnlock()
	}
	if op == nil {
		return nil
	}
	if lines, ok := u.done[id]; ok {
		op.Lines = cloneLines(lines)
	}
	if ch, ok := u.statuses[id]; ok {
		op.Status = ch.status
		op.UpdatedAt = ch.updatedAt
	}
	return op
}

// ── Operaciones ───────────────────────────────────────────────────────────────

type operationRepo struct{ u *unit }

func (r operationRepo) Create(_ context.Context, op *entity.Operation) error {
	if err := r.u.s.check(StepOperationCreate); err != nil {
		return err
	}
	r.u.s.mu.RLock()
	_, dup := r.u.s.byReference[op.Reference]
	r.u.s.mu.RUnlock()
	if dup {
		return fmt.Errorf("referencia %s: %w", op.Reference, domain.ErrConflict)
	}
	for _, c := range r.u.created {
		if c.Reference == op.Reference {
			return fmt.Errorf("referencia %s: %w", op.Reference, domain.ErrConflict)
		}
	}
	r.u.created = append(r.u.created, cloneOperation(op))
	return nil
}

func (r operationRepo) GetByID(_ context.Context, id string) (*entity.Operation, error) {
	return r.u.operation(id), nil
}

func (r operationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Operation, error) {
	if err := r.u.lock(ctx, id); err != nil {
		return nil, err
	}
	return r.u.operation(id), nil
}

func (r operationRepo) UpdateStatus(_ context.Context, id string, status entity.OperationStatus, updatedAt time.Time) error {
	if err := r.u.s.check(StepOperationUpdate); err != nil {
		return err
	}
	if r.u.operation(id) == nil {
		return fmt.Errorf("operación %s: %w", id, domain.ErrNotFound)
	}
	r.u.statuses[id] = statusChange{status: status, updatedAt: updatedAt}
	return nil
}

func (r operationRepo) UpdateDoneQuantities(_ context.Context, id string, lines []entity.OperationLine) error {
	if err := r.u.s.check(StepOperationUpdate); err != nil {
		return err
	}
	op := r.u.operation(id)
	if op == nil {
		return fmt.Errorf("operación %s: %w", id, domain.ErrNotFound)
	}
	if len(op.Lines) != len(lines) {
		return fmt.Errorf("operación %s: se esperaban %d líneas, llegaron %d", id, len(op.Lines), len(lines))
	}
	r.u.done[id] = cloneLines(lines)
	return nil
}

func (r operationRepo) List(_ context.Context, f repository.OperationFilter) ([]*entity.Operation, int, error) {
	s := r.u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entity.Operation
	// Más recientes primero.
	for i := len(s.order) - 1; i >= 0; i-- {
		op := s.operations[s.order[i]]
		if f.Type != nil && op.Type != *f.Type {
			continue
		}
		if f.Status != nil && op.Status != *f.Status {
			continue
		}
		matched = append(matched, op)
	}
	total := len(matched)

	if f.Offset >= total {
		return []*entity.Operation{}, total, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	out := make([]*entity.Operation, 0, end-f.Offset)
	for _, op := range matched[f.Offset:end] {
		out = append(out, cloneOperation(op))
	}
	return out, total, nil
}

// ── Quants ────────────────────────────────────────────────────────────────────

type quantRepo struct{ u *unit }

func (r quantRepo) Increment(_ context.Context, productID, locationID string, delta decimal.Decimal) (*entity.Quant, error) {
	if err := r.u.s.check(StepQuantIncrement); err != nil {
		return nil, err
	}
	k := quantKey{productID, locationID}
	now := time.Now()
	r.u.deltas[k] = r.u.deltas[k].Add(delta)
	r.u.stamps[k] = now
	return &entity.Quant{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   r.committed(k).Add(r.u.deltas[k]),
		UpdatedAt:  now,
	}, nil
}

func (r quantRepo) committed(k quantKey) decimal.Decimal {
	r.u.s.mu.RLock()
	defer r.u.s.mu.RUnlock()
	if q, ok := r.u.s.quants[k]; ok {
		return q.Quantity
	}
	return decimal.Zero
}

func (r quantRepo) Get(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	k := quantKey{productID, locationID}
	return r.committed(k).Add(r.u.deltas[k]), nil
}

func (r quantRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Quant, error) {
	return r.list(func(k quantKey) bool { return k.productID == productID }), nil
}

func (r quantRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.Quant, error) {
	return r.list(func(k quantKey) bool { return k.locationID == locationID }), nil
}

func (r quantRepo) list(match func(quantKey) bool) []*entity.Quant {
	s := r.u.s
	s.mu.RLock()
	byKey := make(map[quantKey]*entity.Quant)
	for k, q := range s.quants {
		if match(k) {
			c := *q
			byKey[k] = &c
		}
	}
	s.mu.RUnlock()

	for k, delta := range r.u.deltas {
		if !match(k) {
			continue
		}
		q, ok := byKey[k]
		if !ok {
			q = &entity.Quant{ProductID: k.productID, LocationID: k.locationID, Quantity: decimal.Zero}
			byKey[k] = q
		}
		q.Quantity = q.Quantity.Add(delta)
		q.UpdatedAt = r.u.stamps[k]
	}

	out := make([]*entity.Quant, 0, len(byKey))
	for _, q := range byKey {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out
}

// ── Bitácora ──────────────────────────────────────────────────────────────────

type ledgerRepo struct{ u *unit }

func (r ledgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	if err := r.u.s.check(StepLedgerAppend); err != nil {
		return err
	}
	c := *entry
	r.u.ledger = append(r.u.ledger, &c)
	return nil
}

func (r ledgerRepo) filter(match func(*entity.LedgerEntry) bool) []*entity.LedgerEntry {
	s := r.u.s
	s.mu.RLock()
	all := make([]*entity.LedgerEntry, 0, len(s.ledger)+len(r.u.ledger))
	all = append(all, s.ledger...)
	s.mu.RUnlock()
	all = append(all, r.u.ledger...)

	out := make([]*entity.LedgerEntry, 0)
	for _, e := range all {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}

func (r ledgerRepo) QueryByProduct(_ context.Context, productID string, dates entity.DateRange) ([]*entity.LedgerEntry, error) {
	return r.filter(func(e *entity.LedgerEntry) bool {
		return e.ProductID == productID && dates.Contains(e.Date)
	}), nil
}

func (r ledgerRepo) QueryByOperationReference(_ context.Context, reference string) ([]*entity.LedgerEntry, error) {
	return r.filter(func(e *entity.LedgerEntry) bool { return e.OperationReference == reference }), nil
}

func (r ledgerRepo) QueryByLocation(_ context.Context, locationID string, direction entity.Direction) ([]*entity.LedgerEntry, error) {
	return r.filter(func(e *entity.LedgerEntry) bool {
		switch direction {
		case entity.DirectionIn:
			return e.DestinationLocationID == locationID
		case entity.DirectionOut:
			return e.SourceLocationID == locationID
		default:
			return e.DestinationLocationID == locationID || e.SourceLocationID == locationID
		}
	}), nil
}

func (r ledgerRepo) SumEffect(_ context.Context, productID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.filter(func(e *entity.LedgerEntry) bool { return e.ProductID == productID }) {
		sum = sum.Add(e.EffectOn(locationID))
	}
	return sum, nil
}

func cloneLines(lines []entity.OperationLine) []entity.OperationLine {
	out := make([]entity.OperationLine, len(lines))
	copy(out, lines)
	return out
}

func cloneOperation(op *entity.Operation) *entity.Operation {
	c := *op
	c.Lines = cloneLines(op.Lines)
	if op.PartnerID != nil {
		p := *op.PartnerID
		c.PartnerID = &p
	}
	return &c
}
