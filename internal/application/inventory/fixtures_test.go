package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// Los ids son UUID como en el esquema de PostgreSQL.
var (
	locVendor   = uuid.NewString()
	locMain     = uuid.NewString()
	locShelf    = uuid.NewString()
	locCustomer = uuid.NewString()
	locLoss     = uuid.NewString()
	locView     = uuid.NewString()

	prodDesk  = uuid.NewString()
	prodChair = uuid.NewString()
	prodLamp  = uuid.NewString()
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.OperationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt entity.OperationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Events() []entity.OperationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.OperationEvent(nil), p.events...)
}

// env agrupa el almacén en memoria y los casos de uso conectados a él.
type env struct {
	store     *memory.Store
	publisher *recordingPublisher
	ops       *inventory.OperationUseCase
	validate  *inventory.ValidateOperationUseCase
	cancel    *inventory.CancelOperationUseCase
	stock     *inventory.StockQueryUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	for _, loc := range []*entity.Location{
		{ID: locVendor, Name: "Partners/Vendors", Type: entity.LocationTypeVendor},
		{ID: locMain, Name: "WH/Stock", Type: entity.LocationTypeInternal},
		{ID: locShelf, Name: "WH/Stock/Shelf 1", Type: entity.LocationTypeInternal},
		{ID: locCustomer, Name: "Partners/Customers", Type: entity.LocationTypeCustomer},
		{ID: locLoss, Name: "Virtual/Inventory adjustment", Type: entity.LocationTypeInventoryLoss},
		{ID: locView, Name: "WH", Type: entity.LocationTypeView},
	} {
		s.AddLocation(loc)
	}
	for _, p := range []*entity.Product{
		{ID: prodDesk, SKU: "DESK-001", Name: "Escritorio"},
		{ID: prodChair, SKU: "CHAIR-001", Name: "Silla"},
		{ID: prodLamp, SKU: "LAMP-001", Name: "Lámpara"},
	} {
		s.AddProduct(p)
	}

	log := logger.Nop()
	pub := &recordingPublisher{}
	timeout := 5 * time.Second
	return &env{
		store:     s,
		publisher: pub,
		ops:       inventory.NewOperationUseCase(s, s.Operations(), s.Locations(), s.Products(), timeout, log),
		validate:  inventory.NewValidateOperationUseCase(s, s.Locations(), s.Products(), pub, timeout, log),
		cancel:    inventory.NewCancelOperationUseCase(s, s.Locations(), s.Products(), pub, timeout, log),
		stock:     inventory.NewStockQueryUseCase(s.Quants(), s.Ledger()),
	}
}

type lineSpec struct {
	product string
	demand  int64
	done    int64
}

// createOp crea una operación en DRAFT y falla el test si no se puede.
func (e *env) createOp(t *testing.T, ref string, opType entity.OperationType, src, dst string, lines ...lineSpec) *dto.OperationResponse {
	t.Helper()
	req := dto.CreateOperationRequest{
		Reference:             ref,
		Type:                  string(opType),
		SourceLocationID:      src,
		DestinationLocationID: dst,
	}
	for _, l := range lines {
		line := dto.OperationLineRequest{ProductID: l.product, DemandQuantity: qty(l.demand)}
		if l.done != 0 {
			d := qty(l.done)
			line.DoneQuantity = &d
		}
		req.Lines = append(req.Lines, line)
	}
	op, err := e.ops.Create(context.Background(), req)
	require.NoError(t, err)
	return op
}

// quant lee el saldo confirmado.
func (e *env) quant(t *testing.T, product, location string) decimal.Decimal {
	t.Helper()
	q, err := e.store.Quants().Get(context.Background(), product, location)
	require.NoError(t, err)
	return q
}

func (e *env) ledgerFor(t *testing.T, ref string) []*entity.LedgerEntry {
	t.Helper()
	entries, err := e.store.Ledger().QueryByOperationReference(context.Background(), ref)
	require.NoError(t, err)
	return entries
}
