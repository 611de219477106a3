package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-operations-api/internal/application/dto"
	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

// seedMovements valida una recepción y una entrega del mismo producto.
func seedMovements(t *testing.T, e *env) {
	t.Helper()
	ctx := context.Background()
	in := e.createOp(t, "WH/IN/001", entity.OperationTypeReceipt, locVendor, locMain,
		lineSpec{product: prodDesk, demand: 10},
		lineSpec{product: prodChair, demand: 6},
	)
	out := e.createOp(t, "WH/OUT/001", entity.OperationTypeDelivery, locMain, locCustomer, lineSpec{product: prodDesk, demand: 4})
	for _, id := range []string{in.ID, out.ID} {
		_, err := e.validate.Validate(ctx, id)
		require.NoError(t, err)
	}
}

func TestListQuants(t *testing.T) {
	e := newEnv(t)
	seedMovements(t, e)
	ctx := context.Background()

	byProduct, err := e.stock.ListQuants(ctx, prodDesk, "")
	require.NoError(t, err)
	assert.Equal(t, 3, byProduct.Total, "vendor, main y customer")

	byLocation, err := e.stock.ListQuants(ctx, "", locMain)
	require.NoError(t, err)
	require.Equal(t, 2, byLocation.Total)
	for _, q := range byLocation.Items {
		require.NotNil(t, q.UpdatedAt)
		switch q.ProductID {
		case prodDesk:
			assert.True(t, q.Quantity.Equal(qty(6)))
		case prodChair:
			assert.True(t, q.Quantity.Equal(qty(6)))
		}
	}

	_, err = e.stock.ListQuants(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.stock.ListQuants(ctx, prodDesk, locMain)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetQuant_SinMovimientosEsCero(t *testing.T) {
	e := newEnv(t)
	q, err := e.stock.GetQuant(context.Background(), prodLamp, locShelf)
	require.NoError(t, err)
	assert.True(t, q.Quantity.IsZero())
	assert.Nil(t, q.UpdatedAt)
}

func TestQueryLedger(t *testing.T) {
	e := newEnv(t)
	seedMovements(t, e)
	ctx := context.Background()

	byRef, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{Reference: "WH/IN/001"})
	require.NoError(t, err)
	assert.Equal(t, 2, byRef.Total)

	byProduct, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{ProductID: prodDesk})
	require.NoError(t, err)
	assert.Equal(t, 2, byProduct.Total)

	future := time.Now().Add(time.Hour)
	empty, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{ProductID: prodDesk, From: &future})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)

	in, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{LocationID: locMain, Direction: "IN"})
	require.NoError(t, err)
	assert.Equal(t, 2, in.Total)

	out, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{LocationID: locMain, Direction: "OUT"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "WH/OUT/001", out.Items[0].OperationReference)

	all, err := e.stock.QueryLedger(ctx, dto.LedgerQuery{LocationID: locMain})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
}

func TestQueryLedger_FiltrosInvalidos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	from := time.Now()
	to := from.Add(-time.Hour)

	tests := []struct {
		name string
		q    dto.LedgerQuery
	}{
		{"sin selector", dto.LedgerQuery{}},
		{"dos selectores", dto.LedgerQuery{ProductID: prodDesk, Reference: "WH/IN/001"}},
		{"dirección desconocida", dto.LedgerQuery{LocationID: locMain, Direction: "SIDEWAYS"}},
		{"rango invertido", dto.LedgerQuery{ProductID: prodDesk, From: &from, To: &to}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.stock.QueryLedger(ctx, tt.q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestReconcile_SinMovimientos(t *testing.T) {
	e := newEnv(t)
	rec, err := e.stock.Reconcile(context.Background(), prodLamp, locMain)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.True(t, rec.LedgerQuantity.IsZero())

	_, err = e.stock.Reconcile(context.Background(), "", locMain)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
