package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to entity.OperationStatus
		ok       bool
	}{
		{entity.OperationStatusDraft, entity.OperationStatusReady, true},
		{entity.OperationStatusDraft, entity.OperationStatusDone, true},
		{entity.OperationStatusDraft, entity.OperationStatusCancelled, true},
		{entity.OperationStatusReady, entity.OperationStatusDone, true},
		{entity.OperationStatusReady, entity.OperationStatusCancelled, true},
		{entity.OperationStatusReady, entity.OperationStatusDraft, false},
		{entity.OperationStatusDone, entity.OperationStatusCancelled, false},
		{entity.OperationStatusDone, entity.OperationStatusDone, false},
		{entity.OperationStatusCancelled, entity.OperationStatusDone, false},
		{entity.OperationStatusCancelled, entity.OperationStatusReady, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, entity.CanTransition(tt.from, tt.to))
		})
	}
}

func TestOperation_TransicionTerminalNoModifica(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	op := &entity.Operation{Status: entity.OperationStatusDone, UpdatedAt: created}

	err := op.MarkCancelled(time.Now())

	var te *entity.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, entity.OperationStatusDone, te.From)
	assert.Equal(t, entity.OperationStatusDone, op.Status)
	assert.Equal(t, created, op.UpdatedAt)
}

func TestOperation_MarkDone(t *testing.T) {
	now := time.Now()
	op := &entity.Operation{Status: entity.OperationStatusReady}
	require.NoError(t, op.MarkDone(now))
	assert.Equal(t, entity.OperationStatusDone, op.Status)
	assert.Equal(t, now, op.UpdatedAt)
}

func TestParseEnums(t *testing.T) {
	typ, err := entity.ParseOperationType(" receipt ")
	require.NoError(t, err)
	assert.Equal(t, entity.OperationTypeReceipt, typ)

	_, err = entity.ParseOperationType("RETURN")
	assert.Error(t, err)

	st, err := entity.ParseOperationStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, entity.OperationStatusReady, st)

	_, err = entity.ParseOperationStatus("PENDING")
	assert.Error(t, err)

	lt, err := entity.ParseLocationType("vendor")
	require.NoError(t, err)
	assert.True(t, lt.IsVirtual())
	assert.False(t, entity.LocationTypeInternal.IsVirtual())
	assert.False(t, entity.LocationTypeView.IsVirtual())
}

func TestLedgerEntry_EffectOn(t *testing.T) {
	e := &entity.LedgerEntry{Quantity: decimal.NewFromInt(4), SourceLocationID: "A", DestinationLocationID: "B"}
	assert.True(t, e.EffectOn("A").Equal(decimal.NewFromInt(-4)))
	assert.True(t, e.EffectOn("B").Equal(decimal.NewFromInt(4)))
	assert.True(t, e.EffectOn("C").IsZero())

	same := &entity.LedgerEntry{Quantity: decimal.NewFromInt(4), SourceLocationID: "A", DestinationLocationID: "A"}
	assert.True(t, same.EffectOn("A").IsZero())
}

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	r := entity.DateRange{From: &from, To: &to}

	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.False(t, r.Contains(from.Add(-time.Second)))
	assert.False(t, r.Contains(to.Add(time.Second)))
	assert.True(t, entity.DateRange{}.Contains(time.Time{}))
}
