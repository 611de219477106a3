package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/inventory"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestEffectiveQuantity(t *testing.T) {
	tests := []struct {
		name   string
		line   entity.OperationLine
		expect decimal.Decimal
	}{
		{"sin done usa la demanda", entity.OperationLine{DemandQuantity: qty(10)}, qty(10)},
		{"done positivo tiene prioridad", entity.OperationLine{DemandQuantity: qty(10), DoneQuantity: qty(7)}, qty(7)},
		{"done mayor que la demanda", entity.OperationLine{DemandQuantity: qty(10), DoneQuantity: qty(12)}, qty(12)},
		{"done cero explícito", entity.OperationLine{DemandQuantity: qty(3), DoneQuantity: decimal.Zero}, qty(3)},
		{"fracciones", entity.OperationLine{DemandQuantity: decimal.RequireFromString("2.5")}, decimal.RequireFromString("2.5")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventory.EffectiveQuantity(tt.line)
			assert.True(t, tt.expect.Equal(got), "esperado %s, obtenido %s", tt.expect, got)
		})
	}
}

func TestCheckValidatable(t *testing.T) {
	line := entity.OperationLine{ProductID: "p1", DemandQuantity: qty(1)}

	tests := []struct {
		name    string
		op      entity.Operation
		wantErr error
	}{
		{"draft con líneas", entity.Operation{Status: entity.OperationStatusDraft, Lines: []entity.OperationLine{line}}, nil},
		{"ready con líneas", entity.Operation{Status: entity.OperationStatusReady, Lines: []entity.OperationLine{line}}, nil},
		{"done", entity.Operation{Status: entity.OperationStatusDone, Lines: []entity.OperationLine{line}}, domain.ErrInvalidState},
		{"cancelled", entity.Operation{Status: entity.OperationStatusCancelled, Lines: []entity.OperationLine{line}}, domain.ErrInvalidState},
		{"sin líneas", entity.Operation{Status: entity.OperationStatusDraft}, domain.ErrInvalidInput},
		{
			"cantidad efectiva cero",
			entity.Operation{Status: entity.OperationStatusDraft, Lines: []entity.OperationLine{{ProductID: "p1"}}},
			domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op
			err := inventory.CheckValidatable(&op)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckLine(t *testing.T) {
	assert.NoError(t, inventory.CheckLine(entity.OperationLine{ProductID: "p", DemandQuantity: qty(1)}))
	assert.ErrorIs(t, inventory.CheckLine(entity.OperationLine{DemandQuantity: qty(1)}), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckLine(entity.OperationLine{ProductID: "p"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckLine(entity.OperationLine{ProductID: "p", DemandQuantity: qty(-2)}), domain.ErrInvalidInput)
	assert.ErrorIs(t, inventory.CheckLine(entity.OperationLine{ProductID: "p", DemandQuantity: qty(1), DoneQuantity: qty(-1)}), domain.ErrInvalidInput)
}
