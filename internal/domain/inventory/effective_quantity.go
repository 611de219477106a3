package inventory

import (
	"fmt"

	"github.com/jhoicas/stock-operations-api/internal/domain"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// EffectiveQuantity cantidad que realmente se aplica al validar una línea:
// DoneQuantity si es positiva, si no DemandQuantity.
// Es la única regla de precedencia; todo el código que mueve stock debe pasar por aquí.
func EffectiveQuantity(line entity.OperationLine) decimal.Decimal {
	if line.DoneQuantity.GreaterThan(decimal.Zero) {
		return line.DoneQuantity
	}
	return line.DemandQuantity
}

// CheckValidatable reúne las guardas previas a cualquier cambio de estado:
// la operación no es terminal, tiene al menos una línea y cada cantidad efectiva es > 0.
// Devuelve errores envueltos en domain.ErrInvalidState o domain.ErrInvalidInput.
func CheckValidatable(op *entity.Operation) error {
	if op.Status.IsTerminal() {
		return fmt.Errorf("operación %s en estado %s: %w", op.Reference, op.Status, domain.ErrInvalidState)
	}
	if len(op.Lines) == 0 {
		return fmt.Errorf("operación %s sin líneas: %w", op.Reference, domain.ErrInvalidInput)
	}
	for i, line := range op.Lines {
		if !EffectiveQuantity(line).GreaterThan(decimal.Zero) {
			return fmt.Errorf("línea %d (producto %s): cantidad efectiva no positiva: %w", i+1, line.ProductID, domain.ErrInvalidInput)
		}
	}
	return nil
}

// CheckCancellable solo exige que la operación siga abierta.
func CheckCancellable(op *entity.Operation) error {
	if op.Status.IsTerminal() {
		return fmt.Errorf("operación %s en estado %s: %w", op.Reference, op.Status, domain.ErrInvalidState)
	}
	return nil
}

// CheckLine valida una línea al crear la operación: demanda > 0 y hecha >= 0.
func CheckLine(line entity.OperationLine) error {
	if line.ProductID == "" {
		return fmt.Errorf("producto requerido: %w", domain.ErrInvalidInput)
	}
	if !line.DemandQuantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("la cantidad demandada debe ser mayor que 0: %w", domain.ErrInvalidInput)
	}
	if line.DoneQuantity.LessThan(decimal.Zero) {
		return fmt.Errorf("la cantidad hecha no puede ser negativa: %w", domain.ErrInvalidInput)
	}
	return nil
}
