package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry registro inmutable de un movimiento de stock ya aplicado.
// Quantity es la cantidad efectiva movida (siempre positiva) de Source a Destination.
type LedgerEntry struct {
	ID                    string
	ProductID             string
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
	OperationReference    string
	Date                  time.Time
}

// EffectOn devuelve el efecto con signo del asiento sobre una ubicación:
// +Quantity si es destino, -Quantity si es origen, 0 si no la toca.
func (e *LedgerEntry) EffectOn(locationID string) decimal.Decimal {
	effect := decimal.Zero
	if e.DestinationLocationID == locationID {
		effect = effect.Add(e.Quantity)
	}
	if e.SourceLocationID == locationID {
		effect = effect.Sub(e.Quantity)
	}
	return effect
}

// Direction filtro de sentido para el historial por ubicación.
type Direction string

const (
	DirectionIn  Direction = "IN"  // la ubicación es destino
	DirectionOut Direction = "OUT" // la ubicación es origen
	DirectionAny Direction = "ANY"
)

// ParseDirection acepta IN, OUT, ANY (vacío = ANY).
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case "", DirectionAny:
		return DirectionAny, true
	case DirectionIn, DirectionOut:
		return Direction(s), true
	}
	return "", false
}

// DateRange rango [From, To] inclusivo; extremos nil = sin límite.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae dentro del rango.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}
