package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType tipo de operación de inventario. Enumeración cerrada: solo existen los valores declarados.
type OperationType string

const (
	OperationTypeReceipt          OperationType = "RECEIPT"           // entrada desde proveedor
	OperationTypeDelivery         OperationType = "DELIVERY"          // salida hacia cliente
	OperationTypeInternalTransfer OperationType = "INTERNAL_TRANSFER" // traslado entre ubicaciones internas
	OperationTypeAdjustment       OperationType = "ADJUSTMENT"        // ajuste contra pérdidas de inventario
)

// OperationTypes lista los tipos válidos en orden estable.
var OperationTypes = []OperationType{
	OperationTypeReceipt,
	OperationTypeDelivery,
	OperationTypeInternalTransfer,
	OperationTypeAdjustment,
}

// ParseOperationType convierte un string al tipo; falla con valores desconocidos.
func ParseOperationType(s string) (OperationType, error) {
	t := OperationType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range OperationTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("tipo de operación desconocido: %q", s)
}

// OperationStatus estado del ciclo de vida de una operación.
type OperationStatus string

const (
	OperationStatusDraft     OperationStatus = "DRAFT"
	OperationStatusReady     OperationStatus = "READY"
	OperationStatusDone      OperationStatus = "DONE"      // terminal
	OperationStatusCancelled OperationStatus = "CANCELLED" // terminal
)

// OperationStatuses lista los estados válidos.
var OperationStatuses = []OperationStatus{
	OperationStatusDraft,
	OperationStatusReady,
	OperationStatusDone,
	OperationStatusCancelled,
}

// ParseOperationStatus convierte un string al estado; falla con valores desconocidos.
func ParseOperationStatus(s string) (OperationStatus, error) {
	st := OperationStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range OperationStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("estado de operación desconocido: %q", s)
}

// IsTerminal indica si el estado ya no admite transiciones.
func (s OperationStatus) IsTerminal() bool {
	return s == OperationStatusDone || s == OperationStatusCancelled
}

// IsPending indica si la operación sigue abierta (DRAFT o READY).
func (s OperationStatus) IsPending() bool {
	return s == OperationStatusDraft || s == OperationStatusReady
}

// transitions tabla de transiciones legales.
var transitions = map[OperationStatus][]OperationStatus{
	OperationStatusDraft: {OperationStatusReady, OperationStatusDone, OperationStatusCancelled},
	OperationStatusReady: {OperationStatusDone, OperationStatusCancelled},
}

// CanTransition indica si from -> to es una transición legal.
func CanTransition(from, to OperationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OperationLine una línea (producto + cantidades) dentro de una operación.
type OperationLine struct {
	ProductID      string
	DemandQuantity decimal.Decimal // cantidad solicitada (> 0)
	DoneQuantity   decimal.Decimal // cantidad procesada (>= 0, 0 hasta la validación)
}

// Operation solicitud de mover una o varias cantidades de producto entre dos ubicaciones.
// Solo el motor de validación o la cancelación modifican Status.
type Operation struct {
	ID                    string
	Reference             string // ej. WH/IN/001, único global
	Type                  OperationType
	Status                OperationStatus
	SourceLocationID      string
	DestinationLocationID string
	PartnerID             *string // proveedor o cliente (opcional)
	ScheduledDate         time.Time
	Lines                 []OperationLine
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// transition aplica from -> to si es legal; si no, devuelve *TransitionError sin modificar la operación.
func (o *Operation) transition(to OperationStatus, now time.Time) error {
	if !CanTransition(o.Status, to) {
		return &TransitionError{From: o.Status, To: to}
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

// MarkReady DRAFT -> READY.
func (o *Operation) MarkReady(now time.Time) error {
	return o.transition(OperationStatusReady, now)
}

// MarkDone DRAFT|READY -> DONE. No aplica efectos de stock; eso lo hace el motor de validación.
func (o *Operation) MarkDone(now time.Time) error {
	return o.transition(OperationStatusDone, now)
}

// MarkCancelled DRAFT|READY -> CANCELLED.
func (o *Operation) MarkCancelled(now time.Time) error {
	return o.transition(OperationStatusCancelled, now)
}

// TransitionError transición ilegal en la máquina de estados.
type TransitionError struct {
	From OperationStatus
	To   OperationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no se puede pasar de %s a %s", e.From, e.To)
}
