package entity

import "time"

// Tipos de evento emitidos tras confirmar la unidad de trabajo.
const (
	EventOperationValidated = "OperationValidated"
	EventOperationCancelled = "OperationCancelled"
)

// OperationEvent notificación de una transición terminal ya confirmada.
type OperationEvent struct {
	EventID     string
	EventType   string
	OperationID string
	Reference   string
	Type        OperationType
	Status      OperationStatus
	Lines       int
	OccurredAt  time.Time
}
