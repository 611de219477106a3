// Package events publica en Kafka las transiciones de operaciones ya confirmadas.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/stock-operations-api/internal/application/inventory"
	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/pkg/config"
	"github.com/jhoicas/stock-operations-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

var (
	_ inventory.EventPublisher = (*KafkaPublisher)(nil)
	_ inventory.EventPublisher = NoopPublisher{}
)

const publishTimeout = 5 * time.Second

// messageWriter lo que usamos de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// operationEventMessage payload JSON del mensaje.
type operationEventMessage struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	OperationID string    `json:"operation_id"`
	Reference   string    `json:"reference"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Lines       int       `json:"lines"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// KafkaPublisher escribe un mensaje por evento; la clave es la referencia de la operación
// para que los eventos de una misma operación caigan en la misma partición.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher crea el writer contra los brokers configurados.
// El writer es asíncrono: WriteMessages solo encola y validate/cancel no esperan al broker.
// Los fallos de entrega llegan a Completion y se registran.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion:   deliveryReport(log),
	})
}

// deliveryReport registra los lotes que el broker no aceptó.
func deliveryReport(log *logger.Logger) func([]kafka.Message, error) {
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		for _, m := range msgs {
			log.Warn().Err(err).Str("reference", string(m.Key)).Msg("evento no entregado")
		}
	}
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish serializa y envía el evento. El plazo es propio para no depender del request.
func (p *KafkaPublisher) Publish(ctx context.Context, evt entity.OperationEvent) error {
	payload, err := json.Marshal(operationEventMessage{
		EventID:     evt.EventID,
		EventType:   evt.EventType,
		OperationID: evt.OperationID,
		Reference:   evt.Reference,
		Type:        string(evt.Type),
		Status:      string(evt.Status),
		Lines:       evt.Lines,
		OccurredAt:  evt.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("serializar %s: %w", evt.EventType, err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(evt.Reference),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
		Time: evt.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar %s: %w", evt.EventType, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher se usa cuando no hay brokers configurados.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, entity.OperationEvent) error { return nil }
