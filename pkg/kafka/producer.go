package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"tms/internal/models"

	skafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DefaultTopic carries every shipment event.
const DefaultTopic = "shipment-events"

// Writer defines the subset of segmentio kafka.Writer we need. This makes the producer testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Producer publishes shipment events keyed by shipment id, so every event
// of one shipment lands on the same partition.
type Producer struct {
	writer Writer
	log    *zap.Logger
}

// NewProducer creates a Producer writing to topic on broker.
func NewProducer(broker, topic string, log *zap.Logger) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &skafka.Writer{
		Addr:                   skafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &skafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(w, log)
}

// NewProducerWithWriter allows injecting a test writer.
func NewProducerWithWriter(w Writer, log *zap.Logger) *Producer {
	return &Producer{writer: w, log: log}
}

func (p *Producer) PublishShipmentEvent(ctx context.Context, event models.ShipmentEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal shipment event: %w", err)
	}
	msg := skafka.Message{
		Key:   []byte(event.ShipmentID),
		Value: b,
		Headers: []skafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	p.log.Debug("shipment event sent", zap.String("type", string(event.Type)), zap.String("shipment_id", event.ShipmentID))
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
