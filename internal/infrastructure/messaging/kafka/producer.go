// Package kafka publishes complaint lifecycle events onto the event bus.
// The bus is strictly downstream: triage output never depends on it, and a
// disabled or failing producer only costs the events themselves.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	segkafka "github.com/segmentio/kafka-go"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

const eventSource = "civiclens"

// EventEnvelope is the wire format for every published event.
type EventEnvelope struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...segkafka.Message) error
	Close() error
}

// Producer implements the triage event publisher port over kafka-go.
type Producer struct {
	writer writerInterface
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer builds a Producer from configuration.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.InvalidParam("kafka brokers are required")
	}

	retries := cfg.ProducerRetries
	if retries <= 0 {
		retries = 3
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	batchTimeout := time.Duration(cfg.BatchTimeoutMS) * time.Millisecond
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}

	writer := &segkafka.Writer{
		Addr:         segkafka.TCP(cfg.Brokers...),
		Balancer:     &segkafka.Hash{},
		MaxAttempts:  retries + 1,
		BatchSize:    batchSize,
		BatchTimeout: batchTimeout,
		RequiredAcks: segkafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}

	return &Producer{writer: writer, logger: logger.Named("kafka")}, nil
}

// Publish wraps the event in an envelope and writes it to topic, keyed so
// events for one complaint stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, topic string, key string, event interface{}) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeInternal, "producer is closed")
	}
	if topic == "" {
		return errors.InvalidParam("topic is required")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode event payload")
	}
	envelope, err := json.Marshal(EventEnvelope{
		EventID:   uuid.NewString(),
		EventType: topic,
		Source:    eventSource,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode event envelope")
	}

	msg := segkafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: envelope,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to publish to %s", topic)
	}

	p.sent.Add(1)
	p.logger.Debug("event published", logging.String("topic", topic), logging.String("key", key))
	return nil
}

// Sent and Failed expose counters for health reporting.
func (p *Producer) Sent() int64   { return p.sent.Load() }
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and closes the writer once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}
