// Package publish emits generated storms to Kafka.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/rossv/designstorms-sub000/internal/storm"
)

// Envelope is the JSON value of a published message.
type Envelope struct {
	RunID       string       `json:"run_id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Params      storm.Params `json:"params"`
	Stats       storm.Stats  `json:"stats"`
	Result      storm.Result `json:"result"`
}

// Writer produces one message per storm to a Kafka topic.
type Writer struct {
	writer  *kafkago.Writer
	brokers []string
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the given brokers and topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, brokers: brokers, clock: clockwork.NewRealClock(), logger: logger}
}

// CheckReadiness dials the first reachable broker.
func (w *Writer) CheckReadiness(ctx context.Context) error {
	var lastErr error
	for _, addr := range w.brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no kafka brokers configured")
	}
	return fmt.Errorf("kafka not reachable: %w", lastErr)
}

// Publish writes the storm keyed by run ID.
func (w *Writer) Publish(ctx context.Context, runID string, p storm.Params, r storm.Result) error {
	msg, err := serializeToMessage(runID, p, r, w.clock.Now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", runID, err)
	}
	w.logger.Debug("storm published", "run_id", runID, "topic", w.writer.Topic, "bytes", len(msg.Value))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

func serializeToMessage(runID string, p storm.Params, r storm.Result, now time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(Envelope{
		RunID:       runID,
		GeneratedAt: now.UTC(),
		Params:      p,
		Stats:       r.Stats(),
		Result:      r,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize storm %s: %w", runID, err)
	}
	return kafkago.Message{
		Key:   []byte(runID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "distribution", Value: []byte(r.Distribution)},
			{Key: "generated_at", Value: []byte(now.UTC().Format(time.RFC3339))},
		},
	}, nil
}
