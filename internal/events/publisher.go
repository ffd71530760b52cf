package events

import (
	"context"
	"encoding/json"
	"time"

	"shopopti/internal/logger"

	"github.com/segmentio/kafka-go"
)

const (
	TypeImportCompleted = "import.completed"
	TypeExportCompleted = "export.completed"
)

// Event is the summary record published after each batch. The worker
// uses it to stamp supplier sync times; publishing is best-effort and
// never fails the batch that produced it.
type Event struct {
	Type       string    `json:"type"`
	SupplierID string    `json:"supplier_id"`
	UserID     string    `json:"user_id"`
	Imported   int       `json:"imported"`
	Failed     int       `json:"failed"`
	Timestamp  time.Time `json:"timestamp"`
}

type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers, topic string, log *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{writer: writer, logger: log}
}

func (p *Publisher) Publish(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event: %v", err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SupplierID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish %s event: %v", event.Type, err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
