package worker

import (
	"context"
	"encoding/json"
	"time"

	"shopopti/internal/config"
	"shopopti/internal/database"
	"shopopti/internal/events"
	"shopopti/internal/logger"
	"shopopti/internal/models"

	"github.com/segmentio/kafka-go"
)

// Worker consumes batch summary events and stamps supplier sync times.
// It is the only background consumer; the API itself never paces or
// schedules anything.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	reader *kafka.Reader
}

func New(cfg *config.Config, log *logger.Logger, db *database.Database) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "shopopti-worker",
		Topic:          cfg.ImportTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: log,
		db:     db,
		reader: reader,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event events.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if err := w.process(event); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}
	}
}

func (w *Worker) process(event events.Event) error {
	switch event.Type {
	case events.TypeImportCompleted, events.TypeExportCompleted:
		w.logger.Info("%s supplier=%s imported=%d failed=%d",
			event.Type, event.SupplierID, event.Imported, event.Failed)
		if event.SupplierID == "" {
			return nil
		}
		return w.db.DB.
			Model(&models.SupplierConnection{}).
			Where("id = ?", event.SupplierID).
			Update("last_synced", event.Timestamp).Error
	default:
		w.logger.Debug("Unhandled event type: %s", event.Type)
		return nil
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
