package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/sheets"
	"github.com/mamadbah2/stockledger/pkg/clients/whatsapp"
)

// LogObserver writes every event to the structured log.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Name() string { return "log" }

func (o *LogObserver) Observe(_ context.Context, event models.ChangeEvent) error {
	o.logger.Info("inventory changed",
		zap.Int64("product_id", event.ProductID),
		zap.String("kind", string(event.Kind)),
		zap.Int64("previous_balance", event.PreviousBalance),
		zap.Int64("quantity", event.Quantity),
		zap.Int64("new_balance", event.NewBalance),
		zap.String("unit_price", event.UnitPrice.String()))
	return nil
}

// MessageWriter is the subset of *kafka.Writer used for publishing.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaWriter builds a writer for the change event topic.
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// KafkaObserver publishes events as JSON keyed by product id, so events of
// one product stay on one partition.
type KafkaObserver struct {
	writer MessageWriter
}

func NewKafkaObserver(writer MessageWriter) *KafkaObserver {
	return &KafkaObserver{writer: writer}
}

func (o *KafkaObserver) Name() string { return "kafka" }

func (o *KafkaObserver) Observe(ctx context.Context, event models.ChangeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ProductID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
	}
	if err := o.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}
	return nil
}

// SheetsObserver appends one spreadsheet row per event.
type SheetsObserver struct {
	exporter   sheets.Exporter
	sheetRange string
}

func NewSheetsObserver(exporter sheets.Exporter, sheetRange string) *SheetsObserver {
	if sheetRange == "" {
		sheetRange = sheets.MovementsRange
	}
	return &SheetsObserver{exporter: exporter, sheetRange: sheetRange}
}

func (o *SheetsObserver) Name() string { return "sheets" }

func (o *SheetsObserver) Observe(ctx context.Context, event models.ChangeEvent) error {
	row := []interface{}{
		event.OccurredAt.UTC().Format(time.RFC3339),
		event.ProductID,
		string(event.Kind),
		event.PreviousBalance,
		event.Quantity,
		event.NewBalance,
		event.UnitPrice.String(),
	}
	return o.exporter.AppendRow(ctx, o.sheetRange, row)
}

// LowStockObserver sends a WhatsApp alert when a withdrawal leaves a product
// at or below the threshold.
type LowStockObserver struct {
	messenger whatsapp.Messenger
	recipient string
	threshold int64
}

func NewLowStockObserver(messenger whatsapp.Messenger, recipient string, threshold int64) *LowStockObserver {
	return &LowStockObserver{messenger: messenger, recipient: recipient, threshold: threshold}
}

func (o *LowStockObserver) Name() string { return "low_stock" }

func (o *LowStockObserver) Observe(ctx context.Context, event models.ChangeEvent) error {
	if event.Kind != models.MovementWithdrawal || event.NewBalance > o.threshold {
		return nil
	}

	body := fmt.Sprintf("Low stock: product %d has %d unit(s) left after withdrawing %d (threshold %d).",
		event.ProductID, event.NewBalance, event.Quantity, o.threshold)
	if _, err := o.messenger.SendText(ctx, o.recipient, body); err != nil {
		return fmt.Errorf("send low stock alert: %w", err)
	}
	return nil
}
