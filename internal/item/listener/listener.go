package listener

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/atelierhq/inventory-service/internal/item"
	"github.com/atelierhq/inventory-service/internal/item/dto"
	"github.com/atelierhq/inventory-service/internal/model"
	"github.com/atelierhq/inventory-service/pkg/broker"
	"github.com/atelierhq/inventory-service/pkg/logger"
)

// StockEventListener consumes stock events emitted by the sales and
// receiving systems and applies them through the same ledger operation as
// manual adjustments, so every movement type lands in the audit trail.
type StockEventListener struct {
	consumer *broker.KafkaConsumer
	uc       item.UseCase
	logger   logger.ZapLogger
}

func NewStockEventListener(consumer *broker.KafkaConsumer, uc item.UseCase, log logger.ZapLogger) *StockEventListener {
	return &StockEventListener{
		consumer: consumer,
		uc:       uc,
		logger:   log,
	}
}

func (l *StockEventListener) Start(ctx context.Context) {
	l.logger.Info("starting stock event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping stock event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type StockEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   StockPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type StockPayload struct {
	ItemID    int64  `json:"item_id"`
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// eventDeltas maps event types to the ledger type tag and the sign applied
// to the (positive) event quantity.
var eventDeltas = map[string]struct {
	txType string
	sign   int64
}{
	"SaleCompleted":    {model.TxTypeSale, -1},
	"PurchaseReceived": {model.TxTypePurchase, +1},
	"ReturnAccepted":   {model.TxTypeReturn, +1},
	"DamageReported":   {model.TxTypeDamage, -1},
}

func (l *StockEventListener) processMessage(ctx context.Context, value []byte) {
	var event StockEvent
	if err := jsoniter.ConfigFastest.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal stock event", zap.Error(err))
		return
	}

	mapping, ok := eventDeltas[event.EventType]
	if !ok {
		l.logger.Debug("skipping unknown event type", zap.String("event_type", event.EventType))
		return
	}
	if event.Payload.Quantity <= 0 {
		l.logger.Error("stock event with non-positive quantity",
			zap.String("event_id", event.EventID),
			zap.Int64("quantity", event.Payload.Quantity))
		return
	}

	notes := event.Payload.Notes
	if notes == "" && event.Payload.Reference != "" {
		notes = "ref: " + event.Payload.Reference
	}

	input := &dto.AdjustStockInput{
		ItemID: event.Payload.ItemID,
		Delta:  mapping.sign * event.Payload.Quantity,
		Notes:  notes,
		Type:   mapping.txType,
		UserID: "system",
	}

	if _, err := l.uc.AdjustStock(ctx, input); err != nil {
		l.logger.Error("failed to apply stock event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Int64("item_id", event.Payload.ItemID),
			zap.Error(err),
		)
	}
}
