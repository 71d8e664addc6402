package messaging

import (
	"context"
	"log/slog"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.StockEvent) error {
	p.logger.InfoContext(ctx, "stock event",
		"type", routingKey(event),
		"shirt_id", event.ShirtID,
		"delta", event.Delta,
		"previous_stock", event.PreviousStock,
		"new_stock", event.NewStock,
		"request_id", event.RequestID,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// NopPublisher discards events. Used for EVENT_SINK=none.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.StockEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
