package port

import (
	"context"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.StockEvent) error
	Close() error
}
