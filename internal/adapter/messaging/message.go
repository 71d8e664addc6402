package messaging

import (
	"encoding/json"
	"time"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

const (
	RoutingKeyAdjusted = "stock.adjusted"
	RoutingKeyLow      = "stock.low"
	RoutingKeyOut      = "stock.out"
)

// stockMessage is the wire form shared by every sink.
type stockMessage struct {
	Type          string    `json:"type"`
	ShirtID       string    `json:"shirt_id"`
	Delta         int       `json:"delta"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Available     bool      `json:"available"`
	OutOfStock    bool      `json:"out_of_stock"`
	LowStock      bool      `json:"low_stock"`
	RequestID     string    `json:"request_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func encodeEvent(event domain.StockEvent) ([]byte, error) {
	return json.Marshal(stockMessage{
		Type:          routingKey(event),
		ShirtID:       event.ShirtID,
		Delta:         event.Delta,
		PreviousStock: event.PreviousStock,
		NewStock:      event.NewStock,
		Available:     event.Available,
		OutOfStock:    event.OutOfStock,
		LowStock:      event.LowStock,
		RequestID:     event.RequestID,
		OccurredAt:    event.OccurredAt.UTC(),
	})
}

// routingKey picks the most specific key: out beats low beats adjusted.
func routingKey(event domain.StockEvent) string {
	switch {
	case event.OutOfStock:
		return RoutingKeyOut
	case event.LowStock:
		return RoutingKeyLow
	default:
		return RoutingKeyAdjusted
	}
}
