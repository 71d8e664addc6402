package domain

import "time"

type StockEvent struct {
	ShirtID       string
	Delta         int
	PreviousStock int
	NewStock      int
	Available     bool
	OutOfStock    bool
	LowStock      bool
	RequestID     string
	OccurredAt    time.Time
}

func NewStockEvent(shirt Shirt, delta, threshold int, requestID string, at time.Time) StockEvent {
	return StockEvent{
		ShirtID:       shirt.ID,
		Delta:         delta,
		PreviousStock: shirt.Stock - delta,
		NewStock:      shirt.Stock,
		Available:     IsAvailable(shirt.Stock),
		OutOfStock:    IsOutOfStock(shirt.Stock),
		LowStock:      IsLowStock(shirt.Stock, threshold),
		RequestID:     requestID,
		OccurredAt:    at,
	}
}
