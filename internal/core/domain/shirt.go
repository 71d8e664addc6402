package domain

import "time"

type Shirt struct {
	ID        string
	Name      *string
	Color     string
	Size      string
	Price     float64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewShirt is the creation input. Stock is taken as given.
type NewShirt struct {
	Name  *string
	Color string
	Size  string
	Price float64
	Stock int
}

// ShirtPatch replaces the non-nil fields of a shirt.
type ShirtPatch struct {
	Name  *string
	Color *string
	Size  *string
	Price *float64
	Stock *int
}

func (p ShirtPatch) Empty() bool {
	return p.Name == nil && p.Color == nil && p.Size == nil && p.Price == nil && p.Stock == nil
}

// Apply copies the patch onto s.
func (p ShirtPatch) Apply(s *Shirt) {
	if p.Name != nil {
		name := *p.Name
		s.Name = &name
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Size != nil {
		s.Size = *p.Size
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Stock != nil {
		s.Stock = *p.Stock
	}
}

type StockAdjustment struct {
	ShirtID   string
	Delta     int
	RequestID string // optional idempotency key
}
