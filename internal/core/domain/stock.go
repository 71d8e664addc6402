package domain

const DefaultLowStockThreshold = 5

func IsAvailable(stock int) bool {
	return stock > 0
}

func IsOutOfStock(stock int) bool {
	return stock == 0
}

func IsLowStock(stock, threshold int) bool {
	return stock < threshold
}

// CanAdjust reports whether delta may be applied to stock. Only a decrement
// can be refused, and only when it would take the counter below zero.
func CanAdjust(stock, delta int) bool {
	return delta >= 0 || stock+delta >= 0
}

type StockView string

const (
	ViewAll        StockView = "all"
	ViewAvailable  StockView = "available"
	ViewOutOfStock StockView = "out_of_stock"
	ViewLowStock   StockView = "low_stock"
)

func ParseStockView(s string) (StockView, bool) {
	switch v := StockView(s); v {
	case ViewAll, ViewAvailable, ViewOutOfStock, ViewLowStock:
		return v, true
	case "":
		return ViewAll, true
	}
	return "", false
}

// StockCondition restricts a listing by the stock counter alone.
// SQL stores translate it, every other store calls Match.
type StockCondition struct {
	View      StockView
	Threshold int // only read for ViewLowStock
}

func (c StockCondition) Match(stock int) bool {
	switch c.View {
	case ViewAvailable:
		return IsAvailable(stock)
	case ViewOutOfStock:
		return IsOutOfStock(stock)
	case ViewLowStock:
		return IsLowStock(stock, c.Threshold)
	default:
		return true
	}
}

// Filter is the predicate handed to ShirtRepository.List. Empty fields match anything.
type Filter struct {
	Color string
	Size  string
	Stock *StockCondition
}

func (f Filter) Match(s Shirt) bool {
	if f.Color != "" && s.Color != f.Color {
		return false
	}
	if f.Size != "" && s.Size != f.Size {
		return false
	}
	if f.Stock != nil && !f.Stock.Match(s.Stock) {
		return false
	}
	return true
}

func AvailableFilter() Filter {
	return Filter{Stock: &StockCondition{View: ViewAvailable}}
}

func OutOfStockFilter() Filter {
	return Filter{Stock: &StockCondition{View: ViewOutOfStock}}
}

func LowStockFilter(threshold int) Filter {
	return Filter{Stock: &StockCondition{View: ViewLowStock, Threshold: threshold}}
}
