package domain

import "github.com/shopspring/decimal"

// Side distinguishes the two halves of a regional order book.
type Side string

const (
	// SideBuy are resting buy orders: demand we dispose (sell) the finished
	// item into. Best means highest price.
	SideBuy Side = "buy"
	// SideSell are resting sell orders: supply we acquire (buy) materials
	// from. Best means lowest price.
	SideSell Side = "sell"
)

// Order is one resting market order as returned by the market data service.
// Price crosses the JSON boundary as a float and is converted to decimal
// immediately; all downstream math stays in decimal.
type Order struct {
	OrderID      int64
	TypeID       int32
	IsBuyOrder   bool
	Price        decimal.Decimal
	LocationID   int64 // venue (station) the order rests at
	VolumeRemain int64
}
