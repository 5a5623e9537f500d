package domain

import "github.com/shopspring/decimal"

// CostBreakdown is the fully resolved cost picture for one finished item.
// Produced by the aggregator only when every material resolved and had
// liquidity; partially resolved items never materialize as a breakdown.
type CostBreakdown struct {
	Product       string
	TypeID        int32
	SellPrice     decimal.Decimal // best dispose-side (buy order) price at the venue
	BuyVolume     int64           // volume remaining at that best buy order
	RawCost       decimal.Decimal // sum of qty x best acquire price over materials
	EffectiveCost decimal.Decimal // raw cost after discount and overhead factors
}

// ProfitResult is one row of the ranked report. Immutable once created;
// nothing outlives the run.
type ProfitResult struct {
	Product       string
	TypeID        int32
	Profit        decimal.Decimal
	ProfitPct     decimal.Decimal
	SellPrice     decimal.Decimal
	EffectiveCost decimal.Decimal
	BuyVolume     int64
}
