package domain

import "context"

// NameResolver batch-converts item display names into stable type IDs.
// The returned mapping is partial: names the upstream service does not
// recognize are omitted, not errors.
type NameResolver interface {
	ResolveNames(ctx context.Context, names []string) (map[string]int32, error)
}

// OrderSource retrieves the complete resting order set for one type and
// side within the configured region, across however many pages it spans.
type OrderSource interface {
	FetchOrders(ctx context.Context, typeID int32, side Side) ([]Order, error)
}

// BestOrderSource reduces an order book to the single best order at the
// target venue. Implementations memoize per (type, side) for the run.
type BestOrderSource interface {
	// BestBuy returns the highest-priced buy order, or ErrNoOrders.
	BestBuy(ctx context.Context, typeID int32) (*Order, error)
	// BestSell returns the lowest-priced sell order, or ErrNoOrders.
	BestSell(ctx context.Context, typeID int32) (*Order, error)
}
