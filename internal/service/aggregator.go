package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"indy_go/internal/domain"
)

// CostParams is the multiplier chain for one dataset, resolved from
// configuration before aggregation starts. The discount applies first,
// then the overhead; multiplication commutes but the sources stay
// separate so reports can attribute each factor.
type CostParams struct {
	MaterialDiscount decimal.Decimal
	Overhead         decimal.Decimal
}

// Apply folds the chain into an effective cost.
func (p CostParams) Apply(raw decimal.Decimal) decimal.Decimal {
	return raw.Mul(p.MaterialDiscount).Mul(p.Overhead)
}

// Aggregator computes the full cost breakdown for one finished item at a
// time. Failures are terminal per item, never per run: a SkipError names
// what was missing and the caller moves on to the next recipe. Errors from
// the price source other than ErrNoOrders pass through untouched and abort
// the run upstream.
type Aggregator struct {
	prices  domain.BestOrderSource
	typeIDs map[string]int32
	params  CostParams
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator over a resolved identifier mapping.
func NewAggregator(prices domain.BestOrderSource, typeIDs map[string]int32, params CostParams) *Aggregator {
	return &Aggregator{
		prices:  prices,
		typeIDs: typeIDs,
		params:  params,
		logger:  slog.Default().With("module", "aggregator"),
	}
}

// Cost resolves one recipe into a CostBreakdown:
// product ID -> best dispose order -> per-material ID + best acquire order
// -> raw cost -> multiplier chain. All blueprints are ME 0, so material
// quantities are used as-is.
func (a *Aggregator) Cost(ctx context.Context, r domain.Recipe) (*domain.CostBreakdown, error) {
	typeID, ok := a.typeIDs[r.Product]
	if !ok {
		return nil, &domain.SkipError{Product: r.Product, Reason: domain.ReasonUnresolvedID}
	}

	buy, err := a.prices.BestBuy(ctx, typeID)
	if errors.Is(err, domain.ErrNoOrders) {
		return nil, &domain.SkipError{Product: r.Product, Reason: domain.ReasonNoDisposeLiquidity}
	}
	if err != nil {
		return nil, err
	}

	raw := decimal.Zero
	for mat, qty := range r.Materials {
		matID, ok := a.typeIDs[mat]
		if !ok {
			return nil, &domain.SkipError{Product: r.Product, Material: mat, Reason: domain.ReasonUnresolvedID}
		}

		sell, err := a.prices.BestSell(ctx, matID)
		if errors.Is(err, domain.ErrNoOrders) {
			return nil, &domain.SkipError{Product: r.Product, Material: mat, Reason: domain.ReasonNoAcquireLiquidity}
		}
		if err != nil {
			return nil, err
		}

		raw = raw.Add(qty.Units().Mul(sell.Price))
	}

	return &domain.CostBreakdown{
		Product:       r.Product,
		TypeID:        typeID,
		SellPrice:     buy.Price,
		BuyVolume:     buy.VolumeRemain,
		RawCost:       raw,
		EffectiveCost: a.params.Apply(raw),
	}, nil
}
