package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/patrickmn/go-cache"

	"indy_go/internal/domain"
	"indy_go/internal/infra"
)

// Pricer reduces a fetched order set to the single best order at the
// target venue and memoizes the result per (type, side) for the run.
//
// The two caches are run-scoped and passed in explicitly; entries never
// expire or mutate once set. An absent result is NOT cached: order books
// are too volatile to pin "no liquidity" for a whole run, so repeated
// no-liquidity materials are re-fetched. That re-fetch is a documented
// trade-off, not an oversight.
type Pricer struct {
	source    domain.OrderSource
	stationID int64
	buyCache  *cache.Cache
	sellCache *cache.Cache
	logger    *slog.Logger
}

// NewPricer creates a Pricer over an order source. Callers share one
// buy/sell cache pair across every aggregation in the run.
func NewPricer(source domain.OrderSource, stationID int64, buyCache, sellCache *cache.Cache) *Pricer {
	return &Pricer{
		source:    source,
		stationID: stationID,
		buyCache:  buyCache,
		sellCache: sellCache,
		logger:    slog.Default().With("module", "pricer"),
	}
}

// NewOrderCache creates one run-scoped best-order cache. No expiration and
// no janitor: the cache dies with the run.
func NewOrderCache() *cache.Cache {
	return cache.New(cache.NoExpiration, 0)
}

// BestBuy returns the highest-priced buy order for a type at the venue.
func (p *Pricer) BestBuy(ctx context.Context, typeID int32) (*domain.Order, error) {
	return p.best(ctx, typeID, domain.SideBuy, p.buyCache)
}

// BestSell returns the lowest-priced sell order for a type at the venue.
func (p *Pricer) BestSell(ctx context.Context, typeID int32) (*domain.Order, error) {
	return p.best(ctx, typeID, domain.SideSell, p.sellCache)
}

func (p *Pricer) best(ctx context.Context, typeID int32, side domain.Side, c *cache.Cache) (*domain.Order, error) {
	key := strconv.FormatInt(int64(typeID), 10)
	if v, ok := c.Get(key); ok {
		infra.GlobalMetrics.RecordCacheHit()
		return v.(*domain.Order), nil
	}
	infra.GlobalMetrics.RecordCacheMiss()

	orders, err := p.source.FetchOrders(ctx, typeID, side)
	if err != nil {
		return nil, err
	}

	// Strict comparison keeps the first-seen order on equal prices. Page
	// order from the feed is not guaranteed stable, so equal-price ties
	// are arrival-order-defined.
	var best *domain.Order
	for i := range orders {
		o := &orders[i]
		if o.LocationID != p.stationID {
			continue
		}
		if best == nil {
			best = o
			continue
		}
		if side == domain.SideBuy {
			if o.Price.GreaterThan(best.Price) {
				best = o
			}
		} else {
			if o.Price.LessThan(best.Price) {
				best = o
			}
		}
	}

	if best == nil {
		p.logger.Debug("no orders at venue", "type_id", typeID, "side", side)
		return nil, domain.ErrNoOrders
	}

	c.Set(key, best, cache.NoExpiration)
	return best, nil
}
