package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"indy_go/internal/domain"
	"indy_go/internal/infra"
	"indy_go/internal/infra/esi"
	"indy_go/internal/recipes"
	"indy_go/internal/report"
	"indy_go/internal/service"
)

// Bootstrap orchestrates the application startup sequence and owns the
// single sequential run. Execution is deliberately serial: one blocking
// round trip at a time, wall clock linear in unique (type, side) pairs,
// mitigated only by the run-scoped best-order caches.
type Bootstrap struct {
	Config   *infra.Config
	Client   *esi.Client
	Icons    *infra.IconDownloader
	datasets []*recipes.Dataset
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, wires the logger, loads every recipe
// dataset and prepares the ESI client.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	for _, path := range cfg.Datasets {
		ds, err := recipes.Load(path)
		if err != nil {
			return err
		}
		b.datasets = append(b.datasets, ds)
	}
	if len(b.datasets) == 0 {
		return domain.ErrNoDatasets
	}

	b.Client = esi.NewClient(cfg)

	if cfg.Icons.Enabled {
		icons, err := infra.NewIconDownloader()
		if err != nil {
			return err
		}
		b.Icons = icons
	}

	slog.Info("bootstrap complete",
		"datasets", len(b.datasets),
		"region", cfg.Market.RegionID,
		"station", cfg.Market.StationID)
	return nil
}

// Run executes the whole profitability run: one identifier lookup over
// every name any dataset references, then a sequential pass over the
// datasets sharing one pair of best-order caches, so materials common to
// several tables are fetched once.
func (b *Bootstrap) Run(ctx context.Context) error {
	names := recipes.Names(b.datasets)
	slog.Info("resolving type ids", "names", len(names))
	typeIDs, err := b.Client.ResolveNames(ctx, names)
	if err != nil {
		return err
	}

	buyCache := service.NewOrderCache()
	sellCache := service.NewOrderCache()
	pricer := service.NewPricer(b.Client, b.Config.Market.StationID, buyCache, sellCache)

	for _, ds := range b.datasets {
		if err := b.runDataset(ctx, ds, typeIDs, pricer); err != nil {
			return err
		}
	}

	snap := infra.GlobalMetrics.Snapshot()
	slog.Info("run complete",
		"pages_fetched", snap.PagesFetched,
		"retries", snap.Retries,
		"cache_hits", snap.CacheHits,
		"cache_misses", snap.CacheMisses,
		"items_ranked", snap.ItemsRanked,
		"items_skipped", snap.ItemsSkipped)
	return nil
}

func (b *Bootstrap) runDataset(ctx context.Context, ds *recipes.Dataset, typeIDs map[string]int32, pricer *service.Pricer) error {
	params := b.costParams(ds)
	slog.Info("computing dataset",
		"title", ds.Title,
		"recipes", len(ds.Recipes),
		"discount", params.MaterialDiscount.String(),
		"overhead", params.Overhead.String())

	agg := service.NewAggregator(pricer, typeIDs, params)

	var breakdowns []*domain.CostBreakdown
	for _, r := range ds.Recipes {
		bd, err := agg.Cost(ctx, r)
		if err != nil {
			if skip, ok := domain.IsSkip(err); ok {
				infra.GlobalMetrics.RecordSkip()
				slog.Warn("skipping item",
					"product", skip.Product,
					"material", skip.Material,
					"reason", skip.Reason)
				continue
			}
			// Non-retryable remote failure: abort the run.
			return fmt.Errorf("dataset %s: %w", ds.Title, err)
		}
		infra.GlobalMetrics.RecordRanked()
		breakdowns = append(breakdowns, bd)
	}

	results := service.Rank(breakdowns)
	report.Write(os.Stdout, ds.Title, results)
	fmt.Fprintln(os.Stdout)

	if b.Icons != nil {
		b.fetchIcons(ctx, results)
	}
	return nil
}

// costParams resolves the effective multiplier chain for one dataset:
// dataset overrides win over the run-level cost configuration.
func (b *Bootstrap) costParams(ds *recipes.Dataset) service.CostParams {
	costs := b.Config.Costs
	if ds.MaterialDiscount.IsPositive() {
		costs.MaterialDiscount = ds.MaterialDiscount
	}
	if ds.OverheadFactor.IsPositive() {
		costs.OverheadFactor = ds.OverheadFactor
		costs.BaseOverhead = decimal.Zero
		costs.TaxRate = decimal.Zero
	}
	return service.CostParams{
		MaterialDiscount: costs.Discount(),
		Overhead:         costs.Overhead(),
	}
}

// fetchIcons warms the local icon cache for the ranked products. Failures
// are cosmetic and only logged at debug.
func (b *Bootstrap) fetchIcons(ctx context.Context, results []domain.ProfitResult) {
	for _, r := range results {
		if ctx.Err() != nil {
			return
		}
		if _, err := b.Icons.DownloadTypeIcon(r.TypeID); err != nil {
			slog.Debug("icon fetch failed", "type_id", r.TypeID, "error", err)
		}
	}
}
