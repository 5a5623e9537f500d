package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"indy_go/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Rank turns successful cost breakdowns into report rows sorted by profit
// percentage, descending. The sort is stable, so items with equal
// percentages keep the relative order of the underlying recipe table.
// A non-positive effective cost yields a zero percentage by definition,
// never a division error or an infinity. An empty input returns an empty
// slice unchanged; the caller reports "no results" as its own outcome.
func Rank(breakdowns []*domain.CostBreakdown) []domain.ProfitResult {
	results := make([]domain.ProfitResult, 0, len(breakdowns))
	for _, b := range breakdowns {
		profit := b.SellPrice.Sub(b.EffectiveCost)

		pct := decimal.Zero
		if b.EffectiveCost.IsPositive() {
			pct = profit.Div(b.EffectiveCost).Mul(hundred)
		}

		results = append(results, domain.ProfitResult{
			Product:       b.Product,
			TypeID:        b.TypeID,
			Profit:        profit,
			ProfitPct:     pct,
			SellPrice:     b.SellPrice,
			EffectiveCost: b.EffectiveCost,
			BuyVolume:     b.BuyVolume,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ProfitPct.GreaterThan(results[j].ProfitPct)
	})

	return results
}
