// Package report renders the ranked result set as fixed-width columns.
// Presentation only; nothing here touches the network or the caches.
package report

import (
	"fmt"
	"io"
	"strings"

	"indy_go/internal/domain"
)

const (
	nameWidth   = 40
	profitWidth = 15
	pctWidth    = 10
	volWidth    = 10
)

// Write renders one dataset's ranked results. Rows arrive already sorted;
// this function never reorders them.
func Write(w io.Writer, title string, results []domain.ProfitResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "%s: no results computed (missing market data or type IDs?)\n", title)
		return
	}

	fmt.Fprintf(w, "%-*s %*s %*s %*s\n",
		nameWidth, title,
		profitWidth, "Profit (ISK)",
		pctWidth, "Profit %",
		volWidth, "Buy Vol")
	fmt.Fprintf(w, "%s %s %s %s\n",
		strings.Repeat("-", nameWidth),
		strings.Repeat("-", profitWidth),
		strings.Repeat("-", pctWidth),
		strings.Repeat("-", volWidth))

	for _, r := range results {
		name := r.Product
		if len(name) > nameWidth {
			name = name[:nameWidth]
		}
		fmt.Fprintf(w, "%-*s %*s %*s %*d\n",
			nameWidth, name,
			profitWidth, groupThousands(r.Profit.StringFixed(0)),
			pctWidth, r.ProfitPct.StringFixed(1),
			volWidth, r.BuyVolume)
	}
}

// groupThousands inserts comma separators into a plain integer string,
// preserving a leading sign.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}
