// Package renderer turns engine output into markdown reports: the
// transaction ledger, the yearly tax summary with its E1kv statutory
// codes, and the per-sale calculation walkthrough.
package renderer

import (
	"fmt"
	"strings"

	taxetrade "github.com/dominikmessner/tax-etrade"
)

// LedgerMarkdown renders the full transaction ledger as a markdown table,
// documenting every event and its effect on the portfolio cost basis.
func LedgerMarkdown(processed []taxetrade.ProcessedEvent) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Transaction Ledger\n\n")
	fmt.Fprintln(&b, "| Date | Type | Shares | Price (USD) | FX Rate | Price (EUR) | Qty After | Avg Cost (EUR) | Realized G/L (EUR) |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|")

	for _, pe := range processed {
		e := pe.Event

		sign := "+"
		if e.Type == taxetrade.Sell {
			sign = "-"
		}

		rate, _ := e.Rate()

		gain := ""
		if !pe.RealizedGainLoss.IsZero() {
			gain = pe.RealizedGainLoss.StringFixed2()
		} else if e.Type == taxetrade.Sell {
			gain = "0.00"
		}

		fmt.Fprintf(&b, "| %s | %s | %s%s | %s | %s | %s | %s | %s | %s |\n",
			e.Date,
			e.Type,
			sign, e.Shares,
			e.PriceUSD.StringFixed2(),
			rate.StringFixed(4),
			pe.PriceEUR.StringFixed4(),
			pe.TotalSharesAfter,
			pe.AvgCostEURAfter.StringFixed4(),
			gain,
		)
	}

	if len(processed) > 0 {
		last := processed[len(processed)-1]
		fmt.Fprintf(&b, "\nFinal position: %s shares, average cost %s, total portfolio cost %s.\n",
			last.TotalSharesAfter,
			last.AvgCostEURAfter.StringFixed4(),
			last.TotalPortfolioCostEUR.StringFixed4(),
		)
	}

	return b.String()
}
