package renderer

import (
	"fmt"
	"strings"

	taxetrade "github.com/dominikmessner/tax-etrade"
)

// SaleDetailsMarkdown documents how the gain/loss of every sale was
// computed, for readers who want to retrace the arithmetic on the form.
func SaleDetailsMarkdown(processed []taxetrade.ProcessedEvent) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Calculation Details for Sales\n\n")

	n := 0
	for _, pe := range processed {
		if pe.Event.Type != taxetrade.Sell {
			continue
		}
		n++
		e := pe.Event
		avg := pe.AvgCostEURBefore

		fmt.Fprintf(&b, "## %d. Sale on %s\n\n", n, e.Date)
		fmt.Fprintf(&b, "- Sold: %s shares @ %s EUR\n", e.Shares, pe.PriceEUR.StringFixed4())
		fmt.Fprintf(&b, "- Average cost basis: %s EUR\n", avg.StringFixed4())
		fmt.Fprintf(&b, "- Calculation: `(%s - %s) × %s = %s`\n", pe.PriceEUR.StringFixed4(), avg.StringFixed4(), e.Shares, pe.RealizedGainLoss.StringFixed4())
		fmt.Fprintf(&b, "- Realized gain/loss: **%s EUR**\n\n", pe.RealizedGainLoss.StringFixed2())
	}

	if n == 0 {
		fmt.Fprint(&b, "*No sales transactions found.*\n")
	}
	return b.String()
}
