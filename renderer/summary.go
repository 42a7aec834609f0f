package renderer

import (
	"fmt"
	"strings"

	taxetrade "github.com/dominikmessner/tax-etrade"
)

// TaxSummaryMarkdown renders the yearly tax summary table plus the E1kv
// cross-reference: gains go under Kz 994, losses under Kz 892, losses as
// negative numbers.
func TaxSummaryMarkdown(summaries []taxetrade.YearlyTaxSummary) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Yearly Tax Summary\n\n")
	fmt.Fprintf(&b, "Method: moving average cost basis (Gleitender Durchschnittspreis), KESt 27.5%%\n\n")
	fmt.Fprintln(&b, "| Year | Gains | Losses | Net G/L | Taxable | KESt Due |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")

	for _, s := range summaries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
			s.Year,
			s.TotalGains.StringFixed2(),
			s.TotalLosses.StringFixed2(),
			s.NetGainLoss().StringFixed2(),
			s.TaxableGain().StringFixed2(),
			s.KEStDue().StringFixed2(),
		)
	}

	fmt.Fprint(&b, "\n## E1kv Form Cross-Reference\n\n")
	fmt.Fprintf(&b, "| Year | Kz %s (gains) | Kz %s (losses) |\n", taxetrade.KennzahlGains, taxetrade.KennzahlLosses)
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %d | %s | %s |\n",
			s.Year,
			s.TotalGains.StringFixed2(),
			s.TotalLosses.StringFixed2(),
		)
	}
	fmt.Fprintln(&b, "\nLosses offset gains within the same calendar year only; there is no carryforward.")

	return b.String()
}
