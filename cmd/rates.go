package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	taxetrade "github.com/dominikmessner/tax-etrade"
	"github.com/google/subcommands"
)

type ratesCmd struct{}

func (*ratesCmd) Name() string { return "rates" }
func (*ratesCmd) Synopsis() string {
	return "fetch the ECB EUR/USD rate for one or more dates"
}
func (*ratesCmd) Usage() string {
	return `kest rates <date> [<date>...]

  Fetches the ECB reference rate for each given date (yyyy-mm-dd) and
  prints the EUR-per-USD conversion rate the engine would use. For
  weekends and holidays the most recent published rate is used.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one date is required")
		return subcommands.ExitUsageError
	}

	dates := make([]taxetrade.Date, 0, f.NArg())
	for _, arg := range f.Args() {
		on, err := taxetrade.ParseDate(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		dates = append(dates, on)
	}

	resolver := NewResolver()
	rates, err := resolver.GetRatesBulk(dates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching rates: %v\n", err)
		return subcommands.ExitFailure
	}

	for _, on := range dates {
		fmt.Printf("%s  %s EUR/USD\n", on, rates[on])
	}
	return subcommands.ExitSuccess
}
