package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	taxetrade "github.com/dominikmessner/tax-etrade"
	"github.com/dominikmessner/tax-etrade/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	year int
}

func (*summaryCmd) Name() string { return "summary" }
func (*summaryCmd) Synopsis() string {
	return "display the yearly KESt summary with E1kv declaration amounts"
}
func (*summaryCmd) Usage() string {
	return `kest summary [-y <year>]

  Processes all stock events and displays, per calendar year, the total
  realized gains and losses, the taxable amount, and the KESt due, with
  the E1kv Kennzahlen to declare them under.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&p.year, "y", 0, "Restrict the summary to a single year.")
}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := DecodeEventsFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	engine, _, status := runEngine(events)
	if status != subcommands.ExitSuccess {
		return status
	}

	summaries := engine.Summaries()
	if p.year != 0 {
		s := engine.Summary(p.year)
		if s == nil {
			fmt.Fprintf(os.Stderr, "No events in year %d\n", p.year)
			return subcommands.ExitFailure
		}
		summaries = []taxetrade.YearlyTaxSummary{*s}
	}

	printMarkdown(renderer.TaxSummaryMarkdown(summaries))

	return subcommands.ExitSuccess
}
