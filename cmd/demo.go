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

type demoCmd struct {
	ecb bool
}

func (*demoCmd) Name() string { return "demo" }
func (*demoCmd) Synopsis() string {
	return "run the built-in sample ledger and show all reports"
}
func (*demoCmd) Usage() string {
	return `kest demo [-ecb]

  Runs a built-in sample ledger of vests, ESPP buys and sells through the
  engine and displays the ledger, the per-sale calculations and the yearly
  tax summary. With -ecb, conversion rates are fetched live from the ECB
  instead of using the rates recorded in the sample.
`
}

func (p *demoCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.ecb, "ecb", false, "Resolve conversion rates from the ECB instead of the recorded ones.")
}

func (p *demoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events := taxetrade.SampleEvents()
	if p.ecb {
		events = taxetrade.SampleEventsECB()
	}

	engine, processed, status := runEngine(events)
	if status != subcommands.ExitSuccess {
		return status
	}

	output := renderer.LedgerMarkdown(processed) +
		"\n" + renderer.SaleDetailsMarkdown(processed) +
		"\n" + renderer.TaxSummaryMarkdown(engine.Summaries())
	printMarkdown(output)

	fmt.Fprintln(os.Stderr, "Tip: use 'kest ledger' and 'kest summary' with your own events file.")
	return subcommands.ExitSuccess
}
