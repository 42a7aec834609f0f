package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dominikmessner/tax-etrade/renderer"
	"github.com/google/subcommands"
)

type ledgerCmd struct {
	details bool
}

func (*ledgerCmd) Name() string { return "ledger" }
func (*ledgerCmd) Synopsis() string {
	return "display the chronological event ledger with the running average cost basis"
}
func (*ledgerCmd) Usage() string {
	return `kest ledger [-details]

  Processes all stock events and displays each one with its EUR price,
  the shares held and average cost basis after the event, and the
  realized gain or loss for sells.
`
}

func (p *ledgerCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.details, "details", false, "Also show the per-sale calculation walkthrough.")
}

func (p *ledgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := DecodeEventsFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	_, processed, status := runEngine(events)
	if status != subcommands.ExitSuccess {
		return status
	}

	output := renderer.LedgerMarkdown(processed)
	if p.details {
		output += "\n" + renderer.SaleDetailsMarkdown(processed)
	}
	printMarkdown(output)

	return subcommands.ExitSuccess
}
