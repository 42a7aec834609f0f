package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	taxetrade "github.com/dominikmessner/tax-etrade"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the events file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `kest fmt

  Validates and formats the events file. This command reads all events,
  validates them, sorts them chronologically (vests before buys before
  sells within a day), and writes them back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	events, err := DecodeEventsFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	taxetrade.SortEvents(events)

	tmp := *eventsFile + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}

	if err := taxetrade.EncodeEvents(out, events); err != nil {
		out.Close()
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", tmp, err)
		return subcommands.ExitFailure
	}
	if err := os.Rename(tmp, *eventsFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error replacing %q: %v\n", *eventsFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d events in %s\n", len(events), *eventsFile)
	return subcommands.ExitSuccess
}
