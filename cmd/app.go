// Package cmd implements the CLI application to compute Austrian KESt on
// stock compensation events.
package cmd

import (
	"flag"
	"fmt"
	"os"

	taxetrade "github.com/dominikmessner/tax-etrade"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ledgerCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&demoCmd{}, "reports")

	c.Register(&fmtCmd{}, "events")
	c.Register(&ratesCmd{}, "events")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var eventsFile = flag.String("events-file", "events.jsonl", "Path to the stock events file (JSONL format)")
var ecbURL = flag.String("ecb-url", "", "Override the ECB API endpoint (defaults to $ECB_API_URL or the official one)")

// DecodeEventsFile reads and validates the app events file.
func DecodeEventsFile() ([]*taxetrade.StockEvent, error) {
	f, err := os.Open(*eventsFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open events file %q: %w", *eventsFile, err)
	}
	defer f.Close()

	events, err := taxetrade.DecodeEvents(f)
	if err != nil {
		return nil, fmt.Errorf("invalid events file %q: %w", *eventsFile, err)
	}
	return events, nil
}

// NewResolver returns the ECB rate resolver configured for this run.
func NewResolver() *taxetrade.ECBRates {
	r := taxetrade.NewECBRates()
	if *ecbURL != "" {
		r.URL = *ecbURL
	}
	return r
}

// runEngine processes the events and reports the history, or prints the
// processing error (including where in the history it happened). Rates for
// unpinned events are bulk-fetched up front so processing never issues one
// ECB request per event date.
func runEngine(events []*taxetrade.StockEvent) (*taxetrade.Engine, []taxetrade.ProcessedEvent, subcommands.ExitStatus) {
	resolver := NewResolver()
	if err := taxetrade.PrefetchRates(resolver, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching ECB rates: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}

	engine := taxetrade.NewEngine(resolver)
	processed, err := engine.ProcessAll(events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing events: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	return engine, processed, subcommands.ExitSuccess
}
