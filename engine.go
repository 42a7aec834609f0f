package taxetrade

import (
	"slices"
	"sort"
)

// LedgerState is the portfolio position snapshot maintained by the Engine.
//
// TotalPortfolioCostEUR is carried incrementally (never recomputed as
// shares×average) so that results match the statutory rounding sequence
// bit-for-bit after many transactions.
type LedgerState struct {
	TotalShares           Quantity
	AvgCostEUR            Money
	TotalPortfolioCostEUR Money
}

// Clone returns a read-only snapshot of the state.
func (s LedgerState) Clone() LedgerState { return s }

// ProcessedEvent is the result of applying one StockEvent to the ledger.
type ProcessedEvent struct {
	Event                 *StockEvent
	PriceEUR              Money // resolved per-share price in EUR, kept for reporting
	TotalSharesAfter      Quantity
	AvgCostEURBefore      Money // average in force when the event was applied
	AvgCostEURAfter       Money
	RealizedGainLoss      Money // zero for acquisitions
	CostChangeEUR         Money // positive for acquisitions, negative for disposals
	TotalPortfolioCostEUR Money
}

// Engine computes Austrian capital-gains tax state using the moving-average
// cost-basis method (Gleitender Durchschnittspreis).
//
// Rules implemented:
//   - the moving average is recalculated on every acquisition (VEST/BUY);
//   - selling never changes the average cost, only the quantity;
//   - a sale can never exceed the currently held quantity (depot check).
//
// An Engine owns its state, history and yearly summaries exclusively;
// accessors hand out copies. It is not safe for concurrent use: event
// processing is a sequential fold.
type Engine struct {
	rates     RateResolver
	state     LedgerState
	processed []ProcessedEvent
	years     map[int]*YearlyTaxSummary
}

// NewEngine creates an engine at zero position. The resolver prices events
// lacking a pinned FX rate; it may be nil when every event carries one.
func NewEngine(rates RateResolver) *Engine {
	return &Engine{
		rates: rates,
		state: LedgerState{TotalShares: Q(0), AvgCostEUR: EUR(0), TotalPortfolioCostEUR: EUR(0)},
		years: make(map[int]*YearlyTaxSummary),
	}
}

// Reset returns the engine to its initial zero state, discarding all
// processed events and summaries.
func (g *Engine) Reset() {
	g.state = LedgerState{TotalShares: Q(0), AvgCostEUR: EUR(0), TotalPortfolioCostEUR: EUR(0)}
	g.processed = nil
	g.years = make(map[int]*YearlyTaxSummary)
}

// State returns a snapshot of the current position.
func (g *Engine) State() LedgerState { return g.state.Clone() }

// Processed returns the history of processed events so far.
func (g *Engine) Processed() []ProcessedEvent { return slices.Clone(g.processed) }

// ProcessAll resets the engine, sorts the events (date ascending,
// acquisitions before disposals on the same day) and processes them
// sequentially. On error, processing stops at the offending event and the
// state as of the last successful event remains inspectable.
func (g *Engine) ProcessAll(events []*StockEvent) ([]ProcessedEvent, error) {
	g.Reset()

	sorted := slices.Clone(events)
	SortEvents(sorted)

	for _, e := range sorted {
		if _, err := g.ProcessEvent(e); err != nil {
			return g.Processed(), err
		}
	}
	return g.Processed(), nil
}

// ProcessEvent applies a single event to the current state and appends the
// result to the history. State mutation is atomic per event: on any error
// the state is exactly as it was before the call.
func (g *Engine) ProcessEvent(e *StockEvent) (ProcessedEvent, error) {
	var result ProcessedEvent
	var err error

	switch {
	case e.Type.IsAcquisition():
		result, err = g.processAcquisition(e)
	case e.Type == Sell:
		result, err = g.processSell(e)
	default:
		err = &UnknownEventKindError{Kind: e.Type}
	}
	if err != nil {
		return ProcessedEvent{}, err
	}

	// Every processed event gets a summary bucket for its year, even an
	// acquisition-only year (it reports zero gains and zero tax).
	year := e.Date.Year()
	summary, ok := g.years[year]
	if !ok {
		summary = &YearlyTaxSummary{Year: year, TotalGains: EUR(0), TotalLosses: EUR(0)}
		g.years[year] = summary
	}
	if result.RealizedGainLoss.IsPositive() {
		summary.TotalGains = summary.TotalGains.Add(result.RealizedGainLoss)
	} else if result.RealizedGainLoss.IsNegative() {
		summary.TotalLosses = summary.TotalLosses.Add(result.RealizedGainLoss)
	}

	g.processed = append(g.processed, result)
	return result, nil
}

// processAcquisition applies a VEST or BUY:
//
//	new avg = (old total cost + new cost) / (old shares + new shares)
//
// The old total cost is reconstituted from shares×average, matching the
// statutory recomputation sequence.
func (g *Engine) processAcquisition(e *StockEvent) (ProcessedEvent, error) {
	newCost, err := e.TotalValueEUR(g.rates)
	if err != nil {
		return ProcessedEvent{}, err
	}
	priceEUR, _ := e.PriceEUR(g.rates) // rate is memoized by now

	oldAvgCost := g.state.AvgCostEUR
	oldTotalCost := g.state.AvgCostEUR.Mul(g.state.TotalShares)
	newTotalCost := oldTotalCost.Add(newCost)
	newTotalShares := g.state.TotalShares.Add(e.Shares)

	newAvgCost := EUR(0)
	if newTotalShares.IsPositive() {
		newAvgCost = newTotalCost.Div(newTotalShares).Round4()
	}

	g.state.TotalShares = newTotalShares
	g.state.AvgCostEUR = newAvgCost
	g.state.TotalPortfolioCostEUR = newTotalCost.Round4()

	return ProcessedEvent{
		Event:                 e,
		PriceEUR:              priceEUR,
		TotalSharesAfter:      g.state.TotalShares,
		AvgCostEURBefore:      oldAvgCost,
		AvgCostEURAfter:       g.state.AvgCostEUR,
		RealizedGainLoss:      EUR(0),
		CostChangeEUR:         newCost,
		TotalPortfolioCostEUR: g.state.TotalPortfolioCostEUR,
	}, nil
}

// processSell applies a SELL. The average cost stays the same; the
// realized gain/loss is (sell price − avg cost) × shares.
func (g *Engine) processSell(e *StockEvent) (ProcessedEvent, error) {
	if e.Shares.GreaterThan(g.state.TotalShares) {
		return ProcessedEvent{}, &InventoryExceededError{
			Date:      e.Date,
			Requested: e.Shares,
			Held:      g.state.TotalShares,
		}
	}

	sellPrice, err := e.PriceEUR(g.rates)
	if err != nil {
		return ProcessedEvent{}, err
	}

	avgCost := g.state.AvgCostEUR
	gainLoss := sellPrice.Sub(avgCost).Mul(e.Shares).Round4()
	costRemoved := avgCost.Mul(e.Shares).Round4()

	g.state.TotalShares = g.state.TotalShares.Sub(e.Shares)
	g.state.TotalPortfolioCostEUR = g.state.TotalPortfolioCostEUR.Sub(costRemoved)

	// A full liquidation zeroes the position outright rather than trusting
	// the accumulated subtraction: rounding drift must not leave a residual
	// average on an empty depot.
	if g.state.TotalShares.IsZero() {
		g.state.AvgCostEUR = EUR(0)
		g.state.TotalPortfolioCostEUR = EUR(0)
	}

	return ProcessedEvent{
		Event:                 e,
		PriceEUR:              sellPrice,
		TotalSharesAfter:      g.state.TotalShares,
		AvgCostEURBefore:      avgCost,
		AvgCostEURAfter:       g.state.AvgCostEUR,
		RealizedGainLoss:      gainLoss,
		CostChangeEUR:         costRemoved.Neg(),
		TotalPortfolioCostEUR: g.state.TotalPortfolioCostEUR,
	}, nil
}

// Summary returns the tax summary for a year, or nil if no event of that
// year has been processed. The returned value is a copy.
func (g *Engine) Summary(year int) *YearlyTaxSummary {
	s, ok := g.years[year]
	if !ok {
		return nil
	}
	c := *s
	return &c
}

// Summaries returns all yearly tax summaries ordered by year ascending.
func (g *Engine) Summaries() []YearlyTaxSummary {
	out := make([]YearlyTaxSummary, 0, len(g.years))
	for _, s := range g.years {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
