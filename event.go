package taxetrade

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// EventType identifies the kind of stock event.
type EventType string

const (
	// Vest is an RSU vesting, treated as an acquisition at market price.
	Vest EventType = "VEST"
	// Buy is an ESPP purchase.
	Buy EventType = "BUY"
	// Sell is a manual sale or a sell-to-cover.
	Sell EventType = "SELL"
)

// ParseEventType parses a string into an EventType.
func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case Vest, Buy, Sell:
		return EventType(s), nil
	default:
		return "", fmt.Errorf("unknown event type: %q", s)
	}
}

// IsAcquisition reports whether the event adds shares to the depot.
// VEST and BUY share acquisition semantics; they are distinguished only
// for reporting.
func (t EventType) IsAcquisition() bool { return t == Vest || t == Buy }

// sortRank orders same-day events: acquisitions strictly before disposals,
// VEST before BUY among acquisitions. A sell-to-cover vests shares and
// sells a portion the same calendar day; the sale must see the just-vested
// inventory or the depot check fires spuriously.
func (t EventType) sortRank() int {
	switch t {
	case Vest:
		return 0
	case Buy:
		return 1
	default:
		return 2
	}
}

// RateResolver maps a date to a USD→EUR conversion factor.
// ECBRates is the production implementation; tests inject stubs.
type RateResolver interface {
	// GetRate returns the rate for the given date, falling back to the
	// most recent published rate on or before it.
	GetRate(on Date) (decimal.Decimal, error)
	// GetRatesBulk resolves many dates with a single upstream fetch.
	GetRatesBulk(dates []Date) (map[Date]decimal.Decimal, error)
}

// StockEvent is the immutable record of a single transaction.
//
// The FX rate may be pinned at construction (FXRate); otherwise it is
// resolved lazily through a RateResolver and memoized, so an event is
// priced at most once for its lifetime.
type StockEvent struct {
	Date     Date
	Type     EventType
	Shares   Quantity        // strictly positive, also for sells
	PriceUSD Money           // price per share in the source currency
	FXRate   decimal.Decimal // optional pinned USD→EUR rate; zero means "resolve via ECB"
	Notes    string          // free text, no semantic effect

	fx         decimal.Decimal
	fxResolved bool
}

// NewStockEvent builds an event with a lazily resolved FX rate.
func NewStockEvent(on Date, kind EventType, shares Quantity, priceUSD Money, notes string) *StockEvent {
	return &StockEvent{Date: on, Type: kind, Shares: shares, PriceUSD: priceUSD, Notes: notes}
}

// NewStockEventFX builds an event with a pinned FX rate.
func NewStockEventFX(on Date, kind EventType, shares Quantity, priceUSD Money, fxRate decimal.Decimal, notes string) *StockEvent {
	return &StockEvent{Date: on, Type: kind, Shares: shares, PriceUSD: priceUSD, FXRate: fxRate, Notes: notes}
}

// ResolvedFXRate returns the USD→EUR rate for this event, resolving it on
// first call and memoizing it for the event's lifetime. A pinned FXRate
// takes precedence and never touches the resolver.
func (e *StockEvent) ResolvedFXRate(r RateResolver) (decimal.Decimal, error) {
	if e.fxResolved {
		return e.fx, nil
	}
	if e.FXRate.IsPositive() {
		e.fx, e.fxResolved = e.FXRate, true
		return e.fx, nil
	}
	if r == nil {
		return decimal.Zero, fmt.Errorf("no FX rate pinned on %s event of %s and no resolver provided", e.Type, e.Date)
	}
	rate, err := r.GetRate(e.Date)
	if err != nil {
		return decimal.Zero, err
	}
	e.fx, e.fxResolved = rate, true
	return e.fx, nil
}

// Rate returns the memoized rate, and whether the event has been resolved.
func (e *StockEvent) Rate() (decimal.Decimal, bool) { return e.fx, e.fxResolved }

// PriceEUR returns the per-share price in the reporting currency,
// rounded half-up to 4 decimal places.
func (e *StockEvent) PriceEUR(r RateResolver) (Money, error) {
	rate, err := e.ResolvedFXRate(r)
	if err != nil {
		return Money{}, err
	}
	return e.PriceUSD.Convert(rate, "EUR").Round4(), nil
}

// TotalValueEUR returns the total transaction value in the reporting
// currency, rounded half-up to 4 decimal places.
func (e *StockEvent) TotalValueEUR(r RateResolver) (Money, error) {
	price, err := e.PriceEUR(r)
	if err != nil {
		return Money{}, err
	}
	return price.Mul(e.Shares).Round4(), nil
}

// SortEvents orders events for processing: by date ascending, then
// acquisitions before disposals on the same day (VEST before BUY). The
// sort is stable so same-day same-kind events keep their input order and
// the output stays deterministic.
func SortEvents(events []*StockEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date.Before(events[j].Date)
		}
		return events[i].Type.sortRank() < events[j].Type.sortRank()
	})
}

// PrefetchRates bulk-resolves ECB rates for every event without a pinned
// rate, collapsing what would otherwise be one upstream fetch per date
// into a single fetch for the whole batch.
func PrefetchRates(r RateResolver, events []*StockEvent) error {
	var dates []Date
	for _, e := range events {
		if !e.fxResolved && !e.FXRate.IsPositive() {
			dates = append(dates, e.Date)
		}
	}
	if len(dates) == 0 {
		return nil
	}
	_, err := r.GetRatesBulk(dates)
	return err
}
