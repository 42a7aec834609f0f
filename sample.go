package taxetrade

import (
	"time"

	"github.com/shopspring/decimal"
)

// SampleEvents returns the reference 2020–2022 dataset with FX rates
// pinned from the original spreadsheet. It powers the `kest demo`
// subcommand and the end-to-end tests: processing it must end with
// exactly 63 shares at an average cost of €45.7701.
func SampleEvents() []*StockEvent {
	fx := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []*StockEvent{
		// 2020
		NewStockEventFX(NewDate(2020, time.November, 27), Buy, Q(50), USD("38.42"), fx("0.8388"), "ESPP Buy"),

		// 2021
		NewStockEventFX(NewDate(2021, time.February, 3), Sell, Q(50), USD("48.85"), fx("0.8322"), "Manual Sell"),
		NewStockEventFX(NewDate(2021, time.May, 17), Vest, Q(30), USD("46.68"), fx("0.8235"), "RSU Vest"),
		NewStockEventFX(NewDate(2021, time.May, 17), Sell, Q(25), USD("44.82"), fx("0.8235"), "RSU Sell (sell-to-cover)"),
		NewStockEventFX(NewDate(2021, time.May, 17), Sell, Q(2), USD("46.22"), fx("0.8235"), "RSU Sell"),
		NewStockEventFX(NewDate(2021, time.May, 28), Buy, Q(50), USD("51.74"), fx("0.8236"), "ESPP Buy"),
		NewStockEventFX(NewDate(2021, time.August, 16), Vest, Q(10), USD("63.65"), fx("0.8495"), "RSU Vest"),
		NewStockEventFX(NewDate(2021, time.August, 16), Sell, Q(5), USD("61.25"), fx("0.8495"), "RSU Sell (sell-to-cover)"),
		NewStockEventFX(NewDate(2021, time.November, 15), Vest, Q(10), USD("70.68"), fx("0.8738"), "RSU Vest"),
		NewStockEventFX(NewDate(2021, time.November, 16), Sell, Q(5), USD("69.28"), fx("0.8797"), "RSU Sell"),
		NewStockEventFX(NewDate(2021, time.November, 26), Buy, Q(100), USD("62.97"), fx("0.8857"), "ESPP Buy"),

		// 2022
		NewStockEventFX(NewDate(2022, time.May, 27), Buy, Q(105), USD("38.19"), fx("0.9327"), "ESPP Buy"),
		NewStockEventFX(NewDate(2022, time.June, 1), Sell, Q(205), USD("39.15"), fx("0.9335"), "Manual Sell"),
	}
}

// SampleEventsECB returns the same dataset without pinned rates, so every
// event resolves its rate through the ECB. Useful to exercise the resolver
// against live data; the bit-exact expectations above only hold for the
// pinned variant.
func SampleEventsECB() []*StockEvent {
	events := SampleEvents()
	for _, e := range events {
		e.FXRate = decimal.Zero
	}
	return events
}
