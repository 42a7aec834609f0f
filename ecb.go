package taxetrade

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultECBURL is the ECB Statistical Data Warehouse series for the daily
// USD reference rate. These are the rates the Finanzamt accepts.
const DefaultECBURL = "https://data-api.ecb.europa.eu/service/data/EXR/D.USD.EUR.SP00.A"

const ecbURLEnv = "ECB_API_URL"

const (
	// lookbackDays covers ordinary weekends and single holidays.
	lookbackDays = 10
	// extendedLookbackDays tolerates multi-day holiday clusters (year-end).
	extendedLookbackDays = 30
)

// ECBRates resolves dates to USD→EUR conversion factors from the ECB
// Statistical Data Warehouse.
//
// The ECB publishes USD per 1 EUR; the resolver inverts to EUR per 1 USD
// and rounds half-up to 4 decimal places. A date with no published rate
// (weekend, holiday) resolves to the most recent published rate before it.
//
// Each resolver owns its cache; rates for historical dates never change,
// so cached entries have no expiry. Callers wanting a shared cache across
// engines share the resolver instance.
type ECBRates struct {
	URL    string
	Client *http.Client

	mu    sync.Mutex // serializes cache lookup-or-populate
	cache map[Date]decimal.Decimal
}

// NewECBRates creates a resolver against the official ECB endpoint, or the
// one named by the ECB_API_URL environment variable.
func NewECBRates() *ECBRates {
	url := os.Getenv(ecbURLEnv)
	if url == "" {
		url = DefaultECBURL
	}
	return &ECBRates{
		URL:    url,
		Client: &http.Client{Timeout: 30 * time.Second},
		cache:  make(map[Date]decimal.Decimal),
	}
}

var _ RateResolver = (*ECBRates)(nil)

// GetRate returns the USD→EUR rate for a date, fetching from the ECB on a
// cache miss. The fetch covers a look-back window before the date so that
// weekends and holidays fall back to the last published rate; the window
// widens once before giving up with a RateLookupError.
func (r *ECBRates) GetRate(on Date) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rate, ok := r.cache[on]; ok {
		return rate, nil
	}

	for _, lookback := range []int{lookbackDays, extendedLookbackDays} {
		rates, err := r.fetchPeriod(on.Add(-lookback), on)
		if err != nil {
			return decimal.Zero, err
		}
		for d, v := range rates {
			r.cache[d] = v
		}
		if rate, ok := latestOnOrBefore(rates, on); ok {
			r.cache[on] = rate
			return rate, nil
		}
	}
	return decimal.Zero, &RateLookupError{Date: on, Lookback: extendedLookbackDays}
}

// GetRatesBulk resolves many dates with a single fetch spanning the whole
// min/max range plus the look-back buffer, then populates the cache for
// every requested date, including those that fell back to an earlier
// published date.
func (r *ECBRates) GetRatesBulk(dates []Date) (map[Date]decimal.Decimal, error) {
	result := make(map[Date]decimal.Decimal, len(dates))
	if len(dates) == 0 {
		return result, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	min, max := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}

	for _, lookback := range []int{lookbackDays, extendedLookbackDays} {
		rates, err := r.fetchPeriod(min.Add(-lookback), max)
		if err != nil {
			return nil, err
		}
		for d, v := range rates {
			r.cache[d] = v
		}

		var missed *Date
		for _, d := range dates {
			rate, ok := latestOnOrBefore(rates, d)
			if !ok {
				missed = &d
				break
			}
			r.cache[d] = rate
			result[d] = rate
		}
		if missed == nil {
			return result, nil
		}
		if lookback == extendedLookbackDays {
			return nil, &RateLookupError{Date: *missed, Lookback: extendedLookbackDays}
		}
	}
	panic("unreachable")
}

// ClearCache drops all cached rates. Meant for test isolation; production
// callers never need it since historical rates are immutable.
func (r *ECBRates) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[Date]decimal.Decimal)
}

// fetchPeriod downloads and parses the ECB observation series for a date
// range. Callers must hold r.mu.
func (r *ECBRates) fetchPeriod(from, to Date) (map[Date]decimal.Decimal, error) {
	url := fmt.Sprintf("%s?startPeriod=%s&endPeriod=%s&format=structurespecificdata", r.URL, from, to)
	log.Println("Downloading from ECB:", url)

	resp, err := r.Client.Get(url)
	if err != nil {
		return nil, &RateFetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RateFetchError{URL: url, Err: fmt.Errorf("received status %s", resp.Status)}
	}

	rates, err := parseObservations(resp.Body)
	if err != nil {
		return nil, &RateFetchError{URL: url, Err: err}
	}
	return rates, nil
}

// parseObservations extracts (date, value) pairs from an SDMX-ML document.
// It walks tokens and matches any element locally named "Obs", ignoring
// namespaces entirely: the ECB has shuffled its namespace URIs before and
// the observation attributes are all the contract we rely on.
func parseObservations(body io.Reader) (map[Date]decimal.Decimal, error) {
	rates := make(map[Date]decimal.Decimal)
	one := decimal.NewFromInt(1)

	dec := xml.NewDecoder(body)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed SDMX response: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Obs" {
			continue
		}

		var period, value string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "TIME_PERIOD":
				period = attr.Value
			case "OBS_VALUE":
				value = attr.Value
			}
		}
		if period == "" || value == "" {
			continue
		}

		day, err := ParseDate(period)
		if err != nil {
			return nil, fmt.Errorf("bad TIME_PERIOD %q: %w", period, err)
		}
		usdPerEUR, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("bad OBS_VALUE %q: %w", value, err)
		}
		if !usdPerEUR.IsPositive() {
			return nil, fmt.Errorf("non-positive OBS_VALUE %q for %s", value, period)
		}
		// The series quotes USD per EUR; the ledger needs the inverse.
		rates[day] = one.Div(usdPerEUR).Round(4)
	}
	return rates, nil
}

// latestOnOrBefore picks the rate for the given date, or the most recent
// published one before it.
func latestOnOrBefore(rates map[Date]decimal.Decimal, on Date) (decimal.Decimal, bool) {
	if rate, ok := rates[on]; ok {
		return rate, true
	}
	var best Date
	found := false
	for d := range rates {
		if d.After(on) {
			continue
		}
		if !found || d.After(best) {
			best = d
			found = true
		}
	}
	if !found {
		return decimal.Zero, false
	}
	return rates[best], true
}
