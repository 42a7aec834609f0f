package taxetrade

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newECBServer serves an SDMX-ML document with the observations published
// between startPeriod and endPeriod, counting requests.
func newECBServer(published map[string]string, requests *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		*requests++
		from := req.URL.Query().Get("startPeriod")
		to := req.URL.Query().Get("endPeriod")

		var obs strings.Builder
		for day, value := range published {
			if day >= from && day <= to {
				fmt.Fprintf(&obs, `<Obs TIME_PERIOD="%s" OBS_VALUE="%s"/>`, day, value)
			}
		}
		fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<message:StructureSpecificData xmlns:message="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message">
	<message:DataSet>
		<Series FREQ="D" CURRENCY="USD">%s</Series>
	</message:DataSet>
</message:StructureSpecificData>`, obs.String())
	}))
}

func newTestResolver(ts *httptest.Server) *ECBRates {
	r := NewECBRates()
	r.URL = ts.URL
	r.Client = ts.Client()
	return r
}

func TestGetRateInvertsPublishedValue(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{"2021-05-17": "1.25"}, &requests)
	defer ts.Close()

	rate, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 17))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	// ECB publishes 1.25 USD per EUR; the engine wants 1/1.25 = 0.8 EUR per USD.
	if !rate.Equal(fx("0.8")) {
		t.Errorf("rate = %s, want 0.8", rate)
	}
}

func TestGetRateHalfUpInversion(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{"2021-05-17": "1.1875"}, &requests)
	defer ts.Close()

	rate, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 17))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	// 1/1.1875 = 0.8421052... rounds to 0.8421.
	if !rate.Equal(fx("0.8421")) {
		t.Errorf("rate = %s, want 0.8421", rate)
	}
}

func TestGetRateWeekendFallback(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{"2021-05-21": "1.25"}, &requests)
	defer ts.Close()

	// 2021-05-22 is a Saturday; the Friday rate applies.
	rate, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 22))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(fx("0.8")) {
		t.Errorf("rate = %s, want the Friday 0.8", rate)
	}
}

func TestGetRateWidensLookback(t *testing.T) {
	requests := 0
	// Published 21 days before the requested date: outside the first
	// 10-day window, inside the extended 30-day one.
	ts := newECBServer(map[string]string{"2020-12-20": "1.25"}, &requests)
	defer ts.Close()

	rate, err := newTestResolver(ts).GetRate(NewDate(2021, time.January, 10))
	if err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if !rate.Equal(fx("0.8")) {
		t.Errorf("rate = %s, want 0.8", rate)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 (narrow window then widened)", requests)
	}
}

func TestGetRateLookupError(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{}, &requests)
	defer ts.Close()

	_, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 17))

	var lookup *RateLookupError
	if !errors.As(err, &lookup) {
		t.Fatalf("error = %v, want RateLookupError", err)
	}
	if lookup.Lookback != 30 {
		t.Errorf("lookback = %d, want 30", lookup.Lookback)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 before giving up", requests)
	}
}

func TestGetRateFetchError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 17))

	var fetch *RateFetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("error = %v, want RateFetchError", err)
	}
	var lookup *RateLookupError
	if errors.As(err, &lookup) {
		t.Error("a transport failure must not be reported as a lookup miss")
	}
}

func TestGetRateRejectsNonPositiveObservation(t *testing.T) {
	for name, value := range map[string]string{"zero": "0", "negative": "-1.25"} {
		t.Run(name, func(t *testing.T) {
			requests := 0
			ts := newECBServer(map[string]string{"2021-05-17": value}, &requests)
			defer ts.Close()

			_, err := newTestResolver(ts).GetRate(NewDate(2021, time.May, 17))

			// A corrupt observation is upstream data gone bad; it must
			// surface as a fetch error, never crash the inversion.
			var fetch *RateFetchError
			if !errors.As(err, &fetch) {
				t.Fatalf("error = %v, want RateFetchError", err)
			}
		})
	}
}

func TestGetRateCaches(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{"2021-05-17": "1.25"}, &requests)
	defer ts.Close()

	r := newTestResolver(ts)
	on := NewDate(2021, time.May, 17)

	for i := 0; i < 3; i++ {
		if _, err := r.GetRate(on); err != nil {
			t.Fatalf("GetRate() error = %v", err)
		}
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 (later calls served from cache)", requests)
	}

	r.ClearCache()
	if _, err := r.GetRate(on); err != nil {
		t.Fatalf("GetRate() after ClearCache error = %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2 after ClearCache", requests)
	}
}

func TestGetRatesBulkSingleFetch(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{
		"2021-05-17": "1.25",
		"2021-05-21": "1.25",
		"2021-08-16": "1.25",
	}, &requests)
	defer ts.Close()

	r := newTestResolver(ts)
	dates := []Date{
		NewDate(2021, time.May, 17),
		NewDate(2021, time.May, 22), // Saturday, falls back to the 21st
		NewDate(2021, time.August, 16),
	}

	rates, err := r.GetRatesBulk(dates)
	if err != nil {
		t.Fatalf("GetRatesBulk() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want 1 fetch for the whole batch", requests)
	}
	for _, d := range dates {
		if !rates[d].Equal(fx("0.8")) {
			t.Errorf("rate[%s] = %s, want 0.8", d, rates[d])
		}
	}

	// The bulk fetch must have warmed the per-date cache too.
	if _, err := r.GetRate(dates[1]); err != nil {
		t.Fatalf("GetRate() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("requests = %d, want the cached rate to avoid a refetch", requests)
	}
}

func TestGetRatesBulkEmpty(t *testing.T) {
	requests := 0
	ts := newECBServer(map[string]string{}, &requests)
	defer ts.Close()

	rates, err := newTestResolver(ts).GetRatesBulk(nil)
	if err != nil {
		t.Fatalf("GetRatesBulk(nil) error = %v", err)
	}
	if len(rates) != 0 || requests != 0 {
		t.Errorf("rates = %v, requests = %d, want empty result and no fetch", rates, requests)
	}
}
