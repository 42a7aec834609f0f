package cmd

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	taxetrade "github.com/dominikmessner/tax-etrade"
	"github.com/google/subcommands"
)

func TestRunEngineBatchesRateFetches(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requests++
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<message:StructureSpecificData xmlns:message="http://www.sdmx.org/resources/sdmxml/schemas/v2_1/message">
	<message:DataSet>
		<Series FREQ="D" CURRENCY="USD">
			<Obs TIME_PERIOD="2021-05-17" OBS_VALUE="1.25"/>
			<Obs TIME_PERIOD="2021-06-01" OBS_VALUE="1.25"/>
			<Obs TIME_PERIOD="2021-08-16" OBS_VALUE="1.25"/>
		</Series>
	</message:DataSet>
</message:StructureSpecificData>`)
	}))
	defer ts.Close()

	old := *ecbURL
	*ecbURL = ts.URL
	defer func() { *ecbURL = old }()

	// Three unpinned events on distinct dates must cost one ECB fetch, not
	// one per date.
	events := []*taxetrade.StockEvent{
		taxetrade.NewStockEvent(taxetrade.NewDate(2021, time.May, 17), taxetrade.Vest, taxetrade.Q(30), taxetrade.USD("46.68"), ""),
		taxetrade.NewStockEvent(taxetrade.NewDate(2021, time.June, 1), taxetrade.Buy, taxetrade.Q(50), taxetrade.USD("51.74"), ""),
		taxetrade.NewStockEvent(taxetrade.NewDate(2021, time.August, 16), taxetrade.Sell, taxetrade.Q(5), taxetrade.USD("61.25"), ""),
	}

	_, processed, status := runEngine(events)
	if status != subcommands.ExitSuccess {
		t.Fatalf("runEngine status = %v, want success", status)
	}
	if len(processed) != 3 {
		t.Fatalf("processed %d events, want 3", len(processed))
	}
	if requests != 1 {
		t.Errorf("ECB requests = %d, want 1 batched fetch for the whole run", requests)
	}
}
