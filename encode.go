package taxetrade

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// eventLine mirrors one JSONL record of the events file. This is the wire
// form the ingestion adapters (spreadsheet and document parsers) produce;
// the engine has no knowledge of an event's provenance beyond the notes.
type eventLine struct {
	Date     Date            `json:"date"`
	Type     string          `json:"type"`
	Shares   Quantity        `json:"shares"`
	PriceUSD decimal.Decimal `json:"priceUSD"`
	FXRate   decimal.Decimal `json:"fxRate,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// DecodeEvents reads stock events from a stream of JSONL data, one event
// per line. Input order is irrelevant; the engine sorts before processing.
func DecodeEvents(r io.Reader) ([]*StockEvent, error) {
	var events []*StockEvent
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var line eventLine
		if err := json.Unmarshal(lineBytes, &line); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		kind, err := ParseEventType(line.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if line.Date.IsZero() {
			return nil, fmt.Errorf("line %d: missing date", lineNo)
		}
		if !line.Shares.IsPositive() {
			return nil, fmt.Errorf("line %d: shares must be strictly positive, got %s", lineNo, line.Shares)
		}
		if !line.PriceUSD.IsPositive() {
			return nil, fmt.Errorf("line %d: priceUSD must be strictly positive, got %s", lineNo, line.PriceUSD)
		}
		if line.FXRate.IsNegative() {
			return nil, fmt.Errorf("line %d: fxRate cannot be negative, got %s", lineNo, line.FXRate)
		}

		events = append(events, &StockEvent{
			Date:     line.Date,
			Type:     kind,
			Shares:   line.Shares,
			PriceUSD: USD(line.PriceUSD),
			FXRate:   line.FXRate,
			Notes:    line.Notes,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// EncodeEvents writes events as canonical JSONL, one per line, with a
// stable field order so the file diffs cleanly under version control.
func EncodeEvents(w io.Writer, events []*StockEvent) error {
	for _, e := range events {
		var jw jsonObjectWriter
		jw.Append("date", e.Date)
		jw.Append("type", string(e.Type))
		jw.Append("shares", e.Shares)
		jw.Append("priceUSD", e.PriceUSD)
		jw.Optional("fxRate", e.FXRate)
		jw.Optional("notes", e.Notes)

		line, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("could not encode event of %s: %w", e.Date, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
