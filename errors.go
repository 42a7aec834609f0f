package taxetrade

import "fmt"

// InventoryExceededError reports a disposal of more shares than the depot
// holds. The engine does not clamp or partially execute; the caller must
// fix the input data (usually a mis-ordered sell-to-cover) and re-run.
type InventoryExceededError struct {
	Date      Date
	Requested Quantity
	Held      Quantity
}

func (e *InventoryExceededError) Error() string {
	return fmt.Sprintf("cannot sell %s shares on %s: only %s shares held; check the ordering of sell-to-cover transactions",
		e.Requested, e.Date, e.Held)
}

// UnknownEventKindError reports a malformed event kind, which indicates a
// bug in an ingestion adapter.
type UnknownEventKindError struct {
	Kind EventType
}

func (e *UnknownEventKindError) Error() string {
	return fmt.Sprintf("unknown event type: %q", string(e.Kind))
}

// RateLookupError reports that no ECB rate exists on or before the
// requested date within the look-back window. The data doesn't exist;
// retrying won't help.
type RateLookupError struct {
	Date     Date
	Lookback int // widest look-back window tried, in calendar days
}

func (e *RateLookupError) Error() string {
	return fmt.Sprintf("no ECB rate available on or before %s (looked back %d days)", e.Date, e.Lookback)
}

// RateFetchError reports that the upstream rate source was unreachable or
// answered with an error. Distinct from RateLookupError so callers can
// tell a transient network failure from missing data.
type RateFetchError struct {
	URL string
	Err error
}

func (e *RateFetchError) Error() string {
	return fmt.Sprintf("failed to fetch ECB rates from %s: %v", e.URL, e.Err)
}

func (e *RateFetchError) Unwrap() error { return e.Err }
