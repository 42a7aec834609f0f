package taxetrade

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append marshals a key/value pair and appends it to the object.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal field %q: %w", key, err)
		return w
	}
	fmt.Fprintf(w, "%q:%s,", key, raw)
	return w
}

// Optional appends a key/value pair only when the value carries information:
// empty strings and values reporting IsZero() are skipped.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	switch v := value.(type) {
	case string:
		if v == "" {
			return w
		}
	case interface{ IsZero() bool }:
		if v.IsZero() {
			return w
		}
	}
	return w.Append(key, value)
}

// MarshalJSON closes the object and returns the accumulated bytes.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	inner := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(inner)+2)
	out = append(out, '{')
	out = append(out, inner...)
	out = append(out, '}')
	return out, nil
}
