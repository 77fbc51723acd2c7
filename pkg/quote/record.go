// Package quote defines the quote record exchanged between quote sources and
// the reply formatter, and the field accessors used to read it.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Source when the upstream has no usable record
// for a symbol.
var ErrNotFound = errors.New("quote not found")

// Record is the field map returned by the upstream provider. It has no owned
// schema; fields are read through the accessors in fields.go.
type Record map[string]any

// Source fetches the current quote record for a symbol.
type Source interface {
	Name() string
	Quote(ctx context.Context, symbol string) (Record, error)
}

// FromStruct converts an upstream response struct into a Record using its
// JSON field names.
func FromStruct(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode quote: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	return rec, nil
}

// Merge returns a copy of r with every field of other that r lacks.
func (r Record) Merge(other Record) Record {
	out := make(Record, len(r)+len(other))
	for k, v := range other {
		out[k] = v
	}
	for k, v := range r {
		out[k] = v
	}
	return out
}
