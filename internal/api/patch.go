package api

import (
	"bytes"
	"encoding/json"
)

// Patch is a PATCH body field that tells "absent" (Present false), "null"
// (Present, Value nil) and a value apart
type Patch[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON records presence; absent fields never reach it
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	p.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// IsNull reports whether the field was sent as null
func (p Patch[T]) IsNull() bool {
	return p.Present && p.Value == nil
}
