package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NullableString tracks whether a string field was present in JSON and
// whether it was explicitly null.
type NullableString struct {
	Valid bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed string
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// Trimmed returns the value with surrounding whitespace removed, or nil.
func (n NullableString) Trimmed() *string {
	if n.Value == nil {
		return nil
	}
	v := strings.TrimSpace(*n.Value)
	return &v
}

// NullableFloat accepts a JSON number or a numeric string.
type NullableFloat struct {
	Valid bool
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var number float64
	if err := json.Unmarshal(trimmed, &number); err == nil {
		n.Valid = true
		n.Value = &number
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return fmt.Errorf("expected number, got %s", trimmed)
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return fmt.Errorf("expected numeric string, got %q", text)
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}
