package netem

import (
	"strconv"
	"strings"
)

// Value is a numeric parameter kept as the operator typed it. An empty Value
// means unset. Parsing is deferred to callers that want it so the renderer
// stays permissive.
type Value string

// IsSet reports whether the value carries any text.
func (v Value) IsSet() bool {
	return v != ""
}

// Or returns v, or fallback when v is unset.
func (v Value) Or(fallback Value) Value {
	if v.IsSet() {
		return v
	}
	return fallback
}

// String returns the raw text.
func (v Value) String() string {
	return string(v)
}

// Float parses the trimmed value as a decimal number.
func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
}
