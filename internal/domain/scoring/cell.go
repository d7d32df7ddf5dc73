package scoring

import (
	"encoding/json"
	"math"
	"strconv"
)

// Sentinel is the stored marker for a structurally inapplicable cell.
const Sentinel = "–"

// CellKind distinguishes the three stored cell states.
type CellKind uint8

// Cell states. The zero value is Missing.
const (
	Missing CellKind = iota
	Numeric
	NotApplicable
)

func (k CellKind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case NotApplicable:
		return "not_applicable"
	}
	return "missing"
}

// Cell is a single judge sub-score as stored.
type Cell struct {
	Kind  CellKind
	Value float64
}

// MissingCell returns an empty, re-editable cell.
func MissingCell() Cell { return Cell{} }

// SentinelCell returns the not-applicable marker cell.
func SentinelCell() Cell { return Cell{Kind: NotApplicable} }

// NumberCell returns a numeric cell. Callers outside this package should go
// through ValidateAndClamp instead.
func NumberCell(v float64) Cell {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return Cell{Kind: Numeric, Value: v}
}

// Points is the cell's contribution to a total; missing and sentinel count 0.
func (c Cell) Points() float64 {
	if c.Kind != Numeric || math.IsNaN(c.Value) {
		return 0
	}
	return c.Value
}

// String renders the cell in its stored text form: "" for missing, the
// sentinel, or the shortest decimal representation.
func (c Cell) String() string {
	switch c.Kind {
	case Numeric:
		return strconv.FormatFloat(c.Value, 'f', -1, 64)
	case NotApplicable:
		return Sentinel
	}
	return ""
}

// Stored returns the value written to storage: nil for missing.
func (c Cell) Stored() any {
	if c.Kind == Missing {
		return nil
	}
	return c.String()
}

// MarshalJSON renders missing as null, the sentinel as a string and numbers
// as JSON numbers.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case Numeric:
		return json.Marshal(c.Value)
	case NotApplicable:
		return json.Marshal(Sentinel)
	}
	return []byte("null"), nil
}
