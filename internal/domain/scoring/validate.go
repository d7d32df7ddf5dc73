// Package scoring validates judge sub-scores and aggregates them into
// totals and cohort-normalized domain scores.
package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
)

// Score bounds per domain.
const (
	MaxQualityScore   = 10
	MaxDismountCount  = 999
	maxSharedDismount = 2 // D judges beyond this are inapplicable for individual and pair
)

// decimalText is plain decimal notation with an optional exponent. Hex
// floats, digit separators and words like "Inf" do not match.
var decimalText = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ValidateAndClamp turns a submitted raw value into the stored cell for
// column of a routine in category. It never fails: invalid input becomes a
// missing cell.
func ValidateAndClamp(category model.Category, column panel.Column, raw string) Cell {
	if column.Domain() == panel.Dismount && column.Judge.Number() > maxSharedDismount && category.UsesTwoDismountJudges() {
		return SentinelCell()
	}
	raw = strings.TrimSpace(raw)
	if raw == Sentinel {
		return SentinelCell()
	}
	raw = strings.Replace(raw, ",", ".", 1)
	if !decimalText.MatchString(raw) {
		return MissingCell()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return MissingCell()
	}
	if v < 0 {
		return MissingCell()
	}
	switch column.Domain() {
	case panel.Dismount:
		if v != math.Trunc(v) || v > MaxDismountCount {
			return MissingCell()
		}
	case panel.Technique, panel.Presentation:
		if v > MaxQualityScore {
			return MissingCell()
		}
	default:
		return MissingCell()
	}
	return NumberCell(v)
}

// RawString converts a value read from storage or decoded from JSON into
// the raw text ValidateAndClamp expects.
func RawString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
