package repository

import (
	"fmt"
	"strings"
)

// parseFilter splits "a = ? AND b = ?" into its column names and checks the
// placeholder count against params.
func parseFilter(where string, params []any) ([]string, error) {
	where = strings.TrimSpace(where)
	if where == "" {
		if len(params) != 0 {
			return nil, fmt.Errorf("%w: %d params without filter", ErrInvalidFilter, len(params))
		}
		return nil, nil
	}
	var cols []string
	for _, term := range splitAnd(where) {
		col, rest, ok := strings.Cut(term, "=")
		if !ok || strings.TrimSpace(rest) != "?" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, term)
		}
		col = strings.Trim(strings.TrimSpace(col), `"`)
		if col == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, term)
		}
		cols = append(cols, col)
	}
	if len(cols) != len(params) {
		return nil, fmt.Errorf("%w: %d placeholders, %d params", ErrInvalidFilter, len(cols), len(params))
	}
	return cols, nil
}

func splitAnd(where string) []string {
	fields := strings.Fields(where)
	var terms []string
	var cur []string
	for _, f := range fields {
		if strings.EqualFold(f, "AND") {
			terms = append(terms, strings.Join(cur, " "))
			cur = nil
			continue
		}
		cur = append(cur, f)
	}
	return append(terms, strings.Join(cur, " "))
}

// sameValue compares stored and wanted values across the numeric and text
// representations the drivers hand back.
func sameValue(a, b any) bool {
	return fmt.Sprint(normalize(a)) == fmt.Sprint(normalize(b))
}

func normalize(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return storedValue(v)
}

// storedValue maps driver and caller values onto the types rows carry:
// int64, float64, string, bool or nil. Named string types become string.
func storedValue(v any) any {
	switch t := v.(type) {
	case nil, int64, float64, string, bool:
		return v
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case float32:
		return float64(t)
	case fmt.Stringer:
		return t.String()
	}
	return v
}
