package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
)

// Record column names shared with storage and the API.
const (
	ColRoutineID   = "id_routine"
	ColRoutineName = "routine_name"
	ColCategory    = "category"
	ColAgeGroup    = "age_group"
	ColTotal       = "Gesamtpunkte"
)

// Row is one routine's full score row.
type Row struct {
	RoutineID   int64
	RoutineName string
	Category    model.Category
	AgeGroup    string
	Cells       map[panel.Column]Cell
	Total       float64
}

// Cell returns the stored cell for c, missing when absent.
func (r Row) Cell(c panel.Column) Cell {
	return r.Cells[c]
}

// Total sums the points of every sub-score cell in column order.
func Total(cells map[panel.Column]Cell) float64 {
	var total float64
	for _, c := range panel.AllColumns() {
		total += cells[c].Points()
	}
	return total
}

// TotalOfRecord computes the grand total of a raw record. Keys that are not
// judge sub-score columns are ignored; cells are clamped for category first.
func TotalOfRecord(category model.Category, record map[string]any) float64 {
	return Total(CellsFromRecord(category, record))
}

// CellsFromRecord clamps every sub-score column of the full storage width.
// Absent columns become missing (or the sentinel where inapplicable).
func CellsFromRecord(category model.Category, record map[string]any) map[panel.Column]Cell {
	cols := panel.AllColumns()
	cells := make(map[panel.Column]Cell, len(cols))
	for _, c := range cols {
		cells[c] = ValidateAndClamp(category, c, RawString(record[c.String()]))
	}
	return cells
}

// NewRow builds a clamped row with a freshly computed total.
func NewRow(routine model.Routine, record map[string]any) Row {
	cells := CellsFromRecord(routine.Category, record)
	return Row{
		RoutineID:   routine.ID,
		RoutineName: routine.Name,
		Category:    routine.Category,
		AgeGroup:    routine.AgeGroup,
		Cells:       cells,
		Total:       Total(cells),
	}
}

// RowFromRecord parses a stored points record. The total is recomputed; any
// stored total is ignored.
func RowFromRecord(record map[string]any) (Row, error) {
	id, err := toInt64(record[ColRoutineID])
	if err != nil {
		return Row{}, fmt.Errorf("%s: %w", ColRoutineID, err)
	}
	category, err := model.ParseCategory(RawString(record[ColCategory]))
	if err != nil {
		return Row{}, err
	}
	return NewRow(model.Routine{
		ID:       id,
		Name:     RawString(record[ColRoutineName]),
		Category: category,
		AgeGroup: RawString(record[ColAgeGroup]),
	}, record), nil
}

// Record flattens the row into storage columns; missing cells are nil.
func (r Row) Record() map[string]any {
	cols := panel.AllColumns()
	out := make(map[string]any, len(cols)+5)
	out[ColRoutineID] = r.RoutineID
	out[ColRoutineName] = r.RoutineName
	out[ColCategory] = string(r.Category)
	out[ColAgeGroup] = r.AgeGroup
	for _, c := range cols {
		out[c.String()] = r.Cells[c].Stored()
	}
	out[ColTotal] = r.Total
	return out
}

// MarshalJSON renders the row as a flat object keyed by column name.
func (r Row) MarshalJSON() ([]byte, error) {
	cols := panel.AllColumns()
	out := make(map[string]any, len(cols)+5)
	out[ColRoutineID] = r.RoutineID
	out[ColRoutineName] = r.RoutineName
	out[ColCategory] = r.Category
	out[ColAgeGroup] = r.AgeGroup
	for _, c := range cols {
		out[c.String()] = r.Cells[c]
	}
	out[ColTotal] = r.Total
	return json.Marshal(out)
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	case []byte:
		return strconv.ParseInt(string(t), 10, 64)
	}
	return 0, fmt.Errorf("unexpected id value %v", v)
}
