// Package repository defines the table store used by the score board and its
// SQLite and in-memory implementations.
package repository

import (
	"context"
	"slices"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
)

// Table names.
const (
	TableRiders         = "riders"
	TableRoutines       = "routines"
	TableRidersRoutines = "riders_routines"
	TablePoints         = "points"
)

// Row is one table row keyed by column name.
type Row = map[string]any

// Store provides table level access to the competition data.
//
// where is either empty or a conjunction of equality tests with positional
// placeholders, e.g. "category = ? AND age_group = ?".
type Store interface {
	// Read returns the rows of table matching where, in insertion order.
	Read(ctx context.Context, table, where string, params ...any) ([]Row, error)
	// Write replaces the whole table with rows.
	Write(ctx context.Context, table string, rows []Row) error
	// UpdateMatching sets updateColumns on every stored row whose keyColumns
	// equal those of a given row. Rows without a match are ignored.
	UpdateMatching(ctx context.Context, table string, rows []Row, keyColumns, updateColumns []string) error
}

// Schema lists the columns of every table in storage order.
func Schema() map[string][]string {
	points := []string{scoring.ColRoutineID, scoring.ColRoutineName, scoring.ColCategory, scoring.ColAgeGroup}
	for _, c := range panel.AllColumns() {
		points = append(points, c.String())
	}
	points = append(points, scoring.ColTotal)
	return map[string][]string{
		TableRiders:         {"id_rider", "name", "gender", "date_of_birth", "club", "age_competition_day"},
		TableRoutines:       {"id_routine", "routine_name", "category", "age_group"},
		TableRidersRoutines: {"id_rider", "id_routine"},
		TablePoints:         points,
	}
}

func checkColumns(table string, known []string, cols []string) error {
	for _, c := range cols {
		if !slices.Contains(known, c) {
			return unknownColumn(table, c)
		}
	}
	return nil
}
