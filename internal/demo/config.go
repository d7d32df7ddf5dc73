// Package demo drives a running score board through a generated competition:
// registration, reconcile, score entry, results and the starting list.
package demo

import (
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/assign"
)

// Config holds configuration for a demo run.
type Config struct {
	BaseURL        string        // Base URL of the service
	JuryPassword   string        // Shared jury password for write endpoints
	Riders         int           // Number of riders to register
	Seed           int64         // Generator seed; zero picks one per run
	InvalidRate    float64       // Share of T/P cells submitted out of range
	Timeout        time.Duration // HTTP request timeout
	CompetitionDay time.Time     // Reference day for generated birth dates
	OutputFile     string        // Starting list CSV destination, empty skips it
	Verbose        bool          // Log every cohort
}

// Stats holds run statistics.
type Stats struct {
	Riders         int
	Routines       int
	Corrections    int
	Skipped        int
	Cohorts        int
	RowsSaved      int
	CellsSubmitted int
	CellsDegraded  int
	StartingBlocks int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// Cohort identifies one (category, age group) pairing.
type Cohort struct {
	Category string
	AgeGroup string
}

// Outcome is what a run leaves behind for inspection.
type Outcome struct {
	Stats Stats
	Batch assign.Batch
}
