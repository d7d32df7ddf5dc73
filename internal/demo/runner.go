package demo

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/assign"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/startorder"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)

// Run executes a complete demo competition against config.BaseURL. Saves
// are issued one cohort at a time; the service rewrites the whole points
// table on every save.
func Run(ctx context.Context, config *Config, log logger.Logger) (Outcome, error) {
	if log == nil {
		log = logger.Nop()
	}
	out := Outcome{Stats: Stats{StartTime: time.Now()}}
	stats := &out.Stats

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	client := NewHTTPClient(config.BaseURL, config.JuryPassword, config.Timeout)

	log.Info(ctx, "starting demo competition",
		logger.String("baseURL", config.BaseURL),
		logger.Int("riders", config.Riders),
		logger.Int64("seed", seed),
		logger.Float64("invalidRate", config.InvalidRate))

	// Step 1: service health
	var health map[string]string
	if err := client.GetJSON(ctx, "/healthz", &health); err != nil {
		return out, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: registration
	entries := GenerateRegistration(rng, config.Riders, config.CompetitionDay)
	var summary model.ImportSummary
	if err := client.Jury(ctx, "POST", "/registrations", entries, &summary); err != nil {
		return out, fmt.Errorf("registration import failed: %w", err)
	}
	stats.Riders, stats.Routines = summary.Riders, summary.Routines
	log.Info(ctx, "registration imported", logger.Int("riders", summary.Riders), logger.Int("routines", summary.Routines))

	// Step 3: category and age group correction
	if err := client.Jury(ctx, "POST", "/reconcile", nil, &out.Batch); err != nil {
		return out, fmt.Errorf("reconcile failed: %w", err)
	}
	stats.Corrections, stats.Skipped = len(out.Batch.Corrections), len(out.Batch.Skipped)
	logBatch(ctx, log, out.Batch, config.Verbose)

	// Step 4: scores per cohort
	var routines []model.Routine
	if err := client.GetJSON(ctx, "/routines", &routines); err != nil {
		return out, fmt.Errorf("routine listing failed: %w", err)
	}
	cohorts := cohortsOf(routines)
	stats.Cohorts = len(cohorts)
	for _, c := range cohorts {
		if err := scoreCohort(ctx, client, rng, config, c, stats, log); err != nil {
			return out, err
		}
	}

	// Step 5: results
	for _, c := range cohorts {
		var cohort scoring.Cohort
		if err := client.GetJSON(ctx, "/results?"+cohortQuery(c), &cohort); err != nil {
			return out, fmt.Errorf("results of %s %s: %w", c.Category, c.AgeGroup, err)
		}
		if err := verifyCohort(cohort); err != nil {
			return out, err
		}
		if config.Verbose {
			logResults(ctx, log, cohort)
		}
	}

	// Step 6: starting list
	var blocks []startorder.Block
	if err := client.GetJSON(ctx, "/starting-order", &blocks); err != nil {
		return out, fmt.Errorf("starting order failed: %w", err)
	}
	stats.StartingBlocks = len(blocks)
	if config.OutputFile != "" {
		if err := saveStartingList(ctx, client, config.OutputFile); err != nil {
			log.Warn(ctx, "failed to save starting list", logger.Error(err))
		} else {
			log.Info(ctx, "starting list saved", logger.String("filename", config.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return out, nil
}

func scoreCohort(ctx context.Context, client *HTTPClient, rng *rand.Rand, config *Config, c Cohort, stats *Stats, log logger.Logger) error {
	query := cohortQuery(c)
	var sheet []map[string]any
	if err := client.GetJSON(ctx, "/scores?"+query, &sheet); err != nil {
		return fmt.Errorf("score sheet of %s %s: %w", c.Category, c.AgeGroup, err)
	}
	records, invalid := GenerateScores(rng, sheet, config.InvalidRate)
	var saved []map[string]any
	if err := client.Jury(ctx, "PUT", "/scores?"+query, records, &saved); err != nil {
		return fmt.Errorf("saving scores of %s %s: %w", c.Category, c.AgeGroup, err)
	}
	degraded, err := verifySaved(records, saved)
	if err != nil {
		return err
	}
	if degraded != invalid {
		return fmt.Errorf("%w: %s %s: %d out of range cells, %d degraded", ErrVerification, c.Category, c.AgeGroup, invalid, degraded)
	}
	for _, r := range records {
		stats.CellsSubmitted += len(r) - 1
	}
	stats.RowsSaved += len(saved)
	stats.CellsDegraded += degraded
	if config.Verbose {
		log.Info(ctx, "cohort scored",
			logger.String("category", c.Category),
			logger.String("ageGroup", c.AgeGroup),
			logger.Int("rows", len(saved)),
			logger.Int("degraded", degraded))
	}
	return nil
}

// cohortsOf lists the distinct cohorts of routines in starting precedence.
func cohortsOf(routines []model.Routine) []Cohort {
	seen := make(map[Cohort]bool)
	var out []Cohort
	for _, r := range routines {
		c := Cohort{Category: string(r.Category), AgeGroup: r.AgeGroup}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b Cohort) int {
		pa, pb := model.Category(a.Category).Precedence(), model.Category(b.Category).Precedence()
		if pa != pb {
			return pa - pb
		}
		switch {
		case a.AgeGroup < b.AgeGroup:
			return -1
		case a.AgeGroup > b.AgeGroup:
			return 1
		}
		return 0
	})
	return out
}

func cohortQuery(c Cohort) string {
	return url.Values{"category": {c.Category}, "age_group": {c.AgeGroup}}.Encode()
}

func saveStartingList(ctx context.Context, client *HTTPClient, filename string) error {
	data, err := client.GetRaw(ctx, "/starting-order?format=csv")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func logBatch(ctx context.Context, log logger.Logger, b assign.Batch, verbose bool) {
	log.Info(ctx, "reconcile applied", logger.Int("corrections", len(b.Corrections)), logger.Int("skipped", len(b.Skipped)))
	for _, s := range b.Skipped {
		log.Warn(ctx, "routine skipped", logger.Int64("routine", s.RoutineID), logger.String("reason", s.Reason))
	}
	if !verbose {
		return
	}
	for _, c := range b.Corrections {
		log.Info(ctx, "routine corrected", logger.Int64("routine", c.RoutineID), logger.String("reason", c.Reason))
	}
}

func logResults(ctx context.Context, log logger.Logger, c scoring.Cohort) {
	routines := slices.Clone(c.Routines)
	slices.SortFunc(routines, func(a, b scoring.DomainScores) int {
		switch {
		case a.Technique+a.Presentation > b.Technique+b.Presentation:
			return -1
		case a.Technique+a.Presentation < b.Technique+b.Presentation:
			return 1
		}
		return 0
	})
	for i, r := range routines {
		log.Info(ctx, "result",
			logger.String("category", string(c.Category)),
			logger.String("ageGroup", c.AgeGroup),
			logger.Int("place", i+1),
			logger.String("routine", r.RoutineName),
			logger.Float64("technique", r.Technique),
			logger.Float64("presentation", r.Presentation),
			logger.Float64("smallDismounts", r.Dismounts.Small),
			logger.Float64("largeDismounts", r.Dismounts.Large))
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("riders", stats.Riders),
		logger.Int("routines", stats.Routines),
		logger.Int("corrections", stats.Corrections),
		logger.Int("skipped", stats.Skipped),
		logger.Int("cohorts", stats.Cohorts),
		logger.Int("rowsSaved", stats.RowsSaved),
		logger.Int("cellsSubmitted", stats.CellsSubmitted),
		logger.Int("cellsDegraded", stats.CellsDegraded),
		logger.Int("startingBlocks", stats.StartingBlocks),
		logger.String("duration", stats.Duration.String()))
}
