package demo

import (
	"errors"
	"fmt"
	"math"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
)

const tolerance = 1e-9

// ErrVerification reports a result that breaks a scoring rule.
var ErrVerification = errors.New("verification failed")

// verifySaved checks the rows returned by a save: every out-of-range
// submission came back missing and each total equals the sum of its numeric
// cells. It returns the number of cells that came back missing although a
// value was submitted.
func verifySaved(submitted, saved []map[string]any) (int, error) {
	if len(submitted) != len(saved) {
		return 0, fmt.Errorf("%w: submitted %d rows, got %d back", ErrVerification, len(submitted), len(saved))
	}
	var degraded int
	for i, row := range saved {
		var sum float64
		for _, col := range panel.AllColumns() {
			key := col.String()
			v, numeric := row[key].(float64)
			if numeric {
				sum += v
			}
			sent, ok := submitted[i][key]
			if !ok {
				continue
			}
			if row[key] == nil {
				degraded++
				continue
			}
			if scoring.RawString(sent) == outOfRangeScore {
				return 0, fmt.Errorf("%w: routine %v: %s kept out of range value", ErrVerification, row[scoring.ColRoutineID], key)
			}
		}
		total, _ := row[scoring.ColTotal].(float64)
		if math.Abs(total-sum) > tolerance {
			return 0, fmt.Errorf("%w: routine %v: total %.4f, cells sum to %.4f", ErrVerification, row[scoring.ColRoutineID], total, sum)
		}
	}
	return degraded, nil
}

// verifyCohort checks that every judge's shares sum to one across the
// cohort and that domain scores are shares.
func verifyCohort(c scoring.Cohort) error {
	sums := make(map[panel.Judge]float64)
	for _, r := range c.Routines {
		for j, share := range r.JudgeShares {
			sums[j] += share
		}
		for name, v := range map[string]float64{"technique": r.Technique, "presentation": r.Presentation} {
			if v < 0 || v > 1+tolerance {
				return fmt.Errorf("%w: %s %s: routine %d: %s %.4f outside [0, 1]", ErrVerification, c.Category, c.AgeGroup, r.RoutineID, name, v)
			}
		}
	}
	for j, sum := range sums {
		if math.Abs(sum-1) > tolerance {
			return fmt.Errorf("%w: %s %s: judge %s shares sum to %.6f", ErrVerification, c.Category, c.AgeGroup, j, sum)
		}
	}
	return nil
}
