package service

import (
	"context"
	"fmt"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
	"github.com/isabelbroeder/unicycle-score-board/pkg/metrics"
)

// ScoreSheet merges routines with their stored points. Routines without a
// stored row get an all-missing row; D3/D4 carry the sentinel where they do
// not apply. Category and age group always come from the routine. An empty
// category or age group matches every routine. An unreadable points table
// yields empty rows rather than an error.
func (s *Service) ScoreSheet(ctx context.Context, category model.Category, ageGroup string) ([]scoring.Row, error) {
	routines, err := s.Routines(ctx)
	if err != nil {
		return nil, err
	}
	stored := s.storedPoints(ctx)

	var out []scoring.Row
	for _, r := range routines {
		if !inCohort(r, category, ageGroup) {
			continue
		}
		out = append(out, scoring.NewRow(r, stored[r.ID]))
	}
	return out, nil
}

func (s *Service) storedPoints(ctx context.Context) map[int64]repository.Row {
	rows, err := s.store.Read(ctx, repository.TablePoints, "")
	if err != nil {
		s.storageFailed(ctx, "read", repository.TablePoints, err)
		return nil
	}
	out := make(map[int64]repository.Row, len(rows))
	for _, r := range rows {
		id, err := int64Of(r[scoring.ColRoutineID])
		if err != nil {
			metrics.RecordScoringError()
			s.logger.Warn(ctx, "skipping points row", logger.Error(err))
			continue
		}
		out[id] = r
	}
	return out
}

func inCohort(r model.Routine, category model.Category, ageGroup string) bool {
	return (category == "" || r.Category == category) && (ageGroup == "" || r.AgeGroup == ageGroup)
}

// SaveScores validates and stores the submitted rows of one cohort. Every
// record must name a routine of the cohort via id_routine. The stored rows
// of the cohort are replaced by the submitted ones; other rows are kept.
//
// The points table is read, patched in memory and written back whole, so
// concurrent saves are last-writer-wins. When the prior table cannot be read
// nothing is written and the computed rows are returned with the error.
func (s *Service) SaveScores(ctx context.Context, category model.Category, ageGroup string, records []map[string]any) ([]scoring.Row, error) {
	label := string(category)
	if label == "" {
		label = "all"
	}

	routines, err := s.Routines(ctx)
	if err != nil {
		metrics.RecordScoreSave(label, "error", 0)
		return nil, err
	}
	cohort := make(map[int64]model.Routine)
	for _, r := range routines {
		if inCohort(r, category, ageGroup) {
			cohort[r.ID] = r
		}
	}

	rows := make([]scoring.Row, 0, len(records))
	submitted := make(map[int64]bool, len(records))
	for i, rec := range records {
		id, err := int64Of(rec[scoring.ColRoutineID])
		if err != nil {
			metrics.RecordScoreSave(label, "error", 0)
			return nil, fmt.Errorf("%w: record %d: %s: %w", ErrInvalidScoreRow, i, scoring.ColRoutineID, err)
		}
		routine, ok := cohort[id]
		if !ok {
			metrics.RecordScoreSave(label, "error", 0)
			return nil, fmt.Errorf("%w: routine %d", ErrRoutineNotInCohort, id)
		}
		if submitted[id] {
			metrics.RecordScoreSave(label, "error", 0)
			return nil, fmt.Errorf("%w: routine %d submitted twice", ErrInvalidScoreRow, id)
		}
		submitted[id] = true
		rows = append(rows, s.aggregator.Clamp(routine, rec))
	}

	prior, err := s.store.Read(ctx, repository.TablePoints, "")
	if err != nil {
		s.storageFailed(ctx, "read", repository.TablePoints, err)
		metrics.RecordScoreSave(label, "error", len(rows))
		return rows, fmt.Errorf("%w: read points: %w", ErrSaveAborted, err)
	}

	merged := make([]repository.Row, 0, len(prior)+len(rows))
	for _, r := range prior {
		if id, err := int64Of(r[scoring.ColRoutineID]); err == nil {
			if _, mine := cohort[id]; mine {
				continue
			}
		}
		merged = append(merged, r)
	}
	for _, r := range rows {
		merged = append(merged, r.Record())
	}

	if err := s.store.Write(ctx, repository.TablePoints, merged); err != nil {
		s.storageFailed(ctx, "write", repository.TablePoints, err)
		metrics.RecordScoreSave(label, "error", len(rows))
		return rows, fmt.Errorf("write points: %w", err)
	}

	metrics.RecordScoreSave(label, "ok", len(rows))
	s.logger.Info(ctx, "scores saved",
		logger.String("category", label),
		logger.String("age_group", ageGroup),
		logger.Int("rows", len(rows)),
	)
	return rows, nil
}

// Results normalizes one cohort of the current score sheet.
func (s *Service) Results(ctx context.Context, category model.Category, ageGroup string) (scoring.Cohort, error) {
	rows, err := s.ScoreSheet(ctx, category, ageGroup)
	if err != nil {
		return scoring.Cohort{}, err
	}
	cohort, err := s.aggregator.NormalizeCohort(category, ageGroup, rows)
	if err != nil {
		return scoring.Cohort{}, err
	}
	metrics.RecordCohortNormalized()
	return cohort, nil
}
