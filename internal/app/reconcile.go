package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/assign"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/startorder"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
	"github.com/isabelbroeder/unicycle-score-board/pkg/metrics"
)

var correctedColumns = []string{scoring.ColCategory, scoring.ColAgeGroup}

// Reconcile splits generic individual routines by gender and moves routines
// into the age group of their oldest rider. Corrections are written as keyed
// updates to routines and to any stored points rows; skipped routines are
// logged and returned.
func (s *Service) Reconcile(ctx context.Context) (assign.Batch, error) {
	riders, err := s.Riders(ctx)
	if err != nil {
		return assign.Batch{}, err
	}
	routines, err := s.Routines(ctx)
	if err != nil {
		return assign.Batch{}, err
	}
	memberships, err := s.Memberships(ctx)
	if err != nil {
		return assign.Batch{}, err
	}

	batch := assign.Reconcile(riders, routines, memberships, s.classifier)

	for _, sk := range batch.Skipped {
		metrics.RecordCorrectionSkipped()
		s.logger.Warn(ctx, "routine not reconciled",
			logger.Int64("routine_id", sk.RoutineID),
			logger.String("routine", sk.RoutineName),
			logger.String("reason", sk.Reason),
		)
	}
	if len(batch.Corrections) == 0 {
		return batch, nil
	}

	updates := make([]repository.Row, len(batch.Corrections))
	for i, c := range batch.Corrections {
		updates[i] = repository.Row{
			scoring.ColRoutineID: c.RoutineID,
			scoring.ColCategory:  string(c.NewCategory),
			scoring.ColAgeGroup:  c.NewAgeGroup,
		}
	}
	key := []string{scoring.ColRoutineID}
	for _, table := range []string{repository.TableRoutines, repository.TablePoints} {
		if err := s.store.UpdateMatching(ctx, table, updates, key, correctedColumns); err != nil {
			s.storageFailed(ctx, "update", table, err)
			return batch, fmt.Errorf("update %s: %w", table, err)
		}
	}

	for _, c := range batch.Corrections {
		metrics.RecordCorrectionApplied()
		s.logger.Info(ctx, "routine corrected",
			logger.Int64("routine_id", c.RoutineID),
			logger.String("routine", c.RoutineName),
			logger.String("category", fmt.Sprintf("%s -> %s", c.OldCategory, c.NewCategory)),
			logger.String("age_group", fmt.Sprintf("%s -> %s", c.OldAgeGroup, c.NewAgeGroup)),
			logger.String("reason", c.Reason),
		)
	}
	return batch, nil
}

// StartingOrder builds the grouped starting list from the stored routines.
func (s *Service) StartingOrder(ctx context.Context) ([]startorder.Block, error) {
	riders, err := s.Riders(ctx)
	if err != nil {
		return nil, err
	}
	routines, err := s.Routines(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Memberships(ctx)
	if err != nil {
		return nil, err
	}

	seed := s.shuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	blocks := startorder.Build(routines, riders, memberships, s.classifier, rand.New(rand.NewSource(seed))) //nolint:gosec // start order, not security
	metrics.RecordStartingOrder()
	s.logger.Debug(ctx, "starting order built", logger.Int("blocks", len(blocks)), logger.Int64("seed", seed))
	return blocks, nil
}
