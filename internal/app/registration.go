package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
	"github.com/isabelbroeder/unicycle-score-board/pkg/metrics"
)

type routineKey struct {
	category model.Category
	ageGroup string
	name     string
	rider    int64 // set for individual routines only
}

// ImportRegistration replaces riders, routines, memberships and points with
// the content of a registration sheet. Ages are computed once against the
// competition day. Riders naming the same (category, age group, routine)
// share one routine; individual routines are never shared.
func (s *Service) ImportRegistration(ctx context.Context, entries []model.Registration) (model.ImportSummary, error) {
	var (
		riders      []model.Rider
		routines    []model.Routine
		memberships []model.Membership
		byKey       = make(map[routineKey]int64)
	)

	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return model.ImportSummary{}, fmt.Errorf("%w: entry %d: name is required", ErrInvalidRegistration, i)
		}
		dob, err := time.Parse(model.DateLayout, strings.TrimSpace(e.DateOfBirth))
		if err != nil {
			return model.ImportSummary{}, fmt.Errorf("%w: entry %d (%s): date_of_birth: %w", ErrInvalidRegistration, i, name, err)
		}
		rider := model.Rider{
			ID:          int64(len(riders) + 1),
			Name:        name,
			Gender:      model.Gender(strings.ToLower(strings.TrimSpace(e.Gender))),
			DateOfBirth: dob,
			Club:        strings.TrimSpace(e.Club),
			Age:         agegroup.CalculateAge(dob, s.competitionDay),
		}
		if _, err := model.ParseGender(string(rider.Gender)); err != nil {
			s.logger.Warn(ctx, "rider has unknown gender", logger.String("rider", name), logger.String("gender", e.Gender))
		}
		riders = append(riders, rider)

		for _, rr := range e.Routines {
			routineName := strings.TrimSpace(rr.Name)
			if routineName == "" {
				continue
			}
			category, err := model.ParseCategory(rr.Category)
			if err != nil {
				return model.ImportSummary{}, fmt.Errorf("%w: entry %d (%s): %w", ErrInvalidRegistration, i, name, err)
			}
			key := routineKey{category: category, ageGroup: strings.TrimSpace(rr.AgeGroup), name: routineName}
			if category.IsIndividual() {
				key.rider = rider.ID
			}
			id, ok := byKey[key]
			if !ok {
				id = int64(len(routines) + 1)
				byKey[key] = id
				routines = append(routines, model.Routine{ID: id, Name: routineName, Category: category, AgeGroup: key.ageGroup})
			}
			memberships = append(memberships, model.Membership{RiderID: rider.ID, RoutineID: id})
		}
	}

	riderRows := make([]repository.Row, len(riders))
	for i, r := range riders {
		riderRows[i] = riderRow(r)
	}
	routineRows := make([]repository.Row, len(routines))
	for i, r := range routines {
		routineRows[i] = routineRow(r)
	}
	membershipRows := make([]repository.Row, len(memberships))
	for i, m := range memberships {
		membershipRows[i] = repository.Row{"id_rider": m.RiderID, "id_routine": m.RoutineID}
	}

	for _, w := range []struct {
		table string
		rows  []repository.Row
	}{
		{repository.TableRiders, riderRows},
		{repository.TableRoutines, routineRows},
		{repository.TableRidersRoutines, membershipRows},
		{repository.TablePoints, nil},
	} {
		if err := s.store.Write(ctx, w.table, w.rows); err != nil {
			s.storageFailed(ctx, "write", w.table, err)
			return model.ImportSummary{}, fmt.Errorf("write %s: %w", w.table, err)
		}
	}

	metrics.UpdateRiderCount(len(riders))
	metrics.UpdateRoutineCount(len(routines))
	s.logger.Info(ctx, "registration imported",
		logger.Int("riders", len(riders)),
		logger.Int("routines", len(routines)),
		logger.Int("memberships", len(memberships)),
	)
	return model.ImportSummary{Riders: len(riders), Routines: len(routines), Memberships: len(memberships)}, nil
}
