package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// Riders returns every registered rider.
func (s *Service) Riders(ctx context.Context) ([]model.Rider, error) {
	rows, err := s.store.Read(ctx, repository.TableRiders, "")
	if err != nil {
		s.storageFailed(ctx, "read", repository.TableRiders, err)
		return nil, fmt.Errorf("read riders: %w", err)
	}
	out := make([]model.Rider, 0, len(rows))
	for _, r := range rows {
		rider, err := riderFromRow(r)
		if err != nil {
			s.logger.Warn(ctx, "skipping rider row", logger.Error(err))
			continue
		}
		out = append(out, rider)
	}
	return out, nil
}

// Routines returns every routine.
func (s *Service) Routines(ctx context.Context) ([]model.Routine, error) {
	return s.routines(ctx, "")
}

func (s *Service) routines(ctx context.Context, where string, params ...any) ([]model.Routine, error) {
	rows, err := s.store.Read(ctx, repository.TableRoutines, where, params...)
	if err != nil {
		s.storageFailed(ctx, "read", repository.TableRoutines, err)
		return nil, fmt.Errorf("read routines: %w", err)
	}
	out := make([]model.Routine, 0, len(rows))
	for _, r := range rows {
		routine, err := routineFromRow(r)
		if err != nil {
			s.logger.Warn(ctx, "skipping routine row", logger.Error(err))
			continue
		}
		out = append(out, routine)
	}
	return out, nil
}

// Memberships returns every rider/routine link.
func (s *Service) Memberships(ctx context.Context) ([]model.Membership, error) {
	rows, err := s.store.Read(ctx, repository.TableRidersRoutines, "")
	if err != nil {
		s.storageFailed(ctx, "read", repository.TableRidersRoutines, err)
		return nil, fmt.Errorf("read memberships: %w", err)
	}
	out := make([]model.Membership, 0, len(rows))
	for _, r := range rows {
		riderID, err1 := int64Of(r["id_rider"])
		routineID, err2 := int64Of(r["id_routine"])
		if err1 != nil || err2 != nil {
			s.logger.Warn(ctx, "skipping membership row", logger.Any("row", r))
			continue
		}
		out = append(out, model.Membership{RiderID: riderID, RoutineID: routineID})
	}
	return out, nil
}

func riderFromRow(r repository.Row) (model.Rider, error) {
	id, err := int64Of(r["id_rider"])
	if err != nil {
		return model.Rider{}, fmt.Errorf("id_rider: %w", err)
	}
	rider := model.Rider{
		ID:     id,
		Name:   scoring.RawString(r["name"]),
		Gender: model.Gender(strings.ToLower(scoring.RawString(r["gender"]))),
		Club:   scoring.RawString(r["club"]),
	}
	if dob := scoring.RawString(r["date_of_birth"]); dob != "" {
		t, err := time.Parse(model.DateLayout, dob)
		if err != nil {
			return model.Rider{}, fmt.Errorf("rider %d date_of_birth: %w", id, err)
		}
		rider.DateOfBirth = t
	}
	if age := scoring.RawString(r["age_competition_day"]); age != "" {
		n, err := strconv.Atoi(age)
		if err != nil {
			return model.Rider{}, fmt.Errorf("rider %d age: %w", id, err)
		}
		rider.Age = n
	}
	return rider, nil
}

func riderRow(r model.Rider) repository.Row {
	row := repository.Row{
		"id_rider":            r.ID,
		"name":                r.Name,
		"gender":              string(r.Gender),
		"club":                r.Club,
		"age_competition_day": int64(r.Age),
	}
	if !r.DateOfBirth.IsZero() {
		row["date_of_birth"] = r.DateOfBirth.Format(model.DateLayout)
	}
	return row
}

func routineFromRow(r repository.Row) (model.Routine, error) {
	id, err := int64Of(r[scoring.ColRoutineID])
	if err != nil {
		return model.Routine{}, fmt.Errorf("%s: %w", scoring.ColRoutineID, err)
	}
	return model.Routine{
		ID:       id,
		Name:     scoring.RawString(r[scoring.ColRoutineName]),
		Category: model.Category(strings.ToLower(scoring.RawString(r[scoring.ColCategory]))),
		AgeGroup: scoring.RawString(r[scoring.ColAgeGroup]),
	}, nil
}

func routineRow(r model.Routine) repository.Row {
	return repository.Row{
		scoring.ColRoutineID:   r.ID,
		scoring.ColRoutineName: r.Name,
		scoring.ColCategory:    string(r.Category),
		scoring.ColAgeGroup:    r.AgeGroup,
	}
}

func int64Of(v any) (int64, error) {
	text := strings.TrimSpace(scoring.RawString(v))
	if text == "" {
		return 0, errors.New("missing id")
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid id %q", text)
	}
	return int64(f), nil
}
