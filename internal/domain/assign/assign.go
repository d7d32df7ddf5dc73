// Package assign reconciles registration-derived routines with their riders:
// it splits generic individual routines by gender and re-derives age groups
// from the oldest rider.
package assign

import (
	"errors"
	"fmt"
	"strings"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

// Correction is a keyed update for one routine.
type Correction struct {
	RoutineID   int64          `json:"id_routine"`
	RoutineName string         `json:"routine_name"`
	OldCategory model.Category `json:"old_category"`
	NewCategory model.Category `json:"new_category"`
	OldAgeGroup string         `json:"old_age_group"`
	NewAgeGroup string         `json:"new_age_group"`
	OldestAge   int            `json:"oldest_age"`
	Reason      string         `json:"reason"`
}

// Skip records a routine that could not be reconciled.
type Skip struct {
	RoutineID   int64  `json:"id_routine"`
	RoutineName string `json:"routine_name"`
	Reason      string `json:"reason"`
}

// Batch is the outcome of a reconcile run.
type Batch struct {
	Corrections []Correction `json:"corrections"`
	Skipped     []Skip       `json:"skipped"`
}

// Reconcile derives the category and age group every routine should have and
// returns corrections for those that differ. Routines with inconsistent data
// are skipped with an explanation; the rest of the batch is unaffected.
func Reconcile(riders []model.Rider, routines []model.Routine, memberships []model.Membership, classifier *agegroup.Classifier) Batch {
	byID := model.RidersByID(riders)
	byRoutine := model.RidersByRoutine(memberships)

	var b Batch
	for _, r := range routines {
		c, err := reconcileOne(r, byRoutine[r.ID], byID, classifier)
		if err != nil {
			b.Skipped = append(b.Skipped, Skip{RoutineID: r.ID, RoutineName: r.Name, Reason: err.Error()})
			continue
		}
		if c != nil {
			b.Corrections = append(b.Corrections, *c)
		}
	}
	return b
}

func reconcileOne(r model.Routine, riderIDs []int64, byID map[int64]model.Rider, classifier *agegroup.Classifier) (*Correction, error) {
	if !r.Category.Valid() {
		return nil, fmt.Errorf("unknown category %q", r.Category)
	}
	if len(riderIDs) == 0 {
		return nil, errors.New("no riders assigned")
	}
	members := make([]model.Rider, 0, len(riderIDs))
	for _, id := range riderIDs {
		rider, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("rider %d not found", id)
		}
		members = append(members, rider)
	}

	var reasons []string
	category := r.Category
	if category.IsIndividual() {
		if len(members) != 1 {
			return nil, fmt.Errorf("individual routine has %d riders", len(members))
		}
		gender, err := model.ParseGender(string(members[0].Gender))
		if err != nil {
			return nil, fmt.Errorf("rider %d: %w", members[0].ID, err)
		}
		category = model.IndividualFemale
		if gender == model.Male {
			category = model.IndividualMale
		}
		if category != r.Category {
			reasons = append(reasons, fmt.Sprintf("category %s -> %s by gender %s of %s", r.Category, category, gender, members[0].Name))
		}
	}

	if r.AgeGroup != "" && !classifier.Contains(r.Category, r.AgeGroup) {
		return nil, fmt.Errorf("stored age group %q is not configured for %s", r.AgeGroup, r.Category)
	}

	ages := make([]int, len(members))
	oldest := members[0]
	for i, m := range members {
		ages[i] = m.Age
		if m.Age > oldest.Age {
			oldest = m
		}
	}
	ageGroup, err := classifier.AssignRoutine(category, ages)
	if err != nil {
		return nil, err
	}
	if ageGroup != r.AgeGroup {
		reasons = append(reasons, fmt.Sprintf("age group %s -> %s, oldest rider %s is %d", r.AgeGroup, ageGroup, oldest.Name, oldest.Age))
	}

	if len(reasons) == 0 {
		return nil, nil
	}
	return &Correction{
		RoutineID:   r.ID,
		RoutineName: r.Name,
		OldCategory: r.Category,
		NewCategory: category,
		OldAgeGroup: r.AgeGroup,
		NewAgeGroup: ageGroup,
		OldestAge:   oldest.Age,
		Reason:      strings.Join(reasons, "; "),
	}, nil
}

// Apply returns a copy of routines with the batch's corrections applied.
// Routine identity and names are never changed.
func (b Batch) Apply(routines []model.Routine) []model.Routine {
	byID := make(map[int64]Correction, len(b.Corrections))
	for _, c := range b.Corrections {
		byID[c.RoutineID] = c
	}
	out := make([]model.Routine, len(routines))
	for i, r := range routines {
		if c, ok := byID[r.ID]; ok {
			r.Category = c.NewCategory
			r.AgeGroup = c.NewAgeGroup
		}
		out[i] = r
	}
	return out
}
