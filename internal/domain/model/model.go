// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage format of calendar dates.
const DateLayout = "2006-01-02"

// ErrUnknownCategory is returned for category codes outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

// ErrUnknownGender is returned for gender codes that are neither female nor male.
var ErrUnknownGender = errors.New("unknown gender")

// Category is the competition category of a routine.
type Category string

// Categories in starting-order precedence. Individual is the generic
// registration category that the assigner splits by gender.
const (
	IndividualFemale Category = "individual_female"
	IndividualMale   Category = "individual_male"
	Individual       Category = "individual"
	Pair             Category = "pair"
	SmallGroup       Category = "small_group"
	LargeGroup       Category = "large_group"
)

// Categories lists every known category in starting-order precedence.
var Categories = []Category{IndividualFemale, IndividualMale, Individual, Pair, SmallGroup, LargeGroup}

// ParseCategory maps a stored code onto a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case IndividualFemale, IndividualMale, Individual, Pair, SmallGroup, LargeGroup:
		return true
	}
	return false
}

// IsIndividual reports whether c is one of the single-rider categories.
func (c Category) IsIndividual() bool {
	return c == Individual || c == IndividualFemale || c == IndividualMale
}

// UsesTwoDismountJudges reports whether only D1 and D2 judge c.
func (c Category) UsesTwoDismountJudges() bool {
	return c.IsIndividual() || c == Pair
}

// Precedence is the category's position in the starting order.
func (c Category) Precedence() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return len(Categories)
}

// DisplayName is the label printed on starting lists.
func (c Category) DisplayName() string {
	switch c {
	case IndividualFemale:
		return "Einzelkür weiblich"
	case IndividualMale:
		return "Einzelkür männlich"
	case Individual:
		return "Einzelkür"
	case Pair:
		return "Paarkür"
	case SmallGroup:
		return "Kleingruppe"
	case LargeGroup:
		return "Großgruppe"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }

// Gender is the binary gender code stored per rider.
type Gender string

// Gender codes.
const (
	Female Gender = "w"
	Male   Gender = "m"
)

// ParseGender accepts w/f (female) and m (male), case-insensitive.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "f":
		return Female, nil
	case "m":
		return Male, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// Rider is a registered participant.
type Rider struct {
	ID          int64     `json:"id_rider"`
	Name        string    `json:"name"`
	Gender      Gender    `json:"gender"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Club        string    `json:"club"`
	Age         int       `json:"age_competition_day"` // derived once at import
}

// Routine is a single judged performance entry.
type Routine struct {
	ID       int64    `json:"id_routine"`
	Name     string   `json:"routine_name"`
	Category Category `json:"category"`
	AgeGroup string   `json:"age_group"`
}

// Membership links a rider to a routine.
type Membership struct {
	RiderID   int64 `json:"id_rider"`
	RoutineID int64 `json:"id_routine"`
}

// RidersByRoutine groups rider ids per routine, preserving membership order.
func RidersByRoutine(memberships []Membership) map[int64][]int64 {
	out := make(map[int64][]int64)
	for _, m := range memberships {
		out[m.RoutineID] = append(out[m.RoutineID], m.RiderID)
	}
	return out
}

// RidersByID indexes riders by id.
func RidersByID(riders []Rider) map[int64]Rider {
	out := make(map[int64]Rider, len(riders))
	for _, r := range riders {
		out[r.ID] = r
	}
	return out
}
