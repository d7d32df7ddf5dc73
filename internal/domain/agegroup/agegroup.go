// Package agegroup computes competition ages and maps them onto the
// configured age-group brackets of each category.
package agegroup

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

// Sentinel error kinds for bracket configuration.
var (
	ErrEmptyBrackets   = errors.New("empty age group list")
	ErrUnknownCategory = errors.New("no age groups for category")
	ErrInvalidBracket  = errors.New("invalid age group label")
)

// CalculateAge returns the age in whole years on ref. A birthday falling on
// ref counts as already reached.
func CalculateAge(dateOfBirth, ref time.Time) int {
	age := ref.Year() - dateOfBirth.Year()
	if dateOfBirth.Month() > ref.Month() ||
		(dateOfBirth.Month() == ref.Month() && dateOfBirth.Day() > ref.Day()) {
		return age - 1
	}
	return age
}

// AssignBracket picks the first "U<N>" label with age < N, otherwise the first
// "<N>+" label with age >= N, otherwise the first label.
func AssignBracket(age int, labels []string) (string, error) {
	if len(labels) == 0 {
		return "", ErrEmptyBrackets
	}
	for _, l := range labels {
		if n, ok := under(l); ok && age < n {
			return l, nil
		}
	}
	for _, l := range labels {
		if n, ok := orOlder(l); ok && age >= n {
			return l, nil
		}
	}
	return labels[0], nil
}

// under parses "U<N>".
func under(label string) (int, bool) {
	rest, ok := strings.CutPrefix(label, "U")
	if !ok {
		return 0, false
	}
	return wholeYears(rest)
}

// orOlder parses "<N>+".
func orOlder(label string) (int, bool) {
	rest, ok := strings.CutSuffix(label, "+")
	if !ok {
		return 0, false
	}
	return wholeYears(rest)
}

// wholeYears accepts unsigned decimal digits only.
func wholeYears(s string) (int, bool) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// OldestAge returns the maximum of ages; ok is false for an empty input.
func OldestAge(ages []int) (int, bool) {
	if len(ages) == 0 {
		return 0, false
	}
	return slices.Max(ages), true
}

// Classifier holds the immutable bracket table per category.
type Classifier struct {
	brackets map[model.Category][]string
}

// NewClassifier validates the bracket table. Every category needs a
// non-empty list of U<N> / <N>+ labels, N unsigned decimal. Free-form
// names such as "Erwachsene" are rejected since no age maps onto them.
func NewClassifier(brackets map[model.Category][]string) (*Classifier, error) {
	c := &Classifier{brackets: make(map[model.Category][]string, len(brackets))}
	for _, cat := range model.Categories {
		labels, ok := brackets[cat]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
		}
		if len(labels) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyBrackets, cat)
		}
		for _, l := range labels {
			_, u := under(l)
			_, o := orOlder(l)
			if !u && !o {
				return nil, fmt.Errorf("%w: %s %q", ErrInvalidBracket, cat, l)
			}
		}
		c.brackets[cat] = slices.Clone(labels)
	}
	return c, nil
}

// Labels returns the ordered age groups of category.
func (c *Classifier) Labels(category model.Category) ([]string, error) {
	labels, ok := c.brackets[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	return slices.Clone(labels), nil
}

// Contains reports whether label is configured for category.
func (c *Classifier) Contains(category model.Category, label string) bool {
	return slices.Contains(c.brackets[category], label)
}

// Seniority is label's position in the category list; higher is older.
// Labels outside the configuration return -1.
func (c *Classifier) Seniority(category model.Category, label string) int {
	return slices.Index(c.brackets[category], label)
}

// Assign maps an age onto the category's bracket.
func (c *Classifier) Assign(category model.Category, age int) (string, error) {
	labels, err := c.Labels(category)
	if err != nil {
		return "", err
	}
	return AssignBracket(age, labels)
}

// AssignRoutine derives the bracket of a routine from its oldest rider.
func (c *Classifier) AssignRoutine(category model.Category, riderAges []int) (string, error) {
	oldest, ok := OldestAge(riderAges)
	if !ok {
		return "", errors.New("routine has no riders")
	}
	return c.Assign(category, oldest)
}

// DefaultBrackets is the bracket table used when nothing is configured.
func DefaultBrackets() map[model.Category][]string {
	individual := []string{"U11", "U13", "U15", "15+"}
	return map[model.Category][]string{
		model.Individual:       individual,
		model.IndividualFemale: individual,
		model.IndividualMale:   individual,
		model.Pair:             {"U13", "U15", "15+"},
		model.SmallGroup:       {"U15", "15+"},
		model.LargeGroup:       {"U15", "15+"},
	}
}
