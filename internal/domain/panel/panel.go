// Package panel defines which judges score a category and which columns
// each judge fills in.
package panel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

// MaxJudgesPerDomain bounds the panel size; the points table has one column
// set per possible judge.
const MaxJudgesPerDomain = 4

// Sentinel error kinds for panel configuration.
var (
	ErrUnknownCategory = errors.New("no judge panel for category")
	ErrInvalidPanel    = errors.New("invalid judge panel")
)

// Domain is one of the three judging domains.
type Domain byte

// Judging domains.
const (
	Technique    Domain = 'T'
	Presentation Domain = 'P'
	Dismount     Domain = 'D'
)

// Domains in column order.
var Domains = []Domain{Technique, Presentation, Dismount}

func (d Domain) String() string { return string(rune(d)) }

// SubCriteria returns the sub-score suffixes a judge of domain d records.
//
//	T: Q quantity, M mastery, D difficulty
//	P: P presence, C composition, I interpretation
//	D: S small dismounts, L large dismounts, N participants
func (d Domain) SubCriteria() []string {
	switch d {
	case Technique:
		return []string{"Q", "M", "D"}
	case Presentation:
		return []string{"P", "C", "I"}
	case Dismount:
		return []string{"S", "L", "N"}
	}
	return nil
}

// Judge is a judge code such as "T1" or "D3".
type Judge string

// Domain returns the judge's domain, derived from the code prefix.
func (j Judge) Domain() Domain {
	if j == "" {
		return 0
	}
	return Domain(j[0])
}

// Number returns the judge's position within its domain.
func (j Judge) Number() int {
	if len(j) < 2 {
		return 0
	}
	n, err := strconv.Atoi(string(j[1:]))
	if err != nil {
		return 0
	}
	return n
}

// Columns returns the judge's sub-score columns.
func (j Judge) Columns() []Column {
	subs := j.Domain().SubCriteria()
	out := make([]Column, len(subs))
	for i, s := range subs {
		out[i] = Column{Judge: j, Sub: s}
	}
	return out
}

// Column identifies one sub-score cell, rendered as "<judge>_<sub>".
type Column struct {
	Judge Judge
	Sub   string
}

func (c Column) String() string { return string(c.Judge) + "_" + c.Sub }

// Domain returns the column's judging domain.
func (c Column) Domain() Domain { return c.Judge.Domain() }

// ParseColumn parses a column name. ok is false for anything that is not a
// judge sub-score column of the full storage width.
func ParseColumn(name string) (Column, bool) {
	judge, sub, found := strings.Cut(name, "_")
	if !found || len(judge) < 2 {
		return Column{}, false
	}
	j := Judge(judge)
	n := j.Number()
	if n < 1 || n > MaxJudgesPerDomain || strconv.Itoa(n) != judge[1:] {
		return Column{}, false
	}
	for _, s := range j.Domain().SubCriteria() {
		if s == sub {
			return Column{Judge: j, Sub: sub}, true
		}
	}
	return Column{}, false
}

// Size is the number of judges per domain for one category.
type Size struct {
	Technique    int `koanf:"t"`
	Presentation int `koanf:"p"`
	Dismount     int `koanf:"d"`
}

func (s Size) of(d Domain) int {
	switch d {
	case Technique:
		return s.Technique
	case Presentation:
		return s.Presentation
	case Dismount:
		return s.Dismount
	}
	return 0
}

// DefaultSizes mirrors the competition rules: two dismount judges for
// individual and pair routines, four for groups.
func DefaultSizes() map[model.Category]Size {
	small := Size{Technique: 4, Presentation: 4, Dismount: 2}
	large := Size{Technique: 4, Presentation: 4, Dismount: 4}
	return map[model.Category]Size{
		model.Individual:       small,
		model.IndividualFemale: small,
		model.IndividualMale:   small,
		model.Pair:             small,
		model.SmallGroup:       large,
		model.LargeGroup:       large,
	}
}

// Panel is the immutable judge configuration for all categories.
type Panel struct {
	judges map[model.Category][]Judge
}

// New validates sizes and builds the panel. Every category needs an entry.
func New(sizes map[model.Category]Size) (*Panel, error) {
	p := &Panel{judges: make(map[model.Category][]Judge, len(model.Categories))}
	for _, c := range model.Categories {
		size, ok := sizes[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
		}
		var judges []Judge
		for _, d := range Domains {
			n := size.of(d)
			if n < 1 || n > MaxJudgesPerDomain {
				return nil, fmt.Errorf("%w: %s needs 1..%d %s judges, got %d", ErrInvalidPanel, c, MaxJudgesPerDomain, d, n)
			}
			if d == Dismount && c.UsesTwoDismountJudges() && n > 2 {
				return nil, fmt.Errorf("%w: %s allows at most 2 dismount judges, got %d", ErrInvalidPanel, c, n)
			}
			for i := 1; i <= n; i++ {
				judges = append(judges, Judge(fmt.Sprintf("%s%d", d, i)))
			}
		}
		p.judges[c] = judges
	}
	return p, nil
}

// Judges returns the ordered judge codes for c.
func (p *Panel) Judges(c model.Category) ([]Judge, error) {
	judges, ok := p.judges[c]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	out := make([]Judge, len(judges))
	copy(out, judges)
	return out, nil
}

// JudgesOf returns the judges of domain d that score category c.
func (p *Panel) JudgesOf(c model.Category, d Domain) ([]Judge, error) {
	judges, err := p.Judges(c)
	if err != nil {
		return nil, err
	}
	var out []Judge
	for _, j := range judges {
		if j.Domain() == d {
			out = append(out, j)
		}
	}
	return out, nil
}

// Columns returns the applicable sub-score columns for c.
func (p *Panel) Columns(c model.Category) ([]Column, error) {
	judges, err := p.Judges(c)
	if err != nil {
		return nil, err
	}
	var out []Column
	for _, j := range judges {
		out = append(out, j.Columns()...)
	}
	return out, nil
}

// AllColumns returns every storable sub-score column, independent of any
// category: MaxJudgesPerDomain judges for each domain.
func AllColumns() []Column {
	var out []Column
	for _, d := range Domains {
		for i := 1; i <= MaxJudgesPerDomain; i++ {
			out = append(out, Judge(fmt.Sprintf("%s%d", d, i)).Columns()...)
		}
	}
	return out
}
