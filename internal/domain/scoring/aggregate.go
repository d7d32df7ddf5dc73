package scoring

import (
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
)

// DismountTally reports dismounts as raw deduction counts. They are not
// normalized against the cohort.
type DismountTally struct {
	Small        float64 `json:"small"`        // mean over D judges that entered a value
	Large        float64 `json:"large"`        // mean over D judges that entered a value
	Participants int     `json:"participants"` // highest participant count reported
	Judges       int     `json:"judges"`       // D judges that entered any value
}

// DomainScores is one routine's normalized result within its cohort.
type DomainScores struct {
	RoutineID    int64                   `json:"id_routine"`
	RoutineName  string                  `json:"routine_name"`
	Technique    float64                 `json:"technique"`
	Presentation float64                 `json:"presentation"`
	Dismounts    DismountTally           `json:"dismounts"`
	JudgeShares  map[panel.Judge]float64 `json:"judge_shares"`
	Total        float64                 `json:"total"`
}

// Cohort is the normalized table for one (category, age group).
type Cohort struct {
	Category model.Category `json:"category"`
	AgeGroup string         `json:"age_group"`
	Routines []DomainScores `json:"routines"`
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDegradedHook registers fn to be called for every submitted value that
// was degraded to missing during clamping.
func WithDegradedHook(fn func(category model.Category, column panel.Column, raw string)) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.onDegraded = fn
		}
	}
}

// Aggregator clamps submitted rows and normalizes cohorts against a panel.
type Aggregator struct {
	panel      *panel.Panel
	onDegraded func(model.Category, panel.Column, string)
}

// NewAggregator creates an aggregator for the given panel.
func NewAggregator(p *panel.Panel, opts ...Option) *Aggregator {
	a := &Aggregator{
		panel:      p,
		onDegraded: func(model.Category, panel.Column, string) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Clamp validates every cell of a submitted record for routine and returns
// the row with its recomputed total.
func (a *Aggregator) Clamp(routine model.Routine, record map[string]any) Row {
	row := NewRow(routine, record)
	for _, c := range panel.AllColumns() {
		raw, ok := record[c.String()]
		if !ok || raw == nil {
			continue
		}
		text := RawString(raw)
		if text != "" && row.Cells[c].Kind == Missing {
			a.onDegraded(routine.Category, c, text)
		}
	}
	return row
}

// NormalizeCohort computes per-routine domain scores for the routines of rows
// that belong to (category, ageGroup).
//
// Each T and P judge's three sub-scores are summed per routine, divided by
// that judge's sum over the cohort, and the shares are averaged per domain.
// A judge whose cohort sum is zero has no share and is left out of the mean.
func (a *Aggregator) NormalizeCohort(category model.Category, ageGroup string, rows []Row) (Cohort, error) {
	judges, err := a.panel.Judges(category)
	if err != nil {
		return Cohort{}, err
	}

	var cohort []Row
	for _, r := range rows {
		if r.Category == category && r.AgeGroup == ageGroup {
			cohort = append(cohort, r)
		}
	}

	out := Cohort{Category: category, AgeGroup: ageGroup, Routines: make([]DomainScores, len(cohort))}

	perJudge := make(map[panel.Judge][]float64)
	columnSum := make(map[panel.Judge]float64)
	for _, j := range judges {
		if j.Domain() == panel.Dismount {
			continue
		}
		values := make([]float64, len(cohort))
		for i, r := range cohort {
			for _, c := range j.Columns() {
				values[i] += r.Cell(c).Points()
			}
			columnSum[j] += values[i]
		}
		perJudge[j] = values
	}

	for i, r := range cohort {
		scores := DomainScores{
			RoutineID:   r.RoutineID,
			RoutineName: r.RoutineName,
			JudgeShares: make(map[panel.Judge]float64),
			Total:       r.Total,
		}
		domainSum := map[panel.Domain]float64{}
		domainN := map[panel.Domain]int{}
		for _, j := range judges {
			values, ok := perJudge[j]
			if !ok || columnSum[j] == 0 {
				continue
			}
			share := values[i] / columnSum[j]
			scores.JudgeShares[j] = share
			domainSum[j.Domain()] += share
			domainN[j.Domain()]++
		}
		if n := domainN[panel.Technique]; n > 0 {
			scores.Technique = domainSum[panel.Technique] / float64(n)
		}
		if n := domainN[panel.Presentation]; n > 0 {
			scores.Presentation = domainSum[panel.Presentation] / float64(n)
		}
		scores.Dismounts = tallyDismounts(r, judges)
		out.Routines[i] = scores
	}
	return out, nil
}

func tallyDismounts(r Row, judges []panel.Judge) DismountTally {
	var t DismountTally
	var small, large float64
	for _, j := range judges {
		if j.Domain() != panel.Dismount {
			continue
		}
		cols := j.Columns()
		s, l, n := r.Cell(cols[0]), r.Cell(cols[1]), r.Cell(cols[2])
		if s.Kind != Numeric && l.Kind != Numeric && n.Kind != Numeric {
			continue
		}
		t.Judges++
		small += s.Points()
		large += l.Points()
		if p := int(n.Points()); p > t.Participants {
			t.Participants = p
		}
	}
	if t.Judges > 0 {
		t.Small = small / float64(t.Judges)
		t.Large = large / float64(t.Judges)
	}
	return t
}
