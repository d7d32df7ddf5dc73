package demo

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
)

// Rider generation ranges.
const (
	minRiderAge     = 7
	riderAgeRange   = 24
	smallGroupSize  = 4
	largeGroupSize  = 10
	outOfRangeScore = "12"
)

var (
	firstNames = []string{"Anna", "Ben", "Clara", "David", "Emma", "Finn", "Greta", "Hannes", "Ida", "Jonas", "Klara", "Lukas", "Mia", "Noah", "Paula", "Theo"}
	lastNames  = []string{"Becker", "Fischer", "Hoffmann", "Klein", "Meyer", "Neumann", "Richter", "Schäfer", "Schulz", "Wagner", "Weber", "Wolf"}
	clubs      = []string{"RSV Nord", "SV Blau-Weiß", "TSG Süd", "Einradfreunde Mitte"}
)

// GenerateRegistration creates n riders with an individual routine each,
// pairs of consecutive riders, one small group per club and, with enough
// riders, one large group. Age groups are left empty; reconcile assigns them.
func GenerateRegistration(rng *rand.Rand, n int, day time.Time) []model.Registration {
	entries := make([]model.Registration, n)
	for i := range entries {
		first := firstNames[rng.Intn(len(firstNames))]
		gender := model.Female
		if rng.Intn(2) == 1 {
			gender = model.Male
		}
		age := minRiderAge + rng.Intn(riderAgeRange)
		dob := day.AddDate(-age, 0, -rng.Intn(365))
		entries[i] = model.Registration{
			Name:        fmt.Sprintf("%s %s %d", first, lastNames[rng.Intn(len(lastNames))], i+1),
			DateOfBirth: dob.Format(model.DateLayout),
			Gender:      string(gender),
			Club:        clubs[rng.Intn(len(clubs))],
			Routines: []model.RegisteredRoutine{
				{Category: string(model.Individual), Name: first + " solo"},
			},
		}
	}

	for i := 0; i+1 < n; i += 2 {
		name := "Duo " + strconv.Itoa(i/2+1)
		for _, j := range []int{i, i + 1} {
			entries[j].Routines = append(entries[j].Routines, model.RegisteredRoutine{Category: string(model.Pair), Name: name})
		}
	}

	byClub := make(map[string][]int)
	for i, e := range entries {
		byClub[e.Club] = append(byClub[e.Club], i)
	}
	for _, club := range clubs {
		members := byClub[club]
		if len(members) < smallGroupSize {
			continue
		}
		for _, j := range members[:smallGroupSize] {
			entries[j].Routines = append(entries[j].Routines, model.RegisteredRoutine{Category: string(model.SmallGroup), Name: club + " Kleingruppe"})
		}
	}

	if n >= largeGroupSize {
		for _, j := range rng.Perm(n)[:largeGroupSize] {
			entries[j].Routines = append(entries[j].Routines, model.RegisteredRoutine{Category: string(model.LargeGroup), Name: "Showgruppe"})
		}
	}
	return entries
}

// GenerateScores fills every applicable judge column of the given score
// sheet rows. With probability invalidRate a T or P sub-score is submitted
// out of range. The second result counts those cells.
func GenerateScores(rng *rand.Rand, sheet []map[string]any, invalidRate float64) ([]map[string]any, int) {
	var invalid int
	out := make([]map[string]any, len(sheet))
	for i, row := range sheet {
		rec := map[string]any{scoring.ColRoutineID: row[scoring.ColRoutineID]}
		for _, col := range panel.AllColumns() {
			key := col.String()
			if scoring.RawString(row[key]) == scoring.Sentinel {
				continue
			}
			if col.Domain() != panel.Dismount && rng.Float64() < invalidRate {
				rec[key] = outOfRangeScore
				invalid++
				continue
			}
			rec[key] = cellValue(rng, col)
		}
		out[i] = rec
	}
	return out, invalid
}

func cellValue(rng *rand.Rand, col panel.Column) any {
	if col.Domain() != panel.Dismount {
		v := float64(rng.Intn(101)) / 10
		if rng.Intn(2) == 0 {
			// decimal comma as typed on the jury sheets
			return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1)
		}
		return v
	}
	switch col.Sub {
	case "S":
		return rng.Intn(6)
	case "L":
		return rng.Intn(3)
	}
	return 1 + rng.Intn(largeGroupSize)
}
