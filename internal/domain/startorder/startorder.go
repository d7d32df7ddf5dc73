// Package startorder builds the randomized starting list, grouped by category
// and age group.
package startorder

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

// Row is one start in the list.
type Row struct {
	StartNumber  int    `json:"start_number"`
	RoutineID    int64  `json:"id_routine"`
	RoutineName  string `json:"routine_name"`
	Participants string `json:"participants"`
	Club         string `json:"club"`
}

// Block is a run of starts sharing category and age group.
type Block struct {
	Label    string         `json:"label"`
	Category model.Category `json:"category"`
	AgeGroup string         `json:"age_group"`
	Rows     []Row          `json:"rows"`
}

type entry struct {
	routine   model.Routine
	seniority int
	row       Row
}

// Build shuffles the routines with rng and orders them by category
// precedence, then by age group from oldest to youngest. Ties keep their
// shuffled order. Start numbers run across all blocks starting at 1.
func Build(routines []model.Routine, riders []model.Rider, memberships []model.Membership, classifier *agegroup.Classifier, rng *rand.Rand) []Block {
	byID := model.RidersByID(riders)
	byRoutine := model.RidersByRoutine(memberships)

	entries := make([]entry, len(routines))
	for i, r := range routines {
		members := make([]model.Rider, 0, len(byRoutine[r.ID]))
		for _, id := range byRoutine[r.ID] {
			if rider, ok := byID[id]; ok {
				members = append(members, rider)
			}
		}
		entries[i] = entry{
			routine:   r,
			seniority: classifier.Seniority(r.Category, r.AgeGroup),
			row: Row{
				RoutineID:    r.ID,
				RoutineName:  r.Name,
				Participants: Participants(members),
				Club:         Clubs(members),
			},
		}
	}

	rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	slices.SortStableFunc(entries, compareEntries)

	var blocks []Block
	for i, e := range entries {
		e.row.StartNumber = i + 1
		n := len(blocks)
		if n == 0 || blocks[n-1].Category != e.routine.Category || blocks[n-1].AgeGroup != e.routine.AgeGroup {
			blocks = append(blocks, Block{
				Label:    Label(e.routine.Category, e.routine.AgeGroup),
				Category: e.routine.Category,
				AgeGroup: e.routine.AgeGroup,
			})
			n++
		}
		blocks[n-1].Rows = append(blocks[n-1].Rows, e.row)
	}
	return blocks
}

func compareEntries(a, b entry) int {
	if c := cmp.Compare(a.routine.Category.Precedence(), b.routine.Category.Precedence()); c != 0 {
		return c
	}
	// configured labels first, oldest first
	aKnown, bKnown := a.seniority >= 0, b.seniority >= 0
	switch {
	case aKnown && bKnown:
		return cmp.Compare(b.seniority, a.seniority)
	case aKnown:
		return -1
	case bKnown:
		return 1
	}
	return cmp.Compare(b.routine.AgeGroup, a.routine.AgeGroup)
}

// Label is the block heading, e.g. "Paarkür U15".
func Label(category model.Category, ageGroup string) string {
	if ageGroup == "" {
		return category.DisplayName()
	}
	return category.DisplayName() + " " + ageGroup
}

// Participants renders the rider names of a routine.
func Participants(members []model.Rider) string {
	switch len(members) {
	case 0:
		return ""
	case 1:
		return members[0].Name
	case 2:
		return members[0].Name + " und " + members[1].Name
	}
	return strconv.Itoa(len(members)) + " Fahrer/innen"
}

// Clubs joins the distinct clubs of members in membership order.
func Clubs(members []model.Rider) string {
	seen := make(map[string]bool, len(members))
	var clubs []string
	for _, m := range members {
		if m.Club == "" || seen[m.Club] {
			continue
		}
		seen[m.Club] = true
		clubs = append(clubs, m.Club)
	}
	return strings.Join(clubs, ", ")
}

// WriteCSV exports blocks as a flat semicolon separated list with the block
// label in the first column.
func WriteCSV(w io.Writer, blocks []Block) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write([]string{"Block", "Startnummer", "Kür", "Fahrer/innen", "Verein"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range blocks {
		for _, r := range b.Rows {
			if err := cw.Write([]string{b.Label, strconv.Itoa(r.StartNumber), r.RoutineName, r.Participants, r.Club}); err != nil {
				return fmt.Errorf("write start %d: %w", r.StartNumber, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
