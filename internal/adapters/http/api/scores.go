package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/isabelbroeder/unicycle-score-board/internal/app"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
)

// ScoreDependencies reads, saves and normalizes score rows.
type ScoreDependencies interface {
	ScoreSheet(ctx context.Context, category model.Category, ageGroup string) ([]scoring.Row, error)
	SaveScores(ctx context.Context, category model.Category, ageGroup string, records []map[string]any) ([]scoring.Row, error)
	Results(ctx context.Context, category model.Category, ageGroup string) (scoring.Cohort, error)
}

// ScoresHandler handles score sheet and result requests.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScores handles GET /scores?category=&age_group=.
func (h *ScoresHandler) HandleGetScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scores"
	category, ageGroup, err := cohortQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, err := h.deps.ScoreSheet(r.Context(), category, ageGroup)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if rows == nil {
		rows = []scoring.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandlePutScores handles PUT /scores?category=&age_group= with a JSON array
// of score records. The cohort's stored rows are replaced.
func (h *ScoresHandler) HandlePutScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_scores"
	category, ageGroup, err := cohortQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, err := h.deps.SaveScores(r.Context(), category, ageGroup, records)
	switch {
	case errors.Is(err, service.ErrRoutineNotInCohort), errors.Is(err, service.ErrInvalidScoreRow):
		writeError(w, http.StatusBadRequest, "invalid_scores", Wrap(op, err))
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, "save_failed", Wrap(op, err))
		return
	}
	if rows == nil {
		rows = []scoring.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGetResults handles GET /results?category=&age_group=.
func (h *ScoresHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category, ageGroup, err := cohortQuery(r)
	if err == nil && category == "" {
		err = errors.New("category is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	cohort, err := h.deps.Results(r.Context(), category, ageGroup)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if cohort.Routines == nil {
		cohort.Routines = []scoring.DomainScores{}
	}
	writeJSON(w, http.StatusOK, cohort)
}
