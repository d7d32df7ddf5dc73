package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/isabelbroeder/unicycle-score-board/internal/app"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
)

// RegistryDependencies reads and replaces the registration data.
type RegistryDependencies interface {
	Riders(ctx context.Context) ([]model.Rider, error)
	Routines(ctx context.Context) ([]model.Routine, error)
	ImportRegistration(ctx context.Context, entries []model.Registration) (model.ImportSummary, error)
}

// RegistryHandler handles rider, routine and registration requests.
type RegistryHandler struct {
	deps RegistryDependencies
}

// NewRegistryHandler creates a new registry handler.
func NewRegistryHandler(deps RegistryDependencies) *RegistryHandler {
	return &RegistryHandler{deps: deps}
}

// HandleGetRiders handles GET /riders.
func (h *RegistryHandler) HandleGetRiders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_riders"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	riders, err := h.deps.Riders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if riders == nil {
		riders = []model.Rider{}
	}
	writeJSON(w, http.StatusOK, riders)
}

// HandleGetRoutines handles GET /routines.
func (h *RegistryHandler) HandleGetRoutines(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_routines"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	routines, err := h.deps.Routines(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if routines == nil {
		routines = []model.Routine{}
	}
	writeJSON(w, http.StatusOK, routines)
}

// HandlePostRegistrations handles POST /registrations with a JSON array of
// parsed registration lines. It replaces all registration data.
func (h *RegistryHandler) HandlePostRegistrations(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_registrations"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var entries []model.Registration
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	summary, err := h.deps.ImportRegistration(r.Context(), entries)
	if errors.Is(err, service.ErrInvalidRegistration) {
		writeError(w, http.StatusBadRequest, "invalid_registration", Wrap(op, err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}
