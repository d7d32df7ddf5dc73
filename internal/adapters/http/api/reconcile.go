package api

import (
	"context"
	"net/http"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/assign"
)

// ReconcileDependencies runs the category and age group correction.
type ReconcileDependencies interface {
	Reconcile(ctx context.Context) (assign.Batch, error)
}

// ReconcileHandler handles reconcile requests.
type ReconcileHandler struct {
	deps ReconcileDependencies
}

// NewReconcileHandler creates a new reconcile handler.
func NewReconcileHandler(deps ReconcileDependencies) *ReconcileHandler {
	return &ReconcileHandler{deps: deps}
}

// HandlePostReconcile handles POST /reconcile and returns the applied batch.
func (h *ReconcileHandler) HandlePostReconcile(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_reconcile"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	batch, err := h.deps.Reconcile(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if batch.Corrections == nil {
		batch.Corrections = []assign.Correction{}
	}
	if batch.Skipped == nil {
		batch.Skipped = []assign.Skip{}
	}
	writeJSON(w, http.StatusOK, batch)
}
