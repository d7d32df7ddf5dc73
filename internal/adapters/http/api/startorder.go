package api

import (
	"context"
	"net/http"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/startorder"
)

// StartingOrderDependencies builds the starting list.
type StartingOrderDependencies interface {
	StartingOrder(ctx context.Context) ([]startorder.Block, error)
}

// StartingOrderHandler handles starting order requests.
type StartingOrderHandler struct {
	deps StartingOrderDependencies
}

// NewStartingOrderHandler creates a new starting order handler.
func NewStartingOrderHandler(deps StartingOrderDependencies) *StartingOrderHandler {
	return &StartingOrderHandler{deps: deps}
}

// HandleGetStartingOrder handles GET /starting-order. With ?format=csv the
// list is returned as a semicolon separated file.
func (h *StartingOrderHandler) HandleGetStartingOrder(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_starting_order"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	blocks, err := h.deps.StartingOrder(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="startreihenfolge.csv"`)
		w.WriteHeader(http.StatusOK)
		_ = startorder.WriteCSV(w, blocks)
		return
	}
	if blocks == nil {
		blocks = []startorder.Block{}
	}
	writeJSON(w, http.StatusOK, blocks)
}
