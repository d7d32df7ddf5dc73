// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RegistryDependencies
	ScoreDependencies
	ReconcileDependencies
	StartingOrderDependencies
	Authenticator
}

// Authenticator checks the shared jury password.
type Authenticator interface {
	CheckJuryPassword(password string) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	registryHandler  *RegistryHandler
	scoresHandler    *ScoresHandler
	reconcileHandler *ReconcileHandler
	startHandler     *StartingOrderHandler
	auth             Authenticator
	log              logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		registryHandler:  NewRegistryHandler(deps),
		scoresHandler:    NewScoresHandler(deps),
		reconcileHandler: NewReconcileHandler(deps),
		startHandler:     NewStartingOrderHandler(deps),
		auth:             deps,
		log:              log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/riders", MetricsMiddleware(s.registryHandler.HandleGetRiders, "riders"))
	mux.HandleFunc("/routines", MetricsMiddleware(s.registryHandler.HandleGetRoutines, "routines"))
	mux.HandleFunc("/registrations", MetricsMiddleware(s.jury(s.registryHandler.HandlePostRegistrations), "registrations"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scores, "scores"))
	mux.HandleFunc("/results", MetricsMiddleware(s.scoresHandler.HandleGetResults, "results"))
	mux.HandleFunc("/reconcile", MetricsMiddleware(s.jury(s.reconcileHandler.HandlePostReconcile), "reconcile"))
	mux.HandleFunc("/starting-order", MetricsMiddleware(s.startHandler.HandleGetStartingOrder, "starting_order"))
}

// Handler returns mux wrapped with request ids and access logging.
func (s *Server) Handler(mux *http.ServeMux) http.Handler {
	return RequestIDMiddleware(AccessLogMiddleware(mux, s.log))
}

// scores serves reads publicly and gates writes behind the jury password.
func (s *Server) scores(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.scoresHandler.HandleGetScores(w, r)
	case http.MethodPut:
		s.jury(s.scoresHandler.HandlePutScores)(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) jury(next http.HandlerFunc) http.HandlerFunc {
	return JuryAuthMiddleware(next, s.auth)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// cohortQuery reads the optional category and age_group filters.
func cohortQuery(r *http.Request) (model.Category, string, error) {
	q := r.URL.Query()
	ageGroup := q.Get("age_group")
	raw := q.Get("category")
	if raw == "" {
		return "", ageGroup, nil
	}
	category, err := model.ParseCategory(raw)
	if err != nil {
		return "", "", err
	}
	return category, ageGroup, nil
}
