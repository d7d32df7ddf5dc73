// Package service provides the score board use cases behind the HTTP API:
// registration import, score sheets, cohort results, routine reconciliation
// and the starting order.
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/isabelbroeder/unicycle-score-board/internal/adapters/repository"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/agegroup"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/model"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/scoring"
	"github.com/isabelbroeder/unicycle-score-board/pkg/logger"
	"github.com/isabelbroeder/unicycle-score-board/pkg/metrics"
)

// Service implements the API dependencies of the score board.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	panel      *panel.Panel
	classifier *agegroup.Classifier
	aggregator *scoring.Aggregator

	// Configuration
	competitionDay time.Time
	juryHash       []byte
	shuffleSeed    int64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the table store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPanel sets the judge panel.
func WithPanel(p *panel.Panel) Option {
	return func(s *Service) {
		if p != nil {
			s.panel = p
		}
	}
}

// WithClassifier sets the age group table.
func WithClassifier(c *agegroup.Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithCompetitionDay sets the reference date for rider ages.
func WithCompetitionDay(day time.Time) Option {
	return func(s *Service) {
		if !day.IsZero() {
			s.competitionDay = day
		}
	}
}

// WithJuryPasswordHash sets the bcrypt hash of the shared jury password.
func WithJuryPasswordHash(hash string) Option {
	return func(s *Service) {
		s.juryHash = []byte(hash)
	}
}

// WithShuffleSeed fixes the starting order shuffle. Zero draws a new seed
// per call.
func WithShuffleSeed(seed int64) Option {
	return func(s *Service) {
		s.shuffleSeed = seed
	}
}

// New constructs a Service. Without options it keeps data in memory and
// uses the default panel and age groups.
func New(opts ...Option) *Service {
	s := &Service{
		competitionDay: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.panel == nil {
		p, err := panel.New(panel.DefaultSizes())
		if err != nil {
			panic(err)
		}
		s.panel = p
	}
	if s.classifier == nil {
		c, err := agegroup.NewClassifier(agegroup.DefaultBrackets())
		if err != nil {
			panic(err)
		}
		s.classifier = c
	}
	s.aggregator = scoring.NewAggregator(s.panel, scoring.WithDegradedHook(s.onDegraded))
	return s
}

// Start logs the configuration and seeds the size gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	riders, err := s.Riders(ctx)
	if err != nil {
		return err
	}
	routines, err := s.Routines(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateRiderCount(len(riders))
	metrics.UpdateRoutineCount(len(routines))

	if len(s.juryHash) == 0 {
		s.logger.Warn(ctx, "no jury password configured, jury endpoints are locked")
	}

	s.started = true
	s.logger.Info(ctx, "score board service started",
		logger.String("competition_day", s.competitionDay.Format(model.DateLayout)),
		logger.Int("riders", len(riders)),
		logger.Int("routines", len(routines)),
	)
	return nil
}

// Stop closes the store when it holds resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error(context.Background(), "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "score board service stopped")
}

// Panel returns the judge panel.
func (s *Service) Panel() *panel.Panel { return s.panel }

// Classifier returns the age group table.
func (s *Service) Classifier() *agegroup.Classifier { return s.classifier }

// CheckJuryPassword reports whether password matches the configured jury
// credential. It always fails when no credential is configured.
func (s *Service) CheckJuryPassword(password string) bool {
	if len(s.juryHash) == 0 {
		metrics.RecordAuthFailure()
		return false
	}
	if err := bcrypt.CompareHashAndPassword(s.juryHash, []byte(password)); err != nil {
		metrics.RecordAuthFailure()
		return false
	}
	return true
}

func (s *Service) onDegraded(category model.Category, column panel.Column, raw string) {
	metrics.RecordDegradedCell(column.Domain().String())
	s.logger.Debug(context.Background(), "cell stored as missing",
		logger.String("category", category.String()),
		logger.String("column", column.String()),
		logger.String("raw", raw),
	)
}

// storageFailed logs and counts a failed storage call.
func (s *Service) storageFailed(ctx context.Context, op, table string, err error) {
	metrics.RecordStorageError(op, table)
	s.logger.Error(ctx, "storage operation failed",
		logger.String("operation", op),
		logger.String("table", table),
		logger.Error(err),
	)
}
