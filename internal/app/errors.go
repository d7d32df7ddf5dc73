package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrInvalidRegistration = errors.New("invalid registration")
	ErrRoutineNotInCohort  = errors.New("routine not in cohort")
	ErrInvalidScoreRow     = errors.New("invalid score row")
	ErrSaveAborted         = errors.New("score save aborted")
)
