package model

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("invalid task")
	// ErrEmptyInput is returned when an analysis is requested with no tasks.
	ErrEmptyInput = errors.New("no tasks to analyze")
	// ErrServiceUnavailable covers every failure of the remote scoring exchange.
	ErrServiceUnavailable = errors.New("scoring service unavailable")
	// ErrAnalysisInFlight is returned when an analysis is requested while one is running.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
)

// ValidationError names the entry field that was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
