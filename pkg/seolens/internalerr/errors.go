package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrSourceUnavailable  = errors.New("stopword source unavailable")
	ErrAnalysisInProgress = errors.New("analysis already in progress")
)
