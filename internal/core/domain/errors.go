// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Identity errors
	ErrEmptyName          = errors.New("record name cannot be empty")
	ErrEmptyKey           = errors.New("name normalizes to an empty key")
	ErrNoAuthoritativeURL = errors.New("record has no authoritative source url")
	ErrSlugConflict       = errors.New("slug already assigned to another identity")

	// Alias errors
	ErrAliasTaken = errors.New("alias key already registered")

	// Source errors
	ErrSourceNotFound        = errors.New("source not found")
	ErrSourceInitFailed      = errors.New("source initialization failed")
	ErrSourceExecutionFailed = errors.New("source execution failed")
	ErrSourceTimeout         = errors.New("source execution timeout")

	// Run errors
	ErrRunFailed          = errors.New("reconciliation run failed")
	ErrNoSourcesAvailable = errors.New("no sources available for run")
	ErrRunCanceled        = errors.New("run was canceled")

	// Snapshot errors
	ErrSnapshotLoadFailed  = errors.New("failed to load snapshot")
	ErrSnapshotWriteFailed = errors.New("failed to write snapshot")

	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrConfigLoadFailed = errors.New("failed to load configuration")
)
