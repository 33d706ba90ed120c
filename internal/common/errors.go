// Package common defines sentinel errors shared by the stores, backends and
// the CLI. Callers should match them with errors.Is.
package common

import "errors"

var (
	// Backend-level errors.
	ErrorNotFound = errors.New("not found")

	// Engagement store rejections.
	ErrAlreadyExists = errors.New("already exists")
	ErrNotPresent    = errors.New("not present")
	ErrNoCandidates  = errors.New("no candidates")

	// Input validation.
	ErrValidation = errors.New("validation error")

	// Configuration.
	ErrUnknownBackend = errors.New("unknown storage backend")
)
