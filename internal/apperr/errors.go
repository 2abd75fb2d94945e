package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrNotInitialized     = errors.New("storage not initialized")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)
