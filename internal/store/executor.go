package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rlowrie/cairn/internal/apperr"
)

// Executor wraps every storage operation in a uniform request/response
// contract: run the tagged operation against whichever backend is bound
// and normalize success or failure. Each call is its own implicit
// transaction; there is no multi-statement grouping.
type Executor struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	rebound bool
}

// NewExecutor binds an executor to the given backend.
func NewExecutor(backend Backend, logger *slog.Logger) *Executor {
	return &Executor{backend: backend, logger: logger}
}

// Backend returns the currently bound backend, for shutdown.
func (e *Executor) Backend() Backend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.backend
}

// Execute runs op against the bound backend. label names the repository
// operation and prefixes any error.
//
// If the bound backend stops reporting ready, the executor re-binds to a
// fallback store over an in-memory medium once and retries. That is the
// single automatic recovery path; every other failure propagates.
func (e *Executor) Execute(ctx context.Context, op Op, label string) (Rows, error) {
	e.mu.Lock()
	b := e.backend
	if b == nil {
		e.mu.Unlock()
		return Rows{}, fmt.Errorf("%s: %w", label, apperr.ErrNotInitialized)
	}
	if !b.Ready() {
		if e.rebound {
			e.mu.Unlock()
			return Rows{}, fmt.Errorf("%s: %w", label, apperr.ErrBackendUnavailable)
		}
		e.logger.Warn("store: backend no longer ready, re-binding to in-memory fallback",
			slog.String("backend", b.Name()))
		e.rebound = true
		if closeErr := b.Close(); closeErr != nil {
			e.logger.Warn("store: closing unready backend failed",
				slog.String("backend", b.Name()), slog.String("error", closeErr.Error()))
		}
		e.backend = NewFallback(NewMemKV())
		b = e.backend
		if !b.Ready() {
			e.mu.Unlock()
			return Rows{}, fmt.Errorf("%s: %w", label, apperr.ErrBackendUnavailable)
		}
	}
	e.mu.Unlock()

	rows, err := b.Exec(ctx, op)
	if err != nil {
		return Rows{}, fmt.Errorf("%s: %w", label, err)
	}
	return rows, nil
}
