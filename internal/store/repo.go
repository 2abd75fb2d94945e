package store

import (
	"context"
	"time"

	"github.com/rlowrie/cairn/internal/models"
)

// Hikes is the public repository API over the transaction executor. Every
// operation issues exactly one tagged statement; callers receive plain
// values or an error carrying the backend's message.
type Hikes struct {
	exec *Executor
	now  func() time.Time
}

// NewHikes creates the hike repository.
func NewHikes(exec *Executor) *Hikes {
	return &Hikes{exec: exec, now: time.Now}
}

// Initialize prepares the hikes collection. Safe to call more than once.
func (r *Hikes) Initialize(ctx context.Context) error {
	_, err := r.exec.Execute(ctx, CreateSchema(), "initialize")
	return err
}

// Create stores a new hike, assigning createdAt. Optional fields arrive as
// zero-value empty strings, so nothing unset ever reaches the backend.
// The stored record is returned.
func (r *Hikes) Create(ctx context.Context, h models.Hike) (models.Hike, error) {
	h.CreatedAt = r.now().UTC().Format(time.RFC3339)
	if _, err := r.exec.Execute(ctx, Insert(h), "create hike"); err != nil {
		return models.Hike{}, err
	}
	return h, nil
}

// ListAll returns every stored hike, most recent date first. An empty log
// yields an empty slice, not an error.
func (r *Hikes) ListAll(ctx context.Context) ([]models.Hike, error) {
	rows, err := r.exec.Execute(ctx, SelectAll(), "list hikes")
	if err != nil {
		return nil, err
	}
	if rows.Hikes == nil {
		return []models.Hike{}, nil
	}
	return rows.Hikes, nil
}

// GetByID returns the hike with the given id, or nil when absent. Absence
// is not an error.
func (r *Hikes) GetByID(ctx context.Context, id string) (*models.Hike, error) {
	rows, err := r.exec.Execute(ctx, SelectByID(id), "get hike")
	if err != nil {
		return nil, err
	}
	if len(rows.Hikes) == 0 {
		return nil, nil
	}
	h := rows.Hikes[0]
	return &h, nil
}

// Update replaces every field except id and createdAt of the stored record
// matching h.ID. The caller supplies the complete record; there are no
// partial patches. Updating an absent id is a no-op.
func (r *Hikes) Update(ctx context.Context, h models.Hike) error {
	_, err := r.exec.Execute(ctx, Update(h), "update hike")
	return err
}

// DeleteByID removes one hike. Deleting an absent id is not an error.
func (r *Hikes) DeleteByID(ctx context.Context, id string) error {
	_, err := r.exec.Execute(ctx, DeleteByID(id), "delete hike")
	return err
}

// DeleteAll removes every hike but keeps the collection.
func (r *Hikes) DeleteAll(ctx context.Context) error {
	_, err := r.exec.Execute(ctx, DeleteAll(), "delete all hikes")
	return err
}

// Reset drops and recreates the collection. A drop failure surfaces
// immediately; the create step is not attempted.
func (r *Hikes) Reset(ctx context.Context) error {
	if _, err := r.exec.Execute(ctx, DropSchema(), "reset: drop"); err != nil {
		return err
	}
	_, err := r.exec.Execute(ctx, CreateSchema(), "reset: create")
	return err
}

// Stats reports the number of stored hikes.
func (r *Hikes) Stats(ctx context.Context) (int, error) {
	rows, err := r.exec.Execute(ctx, Count(), "hike stats")
	if err != nil {
		return 0, err
	}
	return rows.Count, nil
}
