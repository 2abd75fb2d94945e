// Package hikeservice validates incoming hike data and coordinates the
// storage repository with live-event publication.
package hikeservice

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/models"
	"github.com/rlowrie/cairn/internal/store"
)

// EventCallback is called after each successful mutation.
// kind is one of "created", "updated", "deleted", "cleared".
type EventCallback func(kind, id string)

// Service is the application service in front of the hike repository.
type Service struct {
	repo *store.Hikes
	cb   EventCallback
}

// NewService creates a hike service. cb may be nil.
func NewService(repo *store.Hikes, cb EventCallback) *Service {
	return &Service{repo: repo, cb: cb}
}

// HikeInput carries caller-supplied fields for create and update requests.
type HikeInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Parking     string `json:"parking"`
	Length      string `json:"length"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
	Weather     string `json:"weather"`
	Rating      string `json:"rating"`
	Companions  string `json:"companions"`
}

// Validate checks the input against the record constraints.
func (in HikeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Location, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&in.Parking, validation.Required, validation.In("Yes", "No")),
		validation.Field(&in.Length, validation.Required),
		validation.Field(&in.Difficulty, validation.Required, validation.In(
			models.DifficultyEasy, models.DifficultyMedium,
			models.DifficultyHard, models.DifficultyExpert)),
		validation.Field(&in.Rating, validation.In("1", "2", "3", "4", "5")),
	)
}

func (in HikeInput) toHike(id string) models.Hike {
	return models.Hike{
		ID:          id,
		Name:        in.Name,
		Location:    in.Location,
		Date:        in.Date,
		Parking:     in.Parking,
		Length:      in.Length,
		Difficulty:  in.Difficulty,
		Description: in.Description,
		Weather:     in.Weather,
		Rating:      in.Rating,
		Companions:  in.Companions,
	}
}

func (s *Service) publish(kind, id string) {
	if s.cb != nil {
		s.cb(kind, id)
	}
}

// CreateHike validates and stores a new hike. A missing id is assigned.
func (s *Service) CreateHike(ctx context.Context, in HikeInput) (models.Hike, error) {
	if err := in.Validate(); err != nil {
		return models.Hike{}, err
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	h, err := s.repo.Create(ctx, in.toHike(id))
	if err != nil {
		return models.Hike{}, err
	}
	s.publish("created", h.ID)
	return h, nil
}

// ListHikes returns every stored hike, most recent date first.
func (s *Service) ListHikes(ctx context.Context) ([]models.Hike, error) {
	return s.repo.ListAll(ctx)
}

// GetHike returns one hike or apperr.ErrNotFound.
func (s *Service) GetHike(ctx context.Context, id string) (models.Hike, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Hike{}, err
	}
	if h == nil {
		return models.Hike{}, apperr.ErrNotFound
	}
	return *h, nil
}

// UpdateHike validates and replaces the stored record with the given id.
// The complete record must be supplied; createdAt is preserved.
func (s *Service) UpdateHike(ctx context.Context, id string, in HikeInput) (models.Hike, error) {
	if err := in.Validate(); err != nil {
		return models.Hike{}, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return models.Hike{}, err
	}
	if existing == nil {
		return models.Hike{}, apperr.ErrNotFound
	}
	h := in.toHike(id)
	if err := s.repo.Update(ctx, h); err != nil {
		return models.Hike{}, err
	}
	h.CreatedAt = existing.CreatedAt
	s.publish("updated", id)
	return h, nil
}

// DeleteHike removes one hike. Absent ids are not an error.
func (s *Service) DeleteHike(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// ClearHikes removes every hike.
func (s *Service) ClearHikes(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.publish("cleared", "")
	return nil
}

// ResetLog drops and recreates the hike collection.
func (s *Service) ResetLog(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.publish("cleared", "")
	return nil
}

// Stats reports the number of stored hikes.
func (s *Service) Stats(ctx context.Context) (int, error) {
	return s.repo.Stats(ctx)
}
