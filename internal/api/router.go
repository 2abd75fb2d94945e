package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rlowrie/cairn/internal/hikeservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// mediaDir is where uploaded hike photos live.
func NewRouter(svc *hikeservice.Service, authEnabled bool, token string, sseHandler http.Handler, mediaDir string) chi.Router {
	h := NewHandler(svc)
	ph := NewPhotoHandler(mediaDir)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Hikes CRUD.
	r.Get("/hikes", h.ListHikes)
	r.Post("/hikes", h.CreateHike)
	r.Get("/hikes/{id}", h.GetHike)
	r.Put("/hikes/{id}", h.UpdateHike)
	r.Delete("/hikes/{id}", h.DeleteHike)
	r.Delete("/hikes", h.ClearHikes)

	// Log maintenance.
	r.Post("/reset", h.Reset)
	r.Get("/stats", h.Stats)

	// Hike photos.
	r.Post("/photos", ph.Upload)
	r.Get("/photos/{filename}", ph.ServeFile)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
