package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/rlowrie/cairn/internal/apperr"
	"github.com/rlowrie/cairn/internal/hikeservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *hikeservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *hikeservice.Service) *Handler {
	return &Handler{svc: svc}
}

// isValidationErr reports whether err came from input validation rather
// than the storage layer.
func isValidationErr(err error) bool {
	var verr validation.Errors
	return errors.As(err, &verr)
}

// ListHikes handles GET /hikes.
func (h *Handler) ListHikes(w http.ResponseWriter, r *http.Request) {
	hikes, err := h.svc.ListHikes(r.Context())
	if err != nil {
		slog.Error("list hikes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, HikeListResponse{Hikes: hikes, Total: len(hikes)})
}

// GetHike handles GET /hikes/{id}.
func (h *Handler) GetHike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hike, err := h.svc.GetHike(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get hike failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, hike)
}

// CreateHike handles POST /hikes.
func (h *Handler) CreateHike(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req HikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	hike, err := h.svc.CreateHike(r.Context(), req)
	if err != nil {
		switch {
		case isValidationErr(err):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrDuplicateID):
			writeJSON(w, http.StatusConflict, errorBody("hike already exists"))
		default:
			slog.Error("create hike failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, hike)
}

// UpdateHike handles PUT /hikes/{id}.
func (h *Handler) UpdateHike(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var req HikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	hike, err := h.svc.UpdateHike(r.Context(), id, req)
	if err != nil {
		switch {
		case isValidationErr(err):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		default:
			slog.Error("update hike failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, hike)
}

// DeleteHike handles DELETE /hikes/{id}. Absent ids still return 204.
func (h *Handler) DeleteHike(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.DeleteHike(r.Context(), id); err != nil {
		slog.Error("delete hike failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearHikes handles DELETE /hikes.
func (h *Handler) ClearHikes(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearHikes(r.Context()); err != nil {
		slog.Error("clear hikes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reset handles POST /reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetLog(r.Context()); err != nil {
		slog.Error("reset failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{Count: count})
}
