package api

import (
	"github.com/rlowrie/cairn/internal/hikeservice"
	"github.com/rlowrie/cairn/internal/models"
)

// HikeRequest is the request body for creating or updating a hike.
// On create, a missing id is assigned by the service.
type HikeRequest = hikeservice.HikeInput

// HikeListResponse wraps a hike listing.
type HikeListResponse struct {
	Hikes []models.Hike `json:"hikes"`
	Total int           `json:"total"`
}

// StatsResponse reports the size of the hike log.
type StatsResponse struct {
	Count int `json:"count"`
}

// PhotoUploadResponse is returned after a successful photo upload.
type PhotoUploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}
