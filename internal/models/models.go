// package models defines the data model for the playlist companion
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is a song as the backend describes it.
type Track struct {
	SpotifyTrackID string  `json:"spotify_track_id"`
	TrackName      string  `json:"track_name"`
	Artist         string  `json:"artist"`
	Genre          string  `json:"genre"`
	Tempo          float64 `json:"tempo"`
	Energy         float64 `json:"energy"`
	Valence        float64 `json:"valence"`
	Danceability   float64 `json:"danceability"`
}

// Playlist is a generated playlist. The first track is the seed it was built from.
type Playlist struct {
	Tracks []Track `json:"tracks"`
}

// Seed returns the track the playlist was generated from, or nil for an empty playlist.
func (p *Playlist) Seed() *Track {
	if p == nil || len(p.Tracks) == 0 {
		return nil
	}
	return &p.Tracks[0]
}

// Name returns the title the backend gives exported playlists.
func (p *Playlist) Name() string {
	if seed := p.Seed(); seed != nil {
		return "Inspired by " + seed.TrackName
	}
	return "Untitled playlist"
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Tracks       []Track `json:"tracks"`
	TotalResults int     `json:"total_results"`
}

// ExportResult is the backend's answer to a playlist export.
type ExportResult struct {
	Success     bool   `json:"success"`
	PlaylistURL string `json:"playlist_url"`
}

// UserInfo is the subset of the Spotify profile the UI shows.
type UserInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Country     string `json:"country"`
	Product     string `json:"product"`
}

// Session is a snapshot of the backend-held session as seen from the client.
//
// It is never a live value: callers ask again when they need a fresh answer.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	DisplayName   string `json:"display_name,omitempty"`
}
