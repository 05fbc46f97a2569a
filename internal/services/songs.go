package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	searchPath   = "/search"
	generatePath = "/generate_playlist"
	exportPath   = "/api/auth/export-playlist"

	DefaultSearchLimit = 20
)

// SongService implements [Catalog] against the backend.
type SongService struct {
	api *APIService
}

// NewSongService creates a [SongService] on top of api.
func NewSongService(api *APIService) *SongService {
	return &SongService{api: api}
}

// SearchSongs searches the backend. A non-positive limit uses [DefaultSearchLimit].
func (s *SongService) SearchSongs(ctx context.Context, query string, limit int) (*models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	path := withQuery(searchPath, url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	})

	var result models.SearchResult
	if err := s.api.GetJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return &result, nil
}

// GeneratePlaylist asks the backend for a playlist seeded by spotifyTrackID.
func (s *SongService) GeneratePlaylist(ctx context.Context, spotifyTrackID string) (*models.Playlist, error) {
	spotifyTrackID = strings.TrimSpace(spotifyTrackID)
	if spotifyTrackID == "" {
		return nil, fmt.Errorf("%w: spotify track id is empty", shared.ErrInvalidInput)
	}

	path := withQuery(generatePath, url.Values{"spotify_track_id": {spotifyTrackID}})

	var body struct {
		Playlist models.Playlist `json:"playlist"`
	}
	if err := s.api.GetJSON(ctx, path, &body); err != nil {
		return nil, fmt.Errorf("playlist generation failed: %w", err)
	}
	return &body.Playlist, nil
}

// ExportPlaylist saves tracks to the signed-in user's Spotify account.
//
// Requires a backend session; a 401 surfaces as [shared.ErrNotAuthenticated].
func (s *SongService) ExportPlaylist(ctx context.Context, tracks []models.Track) (*models.ExportResult, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks to export", shared.ErrInvalidInput)
	}

	req := struct {
		Tracks []models.Track `json:"tracks"`
	}{tracks}

	var result models.ExportResult
	if err := s.api.PostJSON(ctx, exportPath, req, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrExportFailed, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: backend reported failure", shared.ErrExportFailed)
	}
	return &result, nil
}
