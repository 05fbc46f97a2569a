// package services defines clients for the playlist backend's HTTP API
//
// Auth endpoints, search, playlist generation and export.
package services

import (
	"context"

	"github.com/desertthunder/mixtape/internal/models"
)

// Catalog is the song side of the backend: search, generate and export.
type Catalog interface {
	// SearchSongs returns up to limit tracks matching query.
	SearchSongs(ctx context.Context, query string, limit int) (*models.SearchResult, error)

	// GeneratePlaylist builds a playlist seeded by the given Spotify track.
	GeneratePlaylist(ctx context.Context, spotifyTrackID string) (*models.Playlist, error)

	// ExportPlaylist saves tracks as a playlist in the signed-in user's Spotify account.
	ExportPlaylist(ctx context.Context, tracks []models.Track) (*models.ExportResult, error)
}

var (
	_ Catalog = (*SongService)(nil)
)
