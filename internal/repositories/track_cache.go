package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// TrackCacheAdapter caches backend tracks through a [TrackRepository].
//
// Tracks are deduplicated by Spotify id. A track seen again refreshes its cached features.
type TrackCacheAdapter struct {
	repo *TrackRepository
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter with the given repository
func NewTrackCacheAdapter(repo *TrackRepository) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo}
}

// CacheTrack stores track, or refreshes the existing row for its Spotify id.
func (a *TrackCacheAdapter) CacheTrack(track models.Track) error {
	if _, err := a.repo.GetBySpotifyID(track.SpotifyTrackID); err == nil {
		return a.repo.Refresh(track)
	} else if !errors.Is(err, shared.ErrTrackNotFound) {
		return fmt.Errorf("failed to look up track: %w", err)
	}

	err := a.repo.Create(models.NewPersistedTrack(0, track))
	if err != nil {
		// Soft-deleted rows still hold the UNIQUE id.
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return a.repo.Refresh(track)
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}

	return nil
}

// CacheTracks caches each track and reports how many were stored or refreshed.
//
// It stops at the first failure.
func (a *TrackCacheAdapter) CacheTracks(tracks []models.Track) (int, error) {
	for i, t := range tracks {
		if err := a.CacheTrack(t); err != nil {
			return i, err
		}
	}
	return len(tracks), nil
}
