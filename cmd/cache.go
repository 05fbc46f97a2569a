package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/urfave/cli/v3"
)

type cachedPlaylist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SeedTrackID string   `json:"seed_track_id"`
	TrackIDs    []string `json:"track_ids"`
	ExportedURL string   `json:"exported_url,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// CacheList prints cached tracks, or generated playlists with --playlists.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.cache()
	if err != nil {
		return err
	}
	criteria := map[string]any{"limit": cmd.Int("limit")}

	if cmd.Bool("playlists") {
		playlists, err := repositories.NewPlaylistRepository(db).List(criteria)
		if err != nil {
			return err
		}
		return r.writePlaylists(playlists, cmd.Bool("json"))
	}

	tracks, err := repositories.NewTrackRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]models.Track, 0, len(tracks))
		for _, t := range tracks {
			out = append(out, t.Track())
		}
		return r.writeJSON(out, true)
	}

	if len(tracks) == 0 {
		return r.writePlain("No cached tracks\n")
	}
	r.writePlainHeader(fmt.Sprintf("Cached tracks (%d)", len(tracks)))
	for _, t := range tracks {
		track := t.Track()
		r.writePlain("%-24s %s - %s\n", track.SpotifyTrackID, track.TrackName, track.Artist)
	}
	return nil
}

func (r *Runner) writePlaylists(playlists []*models.PersistedPlaylist, asJSON bool) error {
	if asJSON {
		out := make([]cachedPlaylist, 0, len(playlists))
		for _, p := range playlists {
			out = append(out, cachedPlaylist{
				ID:          p.ID(),
				Name:        p.Name(),
				SeedTrackID: p.SeedTrackID(),
				TrackIDs:    p.TrackIDs(),
				ExportedURL: p.ExportedURL(),
				CreatedAt:   p.CreatedAt().Format(time.RFC3339),
			})
		}
		return r.writeJSON(out, true)
	}

	if len(playlists) == 0 {
		return r.writePlain("No cached playlists\n")
	}
	r.writePlainHeader(fmt.Sprintf("Cached playlists (%d)", len(playlists)))
	for _, p := range playlists {
		status := "not exported"
		if p.Exported() {
			status = p.ExportedURL()
		}
		r.writePlain("%s  %s (%d tracks)\n    %s\n", p.CreatedAt().Format("2006-01-02 15:04"), p.Name(), len(p.TrackIDs()), status)
	}
	return nil
}

// CacheClear removes every cached track and playlist.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.cache()
	if err != nil {
		return err
	}

	tracks, err := repositories.NewTrackRepository(db).Clear()
	if err != nil {
		return err
	}
	playlists, err := repositories.NewPlaylistRepository(db).Clear()
	if err != nil {
		return err
	}

	r.logger.Info("cache cleared", "tracks", tracks, "playlists", playlists)
	return r.writePlain("✓ Cleared %d tracks and %d playlists\n", tracks, playlists)
}
