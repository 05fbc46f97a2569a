package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/formatter"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search prints tracks matching the query arguments.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	r.logger.Info("searching", "query", query)

	result, err := r.catalog.SearchSongs(ctx, query, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if result == nil {
		return fmt.Errorf("%w: empty search response", shared.ErrMalformedResponse)
	}
	r.cacheTracks(result.Tracks)

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if len(result.Tracks) == 0 {
		return r.writePlain("No tracks found for %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("%d of %d results for %q", len(result.Tracks), result.TotalResults, query))
	for i, t := range result.Tracks {
		r.writePlain("%2d. %s - %s\n", i+1, t.TrackName, t.Artist)
		r.writePlain("    %s  %s  %s\n", t.SpotifyTrackID, t.Genre, shared.FormatTempo(t.Tempo))
	}
	return nil
}

// Generate builds a playlist from a seed track and prints or writes it.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	trackID := strings.TrimSpace(cmd.StringArg("track-id"))
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	playlist, err := r.generate(ctx, trackID)
	if err != nil {
		return err
	}
	r.cachePlaylist(playlist)

	if out := cmd.String("output"); out != "" {
		path, err := formatter.WriteExport(playlist, format, out)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d tracks to %s\n", len(playlist.Tracks), path)
	}

	data, err := formatter.Render(format, playlist)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Export generates a playlist and saves it to the user's Spotify account, signing in first when needed.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	trackID := strings.TrimSpace(cmd.StringArg("track-id"))
	if trackID == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	if !r.auth.GetAuthStatus(ctx) {
		if cmd.Bool("no-login") {
			return fmt.Errorf("%w: drop --no-login to sign in as part of the export", shared.ErrNotAuthenticated)
		}
		r.writePlain("Not signed in to Spotify, starting login.\n")
		if err := r.loginFlow(ctx); err != nil {
			return err
		}
	}

	playlist, err := r.generate(ctx, trackID)
	if err != nil {
		return err
	}
	cachedID := r.cachePlaylist(playlist)

	r.logger.Info("exporting playlist", "name", playlist.Name(), "tracks", len(playlist.Tracks))

	result, err := r.catalog.ExportPlaylist(ctx, playlist.Tracks)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("%w: empty export response", shared.ErrMalformedResponse)
	}

	if cachedID != "" {
		if db := r.optionalCache(); db != nil {
			if err := repositories.NewPlaylistRepository(db).MarkExported(cachedID, result.PlaylistURL); err != nil {
				r.logger.Warn("failed to record export", "error", err)
			}
		}
	}

	r.writePlain("✓ Saved %q (%d tracks)\n", playlist.Name(), len(playlist.Tracks))
	if result.PlaylistURL != "" {
		r.writePlain("  %s\n", result.PlaylistURL)
	}
	return nil
}

func (r *Runner) generate(ctx context.Context, trackID string) (*models.Playlist, error) {
	r.logger.Info("generating playlist", "seed", trackID)

	playlist, err := r.catalog.GeneratePlaylist(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("playlist generation failed: %w", err)
	}
	if playlist == nil || len(playlist.Tracks) == 0 {
		return nil, fmt.Errorf("%w: empty playlist for %s", shared.ErrMalformedResponse, trackID)
	}
	return playlist, nil
}

// cacheTracks stores tracks when a cache is configured. Failures are logged, not returned.
func (r *Runner) cacheTracks(tracks []models.Track) {
	db := r.optionalCache()
	if db == nil || len(tracks) == 0 {
		return
	}

	n, err := repositories.NewTrackCacheAdapter(repositories.NewTrackRepository(db)).CacheTracks(tracks)
	if err != nil {
		r.logger.Warn("failed to cache tracks", "cached", n, "error", err)
		return
	}
	r.logger.Debug("cached tracks", "count", n)
}

// cachePlaylist stores the playlist and its tracks, returning the cached playlist id or "".
func (r *Runner) cachePlaylist(playlist *models.Playlist) string {
	db := r.optionalCache()
	if db == nil {
		return ""
	}

	r.cacheTracks(playlist.Tracks)

	persisted := models.NewPersistedPlaylist(0, playlist)
	if err := repositories.NewPlaylistRepository(db).Create(persisted); err != nil {
		r.logger.Warn("failed to cache playlist", "error", err)
		return ""
	}
	return persisted.ID()
}
