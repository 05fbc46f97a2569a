package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

func TestSongService(t *testing.T) {
	ctx := context.Background()

	t.Run("SearchSongs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected /search, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("query") != "space oddity" {
				t.Errorf("unexpected query %q", r.URL.Query().Get("query"))
			}
			if r.URL.Query().Get("limit") != "20" {
				t.Errorf("expected default limit 20, got %q", r.URL.Query().Get("limit"))
			}
			json.NewEncoder(w).Encode(models.SearchResult{Tracks: tu.SampleTracks(2), TotalResults: 57})
		}))
		defer server.Close()

		result, err := NewSongService(NewAPIService(server.URL, nil)).SearchSongs(ctx, "  space oddity ", 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Tracks) != 2 || result.TotalResults != 57 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("SearchSongs Empty Query Makes No Call", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("should not be called"))}

		_, err := NewSongService(NewAPIService("http://example.com", client)).SearchSongs(ctx, "   ", 5)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("GeneratePlaylist", func(t *testing.T) {
		tracks := tu.SampleTracks(10)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/generate_playlist" {
				t.Errorf("expected /generate_playlist, got %s", r.URL.Path)
			}
			if r.URL.Query().Get("spotify_track_id") != "tracka" {
				t.Errorf("unexpected track id %q", r.URL.Query().Get("spotify_track_id"))
			}
			json.NewEncoder(w).Encode(map[string]any{"playlist": models.Playlist{Tracks: tracks}})
		}))
		defer server.Close()

		playlist, err := NewSongService(NewAPIService(server.URL, nil)).GeneratePlaylist(ctx, "tracka")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlist.Tracks) != 10 {
			t.Fatalf("expected 10 tracks, got %d", len(playlist.Tracks))
		}
		if playlist.Seed().SpotifyTrackID != "tracka" {
			t.Errorf("expected seed first, got %s", playlist.Seed().SpotifyTrackID)
		}
	})

	t.Run("GeneratePlaylist Backend Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error": "track lookup failed"}`))
		}))
		defer server.Close()

		_, err := NewSongService(NewAPIService(server.URL, nil)).GeneratePlaylist(ctx, "x")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("GeneratePlaylist Empty ID", func(t *testing.T) {
		_, err := NewSongService(NewAPIService("http://example.com", nil)).GeneratePlaylist(ctx, "")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("ExportPlaylist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/auth/export-playlist" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var body struct {
				Tracks []models.Track `json:"tracks"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("failed to decode body: %v", err)
			}
			if len(body.Tracks) != 3 {
				t.Errorf("expected 3 tracks, got %d", len(body.Tracks))
			}
			w.Write([]byte(`{"success": true, "playlist_url": "https://open.spotify.com/playlist/xyz"}`))
		}))
		defer server.Close()

		result, err := NewSongService(NewAPIService(server.URL, nil)).ExportPlaylist(ctx, tu.SampleTracks(3))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.PlaylistURL != "https://open.spotify.com/playlist/xyz" {
			t.Errorf("unexpected url %s", result.PlaylistURL)
		}
	})

	t.Run("ExportPlaylist Unauthenticated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "Not authenticated"}`))
		}))
		defer server.Close()

		_, err := NewSongService(NewAPIService(server.URL, nil)).ExportPlaylist(ctx, tu.SampleTracks(1))
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if !errors.Is(err, shared.ErrExportFailed) {
			t.Errorf("expected ErrExportFailed, got %v", err)
		}
	})

	t.Run("ExportPlaylist Success False", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false}`))
		}))
		defer server.Close()

		_, err := NewSongService(NewAPIService(server.URL, nil)).ExportPlaylist(ctx, tu.SampleTracks(1))
		if !errors.Is(err, shared.ErrExportFailed) {
			t.Errorf("expected ErrExportFailed, got %v", err)
		}
	})

	t.Run("ExportPlaylist No Tracks", func(t *testing.T) {
		_, err := NewSongService(NewAPIService("http://example.com", nil)).ExportPlaylist(ctx, nil)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
