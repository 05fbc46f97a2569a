// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
)

// FakeBackend is a scripted stand-in for the auth endpoints.
//
// Each call is recorded by name, in order. Hooks run before the scripted result is returned,
// which lets a test cancel a context mid-flow.
type FakeBackend struct {
	mu    sync.Mutex
	calls []string

	AuthURL       string
	LoginErr      error
	ExchangeOK    bool
	ExchangeErr   error
	OnExchange    func(code string)
	Authenticated bool
	CheckErr      error
	User          *models.UserInfo
	UserErr       error
	LogoutErr     error
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// Calls returns the endpoint names hit so far.
func (f *FakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeBackend) LoginURL(ctx context.Context) (string, error) {
	f.record("login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	return f.AuthURL, nil
}

func (f *FakeBackend) ExchangeCode(ctx context.Context, code string) (bool, error) {
	f.record("callback")
	if f.OnExchange != nil {
		f.OnExchange(code)
	}
	return f.ExchangeOK, f.ExchangeErr
}

func (f *FakeBackend) CheckAuth(ctx context.Context) (bool, error) {
	f.record("check-auth")
	return f.Authenticated, f.CheckErr
}

func (f *FakeBackend) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	f.record("me")
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	return f.User, nil
}

func (f *FakeBackend) Logout(ctx context.Context) error {
	f.record("logout")
	return f.LogoutErr
}

// RecordingNavigator remembers every navigation target.
type RecordingNavigator struct {
	mu      sync.Mutex
	Targets []string
	Err     error
}

func (n *RecordingNavigator) Navigate(ctx context.Context, target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Targets = append(n.Targets, target)
	return n.Err
}

// Last returns the most recent target, or "" when nothing navigated.
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Targets) == 0 {
		return ""
	}
	return n.Targets[len(n.Targets)-1]
}

// FakeCatalog is a test double for services.Catalog.
type FakeCatalog struct {
	Result      *models.SearchResult
	SearchErr   error
	Playlist    *models.Playlist
	GenerateErr error
	Export      *models.ExportResult
	ExportErr   error
	Exported    []models.Track
}

func (f *FakeCatalog) SearchSongs(ctx context.Context, query string, limit int) (*models.SearchResult, error) {
	return f.Result, f.SearchErr
}

func (f *FakeCatalog) GeneratePlaylist(ctx context.Context, spotifyTrackID string) (*models.Playlist, error) {
	return f.Playlist, f.GenerateErr
}

func (f *FakeCatalog) ExportPlaylist(ctx context.Context, tracks []models.Track) (*models.ExportResult, error) {
	f.Exported = tracks
	return f.Export, f.ExportErr
}

// SampleTracks returns n distinct tracks for fixtures.
func SampleTracks(n int) []models.Track {
	names := []string{"Heroes", "Ashes to Ashes", "Let's Dance", "Starman", "Life on Mars?", "Changes"}
	tracks := make([]models.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, models.Track{
			SpotifyTrackID: "track" + string(rune('a'+i)),
			TrackName:      names[i%len(names)],
			Artist:         "David Bowie",
			Genre:          "art rock",
			Tempo:          100 + float64(i),
			Energy:         0.5,
			Valence:        0.6,
			Danceability:   0.7,
		})
	}
	return tracks
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
