package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/mixtape/internal/shared"
	tu "github.com/desertthunder/mixtape/internal/testing"
)

// newCookieBackend serves the auth and playlist routes with a cookie session,
// the way the playlist API does. It counts logout requests.
func newCookieBackend(t *testing.T, consentURL string, logouts *atomic.Int32) *httptest.Server {
	t.Helper()

	signedIn := func(r *http.Request) bool {
		c, err := r.Cookie("session")
		return err == nil && c.Value == "s1"
	}
	reply := func(w http.ResponseWriter, body any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]string{"auth_url": consentURL})
	})
	mux.HandleFunc("GET /api/auth/callback", func(w http.ResponseWriter, r *http.Request) {
		ok := r.URL.Query().Get("code") == "abc"
		if ok {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		}
		reply(w, map[string]bool{"success": ok})
	})
	mux.HandleFunc("GET /api/auth/check-auth", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]bool{"authenticated": signedIn(r)})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !signedIn(r) {
			http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
			return
		}
		reply(w, map[string]string{"id": "u1", "display_name": "Ziggy"})
	})
	mux.HandleFunc("GET /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		logouts.Add(1)
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "", Path: "/", MaxAge: -1})
		reply(w, map[string]bool{"success": true})
	})
	mux.HandleFunc("GET /generate_playlist", func(w http.ResponseWriter, r *http.Request) {
		reply(w, map[string]any{"playlist": map[string]any{"tracks": tu.SampleTracks(3)}})
	})
	mux.HandleFunc("POST /api/auth/export-playlist", func(w http.ResponseWriter, r *http.Request) {
		if !signedIn(r) {
			http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
			return
		}
		reply(w, map[string]any{"success": true, "playlist_url": "https://open.spotify.com/playlist/xyz"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newProcessRunner builds a runner with its own API client, standing in for
// one mixtape process.
func newProcessRunner(t *testing.T, backendURL string) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Database.Path = ""
	config.Backend.URL = backendURL
	config.Server.Host = "127.0.0.1"
	config.Server.Port = freePort(t)
	config.Server.LoginTimeoutSeconds = 5

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
	})

	callback := fmt.Sprintf("http://127.0.0.1:%d/callback?code=abc", config.Server.Port)
	runner.browser = func(string) error {
		go func() {
			resp, err := http.Get(callback)
			if err != nil {
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}()
		return nil
	}
	return runner, output
}

func TestSessionScope(t *testing.T) {
	var logouts atomic.Int32
	backend := newCookieBackend(t, "https://accounts.spotify.com/authorize?client_id=abc", &logouts)

	first, firstOut := newProcessRunner(t, backend.URL)
	second, secondOut := newProcessRunner(t, backend.URL)

	t.Run("export signs in and uses the session in one process", func(t *testing.T) {
		if err := run(first, "export", "tracka"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(firstOut.String(), "starting login") {
			t.Errorf("expected an in-process login, got %q", firstOut.String())
		}
		if !strings.Contains(firstOut.String(), "✓ Saved") {
			t.Errorf("expected the export to succeed, got %q", firstOut.String())
		}

		firstOut.Reset()
		if err := run(first, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(firstOut.String(), "Signed in as Ziggy") {
			t.Errorf("expected the same process to stay signed in, got %q", firstOut.String())
		}
	})

	t.Run("another process does not see the session", func(t *testing.T) {
		if err := run(second, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(secondOut.String(), "Not signed in") {
			t.Errorf("expected no session, got %q", secondOut.String())
		}
		if !strings.Contains(secondOut.String(), "mixtape export <track-id>") {
			t.Errorf("expected an in-process sign-in hint, got %q", secondOut.String())
		}

		err := run(second, "export", "--no-login", "tracka")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}

		secondOut.Reset()
		if err := run(second, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(secondOut.String(), "No session in this process") {
			t.Errorf("unexpected output %q", secondOut.String())
		}
		if n := logouts.Load(); n != 0 {
			t.Errorf("expected no logout request, got %d", n)
		}
	})

	t.Run("logout ends the session of its own process", func(t *testing.T) {
		firstOut.Reset()
		if err := run(first, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n := logouts.Load(); n != 1 {
			t.Errorf("expected one logout request, got %d", n)
		}

		firstOut.Reset()
		if err := run(first, "auth", "status"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(firstOut.String(), "Not signed in") {
			t.Errorf("expected the session to end, got %q", firstOut.String())
		}
	})
}
