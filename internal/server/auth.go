package server

import (
	"net/http"

	"github.com/desertthunder/mixtape/internal/authflow"
	"github.com/desertthunder/mixtape/internal/shared"
)

// NewLoginHandler starts the provider login by redirecting to the authorization URL.
//
// When the backend can't produce one the response is 502.
func NewLoginHandler(flow *authflow.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := flow.InitiateLogin(r.Context(), NewRedirectNavigator(w, r)); err != nil {
			http.Error(w, "Could not start login: the backend is unavailable", http.StatusBadGateway)
		}
	})
}

// NewLogoutHandler ends the backend session and returns to the landing page.
func NewLogoutHandler(flow *authflow.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := flow.Logout(r.Context()); err != nil {
			http.Error(w, "Logout failed: the backend did not confirm", http.StatusBadGateway)
			return
		}
		http.Redirect(w, r, flow.Landing(), http.StatusFound)
	})
}

// NewSessionHandler reports the current session snapshot as JSON.
func NewSessionHandler(flow *authflow.Controller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := shared.MarshalJSON(flow.Session(r.Context()), false)
		if err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(data)
	})
}
