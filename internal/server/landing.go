package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/desertthunder/mixtape/internal/authflow"
	"github.com/desertthunder/mixtape/internal/models"
)

// Notice is the message shown for a landing marker.
type Notice struct {
	Level   string // "success" or "error"
	Title   string
	Message string
	Marker  string
}

// NoticeFor maps the landing query to a notice. It reports false when there is no marker.
func NoticeFor(q url.Values) (Notice, bool) {
	if q.Get("success") == "true" {
		return Notice{Level: "success", Title: "Signed in", Message: "Your Spotify account is connected.", Marker: "success"}, true
	}

	reason := q.Get("error")
	if reason == "" {
		return Notice{}, false
	}

	n := Notice{Level: "error", Title: "Login failed", Marker: reason}
	switch reason {
	case "access_denied":
		n.Title = "Login cancelled"
		n.Message = "Spotify access was not granted."
	case authflow.ReasonNoCode:
		n.Message = "The login redirect did not include an authorization code."
	case authflow.ReasonCallbackFailed:
		n.Message = "The backend could not complete the login."
	case authflow.ReasonAuthFailed:
		n.Message = "Login finished but no session could be confirmed."
	default:
		n.Message = reason
	}
	return n, true
}

type landingPage struct {
	Notice  *Notice
	Session models.Session
	Hint    string
}

var landingTemplate = template.Must(template.New("landing").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>mixtape</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem; min-width: 22rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .success h1 { color: #1DB954; }
        .error h1 { color: #d64545; }
        h1 { margin: 0 0 1rem 0; }
        p { color: #666; margin: 0 0 0.5rem 0; }
        a { color: #1DB954; }
    </style>
</head>
<body>
    <div class="container">
        {{- with .Notice}}
        <div class="{{.Level}}" data-marker="{{.Marker}}">
            <h1>{{.Title}}</h1>
            <p>{{.Message}}</p>
        </div>
        {{- end}}
        {{- if .Session.Authenticated}}
        <p>Signed in{{with .Session.DisplayName}} as <strong>{{.}}</strong>{{end}}.</p>
        <p><a href="/logout">Log out</a></p>
        {{- else}}
        <p>Not signed in.</p>
        <p><a href="/login">Log in with Spotify</a></p>
        {{- end}}
        {{- with .Hint}}
        <p>{{.}}</p>
        {{- end}}
    </div>
</body>
</html>
`))

// LandingHandler renders the landing page: the notice for the current marker plus a session snapshot.
type LandingHandler struct {
	flow     *authflow.Controller
	hint     string
	rendered chan Notice
}

// NewLandingHandler creates a [LandingHandler]. hint, when set, is shown under the session line.
func NewLandingHandler(flow *authflow.Controller, hint string) *LandingHandler {
	return &LandingHandler{flow: flow, hint: hint, rendered: make(chan Notice, 1)}
}

func (h *LandingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := landingPage{
		Session: h.flow.Session(r.Context()),
		Hint:    h.hint,
	}
	if n, ok := NoticeFor(r.URL.Query()); ok {
		page.Notice = &n
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := landingTemplate.Execute(w, page); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if page.Notice != nil {
		select {
		case h.rendered <- *page.Notice:
		default:
		}
	}
}

// Rendered receives notices as they are shown. Sends never block; a slow reader misses some.
func (h *LandingHandler) Rendered() <-chan Notice {
	return h.rendered
}
