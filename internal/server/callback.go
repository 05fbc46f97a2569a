package server

import (
	"net/http"
	"sync"

	"github.com/desertthunder/mixtape/internal/authflow"
)

// CallbackHandler serves the provider redirect and hands it to the login flow.
//
// In one-shot mode it processes a single callback, rejects any later one with 400 and publishes
// the outcome on [CallbackHandler.Result].
type CallbackHandler struct {
	flow    *authflow.Controller
	oneShot bool

	mu      sync.Mutex
	handled bool

	once    sync.Once
	results chan authflow.Outcome
}

// CallbackOption configures a [CallbackHandler].
type CallbackOption func(*CallbackHandler)

// WithOneShot limits the handler to a single callback.
func WithOneShot() CallbackOption {
	return func(h *CallbackHandler) { h.oneShot = true }
}

// NewCallbackHandler creates a [CallbackHandler] for flow.
func NewCallbackHandler(flow *authflow.Controller, opts ...CallbackOption) *CallbackHandler {
	h := &CallbackHandler{flow: flow, results: make(chan authflow.Outcome, 1)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP resolves the callback and redirects to the landing page.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.oneShot {
		h.mu.Lock()
		if h.handled {
			h.mu.Unlock()
			http.Error(w, "Callback already processed", http.StatusBadRequest)
			return
		}
		h.handled = true
		h.mu.Unlock()
	}

	outcome := h.flow.HandleCallback(r.Context(), r.URL.Query(), NewRedirectNavigator(w, r))

	if h.oneShot {
		h.send(outcome)
	}
}

// send publishes the outcome (only once).
func (h *CallbackHandler) send(outcome authflow.Outcome) {
	h.once.Do(func() {
		h.results <- outcome
		close(h.results)
	})
}

// Result returns the outcome channel.
//
// In one-shot mode it receives exactly one outcome and is then closed. Otherwise it never receives.
func (h *CallbackHandler) Result() <-chan authflow.Outcome {
	return h.results
}
