// package server contains the router, middleware and handlers for the local login and landing pages
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/authflow"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 5 * time.Second

// Options configures a [Server].
type Options struct {
	// OneShot accepts a single callback and publishes its outcome on [Server.Outcome].
	OneShot bool
	// Hint is an extra line shown on the landing page.
	Hint string
}

// Server is the local web companion: login, callback, logout, landing page and a session snapshot.
type Server struct {
	http     *http.Server
	router   *BasicRouter
	callback *CallbackHandler
	landing  *LandingHandler
	logger   *log.Logger
}

// New wires every handler for flow onto a fresh router listening on cfg.Addr().
func New(cfg shared.ServerConfig, flow *authflow.Controller, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	var cbOpts []CallbackOption
	if opts.OneShot {
		cbOpts = append(cbOpts, WithOneShot())
	}

	s := &Server{
		router:   NewBasicRouter(),
		callback: NewCallbackHandler(flow, cbOpts...),
		landing:  NewLandingHandler(flow, opts.Hint),
		logger:   logger,
	}

	s.router.Use(Recoverer(logger), RequestLogger(logger))
	s.router.Handler(s.callback)
	s.router.Handle(http.MethodGet, "/login", NewLoginHandler(flow))
	s.router.Handle(http.MethodGet, "/logout", NewLogoutHandler(flow))
	s.router.Handle(http.MethodGet, "/api/session", NewSessionHandler(flow))
	s.router.Handle(http.MethodGet, flow.Landing(), s.landing)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Outcome receives the single callback result in one-shot mode.
func (s *Server) Outcome() <-chan authflow.Outcome {
	return s.callback.Result()
}

// Rendered receives a value each time the landing page shows a login notice.
func (s *Server) Rendered() <-chan Notice {
	return s.landing.Rendered()
}

// Listen binds the address so that a port conflict surfaces before anything else happens.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return ln, nil
}

// Serve runs on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errs := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// ListenAndServe combines [Server.Listen] and [Server.Serve].
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
