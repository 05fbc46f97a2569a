// Package server provides HTTP routing, middleware, and the login handlers for the local web companion.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [RequestLogger] tags each request with a uuid; [Recoverer] turns panics into 500s.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Routes
//
//	GET /login        redirect to the provider authorization URL (502 if the backend fails)
//	GET /callback     resolve the provider redirect, then redirect to the landing page
//	GET /logout       end the backend session, then redirect to the landing page (502 on failure)
//	GET /api/session  JSON session snapshot
//	GET /             landing page: one notice per marker plus the session snapshot
//
// # One-shot Mode
//
// The CLI login starts a temporary server on localhost:3000. Its [CallbackHandler] accepts exactly one
// callback, rejects replays with 400 and publishes the outcome on a channel the CLI waits on.
// The long-running "serve" mode accepts any number of callbacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
