// Package services implements HTTP clients for the playlist backend.
//
// # Transport
//
// [APIService] owns the [http.Client], its cookie jar and a request rate limiter.
// The backend correlates requests through a session cookie, so every service built on the
// same [APIService] shares one session. Nothing is retried: a failed call is reported to the caller.
//
// # Auth Endpoints
//
// [AuthService] covers /api/auth/login, /callback, /check-auth, /me and /logout.
// It never sees an access or refresh token; those stay on the backend.
//
// # Catalog
//
// [SongService] implements [Catalog]: search, playlist generation and export to Spotify.
//
// # Error Handling
//
// Errors wrap sentinels from the shared package:
//   - [shared.ErrTransport] : no response (DNS, connection refused, timeout, cancelled context)
//   - [shared.ErrNotAuthenticated] : the backend answered 401
//   - [shared.ErrAPIRequest] : any other non-2xx answer, with the backend's error message
//   - [shared.ErrMalformedResponse] : a 2xx body that doesn't decode
//   - [shared.ErrInvalidInput] : rejected locally before any request
package services
