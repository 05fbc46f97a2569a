package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrCallbackHandled  = fmt.Errorf("callback already processed")

	// Backend errors. ErrTransport means the request never produced a response;
	// ErrAPIRequest means the backend answered with a failure.
	ErrTransport          = fmt.Errorf("backend unreachable")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMalformedResponse  = fmt.Errorf("malformed backend response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrExportFailed       = fmt.Errorf("playlist export failed")

	// Cache errors
	ErrTrackNotFound    = fmt.Errorf("track not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrNoDatabase       = fmt.Errorf("cache database not configured")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
