// Package authflow drives the Spotify authorization-code login through the playlist backend.
//
// # Flow
//
// [Controller.InitiateLogin] asks the backend for the provider authorization URL and navigates to it.
// The provider later redirects to the callback view, which hands its query string to
// [Controller.HandleCallback]. That call walks an ordered list of branches and always ends in
// exactly one navigation to the landing page:
//
//  1. error parameter present: [ProviderError], /?error=<error>
//  2. code parameter absent: [MissingCode], /?error=no_code
//  3. code exchange fails: [ExchangeFailed], /?error=callback_failed or /?error=<message>
//  4. session re-check says no (or fails): [PostExchangeCheckFailed], /?error=auth_failed
//  5. session confirmed: [Success], /?success=true
//
// Failures inside the flow never surface as errors. They become an [Outcome] and a landing marker.
//
// # Session State
//
// The client holds no token and no authentication flag. [Controller.GetAuthStatus] asks the
// backend every time and answers false whenever it cannot confirm a session. The only thing kept
// locally is a snapshot of the user profile for display, dropped on logout.
//
// # Navigation
//
// A [Navigator] performs the "full page navigation". The web server answers the request with a
// redirect; the CLI opens the system browser.
package authflow
