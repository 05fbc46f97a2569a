package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/authflow"
	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

const loginHint = "You can close this window and return to the terminal."

// sessionHint points at commands that sign in and use the session in one
// process. The session lives in the process cookie jar and is never saved.
const sessionHint = "A session lasts for one mixtape process. Sign in where you export with\n" +
	"'mixtape export <track-id>', 'mixtape tui' (press s) or 'mixtape serve'.\n"

// landingGrace bounds how long login waits for the browser to load the landing page.
var landingGrace = 3 * time.Second

// AuthLogin runs the browser login flow against a one-shot callback server.
// The session ends when the command exits, so this checks the flow end to end.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("force") && r.auth.GetAuthStatus(ctx) {
		return r.writePlain("✓ Already signed in%s\n", r.signedInAs(ctx))
	}

	if err := r.loginFlow(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Signed in%s\n", r.signedInAs(ctx))
	return r.writePlain("\n%s", sessionHint)
}

// loginFlow runs [Runner.login] and turns a failed outcome into an error.
func (r *Runner) loginFlow(ctx context.Context) error {
	outcome, err := r.login(ctx)
	if err != nil {
		return err
	}
	if !outcome.OK() {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, outcome.Reason)
	}
	return nil
}

// login starts a one-shot callback server, sends the user to the consent page and waits for the callback.
func (r *Runner) login(ctx context.Context) (authflow.Outcome, error) {
	srv := server.New(r.config.Server, r.auth, r.logger, server.Options{OneShot: true, Hint: loginHint})
	ln, err := srv.Listen()
	if err != nil {
		return authflow.Outcome{}, err
	}

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()
	served := make(chan error, 1)
	go func() { served <- srv.Serve(serveCtx, ln) }()

	shutdown := func() {
		stop()
		if err := <-served; err != nil {
			r.logger.Warn("callback server shutdown", "error", err)
		}
	}

	nav := authflow.NavigatorFunc(func(_ context.Context, target string) error {
		r.writePlain("→ Opening browser for Spotify login...\n")
		if err := r.browser(target); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err, "url", target)
			r.writePlainln("⚠ Could not open browser automatically.")
			r.writePlain("Please open this URL in your browser:\n%s\n\n", target)
		}
		return nil
	})
	if err := r.auth.InitiateLogin(ctx, nav); err != nil {
		shutdown()
		return authflow.Outcome{}, err
	}

	timeout := r.config.Server.LoginTimeout()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	r.writePlain("→ Waiting for authorization on http://%s/callback (%s timeout)...\n", ln.Addr(), timeout)

	var outcome authflow.Outcome
	select {
	case outcome = <-srv.Outcome():
	case err := <-served:
		if err == nil {
			err = ctx.Err()
		}
		return authflow.Outcome{}, fmt.Errorf("callback server stopped: %w", err)
	case <-timer.C:
		shutdown()
		return authflow.Outcome{}, fmt.Errorf("%w: no callback within %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		shutdown()
		return authflow.Outcome{}, ctx.Err()
	}

	select {
	case <-srv.Rendered():
	case <-time.After(landingGrace):
		r.logger.Debug("landing page not loaded before shutdown")
	case <-ctx.Done():
	}
	shutdown()

	r.logger.Info("login finished", "outcome", outcome.String())
	return outcome, nil
}

func (r *Runner) signedInAs(ctx context.Context) string {
	if session := r.auth.Session(ctx); session.DisplayName != "" {
		return " as " + session.DisplayName
	}
	return ""
}

// AuthStatus reports whether this process holds a backend session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session := r.auth.Session(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(session, false)
	}

	if !session.Authenticated {
		return r.writePlain("✗ Not signed in\n%s", sessionHint)
	}
	if session.DisplayName != "" {
		return r.writePlain("✓ Signed in as %s\n", session.DisplayName)
	}
	return r.writePlain("✓ Signed in\n")
}

// AuthWhoami prints the signed-in Spotify profile.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	info, err := r.auth.UserInfo(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return fmt.Errorf("%w: this process has no session, sign in with 'mixtape tui' or 'mixtape serve'", err)
	} else if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, true)
	}

	r.writePlainHeader(info.DisplayName)
	r.writePlain("ID:      %s\n", info.ID)
	if info.Email != "" {
		r.writePlain("Email:   %s\n", info.Email)
	}
	if info.Country != "" {
		r.writePlain("Country: %s\n", info.Country)
	}
	if info.Product != "" {
		r.writePlain("Plan:    %s\n", info.Product)
	}
	return nil
}

// AuthLogout ends the backend session held by this process.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if !r.auth.GetAuthStatus(ctx) {
		return r.writePlain("No session in this process, nothing to sign out.\n")
	}
	if err := r.auth.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}
