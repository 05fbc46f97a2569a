package authflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/google/uuid"
)

// Backend is the set of auth endpoints the flow talks to.
type Backend interface {
	LoginURL(ctx context.Context) (string, error)
	ExchangeCode(ctx context.Context, code string) (bool, error)
	CheckAuth(ctx context.Context) (bool, error)
	UserInfo(ctx context.Context) (*models.UserInfo, error)
	Logout(ctx context.Context) error
}

var _ Backend = (*services.AuthService)(nil)

// Navigator leaves the current view for target.
type Navigator interface {
	Navigate(ctx context.Context, target string) error
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Navigate(ctx context.Context, target string) error {
	return f(ctx, target)
}

// Controller runs the login, callback, status and logout operations.
//
// It is safe for concurrent use. The only state it keeps is the last fetched user profile.
type Controller struct {
	backend Backend
	logger  *log.Logger
	landing string

	mu   sync.RWMutex
	user *models.UserInfo
}

// NewController creates a [Controller]. An empty landing path means "/".
func NewController(backend Backend, logger *log.Logger, landing string) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if landing == "" {
		landing = "/"
	}
	return &Controller{backend: backend, logger: logger, landing: landing}
}

// Landing returns the path callbacks navigate back to.
func (c *Controller) Landing() string {
	return c.landing
}

// InitiateLogin fetches the provider authorization URL and navigates to it.
//
// When the backend can't produce a URL the error is returned and nothing navigates.
func (c *Controller) InitiateLogin(ctx context.Context, nav Navigator) error {
	authURL, err := c.backend.LoginURL(ctx)
	if err != nil {
		c.logger.Error("could not start login", "error", err)
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	c.logger.Debug("navigating to provider", "host", hostOf(authURL))
	if err := nav.Navigate(ctx, authURL); err != nil {
		return fmt.Errorf("failed to open authorization url: %w", err)
	}
	return nil
}

// HandleCallback resolves a provider redirect into an [Outcome] and navigates to the landing page.
//
// Branches are tried in order and the first match wins. Exactly one navigation happens unless ctx
// is done by the time a step's result arrives, in which case nothing further is called and the
// outcome comes back marked Abandoned.
func (c *Controller) HandleCallback(ctx context.Context, query url.Values, nav Navigator) Outcome {
	logger := c.logger.With("flow", uuid.NewString())
	cb := ParseCallback(query)

	if cb.HasError() {
		return c.finish(ctx, logger, nav, Outcome{Kind: ProviderError, Reason: cb.Error})
	}
	if !cb.HasCode() {
		return c.finish(ctx, logger, nav, Outcome{Kind: MissingCode, Reason: ReasonNoCode})
	}

	logger.Debug("exchanging authorization code")
	ok, err := c.backend.ExchangeCode(ctx, cb.Code)
	switch {
	case err != nil:
		return c.finish(ctx, logger, nav, exchangeFailure(err))
	case !ok:
		return c.finish(ctx, logger, nav, Outcome{Kind: ExchangeFailed, Reason: ReasonCallbackFailed})
	case ctx.Err() != nil:
		return c.abandon(logger, Outcome{Kind: PostExchangeCheckFailed, Reason: ReasonAuthFailed, Err: ctx.Err()})
	}

	logger.Debug("confirming session")
	authenticated, err := c.backend.CheckAuth(ctx)
	if err != nil || !authenticated {
		return c.finish(ctx, logger, nav, Outcome{Kind: PostExchangeCheckFailed, Reason: ReasonAuthFailed, Err: err})
	}
	return c.finish(ctx, logger, nav, Outcome{Kind: Success})
}

// exchangeFailure separates an unreachable backend from one that answered with a failure.
func exchangeFailure(err error) Outcome {
	if errors.Is(err, shared.ErrTransport) {
		return Outcome{Kind: ExchangeFailed, Reason: shared.ErrTransport.Error(), Err: err}
	}
	return Outcome{Kind: ExchangeFailed, Reason: ReasonCallbackFailed, Err: err}
}

func (c *Controller) finish(ctx context.Context, logger *log.Logger, nav Navigator, o Outcome) Outcome {
	if ctx.Err() != nil {
		return c.abandon(logger, o)
	}

	target := o.Target(c.landing)
	switch o.Kind {
	case Success:
		logger.Info("login complete", "outcome", o)
	default:
		logger.Warn("login failed", "outcome", o, "error", o.Err)
	}

	if err := nav.Navigate(ctx, target); err != nil {
		logger.Error("navigation failed", "target", target, "error", err)
	}
	return o
}

func (c *Controller) abandon(logger *log.Logger, o Outcome) Outcome {
	o.Abandoned = true
	logger.Warn("callback abandoned", "outcome", o)
	return o
}

// GetAuthStatus asks the backend whether a session exists.
//
// Every call is a round trip. Any failure answers false.
func (c *Controller) GetAuthStatus(ctx context.Context) bool {
	ok, err := c.backend.CheckAuth(ctx)
	if err != nil {
		c.logger.Warn("auth status unavailable, treating as signed out", "error", err)
		return false
	}
	return ok
}

// Logout ends the backend session and drops the cached profile.
//
// On failure nothing local changes; callers should ask [Controller.GetAuthStatus] again.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.backend.Logout(ctx); err != nil {
		c.logger.Error("logout failed", "error", err)
		return err
	}

	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	c.logger.Info("logged out")
	return nil
}

// UserInfo fetches the signed-in profile and keeps it for [Controller.DisplayName].
func (c *Controller) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	info, err := c.backend.UserInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, fmt.Errorf("%w: empty user info", shared.ErrMalformedResponse)
	}

	c.mu.Lock()
	snapshot := *info
	c.user = &snapshot
	c.mu.Unlock()
	return info, nil
}

// DisplayName returns the cached profile name, or "" when none was fetched.
func (c *Controller) DisplayName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return ""
	}
	return c.user.DisplayName
}

// Session takes a snapshot of the current session.
//
// The display name is best effort: a failed profile fetch leaves it empty.
func (c *Controller) Session(ctx context.Context) models.Session {
	s := models.Session{Authenticated: c.GetAuthStatus(ctx)}
	if !s.Authenticated {
		return s
	}

	if info, err := c.UserInfo(ctx); err != nil {
		c.logger.Debug("user info unavailable", "error", err)
	} else {
		s.DisplayName = info.DisplayName
	}
	return s
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
