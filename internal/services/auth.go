package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	loginPath     = "/api/auth/login"
	callbackPath  = "/api/auth/callback"
	checkAuthPath = "/api/auth/check-auth"
	mePath        = "/api/auth/me"
	logoutPath    = "/api/auth/logout"
)

// AuthService wraps the backend's /api/auth endpoints.
//
// Tokens never reach this side: the backend keeps them in its session and correlates
// requests through the cookie held by the [APIService] client.
type AuthService struct {
	api *APIService
}

// NewAuthService creates an [AuthService] on top of api.
func NewAuthService(api *APIService) *AuthService {
	return &AuthService{api: api}
}

// LoginURL asks the backend for the provider authorization URL.
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	var body struct {
		AuthURL string `json:"auth_url"`
	}
	if err := s.api.GetJSON(ctx, loginPath, &body); err != nil {
		return "", fmt.Errorf("failed to get login url: %w", err)
	}

	authURL := strings.TrimSpace(body.AuthURL)
	if authURL == "" {
		return "", fmt.Errorf("failed to get login url: %w: empty auth_url", shared.ErrMalformedResponse)
	}
	return authURL, nil
}

// ExchangeCode hands the authorization code to the backend and reports its success flag.
//
// A backend that answers 2xx without "success": true yields (false, nil).
func (s *AuthService) ExchangeCode(ctx context.Context, code string) (bool, error) {
	var body struct {
		Success bool `json:"success"`
	}
	path := withQuery(callbackPath, url.Values{"code": {code}})
	if err := s.api.GetJSON(ctx, path, &body); err != nil {
		return false, fmt.Errorf("failed to exchange code: %w", err)
	}
	return body.Success, nil
}

// CheckAuth reports whether the backend holds a live session for this client.
func (s *AuthService) CheckAuth(ctx context.Context) (bool, error) {
	var body struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := s.api.GetJSON(ctx, checkAuthPath, &body); err != nil {
		return false, fmt.Errorf("failed to check auth: %w", err)
	}
	return body.Authenticated, nil
}

// UserInfo fetches the signed-in user's profile.
func (s *AuthService) UserInfo(ctx context.Context) (*models.UserInfo, error) {
	var info models.UserInfo
	if err := s.api.GetJSON(ctx, mePath, &info); err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return &info, nil
}

// Logout ends the backend session. Only the status code matters.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.api.GetJSON(ctx, logoutPath, nil); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}
