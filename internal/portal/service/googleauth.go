package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ingeniahq/po-portal/internal/portal/domain"
)

// ErrNoIDToken is returned when the provider's token response does not
// carry an id_token. That only happens when the openid scope was not
// requested, which would be a configuration bug.
var ErrNoIDToken = errors.New("auth: token response missing id_token")

// GoogleAuthService drives the browser-redirect login flow. The provider
// authenticates the user; on success the role is resolved exactly once and
// frozen into the session.
type GoogleAuthService struct {
	OAuth    *oauth2.Config
	Resolver *RoleResolver
	Sessions *SessionService
}

// NewGoogleOAuthConfig builds the oauth2 config for Google sign-in.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// AuthCodeURL returns the provider URL to redirect the browser to.
func (s *GoogleAuthService) AuthCodeURL(state string) string {
	return s.OAuth.AuthCodeURL(state)
}

// idTokenClaims are the identity claims carried in Google's id_token.
type idTokenClaims struct {
	jwt.RegisteredClaims

	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Login exchanges the authorization code, reads the identity from the
// id_token, resolves the role and creates a session. Returns the raw
// session cookie token and the resolved identity.
//
// The id_token signature is not re-verified here: the token was just
// received first-hand from the provider's token endpoint over TLS, not
// from the browser.
func (s *GoogleAuthService) Login(ctx context.Context, code string) (string, domain.Identity, error) {
	tok, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", domain.Identity{}, ErrNoIDToken
	}

	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", domain.Identity{}, fmt.Errorf("parse id_token: %w", err)
	}

	identity := domain.Identity{
		Subject:     claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		Role:        s.Resolver.Resolve(claims.Email),
	}

	token, _, err := s.Sessions.Create(ctx, identity)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("create session: %w", err)
	}

	return token, identity, nil
}
