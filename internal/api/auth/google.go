package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/profiles"
	"fineart/internal/session"
)

const (
	googleIssuer   = "https://accounts.google.com"
	stateCookie    = "oauth_state"
	stateCookieTTL = 300
)

// Google holds the OAuth client and a lazily discovered ID-token verifier.
type Google struct {
	OAuth            *oauth2.Config
	FrontendRedirect string
	SecureCookie     bool

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewGoogle(clientID, clientSecret, redirectURL, frontendRedirect string, secure bool) *Google {
	return &Google{
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		FrontendRedirect: frontendRedirect,
		SecureCookie:     secure,
	}
}

// idVerifier discovers the provider on first use; a failed discovery is retried next time.
func (g *Google) idVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc provider: %w", err)
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.OAuth.ClientID})
	return g.verifier, nil
}

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func (g *Google) verify(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	verifier, err := g.idVerifier(ctx)
	if err != nil {
		return nil, err
	}
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("verify id_token: %w", err)
	}
	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id_token claims: %w", err)
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("id_token missing sub or email")
	}
	return &claims, nil
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	if h.Google == nil {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, errors.New("google sign-in not configured")))
		return
	}
	state, err := randomState()
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieTTL, "/", "", h.Google.SecureCookie, true)
	c.Redirect(http.StatusFound, h.Google.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.Google == nil {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, errors.New("google sign-in not configured")))
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, errors.New("missing code or state")))
		return
	}
	if cookieState, err := c.Cookie(stateCookie); err != nil || cookieState != state {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, errors.New("oauth state mismatch")))
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.Google.SecureCookie, true)

	ctx := c.Request.Context()
	tok, err := h.Google.OAuth.Exchange(ctx, code)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, err))
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, errors.New("missing id_token")))
		return
	}
	claims, err := h.Google.verify(ctx, rawIDToken)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeOAuthFailed, err))
		return
	}

	p, err := h.findOrCreateGoogleProfile(ctx, claims)
	if err != nil {
		h.Logger.Error("google profile lookup failed", zap.Error(err))
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}

	if h.Google.FrontendRedirect == "" {
		h.signIn(c, http.StatusOK, p, session.EventLogin)
		return
	}
	token, _, err := h.Tokens.Issue(p)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	h.Events.Publish(ctx, session.Event{Type: session.EventLogin, ProfileID: p.ID, Email: p.Email, At: time.Now()})
	c.Redirect(http.StatusFound, h.Google.FrontendRedirect+"?token="+url.QueryEscape(token))
}

// findOrCreateGoogleProfile matches by Google subject, then links an existing
// account with the same email, and only then creates a new profile.
func (h *Handler) findOrCreateGoogleProfile(ctx context.Context, gc *googleIDClaims) (profiles.Profile, error) {
	p, err := h.Store.GetProfileByGoogleSub(ctx, gc.Sub)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return profiles.Profile{}, err
	}

	email := profiles.NormalizeEmail(gc.Email)
	p, err = h.Store.GetProfileByEmail(ctx, email)
	switch {
	case err == nil:
		if err := h.Store.LinkGoogle(ctx, p.ID, gc.Sub); err != nil {
			return profiles.Profile{}, err
		}
		sub := gc.Sub
		p.GoogleSub = &sub
		return p, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return profiles.Profile{}, err
	}

	sub := gc.Sub
	p = profiles.Profile{
		Email:        email,
		Name:         firstNonEmpty(gc.Name, gc.GivenName),
		Role:         profiles.RoleUser,
		AuthProvider: profiles.ProviderGoogle,
		GoogleSub:    &sub,
	}
	if err := h.Store.CreateProfile(ctx, &p); err != nil {
		return profiles.Profile{}, err
	}
	return p, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
