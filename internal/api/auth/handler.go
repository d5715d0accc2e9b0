package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/profiles"
	"fineart/internal/session"
)

type Store interface {
	GetProfile(ctx context.Context, id string) (profiles.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (profiles.Profile, error)
	GetProfileByGoogleSub(ctx context.Context, sub string) (profiles.Profile, error)
	CreateProfile(ctx context.Context, p *profiles.Profile) error
	UpdatePassword(ctx context.Context, id, hash string) error
	LinkGoogle(ctx context.Context, id, sub string) error
}

type Tokens interface {
	Issue(p profiles.Profile) (string, session.Claims, error)
	Revoke(ctx context.Context, c *session.Claims) error
}

type Events interface {
	Publish(ctx context.Context, e session.Event)
}

type Handler struct {
	Store  Store
	Tokens Tokens
	Events Events
	// Google is nil when Google sign-in is not configured.
	Google *Google
	Logger *zap.Logger
}

// SessionResponse is returned by every flow that signs the caller in.
type SessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Profile   profiles.Profile `json:"profile"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

// isPasswordStrong requires 8+ characters with at least one letter and one digit.
func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// signIn issues a token for p, announces ev and writes the session.
func (h *Handler) signIn(c *gin.Context, status int, p profiles.Profile, ev session.EventType) {
	token, claims, err := h.Tokens.Issue(p)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	h.Events.Publish(c.Request.Context(), session.Event{Type: ev, ProfileID: p.ID, Email: p.Email, At: time.Now()})
	c.JSON(status, SessionResponse{Token: token, ExpiresAt: claims.ExpiresAt.Time, Profile: p})
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeInvalidEmail, err))
		return
	}

	email := profiles.NormalizeEmail(input.Email)
	if !isEmailValid(email) {
		httpx.AuthError(c, session.Fail(session.CodeInvalidEmail, nil))
		return
	}
	if !isPasswordStrong(input.Password) {
		httpx.AuthError(c, session.Fail(session.CodeWeakPassword, nil))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.Store.GetProfileByEmail(ctx, email); err == nil {
		httpx.AuthError(c, session.Fail(session.CodeEmailTaken, nil))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	hash := string(hashed)

	p := profiles.Profile{
		Email:        email,
		Password:     &hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         profiles.RoleUser,
		AuthProvider: profiles.ProviderLocal,
	}
	if err := h.Store.CreateProfile(ctx, &p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.AuthError(c, session.Fail(session.CodeEmailTaken, err))
			return
		}
		h.Logger.Error("create profile failed", zap.Error(err))
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}

	h.signIn(c, http.StatusCreated, p, session.EventRegister)
}

// POST /login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeInvalidCredentials, err))
		return
	}

	p, err := h.Store.GetProfileByEmail(c.Request.Context(), profiles.NormalizeEmail(input.Email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.AuthError(c, session.Fail(session.CodeInvalidCredentials, nil))
		return
	}
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	if !p.HasPassword() {
		httpx.AuthError(c, session.Fail(session.CodeAccountUsesGoogle, nil))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*p.Password), []byte(input.Password)); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeInvalidCredentials, nil))
		return
	}

	h.signIn(c, http.StatusOK, p, session.EventLogin)
}

// POST /logout revokes the presented token.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := httpx.ClaimsOf(c)
	if !ok {
		httpx.AuthError(c, session.Fail(session.CodeTokenMissing, nil))
		return
	}
	ctx := c.Request.Context()
	if err := h.Tokens.Revoke(ctx, claims); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	h.Events.Publish(ctx, session.Event{Type: session.EventLogout, ProfileID: claims.UID, Email: claims.Email, At: time.Now()})
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// POST /refresh exchanges a valid token for a fresh one carrying the current role.
func (h *Handler) Refresh(c *gin.Context) {
	claims, ok := httpx.ClaimsOf(c)
	if !ok {
		httpx.AuthError(c, session.Fail(session.CodeTokenMissing, nil))
		return
	}
	ctx := c.Request.Context()
	p, err := h.Store.GetProfile(ctx, claims.UID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.AuthError(c, session.Fail(session.CodeTokenInvalid, err))
		return
	}
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	if err := h.Tokens.Revoke(ctx, claims); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	h.signIn(c, http.StatusOK, p, session.EventRefresh)
}

// POST /change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeInvalidCredentials, err))
		return
	}
	claims, ok := httpx.ClaimsOf(c)
	if !ok {
		httpx.AuthError(c, session.Fail(session.CodeTokenMissing, nil))
		return
	}

	ctx := c.Request.Context()
	p, err := h.Store.GetProfile(ctx, claims.UID)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	if !p.HasPassword() {
		httpx.AuthError(c, session.Fail(session.CodeAccountUsesGoogle, nil))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*p.Password), []byte(input.CurrentPassword)); err != nil {
		httpx.AuthError(c, session.Fail(session.CodeInvalidCredentials, nil))
		return
	}
	if !isPasswordStrong(input.NewPassword) {
		httpx.AuthError(c, session.Fail(session.CodeWeakPassword, nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	if err := h.Store.UpdatePassword(ctx, p.ID, string(hashed)); err != nil {
		h.Logger.Error("update password failed", zap.String("profile", p.ID), zap.Error(err))
		httpx.AuthError(c, session.Fail(session.CodeUnknown, err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// GET /session/hint decodes the bearer token without verifying it. The result is
// a display hint for the client; it grants nothing.
func (h *Handler) SessionHint(c *gin.Context) {
	hint, ok := session.Hint(httpx.BearerToken(c))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"data": nil, "verified": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": hint, "verified": false})
}
