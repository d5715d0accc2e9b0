// Package session issues and verifies app tokens and tracks sign-in events.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"fineart/internal/domain/profiles"
)

const DefaultTTL = 24 * time.Hour

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationStore
	now     func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, revoked RevocationStore) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if revoked == nil {
		revoked = NewMemoryRevocations()
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, revoked: revoked, now: time.Now}
}

// Issue signs a token for p.
func (i *Issuer) Issue(p profiles.Profile) (string, Claims, error) {
	now := i.now()
	claims := Claims{
		UID:   p.ID,
		Email: p.Email,
		Role:  p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Verify checks signature, expiry and revocation.
func (i *Issuer) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, Fail(CodeTokenMissing, nil)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, Fail(CodeTokenExpired, err)
	case err != nil:
		return nil, Fail(CodeTokenInvalid, err)
	case claims.UID == "" || claims.ID == "":
		return nil, Fail(CodeTokenInvalid, errors.New("missing uid or jti"))
	}

	revoked, err := i.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, Fail(CodeUnknown, err)
	}
	if revoked {
		return nil, Fail(CodeTokenRevoked, nil)
	}

	before, ok, err := i.revoked.SubjectCutoff(ctx, claims.UID)
	if err != nil {
		return nil, Fail(CodeUnknown, err)
	}
	// iat has second precision, so a token from the cutoff's own second is void too
	if ok && (claims.IssuedAt == nil || !claims.IssuedAt.Time.After(before)) {
		return nil, Fail(CodeTokenRevoked, nil)
	}
	return claims, nil
}

// Revoke invalidates a token until it would have expired anyway.
func (i *Issuer) Revoke(ctx context.Context, c *Claims) error {
	until := i.now().Add(i.ttl)
	if c.ExpiresAt != nil {
		until = c.ExpiresAt.Time
	}
	return i.revoked.Revoke(ctx, c.ID, until)
}

// RevokeProfile voids every token issued to profileID so far.
func (i *Issuer) RevokeProfile(ctx context.Context, profileID string) error {
	now := i.now()
	return i.revoked.RevokeSubject(ctx, profileID, now.Truncate(time.Second), now.Add(i.ttl))
}

// HintInfo is what an unverified token claims to be.
type HintInfo struct {
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Hint decodes claims without verifying the signature. It is for logging and UI
// hints only and must never be used to authorise anything.
func Hint(raw string) (HintInfo, bool) {
	if raw == "" {
		return HintInfo{}, false
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return HintInfo{}, false
	}
	return HintInfo{UID: claims.UID, Email: claims.Email, Role: claims.Role}, true
}
