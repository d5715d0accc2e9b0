package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"fineart/internal/api/httpx"
	"fineart/internal/domain/access"
	"fineart/internal/domain/profiles"
	"fineart/internal/session"
)

// ServiceKeyHeader carries the service-role key used by the seed tooling.
const ServiceKeyHeader = "apikey"

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*session.Claims, error)
}

// Authenticate resolves the caller from the bearer token (or the service-role key) and
// stores it on the context. It never rejects: a bad token leaves the caller anonymous
// and is reported by RequireAuth.
func Authenticate(tokens TokenVerifier, serviceKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if serviceKey != "" {
			if key := c.GetHeader(ServiceKeyHeader); key != "" &&
				subtle.ConstantTimeCompare([]byte(key), []byte(serviceKey)) == 1 {
				httpx.SetActor(c, access.Actor{Role: profiles.RoleAdmin})
				c.Next()
				return
			}
		}

		raw := httpx.BearerToken(c)
		// browsers cannot set headers on a websocket handshake
		if raw == "" && websocket.IsWebSocketUpgrade(c.Request) {
			raw = c.Query("token")
		}
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Verify(c.Request.Context(), raw)
		if err != nil {
			httpx.SetAuthError(c, err)
			c.Next()
			return
		}
		httpx.SetClaims(c, claims)
		httpx.SetActor(c, access.Actor{ProfileID: claims.UID, Role: claims.Role})
		c.Next()
	}
}

// RequireAuth rejects anonymous callers with the code of their token failure.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpx.ActorOf(c).Role != "" {
			c.Next()
			return
		}
		err := httpx.AuthErrorOf(c)
		if err == nil {
			err = session.Fail(session.CodeTokenMissing, nil)
		}
		httpx.AuthError(c, err)
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpx.ActorOf(c).Role != role {
			httpx.AuthError(c, session.Fail(session.CodeForbidden, nil))
			return
		}
		c.Next()
	}
}
