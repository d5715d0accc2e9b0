package httpx

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fineart/internal/domain/access"
	"fineart/internal/session"
)

const (
	keyActor   = "fineart.actor"
	keyClaims  = "fineart.claims"
	keyAuthErr = "fineart.auth_err"
)

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	token := strings.TrimPrefix(h, "Bearer ")
	if token == h {
		return ""
	}
	return strings.TrimSpace(token)
}

func SetActor(c *gin.Context, a access.Actor) { c.Set(keyActor, a) }

// ActorOf returns the authenticated caller; the zero Actor is an anonymous visitor.
func ActorOf(c *gin.Context) access.Actor {
	if v, ok := c.Get(keyActor); ok {
		if a, ok := v.(access.Actor); ok {
			return a
		}
	}
	return access.Actor{}
}

func SetClaims(c *gin.Context, claims *session.Claims) { c.Set(keyClaims, claims) }

// ClaimsOf returns the verified token claims. Service-key requests have none.
func ClaimsOf(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(keyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok && claims != nil
}

// SetAuthError remembers why a presented token was rejected so RequireAuth can report it.
func SetAuthError(c *gin.Context, err error) { c.Set(keyAuthErr, err) }

func AuthErrorOf(c *gin.Context) error {
	if v, ok := c.Get(keyAuthErr); ok {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}
