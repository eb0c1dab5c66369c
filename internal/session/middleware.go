package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxIdentity = "session_identity"

// TokenVerifier checks an ID token and returns the identity it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Middleware attaches the caller's Identity to the gin context.
//
// With a verifier, a valid bearer token is required. Without one (local
// development) the X-User-Id header is trusted, falling back to DemoUser, and
// any bearer token is forwarded to the backend untouched.
func Middleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))

		if verifier != nil {
			if token == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
				return
			}
			id, err := verifier.Verify(c.Request.Context(), token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
				return
			}
			id.Token = token
			c.Set(ctxIdentity, id)
			c.Next()
			return
		}

		uid := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if uid == "" {
			uid = DemoUser
		}
		c.Set(ctxIdentity, Identity{
			UserID: uid,
			Email:  strings.TrimSpace(c.GetHeader(HeaderEmail)),
			Token:  token,
		})
		c.Next()
	}
}

// FromGin returns the identity attached by Middleware.
func FromGin(c *gin.Context) Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
