package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	uid string
	err error
}

func (s stubVerifier) Verify(_ context.Context, _ string) (Identity, error) {
	if s.err != nil {
		return Identity{}, s.err
	}
	return Identity{UserID: s.uid, Email: s.uid + "@example.com"}, nil
}

func newRouter(v TokenVerifier, seen *Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware(v))
	r.GET("/me", func(c *gin.Context) {
		*seen = FromGin(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestMiddleware_Development(t *testing.T) {
	var seen Identity
	r := newRouter(nil, &seen)

	t.Run("falls back to demo user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, DemoUser, seen.UserID)
		assert.Empty(t, seen.Token)
	})

	t.Run("trusts headers and forwards token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set(HeaderUserID, "alice")
		req.Header.Set(HeaderEmail, "alice@example.com")
		req.Header.Set("Authorization", "Bearer tok-1")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, Identity{UserID: "alice", Email: "alice@example.com", Token: "tok-1"}, seen)
	})
}

func TestMiddleware_Verified(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		var seen Identity
		r := newRouter(stubVerifier{uid: "u1"}, &seen)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.True(t, seen.Anonymous())
	})

	t.Run("invalid token", func(t *testing.T) {
		var seen Identity
		r := newRouter(stubVerifier{err: errors.New("expired")}, &seen)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		var seen Identity
		r := newRouter(stubVerifier{uid: "u1"}, &seen)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		req.Header.Set(HeaderUserID, "spoofed")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "u1", seen.UserID)
		assert.Equal(t, "good", seen.Token)
	})
}

func TestIdentity_Apply(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://backend/projects", nil)
	Identity{UserID: "bob", Token: "t0k"}.Apply(req)
	assert.Equal(t, "Bearer t0k", req.Header.Get("Authorization"))
	assert.Equal(t, "bob", req.Header.Get(HeaderUserID))

	bare := httptest.NewRequest(http.MethodGet, "http://backend/projects", nil)
	Identity{}.Apply(bare)
	assert.Empty(t, bare.Header.Get("Authorization"))
	assert.Empty(t, bare.Header.Get(HeaderUserID))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken("Bearer "))
}
