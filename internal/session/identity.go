// Package session carries the caller's identity from the incoming request to
// every backend call made on its behalf.
package session

import (
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

const (
	// DemoUser is the identity used in development when no user header is sent.
	DemoUser = "demo-user"

	HeaderUserID = "X-User-Id"
	HeaderEmail  = "X-User-Email"
)

// Identity is the signed-in user. It is passed explicitly to every loader
// and client call; nothing stores it process-wide.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Token  string `json:"-"`
}

// Anonymous reports whether no user is attached.
func (id Identity) Anonymous() bool {
	return strings.TrimSpace(id.UserID) == ""
}

// Apply sets the identity's headers on an outbound request.
func (id Identity) Apply(req *http.Request) {
	if id.Token != "" {
		(&oauth2.Token{AccessToken: id.Token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	if id.UserID != "" {
		req.Header.Set(HeaderUserID, id.UserID)
	}
}

// Service builds the identity used by background jobs.
func Service(token string) Identity {
	return Identity{UserID: "ecdash-service", Token: token}
}

// BearerToken extracts the token of an "Authorization: Bearer ..." header.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
