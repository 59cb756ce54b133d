// Package auth provides persistence of the backend access token for the web
// client and the CLI.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

const (
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
	// SessionTokenLength is the byte length of session ids.
	SessionTokenLength = 32
)

// ErrNoSession is returned when a cookie value does not resolve to a token.
var ErrNoSession = errors.New("session not found")

// Store keeps the backend access token behind an opaque cookie value.
type Store interface {
	// Create persists token and returns the value to put in the cookie.
	Create(ctx context.Context, token string) (string, error)
	// Lookup resolves a cookie value back to the access token.
	Lookup(ctx context.Context, value string) (string, error)
	// Delete forgets the session behind value.
	Delete(ctx context.Context, value string) error
}

// GenerateSessionToken creates a new secure random session id.
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
