package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// CookieStore keeps the access token inside the cookie itself, sealed with
// NaCl secretbox so the browser never sees it in clear.
type CookieStore struct {
	key [32]byte
}

// NewCookieStore derives the sealing key from secret. An empty secret yields
// a random key, so sessions do not survive a restart.
func NewCookieStore(secret string) (*CookieStore, error) {
	s := &CookieStore{}
	if secret == "" {
		if _, err := rand.Read(s.key[:]); err != nil {
			return nil, fmt.Errorf("failed to generate session key: %w", err)
		}
		return s, nil
	}
	s.key = sha256.Sum256([]byte(secret))
	return s, nil
}

func (s *CookieStore) Create(_ context.Context, token string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *CookieStore) Lookup(_ context.Context, value string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(data) < nonceSize+secretbox.Overhead {
		return "", ErrNoSession
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	token, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrNoSession
	}
	return string(token), nil
}

// Delete is a no-op; clearing the cookie is enough.
func (s *CookieStore) Delete(context.Context, string) error {
	return nil
}
