package auth

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Credentials is the on-disk CLI profile.
type Credentials struct {
	APIBaseURL  string `yaml:"api_base_url,omitempty"`
	Email       string `yaml:"email,omitempty"`
	AccessToken string `yaml:"access_token,omitempty"`
}

// FileStore persists CLI credentials as YAML. It satisfies api.TokenStore.
type FileStore struct {
	path string

	mu    sync.Mutex
	creds Credentials
}

// OpenFileStore loads the credentials file at path. A missing file is an
// empty profile.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", path, err)
	}
	return s, nil
}

// Path returns the credentials file location.
func (s *FileStore) Path() string {
	return s.path
}

// Credentials returns a copy of the loaded profile.
func (s *FileStore) Credentials() Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.AccessToken
}

// Save stores a fresh login.
func (s *FileStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return s.write()
}

// Clear forgets the access token, keeping the rest of the profile.
func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = ""
	if err := s.write(); err != nil {
		slog.Warn("failed to clear credentials", "error", err, "path", s.path)
	}
}

func (s *FileStore) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}
	data, err := yaml.Marshal(&s.creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}
