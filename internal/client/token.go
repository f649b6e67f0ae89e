package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "lompakko_token"

// TokenStore persists the API bearer token between invocations.
type TokenStore interface {
	// Token returns the stored token, or "" when none is stored.
	Token() (string, error)

	// Save stores the token, replacing any previous one.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}

// FileTokenStore keeps the token in a single file under the user's
// config directory.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a token store at the default location
// (<user config dir>/lompakko/lompakko_token).
func NewFileTokenStore() (*FileTokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return NewFileTokenStoreAt(filepath.Join(dir, "lompakko", tokenFileName)), nil
}

// NewFileTokenStoreAt creates a token store backed by the given file.
func NewFileTokenStoreAt(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Token() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
