// Package token persists the API token between runs.
package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Load when no token has been saved yet.
var ErrNotFound = errors.New("no stored token")

// Store keeps a single token in a file.
type Store struct {
	Path string
}

// Load returns the stored token.
func (s Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("could not read token file '%s': %w", s.Path, err)
	}

	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNotFound
	}
	return tok, nil
}

// Save writes the token, creating the parent directory if needed.
func (s Store) Save(tok string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(tok), 0600); err != nil {
		return fmt.Errorf("failed to write token file '%s': %w", s.Path, err)
	}
	return nil
}
