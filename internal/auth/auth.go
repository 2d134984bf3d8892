// Package auth stores the bearer token sent to the scoring service.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnvToken overrides any stored token.
const EnvToken = "TASKANALYZER_TOKEN"

const credFileName = "credentials.json"

type TokenInfo struct {
	Token     string    `json:"token"`
	Source    string    `json:"source"`     // "env" | "file"
	CreatedAt time.Time `json:"created_at"` // when it was saved to file
}

// Store keeps credentials under Dir. The zero value is unusable; use NewStore.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at ~/.taskanalyzer.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return &Store{Dir: filepath.Join(home, ".taskanalyzer")}, nil
}

func (s *Store) path() string { return filepath.Join(s.Dir, credFileName) }

// Get returns the active token, or nil when there is none.
func (s *Store) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = "file"
	return &ti, nil
}

// Set saves token owner-only.
func (s *Store) Set(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the stored token. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
