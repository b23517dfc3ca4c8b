package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// file is the on-disk layout of auth.json.
type file struct {
	Token   string    `json:"token"`
	Profile Profile   `json:"profile"`
	Updated time.Time `json:"updated"`
}

// Load reads the session stored at path. envToken, when non-empty, replaces the
// stored token but keeps the stored profile. A missing file yields an
// unauthenticated session, not an error.
func Load(path, envToken string) (Session, error) {
	var f file
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Session{}, err
		default:
			if err := json.Unmarshal(data, &f); err != nil {
				return Session{}, err
			}
		}
	}
	token := f.Token
	if env := strings.TrimSpace(envToken); env != "" {
		token = env
	}
	return New(token, f.Profile), nil
}

// Save persists token and profile for later runs.
func Save(path string, s Session) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("session path is empty")
	}
	if strings.TrimSpace(s.Token) == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file{Token: s.Token, Profile: s.Profile, Updated: time.Now()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Clear removes any stored session.
func Clear(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("session path is empty")
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
