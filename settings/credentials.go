// Package settings provides persistent storage for milthm-collector user
// settings, currently the Weblate API tokens.
//
// Settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/milthm-collector/  (default: ~/.local/share/milthm-collector/)
//
// auth.json is a JSON object keyed by Weblate endpoint URL:
//
//	{
//	  "https://weblate.milthm.com/api": { "type": "token", "token": "wlu_..." }
//	}
//
// File permissions are 0600 (owner read/write only).
//
// Lookup order for the token of a run:
//  1. --token flag (highest priority)
//  2. WEBLATE_TOKEN environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	dataDirName = "milthm-collector"
	fileName    = "auth.json"
)

// TypeToken is the only entry type: a Weblate API token.
const TypeToken = "token"

// Info is the credential stored for one endpoint.
type Info struct {
	Type  string `json:"type"`
	Token string `json:"token,omitempty"`
}

// Store holds all credentials, keyed by normalized endpoint.
type Store map[string]*Info

// NormalizeEndpoint trims whitespace and trailing slashes so
// "https://host/api/" and "https://host/api" share one entry.
func NormalizeEndpoint(endpoint string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/")
}

// dataDir returns the XDG data directory for milthm-collector.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// SetToken stores the token for endpoint (upsert).
func SetToken(endpoint, token string) error {
	store := Load()
	store[NormalizeEndpoint(endpoint)] = &Info{Type: TypeToken, Token: token}
	return Save(store)
}

// GetToken returns the stored token for endpoint, or "".
func GetToken(endpoint string) string {
	info := Load()[NormalizeEndpoint(endpoint)]
	if info == nil || info.Type != TypeToken {
		return ""
	}
	return info.Token
}

// ResolveToken returns token if non-blank, otherwise the stored one.
func ResolveToken(endpoint, token string) string {
	if t := strings.TrimSpace(token); t != "" {
		return t
	}
	return GetToken(endpoint)
}

// Remove deletes the credentials of endpoint.
func Remove(endpoint string) error {
	store := Load()
	key := NormalizeEndpoint(endpoint)
	if _, ok := store[key]; !ok {
		return nil
	}
	delete(store, key)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// Endpoints returns the endpoints with stored credentials, sorted.
func (s Store) Endpoints() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MaskKey returns a masked version of a token for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
