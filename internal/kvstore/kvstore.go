// Package kvstore is a best-effort key-value persistence adapter.
//
// Values are JSON blobs stored one file per key under a data directory.
// Reads tolerate missing keys and malformed values by returning false
// and leaving the caller's default in place; writes swallow all errors.
// Persistence here is a convenience, not a guarantee.
package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/oqtepa/fastfood-storefront/internal/obs"
)

// Well-known storage keys.
const (
	KeyCatalog       = "catalog"
	KeyCart          = "cart"
	KeyUserDetails   = "user-details"
	KeyTheme         = "theme"
	KeyLanguage      = "language"
	KeyLoginAttempts = "login-attempts"
	KeyAdminSession  = "admin-session"
)

// Store persists JSON values under string keys. A Store constructed
// with an empty directory is "unavailable": every read misses and
// every write is a silent no-op.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New returns a Store rooted at dir, creating it when needed. When dir
// is empty, or cannot be created, the store operates in unavailable
// mode rather than failing.
func New(dir string) *Store {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			obs.Logger.Warn("kvstore_dir_unavailable", "dir", dir, "error", err)
			dir = ""
		}
	}
	return &Store{dir: dir}
}

// Available reports whether writes can persist at all.
func (s *Store) Available() bool { return s.dir != "" }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read unmarshals the value stored under key into v. It returns false,
// leaving v untouched, when the store is unavailable, the key is
// missing, or the stored value fails to parse. Parse failures are
// logged; no error ever reaches the caller.
func (s *Store) Read(key string, v any) bool {
	if s.dir == "" {
		return false
	}
	s.mu.Lock()
	raw, err := os.ReadFile(s.path(key))
	s.mu.Unlock()
	if err != nil {
		if !os.IsNotExist(err) {
			obs.Logger.Warn("kvstore_read_error", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		obs.Logger.Warn("kvstore_malformed_value", "key", key, "error", err)
		return false
	}
	return true
}

// Write stores v under key as JSON via a temp-file rename. All
// failures are logged and swallowed; there are no retries.
func (s *Store) Write(key string, v any) {
	if s.dir == "" {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		obs.Logger.Warn("kvstore_marshal_error", "key", key, "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		obs.Logger.Warn("kvstore_write_error", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		obs.Logger.Warn("kvstore_rename_error", "key", key, "error", err)
	}
}

// Delete removes the value stored under key, if any.
func (s *Store) Delete(key string) {
	if s.dir == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		obs.Logger.Warn("kvstore_delete_error", "key", key, "error", err)
	}
}
