package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Store is a file-backed cache with age-based expiry. A named entry is
// fresh while younger than the caller's maxAge; a maxAge of zero never
// expires. Entry names may contain subdirectories ("search/foo").
// Writes are atomic: a torn write can never surface as a half-written
// entry.
type Store struct {
	dir    string
	codec  Codec
	clock  func() time.Time
	logger hclog.Logger
}

// StoreOption adjusts a Store at construction.
type StoreOption func(*Store)

// WithCodec selects how entries are encoded on disk.
func WithCodec(c Codec) StoreOption {
	return func(s *Store) { s.codec = c }
}

// WithClock overrides the time source used for expiry, for tests.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) { s.clock = clock }
}

// NewStore creates a store rooted at dir. The directory is created
// lazily on first write.
func NewStore(dir string, logger hclog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		dir:    dir,
		codec:  RawCodec{},
		clock:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk location for a named entry, including the
// codec's extension.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+s.codec.Ext())
}

// Store writes an entry atomically: encode, write a temp file next to
// the destination, then rename over it.
func (s *Store) Store(name string, data []byte) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(DirPerms)); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	encoded, err := s.codec.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding cache entry %q: %w", name, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry %q: %w", name, err)
	}
	if err := tmp.Chmod(os.FileMode(FilePerms)); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("setting cache entry permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing cache entry %q: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("committing cache entry %q: %w", name, err)
	}

	s.logger.Debug("💾 Cached", "name", name, "bytes", len(encoded))
	return nil
}

// Load returns a fresh entry. Fails with ErrCacheMiss when the entry is
// absent or older than maxAge; a maxAge of zero never expires.
func (s *Store) Load(name string, maxAge time.Duration) ([]byte, error) {
	path := s.Path(name)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrCacheMiss, name)
	}

	if maxAge > 0 {
		if age := s.clock().Sub(fi.ModTime()); age > maxAge {
			s.logger.Debug("🕑 Cache entry expired", "name", name, "age", age, "max_age", maxAge)
			return nil, fmt.Errorf("%w: %q expired", ErrCacheMiss, name)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cache entry %q: %w", name, err)
	}

	decoded, err := s.codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding cache entry %q: %w", name, err)
	}
	return decoded, nil
}

// Age returns how old an entry is, and whether it exists at all.
func (s *Store) Age(name string) (time.Duration, bool) {
	fi, err := os.Stat(s.Path(name))
	if err != nil {
		return 0, false
	}
	return s.clock().Sub(fi.ModTime()), true
}

// Expired reports whether an entry is absent or older than maxAge.
// With a maxAge of zero an existing entry never expires.
func (s *Store) Expired(name string, maxAge time.Duration) bool {
	age, ok := s.Age(name)
	if !ok {
		return true
	}
	return maxAge > 0 && age > maxAge
}

// StoreJSON marshals v and stores it under name.
func (s *Store) StoreJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling cache entry %q: %w", name, err)
	}
	return s.Store(name, data)
}

// LoadJSON unmarshals a fresh entry into out.
func (s *Store) LoadJSON(name string, maxAge time.Duration, out interface{}) error {
	data, err := s.Load(name, maxAge)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshaling cache entry %q: %w", name, err)
	}
	return nil
}

// LoadOrStoreJSON returns a fresh entry through out, calling reload and
// caching its result on a miss. Both the hit and the miss path decode
// from JSON, so out sees identical semantics either way.
func (s *Store) LoadOrStoreJSON(name string, maxAge time.Duration, reload func() (interface{}, error), out interface{}) error {
	err := s.LoadJSON(name, maxAge, out)
	if err == nil {
		s.logger.Debug("✅ Cache hit", "name", name)
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	s.logger.Debug("🔍 Cache miss, reloading", "name", name)
	fresh, err := reload()
	if err != nil {
		return err
	}

	data, err := json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("marshaling cache entry %q: %w", name, err)
	}
	if err := s.Store(name, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshaling cache entry %q: %w", name, err)
	}
	return nil
}

// Remove deletes an entry. Removing a missing entry is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache entry %q: %w", name, err)
	}
	return nil
}

// Clear removes every entry beneath the store root, keeping the root.
func (s *Store) Clear() error {
	s.logger.Debug("🧹 Clearing cache", "dir", s.dir)
	return clearDir(s.dir)
}
