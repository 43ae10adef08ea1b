package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Session groups cache entries that should only live for one user
// interaction. The host keeps a Script Filter's environment stable
// while the user types, so an id inherited through the environment
// ties entries to that interaction; a fresh invocation mints a new id
// and the previous session's entries become garbage.
type Session struct {
	id     string
	store  *Store
	logger hclog.Logger
}

// NewSession inherits the session id from the process environment or
// mints a new one.
func NewSession(store *Store, logger hclog.Logger) *Session {
	id := os.Getenv(SessionEnvVar)
	if id == "" {
		id = uuid.NewString()
		logger.Debug("🆔 New session", "id", id)
	}
	return &Session{id: id, store: store, logger: logger}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Variable returns the pair a downstream invocation needs to inherit
// this session, suitable for feedback variables.
func (s *Session) Variable() (string, string) {
	return SessionEnvVar, s.id
}

// Name scopes an entry name to this session.
func (s *Session) Name(name string) string {
	return fmt.Sprintf("%s%s-%s", SessionPrefix, s.id, name)
}

// Store caches data under a session-scoped name. Session entries don't
// expire by age; Clear removes them wholesale.
func (s *Session) Store(name string, data []byte) error {
	return s.store.Store(s.Name(name), data)
}

// Load returns session-scoped data.
func (s *Session) Load(name string) ([]byte, error) {
	return s.store.Load(s.Name(name), 0)
}

// Clear removes session-scoped entries from the store. With keepCurrent
// set, this session's own entries survive.
func (s *Session) Clear(keepCurrent bool) error {
	entries, err := os.ReadDir(s.store.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}

	own := SessionPrefix + s.id + "-"
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, SessionPrefix) {
			continue
		}
		if keepCurrent && strings.HasPrefix(name, own) {
			continue
		}
		if err := os.Remove(filepath.Join(s.store.Dir(), name)); err != nil {
			return fmt.Errorf("removing session entry %q: %w", name, err)
		}
		removed++
	}

	if removed > 0 {
		s.logger.Debug("🧹 Cleared session entries", "count", removed, "keep_current", keepCurrent)
	}
	return nil
}
