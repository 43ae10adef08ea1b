package workflow

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dirs manages the filesystem locations a workflow owns: a volatile
// cache directory and a persistent data directory, both derived from
// the environment.
type Dirs struct {
	cache    string
	data     string
	bundleID string
}

// NewDirs derives the workflow's directories from its environment.
func NewDirs(env *Environment) *Dirs {
	return &Dirs{
		cache:    env.Cache,
		data:     env.Data,
		bundleID: env.BundleID,
	}
}

// ==================== Content Paths ====================

// Cache returns the cache directory. The host may wipe it at any time.
func (d *Dirs) Cache() string {
	return d.cache
}

// Data returns the data directory, which survives workflow updates.
func (d *Dirs) Data() string {
	return d.data
}

// CacheFile returns the path for a named file under the cache directory.
func (d *Dirs) CacheFile(name string) string {
	return filepath.Join(d.cache, name)
}

// DataFile returns the path for a named file under the data directory.
func (d *Dirs) DataFile(name string) string {
	return filepath.Join(d.data, name)
}

// ==================== Log Paths ====================

// LogFile returns the workflow's log file path. Logs are volatile, so
// they live under the cache directory, named after the bundle id.
func (d *Dirs) LogFile() string {
	return filepath.Join(d.cache, d.bundleID+".log")
}

// ==================== Utility Methods ====================

// Ensure creates both directories when missing.
func (d *Dirs) Ensure() error {
	for _, dir := range []string{d.cache, d.data} {
		if err := os.MkdirAll(dir, os.FileMode(DirPerms)); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// CacheExists checks if the cache directory exists.
func (d *Dirs) CacheExists() bool {
	_, err := os.Stat(d.cache)
	return err == nil
}

// DataExists checks if the data directory exists.
func (d *Dirs) DataExists() bool {
	_, err := os.Stat(d.data)
	return err == nil
}

// ClearCache removes everything beneath the cache directory, keeping
// the directory itself.
func (d *Dirs) ClearCache() error {
	return clearDir(d.cache)
}

// ClearData removes everything beneath the data directory, keeping the
// directory itself.
func (d *Dirs) ClearData() error {
	return clearDir(d.data)
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
	}
	return nil
}
