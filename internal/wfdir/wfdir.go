// Package wfdir locates and packages workflow directories during
// development. A workflow directory is any directory holding an
// info.plist.
package wfdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

// ErrNoWorkflow is returned when no workflow directory can be found.
var ErrNoWorkflow = errors.New("❌ no workflow directory found")

// FindRoot walks up from start until it reaches a directory containing
// info.plist and returns that directory.
func FindRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		if IsWorkflowDir(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: searched upward from %s", ErrNoWorkflow, start)
		}
		dir = parent
	}
}

// IsWorkflowDir checks whether dir directly contains an info.plist.
func IsWorkflowDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, workflow.InfoFile))
	return err == nil && !fi.IsDir()
}
