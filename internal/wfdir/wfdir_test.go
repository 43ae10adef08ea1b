package wfdir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jasantunes/alfred-golinks/pkg/workflow"
)

func testLogger(name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.Trace,
	})
}

// makeWorkflowDir creates <tmp>/wf with an info.plist and returns it.
func makeWorkflowDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "wf")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, workflow.InfoFile), []byte("plist"), 0o600); err != nil {
		t.Fatalf("writing info.plist: %v", err)
	}
	return dir
}

func TestFindRoot(t *testing.T) {
	wf := makeWorkflowDir(t)
	deep := filepath.Join(wf, "src", "deep")
	if err := os.MkdirAll(deep, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	t.Run("from the root itself", func(t *testing.T) {
		got, err := FindRoot(wf)
		if err != nil {
			t.Fatalf("FindRoot() error: %v", err)
		}
		if got != wf {
			t.Errorf("FindRoot() = %q, want %q", got, wf)
		}
	})

	t.Run("from a nested directory", func(t *testing.T) {
		got, err := FindRoot(deep)
		if err != nil {
			t.Fatalf("FindRoot() error: %v", err)
		}
		if got != wf {
			t.Errorf("FindRoot() = %q, want %q", got, wf)
		}
	})

	t.Run("no workflow above", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		if !errors.Is(err, ErrNoWorkflow) {
			t.Errorf("FindRoot() error = %v, want ErrNoWorkflow", err)
		}
	})
}

func TestIsWorkflowDir(t *testing.T) {
	t.Run("with info.plist", func(t *testing.T) {
		if !IsWorkflowDir(makeWorkflowDir(t)) {
			t.Error("IsWorkflowDir() = false")
		}
	})

	t.Run("without info.plist", func(t *testing.T) {
		if IsWorkflowDir(t.TempDir()) {
			t.Error("IsWorkflowDir() = true for an empty directory")
		}
	})

	t.Run("info.plist is a directory", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.MkdirAll(filepath.Join(dir, workflow.InfoFile), 0o700); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if IsWorkflowDir(dir) {
			t.Error("IsWorkflowDir() = true for a directory named info.plist")
		}
	})
}
