package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleMagicPassthrough(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	_, handled, err := wf.HandleMagic(context.Background(), "golang docs")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if handled {
		t.Error("plain query was consumed as a magic action")
	}
}

func TestHandleMagicUnknown(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	msg, handled, err := wf.HandleMagic(context.Background(), "workflow:bogus")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if !handled {
		t.Fatal("unknown magic query not consumed")
	}
	for _, keyword := range []string{"update", "delcache", "deldata", "reset", "openlog", "help"} {
		if !strings.Contains(msg, MagicPrefix+keyword) {
			t.Errorf("listing misses %s%s:\n%s", MagicPrefix, keyword, msg)
		}
	}
}

func TestHandleMagicDelcache(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	path := wf.Dirs.CacheFile("stale.json")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	msg, handled, err := wf.HandleMagic(context.Background(), "workflow:delcache")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if !handled || msg == "" {
		t.Fatalf("handled = %v, msg = %q", handled, msg)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cache entry survived workflow:delcache")
	}
	if !wf.Dirs.CacheExists() {
		t.Error("cache directory itself was removed")
	}
}

func TestHandleMagicReset(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	cacheFile := wf.Dirs.CacheFile("c.json")
	dataFile := wf.Dirs.DataFile("d.json")
	for _, path := range []string{cacheFile, dataFile} {
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}

	_, handled, err := wf.HandleMagic(context.Background(), "workflow:reset")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if !handled {
		t.Fatal("workflow:reset not consumed")
	}

	for _, path := range []string{cacheFile, dataFile} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s survived workflow:reset", filepath.Base(path))
		}
	}
}

func TestHandleMagicUpdateUnconfigured(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	msg, handled, err := wf.HandleMagic(context.Background(), "workflow:update")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if !handled {
		t.Fatal("workflow:update not consumed")
	}
	if !strings.Contains(msg, "not configured") {
		t.Errorf("msg = %q", msg)
	}
}

func TestHandleMagicHelpUnconfigured(t *testing.T) {
	wf, _ := newTestWorkflow(t)

	msg, handled, err := wf.HandleMagic(context.Background(), "workflow:help")
	if err != nil {
		t.Fatalf("HandleMagic() error: %v", err)
	}
	if !handled {
		t.Fatal("workflow:help not consumed")
	}
	if !strings.Contains(msg, "No help page") {
		t.Errorf("msg = %q", msg)
	}
}
