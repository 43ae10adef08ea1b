package workflow

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestSessionInheritsID(t *testing.T) {
	t.Setenv(SessionEnvVar, "inherited-id")

	s := NewSession(NewStore(t.TempDir(), testLogger("session_test")), testLogger("session_test"))
	if s.ID() != "inherited-id" {
		t.Errorf("ID() = %q, want inherited-id", s.ID())
	}

	key, value := s.Variable()
	if key != SessionEnvVar || value != "inherited-id" {
		t.Errorf("Variable() = %q, %q", key, value)
	}
}

func TestSessionMintsID(t *testing.T) {
	t.Setenv(SessionEnvVar, "")
	os.Unsetenv(SessionEnvVar)

	store := NewStore(t.TempDir(), testLogger("session_test"))
	a := NewSession(store, testLogger("session_test"))
	b := NewSession(store, testLogger("session_test"))

	if a.ID() == "" {
		t.Fatal("ID() is empty")
	}
	if a.ID() == b.ID() {
		t.Errorf("two sessions share id %q", a.ID())
	}
}

func TestSessionStoreLoad(t *testing.T) {
	t.Setenv(SessionEnvVar, "s1")

	s := NewSession(NewStore(t.TempDir(), testLogger("session_test")), testLogger("session_test"))

	if !strings.HasPrefix(s.Name("results"), SessionPrefix+"s1-") {
		t.Errorf("Name() = %q", s.Name("results"))
	}

	if err := s.Store("results", []byte("cached")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	got, err := s.Load("results")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !bytes.Equal(got, []byte("cached")) {
		t.Errorf("Load() = %q", got)
	}
}

func TestSessionClear(t *testing.T) {
	t.Setenv(SessionEnvVar, "")
	os.Unsetenv(SessionEnvVar)

	store := NewStore(t.TempDir(), testLogger("session_test"))
	current := NewSession(store, testLogger("session_test"))
	stale := NewSession(store, testLogger("session_test"))

	if err := current.Store("results", []byte("mine")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if err := stale.Store("results", []byte("theirs")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}
	if err := store.Store("plain", []byte("unscoped")); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	if err := current.Clear(true); err != nil {
		t.Fatalf("Clear(true) error: %v", err)
	}
	if _, err := current.Load("results"); err != nil {
		t.Errorf("current session entry removed by Clear(true): %v", err)
	}
	if _, err := stale.Load("results"); err == nil {
		t.Error("stale session entry survived Clear(true)")
	}
	if _, err := store.Load("plain", 0); err != nil {
		t.Errorf("unscoped entry removed by Clear(true): %v", err)
	}

	if err := current.Clear(false); err != nil {
		t.Fatalf("Clear(false) error: %v", err)
	}
	if _, err := current.Load("results"); err == nil {
		t.Error("current session entry survived Clear(false)")
	}
}
