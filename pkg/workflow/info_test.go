package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const infoPlistXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>bundleid</key>
	<string>com.example.wf</string>
	<key>version</key>
	<string>1.1.0</string>
	<key>name</key>
	<string>Golinks</string>
	<key>disabled</key>
	<false/>
	<key>threshold</key>
	<real>0.5</real>
	<key>variables</key>
	<dict>
		<key>cache_max_age</key>
		<string>20</string>
		<key>max_results</key>
		<integer>50</integer>
		<key>api_url</key>
		<string>https://api.example.com/search</string>
	</dict>
	<key>tags</key>
	<array>
		<string>productivity</string>
		<string>search</string>
	</array>
</dict>
</plist>
`

func writeInfoPlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), InfoFile)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestInfoReaderGet(t *testing.T) {
	r, err := NewInfoReader(writeInfoPlist(t, infoPlistXML))
	if err != nil {
		t.Fatalf("NewInfoReader() error: %v", err)
	}

	tests := []struct {
		keyPath string
		want    string
	}{
		{"bundleid", "com.example.wf"},
		{"version", "1.1.0"},
		{"name", "Golinks"},
		{"variables:cache_max_age", "20"},
		{"variables:max_results", "50"},
		{"variables:api_url", "https://api.example.com/search"},
		{"disabled", "false"},
		{"threshold", "0.5"},
		{"tags:0", "productivity"},
		{"tags:1", "search"},
	}

	for _, tt := range tests {
		t.Run(tt.keyPath, func(t *testing.T) {
			got, err := r.Get(tt.keyPath)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.keyPath, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.keyPath, got, tt.want)
			}
		})
	}
}

func TestInfoReaderGetErrors(t *testing.T) {
	r, err := NewInfoReader(writeInfoPlist(t, infoPlistXML))
	if err != nil {
		t.Fatalf("NewInfoReader() error: %v", err)
	}

	tests := []struct {
		name    string
		keyPath string
		want    error
	}{
		{"missing top-level key", "nope", ErrMissingKey},
		{"missing nested key", "variables:nope", ErrMissingKey},
		{"array index out of range", "tags:7", ErrMissingKey},
		{"non-numeric array index", "tags:first", ErrMissingKey},
		{"negative array index", "tags:-1", ErrMissingKey},
		{"descending into a scalar", "bundleid:deeper", ErrMissingKey},
		{"dict leaf is not scalar", "variables", ErrNotScalar},
		{"array leaf is not scalar", "tags", ErrNotScalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Get(tt.keyPath)
			if err == nil {
				t.Fatalf("Get(%q) succeeded, want %v", tt.keyPath, tt.want)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Get(%q) error = %v, want %v", tt.keyPath, err, tt.want)
			}
		})
	}
}

func TestNewInfoReaderUnreadable(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewInfoReader(filepath.Join(t.TempDir(), InfoFile))
		if !errors.Is(err, ErrUnreadableStore) {
			t.Errorf("NewInfoReader() error = %v, want ErrUnreadableStore", err)
		}
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := NewInfoReader(writeInfoPlist(t, "this is not a property list"))
		if !errors.Is(err, ErrUnreadableStore) {
			t.Errorf("NewInfoReader() error = %v, want ErrUnreadableStore", err)
		}
	})
}

// TestBuildFromInfoReader exercises the full path from a property list
// document to a validated environment.
func TestBuildFromInfoReader(t *testing.T) {
	r, err := NewInfoReader(writeInfoPlist(t, infoPlistXML))
	if err != nil {
		t.Fatalf("NewInfoReader() error: %v", err)
	}

	home := t.TempDir()
	env, err := Build(r, WithHome(home), WithProbePath(presentProbe(t)))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if env.BundleID != "com.example.wf" {
		t.Errorf("BundleID = %q", env.BundleID)
	}
	if env.MaxResults != "50" {
		t.Errorf("MaxResults = %q, want opaque \"50\"", env.MaxResults)
	}
	if want := filepath.Join(home, DefaultCacheRoot, "com.example.wf"); env.Cache != want {
		t.Errorf("Cache = %q, want %q", env.Cache, want)
	}
}
