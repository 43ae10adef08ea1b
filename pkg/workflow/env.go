package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
)

// Mode selects which generation of host path conventions is active.
// Exactly one mode is active per run; each owns its vendor segments.
type Mode int

const (
	// ModeDefault covers Alfred 4 and later.
	ModeDefault Mode = iota

	// ModeLegacy covers Alfred 3, detected by the absence of the
	// preference file newer versions maintain.
	ModeLegacy
)

func (m Mode) String() string {
	if m == ModeLegacy {
		return "legacy"
	}
	return "default"
}

// CacheRoot returns the mode's cache vendor segment, relative to home.
func (m Mode) CacheRoot() string {
	if m == ModeLegacy {
		return LegacyCacheRoot
	}
	return DefaultCacheRoot
}

// DataRoot returns the mode's data vendor segment, relative to home.
func (m Mode) DataRoot() string {
	if m == ModeLegacy {
		return LegacyDataRoot
	}
	return DefaultDataRoot
}

// DetectMode probes for the well-known preference file. Presence means
// the default conventions apply; absence means the host predates them.
func DetectMode(probePath string) Mode {
	if _, err := os.Stat(probePath); err != nil {
		return ModeLegacy
	}
	return ModeDefault
}

// Environment is the full set of variables a workflow process expects
// from its host: identity, version, the two directories it owns, and
// the pass-through workflow variables. Constructed once by Build,
// immutable afterward, handed to consumers by reference instead of
// living in ambient process state.
type Environment struct {
	BundleID string `validate:"required"`
	Version  string `validate:"required"`
	Name     string `validate:"required"`
	Cache    string `validate:"required"`
	Data     string `validate:"required"`

	// Mode records which path conventions produced Cache and Data.
	Mode Mode

	// Workflow variables, kept as opaque strings. Parsing is the
	// consumer's business, not the initializer's.
	CacheMaxAge string
	MaxResults  string
	APIURL      string
}

type buildConfig struct {
	home      string
	probePath string
	logger    hclog.Logger
}

// BuildOption adjusts where Build looks for the pieces it probes.
type BuildOption func(*buildConfig)

// WithHome overrides the home directory used for path construction.
func WithHome(home string) BuildOption {
	return func(c *buildConfig) { c.home = home }
}

// WithProbePath overrides the preference file checked for mode detection.
func WithProbePath(path string) BuildOption {
	return func(c *buildConfig) { c.probePath = path }
}

// WithLogger attaches a logger to the build.
func WithLogger(logger hclog.Logger) BuildOption {
	return func(c *buildConfig) { c.logger = logger }
}

// Build constructs the Environment from a config source. Every lookup
// must succeed: downstream consumers assume a fully-populated
// environment, so the first failure aborts the build and nothing is
// ever exported. Building twice from unchanged inputs yields an
// identical environment.
func Build(src ConfigSource, opts ...BuildOption) (*Environment, error) {
	cfg := buildConfig{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.home = home
	}
	if cfg.probePath == "" {
		cfg.probePath = filepath.Join(cfg.home, ProbeRelPath)
	}

	env := &Environment{}

	reads := []struct {
		key string
		dst *string
	}{
		{KeyBundleID, &env.BundleID},
		{KeyVersion, &env.Version},
		{KeyName, &env.Name},
		{KeyCacheMaxAge, &env.CacheMaxAge},
		{KeyMaxResults, &env.MaxResults},
		{KeyAPIURL, &env.APIURL},
	}
	for _, r := range reads {
		val, err := src.Get(r.key)
		if err != nil {
			cfg.logger.Error("❌ Config lookup failed", "key", r.key, "error", err)
			return nil, fmt.Errorf("reading %q: %w", r.key, err)
		}
		*r.dst = val
	}

	env.Mode = DetectMode(cfg.probePath)
	env.Cache = filepath.Join(cfg.home, env.Mode.CacheRoot(), env.BundleID)
	env.Data = filepath.Join(cfg.home, env.Mode.DataRoot(), env.BundleID)

	if err := env.Validate(); err != nil {
		return nil, err
	}

	cfg.logger.Debug("🌍 Workflow environment built",
		"bundleid", env.BundleID,
		"version", env.Version,
		"mode", env.Mode.String(),
		"cache", env.Cache,
		"data", env.Data,
	)

	return env, nil
}

// FromEnviron reconstructs the Environment from an already-populated
// process environment, the path taken when the host application itself
// spawned us. Fails with ErrIncompleteEnv when required variables are
// missing.
func FromEnviron() (*Environment, error) {
	env := &Environment{
		BundleID:    os.Getenv(EnvBundleID),
		Version:     os.Getenv(EnvVersion),
		Name:        os.Getenv(EnvName),
		Cache:       os.Getenv(EnvCache),
		Data:        os.Getenv(EnvData),
		CacheMaxAge: os.Getenv(EnvCacheMaxAge),
		MaxResults:  os.Getenv(EnvMaxResults),
		APIURL:      os.Getenv(EnvAPIURL),
	}
	if os.Getenv(EnvLegacyMarker) == LegacyVersionMarker {
		env.Mode = ModeLegacy
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// Validate enforces the completeness invariant: identity, version and
// both directory paths must be non-empty.
func (e *Environment) Validate() error {
	validate := validator.New()
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteEnv, err)
	}
	return nil
}

// Map returns exactly the variables the active mode exports: eight in
// default mode, nine in legacy mode (the legacy version marker joins).
// Building the map never touches the process environment.
func (e *Environment) Map() map[string]string {
	m := map[string]string{
		EnvBundleID:    e.BundleID,
		EnvVersion:     e.Version,
		EnvName:        e.Name,
		EnvCache:       e.Cache,
		EnvData:        e.Data,
		EnvCacheMaxAge: e.CacheMaxAge,
		EnvMaxResults:  e.MaxResults,
		EnvAPIURL:      e.APIURL,
	}
	if e.Mode == ModeLegacy {
		m[EnvLegacyMarker] = LegacyVersionMarker
	}
	return m
}

// Export publishes every variable into the current process. Build has
// already validated completeness, so a partial export cannot happen.
func (e *Environment) Export() error {
	for k, v := range e.Map() {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("exporting %s: %w", k, err)
		}
	}
	return nil
}

// Environ merges the workflow variables over base and returns the
// result, suitable for a child process. Our values win over inherited
// ones; base is not modified. Appended variables are sorted so child
// environments are reproducible.
func (e *Environment) Environ(base []string) []string {
	vars := e.Map()

	merged := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			if _, ours := vars[kv[:i]]; ours {
				continue
			}
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+vars[k])
	}

	return merged
}

// LogEnviron logs an environment at trace level, redacting values of
// keys that commonly hold credentials.
func LogEnviron(env []string, logger hclog.Logger) {
	if !logger.IsTrace() {
		return
	}

	logger.Trace("🌍 Environment variables for child process:")
	for _, kv := range env {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			value := parts[1]
			if isSensitiveKey(parts[0]) {
				value = "***"
			}
			logger.Trace("  →", "key", parts[0], "value", value)
		}
	}
}

// isSensitiveKey checks if an environment variable key is sensitive and
// should be redacted in logs.
func isSensitiveKey(key string) bool {
	sensitiveKeys := map[string]bool{
		"SSH_AUTH_SOCK":         true,
		"AWS_SECRET_ACCESS_KEY": true,
		"GITHUB_TOKEN":          true,
		"OPENAI_API_KEY":        true,
		"PASSWORD":              true,
	}
	return sensitiveKeys[key]
}
