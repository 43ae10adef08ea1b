package workflow

import "time"

// =================================
// Host path conventions
// =================================
const (
	// ProbeRelPath is the preference file, relative to the user's home
	// directory, whose presence selects the default path conventions.
	// Pure existence check; the contents are never inspected.
	ProbeRelPath = "Library/Preferences/com.runningwithcrayons.Alfred.plist"

	// Default mode (Alfred 4 and later) vendor segments
	DefaultCacheRoot = "Library/Caches/com.runningwithcrayons.Alfred/Workflow Data"
	DefaultDataRoot  = "Library/Application Support/Alfred/Workflow Data"

	// Legacy mode (Alfred 3) vendor segments
	LegacyCacheRoot = "Library/Caches/com.runningwithcrayons.Alfred-3/Workflow Data"
	LegacyDataRoot  = "Library/Application Support/Alfred 3/Workflow Data"

	// LegacyVersionMarker is exported as "version" alongside legacy paths
	LegacyVersionMarker = "3"
)

// =================================
// Config store key paths
// =================================
const (
	InfoFile = "info.plist"

	KeyBundleID    = "bundleid"
	KeyVersion     = "version"
	KeyName        = "name"
	KeyCacheMaxAge = "variables:cache_max_age"
	KeyMaxResults  = "variables:max_results"
	KeyAPIURL      = "variables:api_url"
)

// =================================
// Exported environment variables
// =================================
const (
	EnvBundleID = "workflow_bundleid"
	EnvVersion  = "workflow_version"
	EnvName     = "workflow_name"
	EnvCache    = "workflow_cache"
	EnvData     = "workflow_data"

	// EnvLegacyMarker is only exported in legacy mode
	EnvLegacyMarker = "version"

	// Workflow variables, passed through as opaque strings
	EnvCacheMaxAge = "cache_max_age"
	EnvMaxResults  = "max_results"
	EnvAPIURL      = "api_url"
)

// =================================
// File permissions defaults
// =================================
const (
	FilePerms = 0o600 // Read/write for owner only
	DirPerms  = 0o700 // Read/write/execute for owner only
)

// =================================
// Cache and session defaults
// =================================
const (
	SessionEnvVar = "_WF_SESSION_ID"
	SessionPrefix = "_wfsess-"
)

// =================================
// Update checker defaults
// =================================
const (
	// UpdateStatusKey names the cache entry holding the last check result
	UpdateStatusKey = "__workflow_update_status"

	// UpdateInterval is how long a check result stays fresh
	UpdateInterval = 24 * time.Hour

	// WorkflowExt is the package extension Alfred imports
	WorkflowExt = ".alfredworkflow"
)

// =================================
// Magic query defaults
// =================================
const (
	// MagicPrefix marks queries handled by the workflow runtime itself
	MagicPrefix = "workflow:"
)
