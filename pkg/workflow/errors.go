package workflow

import "errors"

var (
	// Config store errors 📋
	ErrMissingKey      = errors.New("❌ key path not found")
	ErrUnreadableStore = errors.New("❌ cannot read property list")
	ErrNotScalar       = errors.New("❌ key path is not a scalar value")

	// Environment errors 🌍
	ErrIncompleteEnv = errors.New("❌ workflow environment incomplete")

	// Cache errors 💾
	ErrCacheMiss    = errors.New("❌ no cached data")
	ErrUnknownCodec = errors.New("❌ unknown cache codec")

	// Update errors ⬆️
	ErrNoUpdate = errors.New("❌ no update available")
)
