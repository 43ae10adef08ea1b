package workflow

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"howett.net/plist"
)

// ConfigSource resolves colon-delimited key paths from a workflow's
// configuration store. The contract is: given a key path, return its
// string value or fail. Lookups never mutate the store.
type ConfigSource interface {
	Get(keyPath string) (string, error)
}

// InfoReader is a ConfigSource backed by a workflow's info.plist.
// The document is parsed once at construction.
type InfoReader struct {
	path string
	root map[string]interface{}
}

// NewInfoReader parses the property list at path. A missing or
// malformed document fails with ErrUnreadableStore.
func NewInfoReader(path string) (*InfoReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableStore, path, err)
	}

	var root map[string]interface{}
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableStore, path, err)
	}

	return &InfoReader{path: path, root: root}, nil
}

// Path returns the location of the underlying property list.
func (r *InfoReader) Path() string {
	return r.path
}

// Get resolves a colon-delimited key path like "variables:cache_max_age".
// Dictionary segments are matched by key; a decimal segment indexes into
// an array. The addressed leaf must be a scalar and is returned as a
// string with no coercion beyond formatting.
func (r *InfoReader) Get(keyPath string) (string, error) {
	var node interface{} = r.root

	for _, seg := range strings.Split(keyPath, ":") {
		switch v := node.(type) {
		case map[string]interface{}:
			child, ok := v[seg]
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrMissingKey, keyPath)
			}
			node = child
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return "", fmt.Errorf("%w: %q", ErrMissingKey, keyPath)
			}
			node = v[i]
		default:
			return "", fmt.Errorf("%w: %q", ErrMissingKey, keyPath)
		}
	}

	return scalarString(node, keyPath)
}

// scalarString formats a property-list leaf. Containers are rejected:
// a key path must address a single value.
func scalarString(node interface{}, keyPath string) (string, error) {
	switch v := node.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("%w: %q is %T", ErrNotScalar, keyPath, node)
	}
}
