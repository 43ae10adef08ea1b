package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Level specs may carry a format marker, e.g. "json:debug"
	actualLevel, jsonFormat := ParseLevel(level)

	if os.Getenv("GOLINKS_JSON_LOG") == "1" {
		jsonFormat = true
	}

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter("🔗 ", output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(actualLevel),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// ParseLevel splits a level spec like "json:debug" into the hclog level
// name and a JSON-format flag. A bare "json" selects JSON at info level.
func ParseLevel(spec string) (string, bool) {
	if !strings.HasPrefix(spec, "json") {
		return spec, false
	}
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[1], true
	}
	return "info", true
}

// GetLogLevel returns the configured log level from environment.
// Alfred exports alfred_debug while its debugger is open; honor it so
// workflow authors get verbose logs without any extra setup.
func GetLogLevel() string {
	if level := os.Getenv("GOLINKS_LOG_LEVEL"); level != "" {
		return level
	}
	if debug := os.Getenv("alfred_debug"); debug != "" && debug != "0" {
		return "debug"
	}
	return "info"
}
