// Package shellquote renders strings that a POSIX shell evaluates back
// to their literal value, for generating eval-able export lines.
//
// This is a minimal, dependency-free implementation of the usual
// single-quoting strategy: wrap in single quotes, and splice embedded
// single quotes through a backslash escape.
package shellquote

import "strings"

// safeChars are characters that never need quoting anywhere in a word.
const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_@%+=:,./-"

// Quote returns s in a form a POSIX shell parses as the literal s.
//
// Examples:
//
//	Quote(`plain`) => `plain`
//	Quote(`two words`) => `'two words'`
//	Quote(`it's`) => `'it'\''s'`
//	Quote(``) => `''`
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !needsQuote(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// QuoteAssign renders a NAME=value assignment with the value quoted.
func QuoteAssign(name, value string) string {
	return name + "=" + Quote(value)
}

// ExportLine renders a full "export NAME=value" line.
func ExportLine(name, value string) string {
	return "export " + QuoteAssign(name, value)
}

// needsQuote reports whether any character falls outside the safe set.
func needsQuote(s string) bool {
	for _, ch := range s {
		if !strings.ContainsRune(safeChars, ch) {
			return true
		}
	}
	return false
}
