// Package adapter defines the contract every configuration format implements.
//
// An Adapter owns exactly one parsed document bound to one source file.
// It supports two addressing modes:
//   - Get/Set take a single query string in the adapter's own dialect
//     (XPath subset for XML, "section:key" for INI, gjson paths for JSON,
//     YAMLPath for YAML)
//   - GetValue/SetValue take a plain key sequence, one key per nesting level,
//     interpreted the same way by every adapter
//
// Mutations only touch the in-memory document until Save is called.
package adapter

import (
	"errors"
	"fmt"
)

// Format names a configuration file format.
type Format string

// Supported formats.
const (
	FormatXML  Format = "xml"
	FormatINI  Format = "ini"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrParse is returned when the content is not valid for the format.
var ErrParse = errors.New("parse error")

// ErrUnsupportedFormat is returned when no adapter can handle a file.
var ErrUnsupportedFormat = errors.New("unexpected file type")

// Adapter is a format-specific view over one configuration document.
type Adapter interface {
	// Format reports which format backs the document.
	Format() Format
	// Source returns the path the document was loaded from.
	Source() string
	// Get resolves query in the adapter's dialect. Missing paths return ("", false).
	Get(query string) (string, bool)
	// Set stores value at query, creating missing intermediate nodes.
	// It returns false if the query cannot be resolved or synthesized.
	Set(query, value string) bool
	// GetValue resolves a key sequence. Missing paths return ("", false).
	GetValue(keys ...string) (string, bool)
	// SetValue stores value at the key sequence, creating missing levels.
	SetValue(value string, keys ...string) bool
	// Encode serializes the document in its native format.
	Encode() ([]byte, error)
	// Save writes the encoded document to path, or to Source when path is empty.
	Save(path string) error
}

// ParseError wraps a format-specific failure into ErrParse.
func ParseError(format Format, source string, err error) error {
	return fmt.Errorf("%w: %s %q: %w", ErrParse, format, source, err)
}

// ValidKeys reports whether keys is a usable key sequence:
// at least one key and no empty keys.
func ValidKeys(keys []string) bool {
	if len(keys) == 0 {
		return false
	}

	for _, key := range keys {
		if key == "" {
			return false
		}
	}

	return true
}

// Target picks the save destination.
func Target(path, source string) string {
	if path == "" {
		return source
	}

	return path
}
