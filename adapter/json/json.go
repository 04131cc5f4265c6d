// Package json provides the structured-document adapter for JSON files.
//
// The document is kept as raw JSON bytes. Reads go through
// github.com/tidwall/gjson, writes through github.com/tidwall/sjson, and Save
// reformats with github.com/tidwall/pretty. Comments and trailing commas in
// the input are tolerated via github.com/tidwall/jsonc.
//
// Query strings are gjson paths ("config.master", "servers.0.host").
// Key sequences are escaped and joined, so GetValue("a.b", "c") reads key "c"
// of the object stored under the literal key "a.b". Numeric keys index arrays.
package json

import (
	"errors"
	"strings"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/storage/file"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	// ErrInvalidJSON is returned when the content is not valid JSON.
	ErrInvalidJSON = errors.New("invalid json")
	// ErrNotContainer is returned when the top-level value is not an object or array.
	ErrNotContainer = errors.New("top-level value must be an object or array")
)

// specialChars are characters gjson and sjson interpret inside a path component.
const specialChars = `\.*?|#@!:`

// Document implements adapter.Adapter for JSON files.
type Document struct {
	source string
	store  *file.Store
	data   []byte
}

var _ adapter.Adapter = (*Document)(nil)

// Load reads and parses the JSON file at fpath.
func Load(fpath string, store *file.Store) (*Document, error) {
	data, err := store.Read(fpath)
	if err != nil {
		return nil, err
	}

	return Parse(fpath, data, store)
}

// Parse builds a Document from data. source is used as the default Save target.
func Parse(source string, data []byte, store *file.Store) (*Document, error) {
	clean := jsonc.ToJSON(data)

	if !gjson.ValidBytes(clean) {
		return nil, adapter.ParseError(adapter.FormatJSON, source, ErrInvalidJSON)
	}

	root := gjson.ParseBytes(clean)
	if !root.IsObject() && !root.IsArray() {
		return nil, adapter.ParseError(adapter.FormatJSON, source, ErrNotContainer)
	}

	return &Document{
		source: source,
		store:  store,
		data:   clean,
	}, nil
}

// Format implements adapter.Adapter.
func (d *Document) Format() adapter.Format {
	return adapter.FormatJSON
}

// Source implements adapter.Adapter.
func (d *Document) Source() string {
	return d.source
}

// Get implements adapter.Adapter.
func (d *Document) Get(query string) (string, bool) {
	if query == "" {
		return "", false
	}

	result := gjson.GetBytes(d.data, query)
	if !result.Exists() {
		return "", false
	}

	return result.String(), true
}

// Set implements adapter.Adapter.
func (d *Document) Set(query, value string) bool {
	components := splitPath(query)
	if components == nil {
		return false
	}

	return d.assign(components, value)
}

// GetValue implements adapter.Adapter.
func (d *Document) GetValue(keys ...string) (string, bool) {
	if !adapter.ValidKeys(keys) {
		return "", false
	}

	return d.Get(joinPath(escapeKeys(keys)))
}

// SetValue implements adapter.Adapter.
func (d *Document) SetValue(value string, keys ...string) bool {
	if !adapter.ValidKeys(keys) {
		return false
	}

	return d.assign(escapeKeys(keys), value)
}

// Encode implements adapter.Adapter.
func (d *Document) Encode() ([]byte, error) {
	return pretty.Pretty(d.data), nil
}

// Save implements adapter.Adapter.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	return d.store.Write(adapter.Target(path, d.source), data)
}

// assign refuses to descend through existing scalars and only commits the
// edit when reading the path back yields value.
func (d *Document) assign(components []string, value string) bool {
	for n := 1; n < len(components); n++ {
		parent := gjson.GetBytes(d.data, joinPath(components[:n]))
		if parent.Exists() && !parent.IsObject() && !parent.IsArray() {
			return false
		}
	}

	path := joinPath(components)

	updated, err := sjson.SetBytes(d.data, path, value)
	if err != nil {
		return false
	}

	if got := gjson.GetBytes(updated, path); !got.Exists() || got.String() != value {
		return false
	}

	d.data = updated

	return true
}

func escapeKeys(keys []string) []string {
	escaped := make([]string, len(keys))

	for i, key := range keys {
		var b strings.Builder

		for _, r := range key {
			if strings.ContainsRune(specialChars, r) {
				b.WriteByte('\\')
			}

			b.WriteRune(r)
		}

		escaped[i] = b.String()
	}

	return escaped
}

func joinPath(components []string) string {
	return strings.Join(components, ".")
}

// splitPath splits a path on unescaped dots, keeping escapes in place.
// It returns nil for paths with empty components.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}

	var (
		components []string
		start      int
		escaped    bool
	)

	for i := 0; i < len(path); i++ {
		switch {
		case escaped:
			escaped = false
		case path[i] == '\\':
			escaped = true
		case path[i] == '.':
			components = append(components, path[start:i])
			start = i + 1
		}
	}

	components = append(components, path[start:])

	for _, component := range components {
		if component == "" {
			return nil
		}
	}

	return components
}
