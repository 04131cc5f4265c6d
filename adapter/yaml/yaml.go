package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/storage/file"

	"github.com/goccy/go-yaml"
)

// ErrNotMapping is returned when the top-level node is not a mapping.
var ErrNotMapping = errors.New("top-level node must be a mapping")

const (
	pathRoot      = "$"
	pathSeparator = "."
	keySeparator  = ":"
)

// Document implements adapter.Adapter for YAML files.
type Document struct {
	source string
	store  *file.Store
	root   yaml.MapSlice
}

var _ adapter.Adapter = (*Document)(nil)

// Load reads and parses the YAML file at fpath.
func Load(fpath string, store *file.Store) (*Document, error) {
	data, err := store.Read(fpath)
	if err != nil {
		return nil, err
	}

	return Parse(fpath, data, store)
}

// Parse builds a Document from data. source is used as the default Save target.
func Parse(source string, data []byte, store *file.Store) (*Document, error) {
	var root any

	err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap())
	if err != nil {
		return nil, adapter.ParseError(adapter.FormatYAML, source, err)
	}

	mapping, ok := root.(yaml.MapSlice)
	if !ok {
		return nil, adapter.ParseError(adapter.FormatYAML, source, ErrNotMapping)
	}

	return &Document{
		source: source,
		store:  store,
		root:   mapping,
	}, nil
}

// Format implements adapter.Adapter.
func (d *Document) Format() adapter.Format {
	return adapter.FormatYAML
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

	pathObj, err := yaml.PathString(convertToYAMLPath(query))
	if err != nil {
		return "", false
	}

	data, err := yaml.Marshal(d.root)
	if err != nil {
		return "", false
	}

	var value any

	err = pathObj.Read(bytes.NewReader(data), &value)
	if err != nil {
		return "", false
	}

	return render(value)
}

// Set implements adapter.Adapter.
func (d *Document) Set(query, value string) bool {
	keys, ok := plainKeys(query)
	if !ok {
		return false
	}

	return d.SetValue(value, keys...)
}

// GetValue implements adapter.Adapter.
func (d *Document) GetValue(keys ...string) (string, bool) {
	if !adapter.ValidKeys(keys) {
		return "", false
	}

	var node any = d.root

	for _, key := range keys {
		next, ok := child(node, key)
		if !ok {
			return "", false
		}

		node = next
	}

	return render(node)
}

// SetValue implements adapter.Adapter.
func (d *Document) SetValue(value string, keys ...string) bool {
	if !adapter.ValidKeys(keys) {
		return false
	}

	updated, ok := assign(d.root, keys, value)
	if !ok {
		return false
	}

	mapping, ok := updated.(yaml.MapSlice)
	if !ok {
		return false
	}

	d.root = mapping

	return true
}

// Encode implements adapter.Adapter.
func (d *Document) Encode() ([]byte, error) {
	data, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}

	return data, nil
}

// Save implements adapter.Adapter.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	return d.store.Write(adapter.Target(path, d.source), data)
}

func child(node any, key string) (any, bool) {
	switch n := node.(type) {
	case yaml.MapSlice:
		for _, item := range n {
			if keyString(item.Key) == key {
				return item.Value, true
			}
		}
	case []any:
		idx, err := strconv.Atoi(key)
		if err == nil && idx >= 0 && idx < len(n) {
			return n[idx], true
		}
	}

	return nil, false
}

// assign returns node with value stored under keys. Mappings are created for
// missing levels; existing scalars and out-of-range indexes are not replaced.
// The input tree is not modified when assign fails.
func assign(node any, keys []string, value string) (any, bool) {
	if len(keys) == 0 {
		return value, true
	}

	key, rest := keys[0], keys[1:]

	switch n := node.(type) {
	case nil:
		sub, ok := assign(nil, rest, value)
		if !ok {
			return nil, false
		}

		return yaml.MapSlice{{Key: key, Value: sub}}, true
	case yaml.MapSlice:
		for i, item := range n {
			if keyString(item.Key) != key {
				continue
			}

			sub, ok := assign(item.Value, rest, value)
			if !ok {
				return nil, false
			}

			n[i].Value = sub

			return n, true
		}

		sub, ok := assign(nil, rest, value)
		if !ok {
			return nil, false
		}

		return append(n, yaml.MapItem{Key: key, Value: sub}), true
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(n) {
			return nil, false
		}

		sub, ok := assign(n[idx], rest, value)
		if !ok {
			return nil, false
		}

		n[idx] = sub

		return n, true
	default:
		return nil, false
	}
}

func render(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case yaml.MapSlice, []any, map[string]any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", false
		}

		return strings.TrimSpace(string(data)), true
	default:
		return fmt.Sprint(v), true
	}
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}

	return fmt.Sprint(key)
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
//   - "$.api.permissions" -> unchanged
func convertToYAMLPath(path string) string {
	if strings.HasPrefix(path, pathRoot) {
		return path
	}

	parts := strings.Split(path, keySeparator)

	return pathRoot + pathSeparator + strings.Join(parts, pathSeparator)
}

// plainKeys extracts the key sequence from a query made only of plain keys.
// The colon form goes through convertToYAMLPath first so Set and Get agree
// on what a query addresses.
func plainKeys(query string) ([]string, bool) {
	if query == "" {
		return nil, false
	}

	rest, ok := strings.CutPrefix(convertToYAMLPath(query), pathRoot+pathSeparator)
	if !ok || strings.ContainsAny(rest, "[]*'\"") {
		return nil, false
	}

	keys := strings.Split(rest, pathSeparator)

	return keys, adapter.ValidKeys(keys)
}
