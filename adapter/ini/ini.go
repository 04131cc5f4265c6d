// Package ini provides the key-section adapter backed by gopkg.in/ini.v1.
//
// Queries use colon (:) to separate the section from the key:
//
//	"general:interval"  -> section [general], key interval
//	"interval"          -> default (unnamed) section, key interval
//	"a:b:key"           -> section [a:b], key key (the last colon splits)
//
// Key sequences put the key last and join the preceding keys with "." into
// an ini.v1 child section name, so SetValue("5", "db", "pool", "size") writes
// key size in section [db.pool].
package ini

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/storage/file"

	"gopkg.in/ini.v1"
)

const (
	querySeparator   = ":"
	sectionSeparator = "."
)

// Document implements adapter.Adapter for INI files.
type Document struct {
	source string
	store  *file.Store
	file   *ini.File
}

var _ adapter.Adapter = (*Document)(nil)

// Load reads and parses the INI file at fpath.
func Load(fpath string, store *file.Store) (*Document, error) {
	data, err := store.Read(fpath)
	if err != nil {
		return nil, err
	}

	return Parse(fpath, data, store)
}

// Parse builds a Document from data. source is used as the default Save target.
func Parse(source string, data []byte, store *file.Store) (*Document, error) {
	parsed, err := ini.LoadSources(ini.LoadOptions{}, data)
	if err != nil {
		return nil, adapter.ParseError(adapter.FormatINI, source, err)
	}

	return &Document{
		source: source,
		store:  store,
		file:   parsed,
	}, nil
}

// Format implements adapter.Adapter.
func (d *Document) Format() adapter.Format {
	return adapter.FormatINI
}

// Source implements adapter.Adapter.
func (d *Document) Source() string {
	return d.source
}

// Get implements adapter.Adapter.
func (d *Document) Get(query string) (string, bool) {
	section, key, ok := splitQuery(query)
	if !ok {
		return "", false
	}

	return d.lookup(section, key)
}

// Set implements adapter.Adapter.
func (d *Document) Set(query, value string) bool {
	section, key, ok := splitQuery(query)
	if !ok {
		return false
	}

	return d.assign(section, key, value)
}

// GetValue implements adapter.Adapter.
func (d *Document) GetValue(keys ...string) (string, bool) {
	section, key, ok := splitKeys(keys)
	if !ok {
		return "", false
	}

	return d.lookup(section, key)
}

// SetValue implements adapter.Adapter.
func (d *Document) SetValue(value string, keys ...string) bool {
	section, key, ok := splitKeys(keys)
	if !ok {
		return false
	}

	return d.assign(section, key, value)
}

// Encode implements adapter.Adapter.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer

	_, err := d.file.WriteTo(&buf)
	if err != nil {
		return nil, fmt.Errorf("encoding ini: %w", err)
	}

	return buf.Bytes(), nil
}

// Save implements adapter.Adapter.
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	return d.store.Write(adapter.Target(path, d.source), data)
}

func (d *Document) lookup(section, key string) (string, bool) {
	sec, err := d.file.GetSection(section)
	if err != nil {
		return "", false
	}

	// GetKey falls back to parent sections; only the section's own keys count.
	if !slices.Contains(sec.KeyStrings(), key) {
		return "", false
	}

	return sec.Key(key).String(), true
}

// assign writes key into the section's own key list. Section.Key would
// return an inherited parent key for child sections and modify the parent.
func (d *Document) assign(section, key, value string) bool {
	sec, err := d.file.GetSection(section)
	if err != nil {
		sec, err = d.file.NewSection(section)
		if err != nil {
			return false
		}
	}

	if slices.Contains(sec.KeyStrings(), key) {
		sec.Key(key).SetValue(value)

		return true
	}

	_, err = sec.NewKey(key, value)

	return err == nil
}

func splitQuery(query string) (string, string, bool) {
	idx := strings.LastIndex(query, querySeparator)
	if idx < 0 {
		return ini.DefaultSection, query, query != ""
	}

	section, key := query[:idx], query[idx+1:]
	if section == "" || key == "" {
		return "", "", false
	}

	return section, key, true
}

func splitKeys(keys []string) (string, string, bool) {
	if !adapter.ValidKeys(keys) {
		return "", "", false
	}

	last := len(keys) - 1
	if last == 0 {
		return ini.DefaultSection, keys[0], true
	}

	return strings.Join(keys[:last], sectionSeparator), keys[last], true
}
