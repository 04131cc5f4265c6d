// Package registry enumerates the known adapters and implements Type Inference.
//
// A Registry is an explicit, ordered list of entries. Extension lookup maps a
// file extension straight to one entry; Infer tries every entry in
// registration order and adopts the first one that parses the content.
// Order matters: lenient grammars (INI accepts most "key: value" text, YAML
// accepts JSON) must come after the strict ones.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/0xalexb/unicfg/adapter"
	iniadapter "github.com/0xalexb/unicfg/adapter/ini"
	jsonadapter "github.com/0xalexb/unicfg/adapter/json"
	xmladapter "github.com/0xalexb/unicfg/adapter/xml"
	yamladapter "github.com/0xalexb/unicfg/adapter/yaml"
	"github.com/0xalexb/unicfg/storage/file"
)

// ParseFunc builds an adapter from file contents.
type ParseFunc func(source string, data []byte, store *file.Store) (adapter.Adapter, error)

// Entry describes one adapter variant.
type Entry struct {
	Format     adapter.Format
	Extensions []string
	Parse      ParseFunc
}

// Probe is the outcome of trying one entry against a file.
// Exactly one of Adapter and Err is set.
type Probe struct {
	Format  adapter.Format
	Adapter adapter.Adapter
	Err     error
}

// Registry holds adapter entries in registration order.
type Registry struct {
	entries []Entry
}

// New creates a Registry with the given entries, in order.
func New(entries ...Entry) *Registry {
	r := &Registry{}

	for _, entry := range entries {
		r.Register(entry)
	}

	return r
}

// Default returns a Registry with every built-in adapter, ordered
// xml, json, ini, yaml.
func Default() *Registry {
	return New(
		Entry{Format: adapter.FormatXML, Extensions: []string{"xml"}, Parse: wrap(xmladapter.Parse)},
		Entry{Format: adapter.FormatJSON, Extensions: []string{"json"}, Parse: wrap(jsonadapter.Parse)},
		Entry{Format: adapter.FormatINI, Extensions: []string{"ini"}, Parse: wrap(iniadapter.Parse)},
		Entry{Format: adapter.FormatYAML, Extensions: []string{"yaml", "yml"}, Parse: wrap(yamladapter.Parse)},
	)
}

// Register appends entry. Extensions are matched case-insensitively without
// the leading dot.
func (r *Registry) Register(entry Entry) {
	exts := make([]string, 0, len(entry.Extensions))
	for _, ext := range entry.Extensions {
		exts = append(exts, normalizeExt(ext))
	}

	entry.Extensions = exts
	r.entries = append(r.entries, entry)
}

// Entries returns a copy of the registered entries in order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Lookup returns the first entry registered for ext.
func (r *Registry) Lookup(ext string) (Entry, bool) {
	ext = normalizeExt(ext)
	if ext == "" {
		return Entry{}, false
	}

	for _, entry := range r.entries {
		if slices.Contains(entry.Extensions, ext) {
			return entry, true
		}
	}

	return Entry{}, false
}

// Infer tries each entry in order and returns the first adapter that parses
// data. Candidate failures are logged and otherwise ignored; when every
// candidate fails the result wraps adapter.ErrUnsupportedFormat together
// with each failure.
//
//nolint:ireturn // the selected adapter type is only known at runtime
func (r *Registry) Infer(source string, data []byte, store *file.Store) (adapter.Adapter, error) {
	failures := make([]error, 0, len(r.entries))

	for _, entry := range r.entries {
		probe := try(entry, source, data, store)
		if probe.Err == nil {
			slog.Debug("format inferred",
				slog.String("path", source),
				slog.String("format", string(probe.Format)))

			return probe.Adapter, nil
		}

		slog.Debug("format candidate rejected",
			slog.String("path", source),
			slog.String("format", string(probe.Format)),
			slog.String("error", probe.Err.Error()))

		failures = append(failures, probe.Err)
	}

	if len(failures) == 0 {
		return nil, fmt.Errorf("%w: %s: no adapters registered", adapter.ErrUnsupportedFormat, source)
	}

	return nil, fmt.Errorf("%w: %s: %w", adapter.ErrUnsupportedFormat, source, errors.Join(failures...))
}

// Probe tries every entry without stopping at the first success.
func (r *Registry) Probe(source string, data []byte, store *file.Store) []Probe {
	probes := make([]Probe, 0, len(r.entries))

	for _, entry := range r.entries {
		probes = append(probes, try(entry, source, data, store))
	}

	return probes
}

func try(entry Entry, source string, data []byte, store *file.Store) Probe {
	probe := Probe{Format: entry.Format}

	if entry.Parse == nil {
		probe.Err = fmt.Errorf("%s: no parser registered", entry.Format)

		return probe
	}

	probe.Adapter, probe.Err = entry.Parse(source, data, store)
	if probe.Err == nil && probe.Adapter == nil {
		probe.Err = fmt.Errorf("%s: parser returned no adapter", entry.Format)
	}

	if probe.Err != nil {
		probe.Adapter = nil
	}

	return probe
}

// wrap adapts a concrete Parse function, avoiding typed-nil adapters on error.
func wrap[T adapter.Adapter](parse func(string, []byte, *file.Store) (T, error)) ParseFunc {
	return func(source string, data []byte, store *file.Store) (adapter.Adapter, error) {
		doc, err := parse(source, data, store)
		if err != nil {
			return nil, err
		}

		return doc, nil
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
