package unicfg

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/0xalexb/unicfg/adapter"
	"github.com/0xalexb/unicfg/registry"
	"github.com/0xalexb/unicfg/storage/file"
)

var (
	// ErrUnsupportedFormat is returned when no adapter can parse the file.
	ErrUnsupportedFormat = adapter.ErrUnsupportedFormat
	// ErrParse is returned when the file is malformed for its format.
	ErrParse = adapter.ErrParse
	// ErrNilAdapter is returned by NewFromAdapter for a nil adapter.
	ErrNilAdapter = errors.New("adapter must not be nil")
)

// Config is the format-agnostic facade over one configuration file.
// It is not safe for concurrent use.
type Config struct {
	adapter adapter.Adapter
}

// New loads the configuration file at fpath.
//
// The adapter is chosen by file extension (xml, ini, json, yaml, yml; case
// insensitive). Any other extension falls back to trying every registered
// adapter in order, and the first one that parses the file is used.
func New(fpath string, opts ...Option) (*Config, error) {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	options.SetDefaults()

	store := file.NewStore(options.Fs)

	data, err := store.Read(fpath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	selected, err := selectAdapter(options.Registry, fpath, data, store)
	if err != nil {
		return nil, err
	}

	slog.Debug("config loaded",
		slog.String("path", fpath),
		slog.String("format", string(selected.Format())))

	return &Config{adapter: selected}, nil
}

// NewFromAdapter wraps an adapter built elsewhere.
func NewFromAdapter(a adapter.Adapter) (*Config, error) {
	if a == nil {
		return nil, ErrNilAdapter
	}

	return &Config{adapter: a}, nil
}

//nolint:ireturn // the adapter type depends on the file
func selectAdapter(reg *registry.Registry, fpath string, data []byte, store *file.Store) (adapter.Adapter, error) {
	entry, ok := reg.Lookup(filepath.Ext(fpath))
	if !ok {
		return reg.Infer(fpath, data, store)
	}

	selected, err := entry.Parse(fpath, data, store)
	if err != nil {
		return nil, err
	}

	return selected, nil
}

// Format reports the format of the underlying file.
func (c *Config) Format() adapter.Format {
	return c.adapter.Format()
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string {
	return c.adapter.Source()
}

// Adapter returns the active adapter.
//
//nolint:ireturn // callers may type-switch on the concrete adapter
func (c *Config) Adapter() adapter.Adapter {
	return c.adapter
}

// Get returns the value at query, written in the adapter's own dialect:
//   - XML: "/config/general/interval", "//config/tick[@type='origin']"
//   - INI: "section:key"
//   - JSON: "config.master" (gjson path)
//   - YAML: "$.config.master" or "config:master"
//
// The second result is false when nothing is found.
func (c *Config) Get(query string) (string, bool) {
	return c.adapter.Get(query)
}

// Set stores value at query, creating missing levels where the format allows.
func (c *Config) Set(query, value string) bool {
	return c.adapter.Set(query, value)
}

// GetValue returns the value addressed by keys, one key per nesting level.
// e.g. GetValue("config", "master").
func (c *Config) GetValue(keys ...string) (string, bool) {
	return c.adapter.GetValue(keys...)
}

// SetValue stores value at the path addressed by keys.
// e.g. SetValue("true", "config", "master").
func (c *Config) SetValue(value string, keys ...string) bool {
	return c.adapter.SetValue(value, keys...)
}

// Encode returns the document serialized in its own format.
func (c *Config) Encode() ([]byte, error) {
	data, err := c.adapter.Encode()
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}

	return data, nil
}

// Save writes the configuration back to its source file.
func (c *Config) Save() error {
	return c.SaveAs("")
}

// SaveAs writes the configuration to fpath. An empty fpath means the source file.
func (c *Config) SaveAs(fpath string) error {
	err := c.adapter.Save(fpath)
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	return nil
}
