package unicfg

import (
	"github.com/0xalexb/unicfg/registry"

	"github.com/spf13/afero"
)

// Options holds settings for loading a configuration file.
type Options struct {
	Fs       afero.Fs
	Registry *registry.Registry
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// SetDefaults fills unset fields: the OS filesystem and the default registry.
func (o *Options) SetDefaults() {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}

	if o.Registry == nil {
		o.Registry = registry.Default()
	}
}

// WithFs sets the filesystem used to read and save the file.
func WithFs(fs afero.Fs) Option {
	return func(opts *Options) {
		opts.Fs = fs
	}
}

// WithRegistry replaces the set of adapters considered when loading.
func WithRegistry(reg *registry.Registry) Option {
	return func(opts *Options) {
		opts.Registry = reg
	}
}
