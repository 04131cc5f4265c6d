package unicfg

import (
	"errors"
	"fmt"

	"go.uber.org/fx"
)

// ErrEmptyName is returned when the module name is empty.
var ErrEmptyName = errors.New("config module name must not be empty")

// NewModule creates an Fx module that loads the file at fpath and supplies
// the resulting *Config under the DI named tag `name:"<name>"`.
// Call multiple times with different names to load several files.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name, fpath string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name,
		fx.Provide(
			fx.Annotate(
				func() (*Config, error) {
					return New(fpath, opts...)
				},
				fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
			),
		),
	)
}
