// Unicfg reads and edits XML, INI, JSON and YAML configuration files from
// the command line.
//
// Usage:
//
//	unicfg [command] [flags]
//
// The file format is picked from the extension, or inferred from the content
// when the extension is not recognized. See 'unicfg --help' for commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
