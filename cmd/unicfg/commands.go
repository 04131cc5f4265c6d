package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/0xalexb/unicfg"
	"github.com/0xalexb/unicfg/logging"
	"github.com/0xalexb/unicfg/registry"
	"github.com/0xalexb/unicfg/storage/file"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	// ErrNotFound is returned by get when the query matches nothing.
	ErrNotFound = errors.New("not found")
	// ErrNotSet is returned by set when the adapter rejects the path.
	ErrNotSet = errors.New("value could not be set")
)

// cli carries the flag values shared by the subcommands.
type cli struct {
	fs        afero.Fs
	logLevel  string
	logFormat string
	getKeys   bool
	setKeys   bool
	out       string
	verbose   bool
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	c := &cli{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "unicfg",
		Short: "Read and edit configuration files in any supported format",
		Long: `Read and edit XML, INI, JSON and YAML configuration files through one interface.

The format is picked from the file extension. Files with any other extension
are recognized by trying each format in turn.`,
		Version:           unicfg.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setupLogging,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate(fmt.Sprintf("unicfg %s (compiled at %s)\n", unicfg.Version, unicfg.CompiledAt))

	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&c.logFormat, "log-format", logging.FormatJSON, "Log format (json|text)")

	rootCmd.AddCommand(c.getCmd(), c.setCmd(), c.detectCmd(), versionCmd())

	return rootCmd
}

func (c *cli) setupLogging(cmd *cobra.Command, _ []string) error {
	config := logging.LoggerConfig{Level: c.logLevel, Format: c.logFormat}

	err := config.Validate()
	if err != nil {
		return err
	}

	slog.SetDefault(logging.NewLogger(config, cmd.ErrOrStderr()))

	return nil
}

func (c *cli) getCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <query | key...>",
		Short: "Print a value",
		Long: `Print the value addressed by query, written in the dialect of the file's format:

  XML   /config/general/interval, //config/tick[@type='origin']
  INI   section:key
  JSON  config.master
  YAML  $.config.master or config:master

With --keys the arguments after the file are a plain key sequence instead.`,
		Example: `  # XPath query
  unicfg get config.xml "/config/general/interval"

  # Key sequence, any format
  unicfg get --keys app.cfg config master`,
		Args: cobra.MinimumNArgs(2),
		RunE: c.runGet,
	}

	cmd.Flags().BoolVar(&c.getKeys, "keys", false, "Treat arguments after the file as a key sequence")

	return cmd
}

func (c *cli) runGet(cmd *cobra.Command, args []string) error {
	cfg, err := unicfg.New(args[0], unicfg.WithFs(c.fs))
	if err != nil {
		return err
	}

	path := args[1:]

	var (
		value string
		ok    bool
	)

	if c.getKeys {
		value, ok = cfg.GetValue(path...)
	} else {
		if len(path) != 1 {
			return fmt.Errorf("expected one query, got %d arguments (use --keys for key sequences)", len(path))
		}

		value, ok = cfg.Get(path[0])
	}

	if !ok {
		return fmt.Errorf("%v: %w", path, ErrNotFound)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)

	return nil
}

func (c *cli) setCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <file> <value> <query | key...>",
		Short: "Change a value and save the file",
		Long: `Store value at the addressed path and write the file back in its own format.
Missing levels are created where the format allows it.`,
		Example: `  # Update an INI key in place
  unicfg set app.cfg 30 config:interval

  # Write the result to another file
  unicfg set --keys --out config.new.json config.json false config master`,
		Args: cobra.MinimumNArgs(3),
		RunE: c.runSet,
	}

	cmd.Flags().BoolVar(&c.setKeys, "keys", false, "Treat arguments after the value as a key sequence")
	cmd.Flags().StringVar(&c.out, "out", "", "Save to this path instead of the source file")

	return cmd
}

func (c *cli) runSet(cmd *cobra.Command, args []string) error {
	cfg, err := unicfg.New(args[0], unicfg.WithFs(c.fs))
	if err != nil {
		return err
	}

	value, path := args[1], args[2:]

	var ok bool

	if c.setKeys {
		ok = cfg.SetValue(value, path...)
	} else {
		if len(path) != 1 {
			return fmt.Errorf("expected one query, got %d arguments (use --keys for key sequences)", len(path))
		}

		ok = cfg.Set(path[0], value)
	}

	if !ok {
		return fmt.Errorf("%v: %w", path, ErrNotSet)
	}

	err = cfg.SaveAs(c.out)
	if err != nil {
		return err
	}

	target := c.out
	if target == "" {
		target = cfg.Source()
	}

	slog.Info("value saved", slog.String("path", target), slog.Any("query", path))

	return nil
}

func (c *cli) detectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Print the format the file is read as",
		Example: `  unicfg detect app.cfg

  # Show how every format fared
  unicfg detect --verbose app.cfg`,
		Args: cobra.ExactArgs(1),
		RunE: c.runDetect,
	}

	cmd.Flags().BoolVar(&c.verbose, "verbose", false, "Show the outcome of every format candidate")

	return cmd
}

func (c *cli) runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := unicfg.New(args[0], unicfg.WithFs(c.fs))
	if err != nil && !c.verbose {
		return err
	}

	if err == nil {
		fmt.Fprintln(out, cfg.Format())
	}

	if !c.verbose {
		return nil
	}

	store := file.NewStore(c.fs)

	data, readErr := store.Read(args[0])
	if readErr != nil {
		return readErr
	}

	reg := registry.Default()
	if entry, ok := reg.Lookup(filepath.Ext(args[0])); ok {
		fmt.Fprintf(out, "extension: %s\n", entry.Format)
	}

	for _, probe := range reg.Probe(args[0], data, store) {
		if probe.Err != nil {
			fmt.Fprintf(out, "  %-5s rejected: %v\n", probe.Format, probe.Err)

			continue
		}

		fmt.Fprintf(out, "  %-5s ok\n", probe.Format)
	}

	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "unicfg %s (compiled at %s)\n", unicfg.Version, unicfg.CompiledAt)
		},
	}
}
