package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/config"
	"github.com/roach88/vislens/internal/datasource"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config is an optional YAML settings file. Data source flags
	// override its values.
	Config string
	Driver string
	DB     string
	Table  string

	// Logger receives structured logs. Set by the root command from
	// --verbose; nil discards.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vislens CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vislens",
		Short: "vislens - visualization intent compiler",
		Long: `Compile partial visualization intents into concrete charts.

An intent names the columns of interest, optionally with filters, channels
and wildcards. vislens classifies the columns of a table, enumerates the
intent into candidate visualizations and picks a mark and encoding for each.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Logger == nil {
				opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", fmt.Sprintf("data source driver %v", datasource.Drivers))
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "database path (or Arrow IPC file)")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "", "table name")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns a text logger on w: Debug when verbose, Warn otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger returns the configured logger or a discarding one.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Settings loads the config file (or the defaults) and applies the data
// source flags on top.
func (o *RootOptions) Settings() (config.Config, error) {
	cfg := config.Default()
	if o.Config != "" {
		loaded, err := config.Load(o.Config)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if o.Driver != "" {
		cfg.DataSource.Driver = o.Driver
	}
	if o.DB != "" {
		cfg.DataSource.DB = o.DB
	}
	if o.Table != "" {
		cfg.DataSource.Table = o.Table
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// session is a compiler bound to an open data source.
type session struct {
	cfg      config.Config
	src      datasource.Source
	compiler *compiler.Compiler
	close    func() error
}

// openSession resolves settings and opens the configured data source.
// Errors are printed through f and returned as ExitCommandError.
func openSession(ctx context.Context, opts *RootOptions, f *OutputFormatter) (*session, error) {
	cfg, err := opts.Settings()
	if err != nil {
		return nil, commandError(f, ErrCodeConfig, "invalid configuration", err)
	}

	ds := cfg.DataSource
	f.VerboseLog("Opening %s source %s (table %q)", ds.Driver, ds.DB, ds.Table)
	src, closeFn, err := datasource.Open(ctx, ds.Driver, ds.DB, ds.Table)
	if err != nil {
		return nil, commandError(f, ErrCodeSourceFailed, "failed to open source", err)
	}

	logger := opts.logger()
	return &session{
		cfg:      cfg,
		src:      src,
		compiler: compiler.New(src, cfg.CompilerOptions(logger)),
		close:    closeFn,
	}, nil
}

// Close releases the data source.
func (s *session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// commandContext returns the command's context or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
