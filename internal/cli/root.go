package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/mspec/internal/config"
	"github.com/roach88/mspec/internal/report"
	"github.com/roach88/mspec/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "yaml"
	Database string
	NoColor  bool
}

// NewRootCommand creates the root command for the mspec CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "mspec",
		Short: "mspec - inspect specification runs",
		Long: `Inspect the run history recorded by specification hosts and check
host configuration.

Runs are recorded when MSPEC_STORE (or "store" in the MSPEC_CONFIG file)
names a SQLite database while specifications run under go test.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(opts.Format)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad --format", err)
			}
			opts.Format = string(format)
			if opts.NoColor {
				color.NoColor = true
			}

			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the run history database (default: configured store)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are printed to stderr with any hints attached to them.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.Reported) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(stderr, "hint: %s\n", hints)
		}
	}
	return GetExitCode(err)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// openStore opens the database named by --db, falling back to the
// configured store.
func (o *RootOptions) openStore() (*store.Store, error) {
	path := o.Database
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading configuration", err)
		}
		path = cfg.Store
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError,
			fmt.Sprintf("%s: no run history: pass --db or set %s", ErrCodeNoDatabase, config.EnvStore))
	}

	slog.Debug("opening run history", "path", path)
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeOpenFailed+": failed to open database", err)
	}
	return st, nil
}
