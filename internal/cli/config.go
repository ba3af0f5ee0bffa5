package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/mspec/internal/config"
)

// ConfigResult is the output of the config commands.
type ConfigResult struct {
	Path   string        `json:"path,omitempty" yaml:"path,omitempty"`
	Config config.Config `json:"config" yaml:"config"`
}

// WriteText renders the configuration one key per line.
func (r ConfigResult) WriteText(w io.Writer) error {
	if r.Path != "" {
		fmt.Fprintf(w, "%s is valid\n", r.Path)
	}
	c := r.Config
	fmt.Fprintf(w, "log_level:  %s\n", c.LogLevel)
	fmt.Fprintf(w, "log_format: %s\n", c.LogFormat)
	fmt.Fprintf(w, "include:    %s\n", listOrNone(c.Include))
	fmt.Fprintf(w, "exclude:    %s\n", listOrNone(c.Exclude))
	fmt.Fprintf(w, "store:      %s\n", orNone(c.Store))
	_, err := fmt.Fprintf(w, "verbose:    %t\n", c.Verbose)
	return err
}

func listOrNone(l []string) string {
	return orNone(strings.Join(l, ", "))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect host configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration hosts would use: defaults, then the file named by
MSPEC_CONFIG, then MSPEC_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return invalidConfig(rootOpts, cmd, "", err)
			}
			return rootOpts.formatter(cmd).Success(ConfigResult{Config: cfg})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config file against the schema",
		Long: `Check a .yaml, .yml or .cue config file against the configuration schema.

Examples:
  mspec config validate mspec.yaml
  mspec config validate mspec.cue --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(args[0])
			if err != nil {
				return invalidConfig(rootOpts, cmd, args[0], err)
			}
			return rootOpts.formatter(cmd).Success(ConfigResult{Path: args[0], Config: cfg})
		},
	})

	return cmd
}

// invalidConfig reports err through the formatter and returns an ExitError
// so the process exits with ExitFailure.
func invalidConfig(opts *RootOptions, cmd *cobra.Command, path string, err error) error {
	var details map[string]string
	if hints := errors.FlattenHints(err); hints != "" {
		details = map[string]string{"hint": hints}
	}
	if path != "" {
		if details == nil {
			details = map[string]string{}
		}
		details["path"] = path
	}
	if ferr := opts.formatter(cmd).Error(ErrCodeInvalidConfig, err.Error(), details); ferr != nil {
		return ferr
	}
	exitErr := WrapExitError(ExitFailure, "invalid configuration", err)
	exitErr.Reported = true
	return exitErr
}
