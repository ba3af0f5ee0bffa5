package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/mspec/internal/report"
	"github.com/roach88/mspec/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Check bool
}

// ShowResult wraps a report so that text output uses the report layout.
type ShowResult struct {
	Report *report.Report `json:"report" yaml:"report"`
}

// WriteText renders the report.
func (r ShowResult) WriteText(w io.Writer) error {
	return report.WriteText(w, r.Report)
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded run",
		Long: `Show the outcome of every test case in a recorded run.

The run id may be abbreviated to any unique prefix.

Examples:
  mspec show 0192c3a0
  mspec show 0192c3a0 --format yaml
  mspec show 0192c3a0 --check    # exit 1 if the run failed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Check, "check", false, "exit with status 1 if the run failed")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, prefix string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.ResolveRunID(ctx, prefix)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return WrapExitError(ExitCommandError, ErrCodeRunNotFound+": no such run", err)
	case errors.Is(err, store.ErrAmbiguous):
		return WrapExitError(ExitCommandError, ErrCodeAmbiguousRun+": give more of the run id", err)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to resolve run", err)
	}

	rep, err := st.ReadReport(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if err := opts.formatter(cmd).Success(ShowResult{rep}); err != nil {
		return err
	}
	if opts.Check && !rep.Succeeded() {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s failed", rep.RunID))
	}
	return nil
}
