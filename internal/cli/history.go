package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/mspec/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Spec       string
	Category   string
	FailedOnly bool
	Limit      int
	PruneOlder time.Duration
	now        func() time.Time
}

// HistoryResult is the output of the history command.
type HistoryResult struct {
	Runs   []store.RunSummary `json:"runs" yaml:"runs"`
	Pruned int64              `json:"pruned,omitempty" yaml:"pruned,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts, now: time.Now}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List recorded specification runs, newest first.

Examples:
  mspec history --db ./runs.db
  mspec history --spec accounts.WhenDepositing --failed
  mspec history --limit 5 --format json
  mspec history --prune 720h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Spec, "spec", "", "only runs of this specification type")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only runs in this category")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "only runs with a failure")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of runs (0 for all)")
	cmd.Flags().DurationVar(&opts.PruneOlder, "prune", 0, "first delete runs older than this")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var result HistoryResult
	if opts.PruneOlder > 0 {
		n, err := st.DeleteRunsBefore(ctx, opts.now().Add(-opts.PruneOlder))
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to prune runs", err)
		}
		result.Pruned = n
		opts.formatter(cmd).VerboseLog("pruned %d runs", n)
	}

	result.Runs, err = st.ListRuns(ctx, store.RunFilter{
		Spec:       opts.Spec,
		Category:   opts.Category,
		FailedOnly: opts.FailedOnly,
		Limit:      opts.Limit,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	return opts.formatter(cmd).Success(result)
}

// WriteText renders the runs as a borderless table. The header is bold and
// the result column coloured unless color.NoColor is set.
func (r HistoryResult) WriteText(w io.Writer) error {
	if r.Pruned > 0 {
		fmt.Fprintf(w, "Pruned %d runs\n", r.Pruned)
	}
	if len(r.Runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	rows := make([][]string, 0, len(r.Runs))
	for _, run := range r.Runs {
		result := ok("ok")
		if !run.Succeeded() {
			result = fail("FAIL")
		}
		rows = append(rows, []string{
			run.RunID,
			run.StartedAt.UTC().Format(time.RFC3339),
			run.Spec,
			strconv.Itoa(run.Counts.Passed),
			strconv.Itoa(run.Counts.Failed),
			strconv.Itoa(run.Counts.Pending),
			strconv.Itoa(run.Counts.Filtered),
			result,
		})
	}

	t := table.New().
		Headers("RUN", "STARTED", "SPEC", "PASS", "FAIL", "PEND", "SKIP", "RESULT").
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 2, 0, 0)
			if row == table.HeaderRow && !color.NoColor {
				style = style.Bold(true)
			}
			return style
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
