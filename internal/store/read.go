package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/roach88/mspec/internal/report"
)

var (
	// ErrNotFound is returned when no run matches an ID or prefix.
	ErrNotFound = errors.New("run not found")

	// ErrAmbiguous is returned when a prefix matches more than one run.
	ErrAmbiguous = errors.New("run id prefix is ambiguous")
)

// RunSummary is one row of the run history.
type RunSummary struct {
	RunID         string        `json:"run_id" yaml:"run_id"`
	Spec          string        `json:"spec" yaml:"spec"`
	Category      string        `json:"category,omitempty" yaml:"category,omitempty"`
	StartedAt     time.Time     `json:"started_at" yaml:"started_at"`
	Fault         string        `json:"fault,omitempty" yaml:"fault,omitempty"`
	Counts        report.Counts `json:"counts" yaml:"counts"`
	CleanupFaults int           `json:"cleanup_faults" yaml:"cleanup_faults"`
}

// Succeeded reports whether the run had no failure of any kind.
func (r RunSummary) Succeeded() bool {
	return r.Fault == "" && r.CleanupFaults == 0 && r.Counts.Failed == 0
}

// RunFilter narrows ListRuns. Zero values match everything.
type RunFilter struct {
	Spec       string // exact type name
	Category   string // exact category label
	FailedOnly bool
	Limit      int
}

// ListRuns returns recorded runs newest first.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]RunSummary, error) {
	var where []string
	var args []any
	if f.Spec != "" {
		where = append(where, "r.spec = ?")
		args = append(args, f.Spec)
	}
	if f.Category != "" {
		where = append(where, "r.category = ?")
		args = append(args, f.Category)
	}
	if f.FailedOnly {
		where = append(where, "(r.failed > 0 OR r.fault != '' OR EXISTS (SELECT 1 FROM cleanup_faults c WHERE c.run_id = r.id))")
	}

	query := `
		SELECT r.id, r.spec, r.category, r.started_at, r.fault,
		       r.passed, r.failed, r.pending, r.filtered,
		       (SELECT COUNT(*) FROM cleanup_faults c WHERE c.run_id = r.id)
		FROM runs r`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY r.started_at DESC, r.id COLLATE BINARY DESC"
	if f.Limit > 0 {
		query += "\n\t\tLIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			r       RunSummary
			started string
		)
		if err := rows.Scan(&r.RunID, &r.Spec, &r.Category, &started, &r.Fault,
			&r.Counts.Passed, &r.Counts.Failed, &r.Counts.Pending, &r.Counts.Filtered,
			&r.CleanupFaults); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("run %s: parse started_at: %w", r.RunID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ResolveRunID expands a unique run ID prefix to the full ID.
func (s *Store) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("resolve run id: %w", ErrNotFound)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs
		WHERE substr(id, 1, ?) = ?
		ORDER BY id COLLATE BINARY ASC
		LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("resolve run id %q: %w", prefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		for _, id := range ids {
			if id == prefix {
				return id, nil
			}
		}
		return "", fmt.Errorf("resolve run id %q: %w", prefix, ErrAmbiguous)
	}
}

// ReadReport reconstructs the report recorded under runID.
// Returns ErrNotFound if no such run exists.
func (s *Store) ReadReport(ctx context.Context, runID string) (*report.Report, error) {
	var (
		r       report.Report
		started string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, spec, category, started_at, fault
		FROM runs
		WHERE id = ?
	`, runID).Scan(&r.RunID, &r.Spec, &r.Category, &started, &r.Fault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read report %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", runID, err)
	}
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, fmt.Errorf("read report %s: parse started_at: %w", runID, err)
	}

	if r.Outcomes, err = s.readOutcomes(ctx, runID); err != nil {
		return nil, err
	}
	if r.CleanupFaults, err = s.readCleanupFaults(ctx, runID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) readOutcomes(ctx context.Context, runID string) ([]report.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name, member, status, message
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []report.Outcome{}
	for rows.Next() {
		var o report.Outcome
		if err := rows.Scan(&o.Seq, &o.Name, &o.Member, &o.Status, &o.Message); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// readCleanupFaults returns nil when the run had none, matching Recorder.
func (s *Store) readCleanupFaults(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message
		FROM cleanup_faults
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query cleanup faults: %w", err)
	}
	defer rows.Close()

	var faults []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan cleanup fault: %w", err)
		}
		faults = append(faults, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cleanup faults: %w", err)
	}
	return faults, nil
}
