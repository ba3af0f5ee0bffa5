package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/mspec/internal/report"
)

// timeLayout is how started_at is stored. It sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// WriteReport records r with its outcomes and cleanup faults in one
// transaction. Uses ON CONFLICT(id) DO NOTHING for idempotency - a run ID
// that is already recorded is silently ignored and its rows left unchanged.
func (s *Store) WriteReport(ctx context.Context, r *report.Report) error {
	if r.RunID == "" {
		return fmt.Errorf("write report: empty run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write report: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	c := r.Counts()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, spec, category, started_at, fault, passed, failed, pending, filtered)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.RunID,
		r.Spec,
		r.Category,
		r.StartedAt.UTC().Format(timeLayout),
		r.Fault,
		c.Passed,
		c.Failed,
		c.Pending,
		c.Filtered,
	)
	if err != nil {
		return fmt.Errorf("write report %s: %w", r.RunID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("write report %s: rows affected: %w", r.RunID, err)
	} else if n == 0 {
		return nil
	}

	for _, o := range r.Outcomes {
		if !o.Status.Valid() {
			return fmt.Errorf("write report %s: outcome %d has invalid status %q", r.RunID, o.Seq, o.Status)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outcomes (run_id, seq, name, member, status, message)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.RunID, o.Seq, o.Name, o.Member, string(o.Status), o.Message)
		if err != nil {
			return fmt.Errorf("write outcome %s/%d: %w", r.RunID, o.Seq, err)
		}
	}

	for i, msg := range r.CleanupFaults {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cleanup_faults (run_id, ordinal, message)
			VALUES (?, ?, ?)
		`, r.RunID, i, msg)
		if err != nil {
			return fmt.Errorf("write cleanup fault %s/%d: %w", r.RunID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write report %s: commit: %w", r.RunID, err)
	}
	return nil
}

// DeleteRunsBefore removes runs that started before cutoff, with their
// outcomes and cleanup faults. Returns the number of runs removed.
func (s *Store) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("delete runs: %w", err)
	}
	return res.RowsAffected()
}
