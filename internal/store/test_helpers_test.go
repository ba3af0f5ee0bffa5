package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/mspec/internal/report"
)

// createTestStore creates a new on-disk store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// createTestReport creates a report with one outcome of each status.
func createTestReport(runID string, startedAt time.Time) *report.Report {
	return &report.Report{
		RunID:     runID,
		Spec:      "accounts.whenDepositing",
		Category:  "Account, deposits",
		StartedAt: startedAt,
		Outcomes: []report.Outcome{
			{Seq: 1, Name: "should increase the balance", Member: "whenDepositing.should_increase_the_balance", Status: report.StatusPassed},
			{Seq: 2, Name: "should reject overdrafts", Member: "whenDepositing.should_reject_overdrafts", Status: report.StatusFailed, Message: "balance went negative"},
			{Seq: 3, Name: "should be audited", Member: "whenDepositing.should_be_audited", Status: report.StatusPending},
			{Seq: 4, Name: "should notify", Member: "whenDepositing.should_notify", Status: report.StatusFiltered},
		},
	}
}

// createPassingReport creates a report whose only case passed.
func createPassingReport(runID, spec string, startedAt time.Time) *report.Report {
	return &report.Report{
		RunID:     runID,
		Spec:      spec,
		StartedAt: startedAt,
		Outcomes: []report.Outcome{
			{Seq: 1, Name: "should pass", Member: "x.should_pass", Status: report.StatusPassed},
		},
	}
}
