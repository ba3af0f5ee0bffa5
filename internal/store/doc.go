// Package store provides SQLite-backed run history for specification runs.
//
// Each recorded report.Report becomes:
//   - one row in runs, with outcome counts denormalized for listing
//   - one row per test case in outcomes, keyed by (run_id, seq)
//   - one row per cleanup fault in cleanup_faults
//
// Writes are idempotent on run ID: recording the same run twice keeps the
// first copy. Outcomes are always read back ORDER BY seq ASC; runs are listed
// newest first by started_at, then id.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
