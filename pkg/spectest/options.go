package spectest

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/mspec/internal/config"
	"github.com/roach88/mspec/internal/report"
)

// Config is the host configuration; see Load in the config package for the
// environment variables that populate it.
type Config = config.Config

// Report is the record of one run, delivered to report hooks and stores.
type Report = report.Report

// ReportStore persists finished run reports. *store.Store satisfies it.
type ReportStore interface {
	WriteReport(ctx context.Context, r *report.Report) error
}

// Option configures a host.
type Option func(*options)

type options struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    ReportStore
	runIDs   report.RunIDGenerator
	clock    report.Clock
	now      func() time.Time
	onReport []func(*report.Report)
}

// WithConfig uses cfg instead of loading configuration from the environment.
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = &cfg }
}

// WithLogger sets the logger passed to the fixture. By default the host
// builds one from the configuration, writing to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStore records the run report in s instead of the database named by
// the configuration's Store path.
func WithStore(s ReportStore) Option {
	return func(o *options) { o.store = s }
}

// WithRunIDGenerator overrides the UUIDv7 run ID generator.
func WithRunIDGenerator(g report.RunIDGenerator) Option {
	return func(o *options) { o.runIDs = g }
}

// WithClock overrides the clock that stamps outcome seq numbers.
func WithClock(c report.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithNow overrides the wall clock used for the run's start time.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithReportHook registers fn to receive the run report after teardown.
func WithReportHook(fn func(*report.Report)) Option {
	return func(o *options) { o.onReport = append(o.onReport, fn) }
}
