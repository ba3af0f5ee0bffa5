package spectest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/roach88/mspec/internal/config"
	"github.com/roach88/mspec/internal/report"
	"github.com/roach88/mspec/internal/store"
	"github.com/roach88/mspec/pkg/spec"
)

// testingT is the part of *testing.T a host needs.
type testingT interface {
	Helper()
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
	Skipf(format string, args ...any)
	Cleanup(func())
}

// host drives one fixture and records its report.
type host struct {
	cfg        config.Config
	logger     *slog.Logger
	fixture    *spec.Fixture
	cases      []spec.TestCase
	rec        *report.Recorder
	store      ReportStore
	closeStore func() error
	onReport   []func(*report.Report)
	finished   bool
}

func newHost(s spec.Specification, opts ...Option) (*host, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var cfg config.Config
	if o.cfg != nil {
		cfg = *o.cfg
	} else {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := o.logger
	if logger == nil {
		logger = cfg.Logger(os.Stderr)
	}

	f, cases, err := spec.Enumerate(s, spec.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	runIDs := o.runIDs
	if runIDs == nil {
		runIDs = report.UUIDv7Generator{}
	}
	now := o.now
	if now == nil {
		now = time.Now
	}
	runID := runIDs.Generate()

	h := &host{
		cfg:      cfg,
		logger:   logger.With("run", runID),
		fixture:  f,
		cases:    cases,
		rec:      report.NewRecorder(f, runID, o.clock, now()),
		store:    o.store,
		onReport: o.onReport,
	}
	if h.store == nil && cfg.Store != "" {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("opening run history %s: %w", cfg.Store, err)
		}
		h.store = st
		h.closeStore = st.Close
	}
	return h, nil
}

func (h *host) setup() {
	h.logger.Debug("establishing context", "cases", len(h.cases))
	h.fixture.Setup()
	if err := h.fixture.Fault(); err != nil {
		h.logger.Debug("context captured a fault", "error", err)
	}
}

// allowed reports whether tc passes the category filters, recording it as
// filtered when it does not.
func (h *host) allowed(tc spec.TestCase) bool {
	if h.cfg.Allows(tc.Category) {
		return true
	}
	h.rec.Filter(tc)
	h.logger.Debug("case filtered", "case", tc.Name, "category", tc.Category)
	return false
}

func (h *host) invoke(t testingT, tc spec.TestCase) {
	t.Helper()

	err := tc.Invoke()
	h.rec.Record(tc, err)
	switch {
	case err == nil:
	case errors.Is(err, spec.ErrPending):
		t.Skipf("pending: %s", tc.Name)
	default:
		if h.cfg.Verbose {
			t.Logf("%+v", err)
		}
		t.Fatalf("%s", err)
	}
}

// finish tears the fixture down once and hands the report to the store and
// hooks.
func (h *host) finish(t testingT) {
	if h.finished {
		return
	}
	h.finished = true

	h.fixture.Teardown()
	for _, err := range h.fixture.CleanupFaults() {
		t.Logf("cleanup fault: %s", report.DescribeFault(err))
	}

	rep := h.rec.Report()
	if h.store != nil {
		if err := h.store.WriteReport(context.Background(), rep); err != nil {
			h.logger.Error("recording run failed", "error", err)
			t.Logf("recording run %s failed: %v", rep.RunID, err)
		}
	}
	if h.closeStore != nil {
		if err := h.closeStore(); err != nil {
			h.logger.Warn("closing run history failed", "error", err)
		}
	}
	for _, fn := range h.onReport {
		fn(rep)
	}
}

// describeHostError renders a host construction error with any hints
// attached to it.
func describeHostError(err error) string {
	msg := err.Error()
	if hints := errors.FlattenHints(err); hints != "" {
		msg += "\nhint: " + hints
	}
	return msg
}
