package report

import (
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/roach88/mspec/pkg/spec"
)

// Recorder accumulates outcomes for one fixture.
type Recorder struct {
	mu      sync.Mutex
	fixture *spec.Fixture
	clock   Clock
	report  Report
}

// NewRecorder starts a report for f. A nil clock uses NewClock.
func NewRecorder(f *spec.Fixture, runID string, clock Clock, startedAt time.Time) *Recorder {
	if clock == nil {
		clock = NewClock()
	}
	return &Recorder{
		fixture: f,
		clock:   clock,
		report: Report{
			RunID:     runID,
			Spec:      f.Descriptor().Type.String(),
			Category:  f.Category(),
			StartedAt: startedAt.UTC(),
			Outcomes:  []Outcome{},
		},
	}
}

// Record classifies the result of invoking tc and appends it.
func (r *Recorder) Record(tc spec.TestCase, err error) Outcome {
	o := Outcome{Name: tc.Name, Member: tc.Member.QualifiedName()}
	switch {
	case err == nil:
		o.Status = StatusPassed
	case errors.Is(err, spec.ErrPending):
		o.Status = StatusPending
	default:
		o.Status = StatusFailed
		o.Message = err.Error()
	}
	return r.add(o)
}

// Filter appends tc as filtered out by configuration.
func (r *Recorder) Filter(tc spec.TestCase) Outcome {
	return r.add(Outcome{
		Name:   tc.Name,
		Member: tc.Member.QualifiedName(),
		Status: StatusFiltered,
	})
}

func (r *Recorder) add(o Outcome) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.Seq = r.clock.Next()
	r.report.Outcomes = append(r.report.Outcomes, o)
	return o
}

// Report returns a copy of the report so far, with the fixture's captured
// fault and cleanup faults. Call it after Teardown to include cleanup.
func (r *Recorder) Report() *Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep := r.report
	rep.Outcomes = append([]Outcome{}, r.report.Outcomes...)
	if err := r.fixture.Fault(); err != nil {
		rep.Fault = DescribeFault(err)
	}
	if faults := r.fixture.CleanupFaults(); len(faults) > 0 {
		rep.CleanupFaults = lo.Map(faults, func(err error, _ int) string {
			return DescribeFault(err)
		})
	}
	return &rep
}

// DescribeFault renders err as "phase member: message" when it is a
// spec.Fault, and as its message otherwise.
func DescribeFault(err error) string {
	var f *spec.Fault
	if errors.As(err, &f) {
		return fmt.Sprintf("%s %s: %s", f.Phase, f.Member, f.Error())
	}
	return err.Error()
}
