package spec

import (
	"fmt"
	"log/slog"
	"reflect"
)

// State is the lifecycle position of a Fixture.
type State int

const (
	Fresh State = iota
	SetupRun
	ActionRun
	AssertionsRunnable
	CleanedUp
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case SetupRun:
		return "setup-run"
	case ActionRun:
		return "action-run"
	case AssertionsRunnable:
		return "assertions-runnable"
	case CleanedUp:
		return "cleaned-up"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Fixture.
type Option func(*Fixture)

// WithLogger sets the logger that receives lifecycle events and cleanup
// faults. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fixture) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Fixture drives one specification instance through its lifecycle:
//
//	Fresh -> SetupRun -> ActionRun -> AssertionsRunnable -> CleanedUp
//
// A host calls Setup once, invokes the test cases in any order and any number
// of times, then calls Teardown once. A fault raised by a Setup or Action
// member is captured instead of propagated and handed to every test case.
//
// A Fixture is not safe for concurrent use; distinct fixtures are independent.
type Fixture struct {
	spec     Specification
	desc     *Descriptor
	value    reflect.Value
	category string
	logger   *slog.Logger

	state         State
	fault         error
	cleanupFaults []error
}

// NewFixture describes s and returns a Fixture in the Fresh state. s must be a
// non-nil pointer to a specification struct. Configuration errors are returned
// here; nothing of s runs yet.
func NewFixture(s Specification, opts ...Option) (*Fixture, error) {
	if s == nil {
		return nil, newConfigError(&ConfigError{
			Code:    ErrCodeNotSpecification,
			Message: "nil specification",
		})
	}
	rv := reflect.ValueOf(s)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, newConfigError(&ConfigError{
			Code:    ErrCodeNotSpecification,
			Type:    rv.Type(),
			Message: "specification must be a non-nil pointer to a struct",
		})
	}

	desc, err := Describe(rv.Type())
	if err != nil {
		return nil, err
	}

	f := &Fixture{
		spec:     s,
		desc:     desc,
		value:    rv.Elem(),
		category: CategoryOf(s),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("spec", desc.Type.String())
	return f, nil
}

// Setup runs the Setup members most-base first, stopping at the first fault,
// and then the most-derived Action member. The Action runs even when a Setup
// member failed; its own fault replaces the captured one. Setup never fails:
// faults surface through the test cases. Calling Setup again is a no-op.
func (f *Fixture) Setup() {
	if f.state != Fresh {
		return
	}

	for _, m := range f.desc.Setups {
		if err := f.run(PhaseSetup, m); err != nil {
			f.fault = err
			break
		}
	}
	f.state = SetupRun

	if f.desc.Action != nil {
		if err := f.run(PhaseAction, *f.desc.Action); err != nil {
			f.fault = err
		}
	}
	f.state = ActionRun

	f.state = AssertionsRunnable
}

// Teardown runs the Cleanup members, most-derived first, exactly once over the
// life of the Fixture, whatever happened before. Cleanup faults are logged and
// kept in CleanupFaults; they never propagate.
func (f *Fixture) Teardown() {
	if f.state == CleanedUp {
		return
	}
	f.state = CleanedUp

	for i := len(f.desc.Cleanups) - 1; i >= 0; i-- {
		m := f.desc.Cleanups[i]
		if err := f.run(PhaseCleanup, m); err != nil {
			f.cleanupFaults = append(f.cleanupFaults, err)
			f.logger.Error("cleanup failed",
				"member", m.QualifiedName(),
				"error", err,
				"detail", fmt.Sprintf("%+v", err),
			)
		}
	}
}

// assert performs one assertion against the fixture's captured fault.
func (f *Fixture) assert(m Member) error {
	switch f.state {
	case Fresh:
		return ErrNotEstablished
	case CleanedUp:
		return ErrTornDown
	}
	if f.fault != nil {
		return f.fault
	}
	if m.bind(f.value) == nil {
		return ErrPending
	}
	return f.run(PhaseAssertion, m)
}

// run invokes a member, skipping it when its field is nil.
func (f *Fixture) run(phase Phase, m Member) error {
	fn := m.bind(f.value)
	if fn == nil {
		return nil
	}
	f.logger.Debug("running member", "phase", phase, "member", m.QualifiedName())
	err := capture(phase, m.QualifiedName(), fn)
	if err != nil && phase != PhaseCleanup {
		f.logger.Debug("member failed", "phase", phase, "member", m.QualifiedName(), "error", err)
	}
	return err
}

// Specification returns the driven instance.
func (f *Fixture) Specification() Specification { return f.spec }

// Descriptor returns the discovered shape of the instance's type.
func (f *Fixture) Descriptor() *Descriptor { return f.desc }

// Category returns the subject label, or "" when none is declared.
func (f *Fixture) Category() string { return f.category }

// State returns the current lifecycle state.
func (f *Fixture) State() State { return f.state }

// Fault returns the captured Setup or Action fault, or nil.
func (f *Fixture) Fault() error { return f.fault }

// CleanupFaults returns the faults raised by Cleanup members during Teardown.
func (f *Fixture) CleanupFaults() []error { return f.cleanupFaults }
