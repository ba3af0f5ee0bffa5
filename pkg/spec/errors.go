package spec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
)

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeNotSpecification indicates the type does not embed Base.
	ErrCodeNotSpecification ConfigErrorCode = "NOT_A_SPECIFICATION"

	// ErrCodeAmbiguousChain indicates one level embeds two specification ancestors.
	ErrCodeAmbiguousChain ConfigErrorCode = "AMBIGUOUS_CHAIN"

	// ErrCodeUnsupportedEmbedding indicates an ancestor embedded by pointer or as an interface.
	ErrCodeUnsupportedEmbedding ConfigErrorCode = "UNSUPPORTED_EMBEDDING"

	// ErrCodeAmbiguousRole indicates one level declares two Setup, Action or Cleanup members.
	ErrCodeAmbiguousRole ConfigErrorCode = "AMBIGUOUS_ROLE"

	// ErrCodeDuplicateAssertion indicates two assertions share a display name.
	ErrCodeDuplicateAssertion ConfigErrorCode = "DUPLICATE_ASSERTION"
)

// ConfigError reports a specification type that cannot be driven.
// It is raised by Describe, before any lifecycle member runs.
type ConfigError struct {
	// Code identifies the error category.
	Code ConfigErrorCode

	// Type is the concrete specification type being described.
	Type reflect.Type

	// Level is the struct in the chain where the problem was found.
	// Nil when the problem concerns the whole type.
	Level reflect.Type

	// Role is set for AMBIGUOUS_ROLE and DUPLICATE_ASSERTION.
	Role Role

	// Members lists the offending field names.
	Members []string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Code, e.Message)
	if e.Type != nil {
		fmt.Fprintf(&b, " (type=%s", e.Type)
		if e.Level != nil && e.Level != e.Type {
			fmt.Fprintf(&b, ", level=%s", e.Level)
		}
		if e.Role != 0 {
			fmt.Fprintf(&b, ", role=%s", e.Role)
		}
		if len(e.Members) > 0 {
			fmt.Fprintf(&b, ", members=%s", strings.Join(e.Members, ","))
		}
		b.WriteString(")")
	}
	return b.String()
}

// IsConfigError returns true if err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// configHints are shown to the author next to a configuration error.
var configHints = map[ConfigErrorCode]string{
	ErrCodeNotSpecification:     "embed spec.Base (or a struct that embeds it) in the specification struct",
	ErrCodeAmbiguousChain:       "embed exactly one specification ancestor per struct",
	ErrCodeUnsupportedEmbedding: "embed specification ancestors by value, not by pointer",
	ErrCodeAmbiguousRole:        "declare at most one Establish, Because and Cleanup field per struct level",
	ErrCodeDuplicateAssertion:   "rename one of the assertions; display names must be unique per specification",
}

func newConfigError(e *ConfigError) error {
	err := errors.WithStack(e)
	if hint, ok := configHints[e.Code]; ok {
		err = errors.WithHint(err, hint)
	}
	return err
}

// Phase identifies where a fault was captured.
type Phase string

const (
	PhaseSetup     Phase = "setup"
	PhaseAction    Phase = "action"
	PhaseAssertion Phase = "assertion"
	PhaseCleanup   Phase = "cleanup"
)

// Fault is a failure raised by a specification member: a panic, a failed
// T assertion or a Must on a non-nil error. Error returns the cause's message
// unchanged so a replayed setup fault reads the same in every assertion.
type Fault struct {
	Phase  Phase
	Member string
	cause  error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return f.cause.Error()
}

// Unwrap returns the cause.
func (f *Fault) Unwrap() error {
	return f.cause
}

// Format prints the cause with its stack for %+v.
func (f *Fault) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s %s: %+v", f.Phase, f.Member, f.cause)
		return
	}
	fmt.Fprint(s, f.Error())
}

// IsFault returns true if err is, or wraps, a Fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

var (
	// ErrPending is returned by a test case whose It field was left nil.
	ErrPending = errors.New("assertion is not implemented")

	// ErrNotEstablished is returned by a test case invoked before Setup.
	ErrNotEstablished = errors.New("fixture has not been set up")

	// ErrTornDown is returned by a test case invoked after Teardown.
	ErrTornDown = errors.New("fixture has been torn down")
)

// capture runs fn and turns a panic into a Fault. runtime.Goexit is not
// intercepted.
func capture(phase Phase, member string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Fault{Phase: phase, Member: member, cause: causeOf(r)}
		}
	}()
	fn()
	return nil
}

// causeOf converts a recovered value into an error carrying the stack of the
// panic site. It is called from the deferred recover, before unwinding.
func causeOf(r any) error {
	if err, ok := r.(error); ok {
		return errors.WithStackDepth(err, 3)
	}
	return errors.NewWithDepthf(3, "%v", r)
}
