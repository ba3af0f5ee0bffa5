package spec

import "github.com/cockroachdb/errors"

// Asserter adapts testify-style assertion libraries to zero-argument members.
// It satisfies assert.TestingT and require.TestingT; a failed assertion panics
// and the Fixture turns the panic into a Fault.
//
//	should_have_the_new_balance = func() {
//		require.Equal(spec.T, 150, account.Balance())
//	}
type Asserter struct{}

// T is the Asserter to pass where a testing.T would go.
var T Asserter

// Errorf fails the running member with the formatted message.
func (Asserter) Errorf(format string, args ...any) {
	panic(errors.NewWithDepthf(1, format, args...))
}

// FailNow fails the running member.
func (Asserter) FailNow() {
	panic(errors.NewWithDepth(1, "assertion failed"))
}

// Helper is a no-op; it lets testify mark helper frames.
func (Asserter) Helper() {}

// Must fails the running member when err is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
