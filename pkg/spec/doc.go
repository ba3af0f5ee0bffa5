// Package spec discovers and drives convention-based behavior specifications.
//
// A specification is a struct whose fields are typed with one of four role
// markers. The field name is free; the declared type carries the role:
//
//	Establish  Setup      one per level, run most-base first
//	Because    Action     the most-derived one runs
//	It         Assertion  each one is an independent test case
//	Cleanup    Cleanup    one per level, run at teardown, faults logged
//
// Specifications form chains through struct embedding, rooted at Base:
//
//	type AccountSpecs struct{ spec.Base }
//
//	func (AccountSpecs) Subject() spec.Subject { return spec.SubjectOf[Account]("deposits") }
//
//	type WhenDepositing struct {
//		AccountSpecs
//		account *Account
//
//		context spec.Establish
//		of      spec.Because
//
//		should_increase_the_balance spec.It
//	}
//
//	func newWhenDepositing() *WhenDepositing {
//		s := &WhenDepositing{}
//		s.context = func() { s.account = NewAccount(100) }
//		s.of = func() { s.account.Deposit(50) }
//		s.should_increase_the_balance = func() { require.Equal(spec.T, 150, s.account.Balance()) }
//		return s
//	}
//
// # Discovery
//
// Describe walks the chain of a concrete type once and caches a Descriptor:
// the levels most-base first, one Setup and Cleanup per level, the most-derived
// Action and every assertion. Two members with the same unique role on one
// level, or two assertions with the same display name, are configuration
// errors reported before anything runs.
//
// # Lifecycle
//
// A Fixture owns one instance. Setup runs the Setup members and then the
// Action, recovering any panic into a Fault instead of propagating it. Every
// TestCase then returns that same Fault without running its body, so a broken
// context shows up as N failing assertions rather than as a missing fixture.
// Teardown runs the Cleanup members exactly once and only logs their faults.
//
// Hosts live in package spectest.
package spec
