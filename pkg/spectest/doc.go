// Package spectest runs specifications under go test.
//
// A specification is any struct built on spec.Base (see package spec). Run
// drives one instance inside a test function, reporting each assertion as a
// subtest:
//
//	func TestWhenDepositing(t *testing.T) {
//		spectest.Run(t, newWhenDepositing())
//	}
//
// Suite does the same for code organized around testify suites:
//
//	func TestWhenDepositing(t *testing.T) {
//		suite.Run(t, &spectest.Suite{Spec: newWhenDepositing()})
//	}
//
// Both hosts load configuration with config.Load unless WithConfig is given:
// MSPEC_INCLUDE and MSPEC_EXCLUDE filter cases by category, MSPEC_VERBOSE
// logs fault stacks and MSPEC_STORE records every run in a history database
// that the mspec command can list and show.
//
// Outcomes map onto go test as follows:
//
//	passed    subtest passes
//	failed    subtest fails with the fault message
//	pending   subtest is skipped (It field left nil)
//	filtered  no subtest; recorded in the run report only
package spectest
