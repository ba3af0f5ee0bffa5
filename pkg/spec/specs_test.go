package spec

import (
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// Specifications shared by the package tests.

type sampleSpecs struct{ Base }

func (sampleSpecs) Subject() Subject { return SubjectOf[sampleSpecs]("Test Syntax") }

type whenRunningInOldStyle struct {
	sampleSpecs
	value string

	context                  Establish
	of                       Because
	should_work_like_a_charm It
}

func newWhenRunningInOldStyle() *whenRunningInOldStyle {
	s := &whenRunningInOldStyle{}
	s.context = func() { s.value = "" }
	s.of = func() { s.value = "Test" }
	s.should_work_like_a_charm = func() { require.Equal(T, "Test", s.value) }
	return s
}

var errBoom = errors.New("boom")

// recorder collects the order in which members run.
type recorder struct {
	calls []string
}

func (r *recorder) step(name string) func() {
	return func() { r.calls = append(r.calls, name) }
}

func (r *recorder) fail(name string, err error) func() {
	return func() {
		r.calls = append(r.calls, name)
		panic(err)
	}
}

// Three-level chain: baseContext <- middleContext <- whenLayered.

type baseContext struct {
	Base
	rec *recorder

	s1       Establish
	c1       Cleanup
	base_one It
}

type middleContext struct {
	baseContext

	s2         Establish
	ignored    Because
	c2         Cleanup
	middle_one It
	middle_two It
}

type whenLayered struct {
	middleContext

	s3       Establish
	act      Because
	c3       Cleanup
	leaf_one It
}

func newWhenLayered(rec *recorder) *whenLayered {
	s := &whenLayered{}
	s.rec = rec
	s.s1 = rec.step("s1")
	s.s2 = rec.step("s2")
	s.s3 = rec.step("s3")
	s.ignored = rec.step("ignored")
	s.act = rec.step("act")
	s.c1 = rec.step("c1")
	s.c2 = rec.step("c2")
	s.c3 = rec.step("c3")
	s.base_one = rec.step("base_one")
	s.middle_one = rec.step("middle_one")
	s.middle_two = rec.step("middle_two")
	s.leaf_one = rec.step("leaf_one")
	return s
}

// Two assertions and a counter in cleanup.

type withTwoAssertions struct {
	Base
	cleanups int
	value    int

	context     Establish
	of          Because
	cleanup     Cleanup
	should_be_1 It
	should_be_2 It
}

func newWithTwoAssertions() *withTwoAssertions {
	s := &withTwoAssertions{}
	s.context = func() {}
	s.of = func() { s.value = 1 }
	s.cleanup = func() { s.cleanups++ }
	s.should_be_1 = func() { require.Equal(T, 1, s.value) }
	s.should_be_2 = func() { require.Equal(T, 2, s.value) }
	return s
}

// Broken shapes.

type notASpec struct {
	of Because
}

func (notASpec) specificationRoot() {}

type twoActions struct {
	Base
	first  Because
	second Because
}

type pointerBase struct {
	*Base
	should It
}

type otherRoot struct{ Base }

type twoAncestors struct {
	sampleSpecs
	otherRoot
}

type duplicateBase struct {
	Base
	should_work It
}

type duplicateDerived struct {
	duplicateBase
	ShouldWork It
}

type pendingSpec struct {
	Base
	should_be_written_later It
}
