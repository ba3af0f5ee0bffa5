package spectest

import (
	"testing"

	"github.com/roach88/mspec/pkg/spec"
)

// Run sets up s, runs each of its assertions as a subtest of t and tears it
// down when t completes. A specification that is declared wrongly fails t
// before anything runs.
func Run(t *testing.T, s spec.Specification, opts ...Option) {
	t.Helper()
	run(t, func(name string, fn func(testingT)) {
		t.Run(name, func(t *testing.T) { fn(t) })
	}, s, opts...)
}

func run(t testingT, subtest func(string, func(testingT)), s spec.Specification, opts ...Option) {
	t.Helper()

	h, err := newHost(s, opts...)
	if err != nil {
		t.Fatalf("%s", describeHostError(err))
		return
	}

	// Before setup: a body may exit the goroutine through the outer t.FailNow.
	t.Cleanup(func() { h.finish(t) })
	h.setup()

	for _, tc := range h.cases {
		if !h.allowed(tc) {
			continue
		}
		subtest(tc.Name, func(st testingT) { h.invoke(st, tc) })
	}
}
