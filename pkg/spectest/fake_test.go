package spectest

import "fmt"

// fakeT records what a host asks of its testing.T so failing outcomes can
// be checked without failing the enclosing test.
type fakeT struct {
	name     string
	logs     []string
	fatal    string
	skip     string
	cleanups []func()
	subtests []*fakeT
}

func (f *fakeT) Helper() {}

func (f *fakeT) Logf(format string, args ...any) {
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
}

func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatal = fmt.Sprintf(format, args...)
}

func (f *fakeT) Skipf(format string, args ...any) {
	f.skip = fmt.Sprintf(format, args...)
}

func (f *fakeT) Cleanup(fn func()) {
	f.cleanups = append(f.cleanups, fn)
}

func (f *fakeT) subtest(name string, fn func(testingT)) {
	child := &fakeT{name: name}
	f.subtests = append(f.subtests, child)
	fn(child)
}

// done runs registered cleanups last-in first-out, like testing.T.
func (f *fakeT) done() {
	for i := len(f.cleanups) - 1; i >= 0; i-- {
		f.cleanups[i]()
	}
}
