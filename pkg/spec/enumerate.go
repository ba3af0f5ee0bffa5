package spec

import "github.com/samber/lo"

// TestCase is one assertion of a specification instance, ready to be
// registered with a host as an independently reported test.
type TestCase struct {
	// Name is the assertion's display name, unique within its specification.
	Name string

	// Category is the specification's subject label, or "".
	Category string

	// Member is the assertion member the case invokes.
	Member Member

	fixture *Fixture
}

// Invoke runs the assertion. When Setup or Action captured a fault, that same
// fault is returned and the assertion body does not run. Otherwise the
// assertion's own fault, if any, is returned. A nil It field yields ErrPending.
func (tc TestCase) Invoke() error {
	return tc.fixture.assert(tc.Member)
}

// String returns the name, prefixed by the category when there is one.
func (tc TestCase) String() string {
	if tc.Category == "" {
		return tc.Name
	}
	return "[" + tc.Category + "] " + tc.Name
}

// TestCases returns one test case per assertion, most-base level first and in
// declaration order within a level.
func (f *Fixture) TestCases() []TestCase {
	return lo.Map(f.desc.Assertions, func(m Member, _ int) TestCase {
		return TestCase{
			Name:     m.DisplayName,
			Category: f.category,
			Member:   m,
			fixture:  f,
		}
	})
}

// Enumerate builds a Fixture for s and lists its test cases. The fixture is
// returned Fresh; the host still owns Setup and Teardown.
func Enumerate(s Specification, opts ...Option) (*Fixture, []TestCase, error) {
	f, err := NewFixture(s, opts...)
	if err != nil {
		return nil, nil, err
	}
	return f, f.TestCases(), nil
}
