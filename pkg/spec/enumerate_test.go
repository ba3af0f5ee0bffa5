package spec

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uncategorized struct {
	Base
	should_pass It
}

type overridingSubject struct {
	sampleSpecs
	should_pass It
}

func (overridingSubject) Subject() Subject { return NewSubject("Overrides") }

type inheritingSubject struct {
	sampleSpecs
	should_pass It
}

func TestEnumerate_OneCasePerAssertionInOrder(t *testing.T) {
	f, cases, err := Enumerate(newWhenLayered(&recorder{}), WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, Fresh, f.State())

	names := lo.Map(cases, func(tc TestCase, _ int) string { return tc.Name })
	assert.Equal(t, []string{"base one", "middle one", "middle two", "leaf one"}, names)
	for _, tc := range cases {
		assert.Empty(t, tc.Category)
		assert.Equal(t, Assertion, tc.Member.Role)
	}
}

func TestEnumerate_Category(t *testing.T) {
	tests := []struct {
		name string
		spec Specification
		want string
	}{
		{"no subject", &uncategorized{}, ""},
		{"declared on ancestor", &inheritingSubject{}, "sampleSpecs, Test Syntax"},
		{"overridden by derived", &overridingSubject{}, "Overrides"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cases, err := Enumerate(tt.spec)
			require.NoError(t, err)
			require.Len(t, cases, 1)
			assert.Equal(t, tt.want, cases[0].Category)
		})
	}
}

func TestEnumerate_ConfigError(t *testing.T) {
	f, cases, err := Enumerate(&duplicateDerived{})
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Nil(t, f)
	assert.Nil(t, cases)
}

func TestEnumerate_CasesAreBoundToTheirInstance(t *testing.T) {
	a := newWithTwoAssertions()
	b := newWithTwoAssertions()
	b.of = func() { panic(errBoom) }

	fa, casesA, err := Enumerate(a, WithLogger(quietLogger()))
	require.NoError(t, err)
	fb, casesB, err := Enumerate(b, WithLogger(quietLogger()))
	require.NoError(t, err)

	fa.Setup()
	fb.Setup()

	assert.NoError(t, casesA[0].Invoke())
	assert.ErrorIs(t, casesB[0].Invoke(), errBoom)
}

func TestTestCase_String(t *testing.T) {
	_, cases, err := Enumerate(newWhenRunningInOldStyle())
	require.NoError(t, err)
	assert.Equal(t, "[sampleSpecs, Test Syntax] should work like a charm", cases[0].String())

	_, cases, err = Enumerate(&uncategorized{})
	require.NoError(t, err)
	assert.Equal(t, "should pass", cases[0].String())
}
