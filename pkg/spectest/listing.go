package spectest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mspec/pkg/spec"
)

// Listing renders the test cases s would produce, one per line in run
// order, without running anything.
func Listing(s spec.Specification) (string, error) {
	_, cases, err := spec.Enumerate(s)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, tc := range cases {
		fmt.Fprintf(&b, "%s (%s)\n", tc.String(), tc.Member.QualifiedName())
	}
	return b.String(), nil
}

// AssertListing compares the listing of s against
// testdata/golden/{name}.golden. Run with -update to regenerate.
func AssertListing(t *testing.T, name string, s spec.Specification) {
	t.Helper()

	listing, err := Listing(s)
	if err != nil {
		t.Fatalf("listing %s: %s", name, describeHostError(err))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(listing))
}
