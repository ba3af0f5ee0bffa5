package report

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden renders r in format and compares it with
// testdata/golden/{name}.golden relative to the calling test's package.
//
// To regenerate golden files, run the test with -update.
func AssertGolden(t *testing.T, name string, r *Report, format Format) {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(&buf, r, format); err != nil {
		t.Fatalf("rendering report %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
