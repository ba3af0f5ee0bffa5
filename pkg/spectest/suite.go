package spectest

import (
	"github.com/stretchr/testify/suite"

	"github.com/roach88/mspec/pkg/spec"
)

// Suite hosts a specification as a testify suite. Set Spec (and optionally
// Options) and pass the Suite to suite.Run; embedding it in a larger suite
// works too, as long as the embedding suite calls through to SetupSuite and
// TearDownSuite if it defines its own.
type Suite struct {
	suite.Suite

	Spec    spec.Specification
	Options []Option

	host *host
}

// SetupSuite builds the fixture and runs its Setup and Action members.
func (s *Suite) SetupSuite() {
	h, err := newHost(s.Spec, s.Options...)
	if err != nil {
		s.T().Fatalf("%s", describeHostError(err))
		return
	}
	s.host = h
	h.setup()
}

// TearDownSuite runs the Cleanup members and records the report.
func (s *Suite) TearDownSuite() {
	if s.host != nil {
		s.host.finish(s.T())
	}
}

// TestObservations runs each allowed assertion as a subtest.
func (s *Suite) TestObservations() {
	for _, tc := range s.host.cases {
		if !s.host.allowed(tc) {
			continue
		}
		s.Run(tc.Name, func() { s.host.invoke(s.T(), tc) })
	}
}
