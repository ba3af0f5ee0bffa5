package spectest

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mspec/pkg/spec"
)

type account struct {
	balance int
	locked  bool
}

func (a *account) deposit(n int) error {
	if a.locked {
		return fmt.Errorf("account locked")
	}
	if n <= 0 {
		return fmt.Errorf("deposit must be positive, got %d", n)
	}
	a.balance += n
	return nil
}

type accountSpecs struct{ spec.Base }

func (accountSpecs) Subject() spec.Subject { return spec.SubjectOf[account]("deposits") }

type whenDepositing struct {
	accountSpecs
	acct   *account
	err    error
	closed int

	context                     spec.Establish
	of                          spec.Because
	cleanup                     spec.Cleanup
	should_increase_the_balance spec.It
	should_not_fail             spec.It
	should_be_audited           spec.It
}

func newWhenDepositing() *whenDepositing {
	s := &whenDepositing{}
	s.context = func() { s.acct = &account{balance: 10} }
	s.of = func() { s.err = s.acct.deposit(5) }
	s.cleanup = func() { s.closed++ }
	s.should_increase_the_balance = func() { require.Equal(spec.T, 15, s.acct.balance) }
	s.should_not_fail = func() { require.NoError(spec.T, s.err) }
	return s
}

type twoActions struct {
	spec.Base
	first  spec.Because
	second spec.Because
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
