package core

import (
	"fmt"

	"github.com/toejough/impmock/match"
	"go.uber.org/zap"
)

// Verification builds assertions over the recorded calls to one operation.
type Verification struct {
	mock       *Mock
	id         OperationID
	predicates []match.AnyPredicate
}

// Verify starts a verification of calls to id whose parameters satisfy predicates.
func Verify(m *Mock, id OperationID, predicates ...match.AnyPredicate) *Verification {
	return m.Verify(id, predicates...)
}

// Called checks the number of matching calls against times. Every matched call is marked
// verified whether or not the check passes.
func (v *Verification) Called(times match.Predicate[int]) *Assertion {
	calls := v.mock.calls.Recorded(v.id, v.predicates)

	return v.conclude(times, calls, nil, CallerLocation(1))
}

// CalledAfter checks the number of matching calls made after prior, where "after" is
// FirstValidTime(prior). A nil prior behaves like Called.
func (v *Verification) CalledAfter(prior *Assertion, times match.Predicate[int]) *Assertion {
	return v.calledAfter(prior, times, CallerLocation(1))
}

// NeverCalled checks that no matching call was made.
func (v *Verification) NeverCalled() *Assertion {
	calls := v.mock.calls.Recorded(v.id, v.predicates)

	return v.conclude(match.Never(), calls, nil, CallerLocation(1))
}

// NeverCalledAfter checks that no matching call was made after prior. If prior itself failed,
// its message is reported again, unchanged, and nothing else is evaluated.
func (v *Verification) NeverCalledAfter(prior *Assertion) *Assertion {
	loc := CallerLocation(1)

	if prior != nil && !prior.Passed() {
		v.mock.failures.RecordFailure(prior.Failure, loc)

		return &Assertion{
			Times:      match.Never(),
			Operation:  v.id,
			Predicates: v.predicates,
			Previous:   prior,
			Failure:    prior.Failure,
		}
	}

	return v.calledAfter(prior, match.Never(), loc)
}

func (v *Verification) calledAfter(prior *Assertion, times match.Predicate[int], loc Location) *Assertion {
	cutoff := FirstValidTime(prior)
	calls := v.mock.calls.Recorded(v.id, v.predicates)

	after := make([]Call, 0, len(calls))

	for _, call := range calls {
		if call.Time > cutoff {
			after = append(after, call)
		}
	}

	v.mock.logger.Debug("ordered verification",
		zap.String("operation", v.id.String()),
		zap.Int64("cutoff", cutoff),
		zap.Int("matched", len(calls)),
		zap.Int("after", len(after)))

	return v.conclude(times, after, prior, loc)
}

func (v *Verification) conclude(times match.Predicate[int], calls []Call, prior *Assertion, loc Location) *Assertion {
	for _, call := range calls {
		v.mock.calls.MarkVerified(call.ID)
	}

	assertion := &Assertion{
		Times:      times,
		Operation:  v.id,
		Predicates: v.predicates,
		Matched:    calls,
		Previous:   prior,
	}

	if !times.Test(len(calls)) {
		assertion.Failure = failureMessage(assertion, len(calls))
		v.mock.failures.RecordFailure(assertion.Failure, loc)
	}

	return assertion
}

// failureMessage renders an expected-vs-actual report for a failed step.
func failureMessage(assertion *Assertion, observed int) string {
	message := fmt.Sprintf("%v: %s\n  expected: called %s\n  actual:   called %d times",
		ErrAssertionFailure,
		assertion.Operation.ExpectationDescription(assertion.Predicates),
		assertion.Times.Description(),
		observed)

	if assertion.Previous != nil {
		message += fmt.Sprintf("\n  after:    %s (first valid time %d)",
			assertion.Previous.Description(), FirstValidTime(assertion.Previous))
	}

	return message
}
