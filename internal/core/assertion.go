package core

import (
	"cmp"
	"slices"

	"github.com/toejough/impmock/match"
)

// Assertion is an immutable record of one verification step. Previous links to the step it
// was ordered after, forming a singly-linked chain back through verification history.
type Assertion struct {
	Times      match.Predicate[int]
	Operation  OperationID
	Predicates []match.AnyPredicate
	Matched    []Call
	Previous   *Assertion
	// Failure is the message recorded for this step, empty when it passed.
	Failure string
}

// Description renders the expectation, e.g. `Add(a: equal to 1, b: any) -> int called
// exactly 2 times`, including the chain it was ordered after.
func (a *Assertion) Description() string {
	description := a.Operation.ExpectationDescription(a.Predicates) + " called " + a.Times.Description()
	if a.Previous != nil {
		description += " after " + a.Previous.Description()
	}

	return description
}

// Passed reports whether the step's constraint held.
func (a *Assertion) Passed() bool {
	return a.Failure == ""
}

// FirstValidTime is the logical time after which calls count as "after" the assertion.
//
// The matched calls are taken oldest first and removed one by one until the number removed
// satisfies the assertion's own times predicate; the time of the last call removed is the
// cutoff. So "X called exactly 2 times" over calls at [1, 2, 5] gives 2. An assertion with no
// matched calls, or one satisfied before anything is removed, inherits the cutoff of the step
// it was ordered after; the root cutoff is 0. If no prefix satisfies the predicate, every call
// is removed.
func FirstValidTime(a *Assertion) int64 {
	if a == nil {
		return 0
	}

	if len(a.Matched) == 0 || a.Times.Test(0) {
		return FirstValidTime(a.Previous)
	}

	sorted := slices.SortedFunc(slices.Values(a.Matched), func(left, right Call) int {
		return cmp.Compare(left.Time, right.Time)
	})

	for removed := 1; removed <= len(sorted); removed++ {
		if a.Times.Test(removed) {
			return sorted[removed-1].Time
		}
	}

	return sorted[len(sorted)-1].Time
}
