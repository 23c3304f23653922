package core_test

import (
	"slices"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impmock/internal/core"
	"github.com/toejough/impmock/match"
	"pgregory.net/rapid"
)

func TestFirstValidTime_MinimalSatisfyingPrefix(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	calls := []core.Call{{Time: 5}, {Time: 1}, {Time: 2}}
	assertion := &core.Assertion{Times: match.Times(2), Matched: calls}

	g.Expect(core.FirstValidTime(assertion)).To(Equal(int64(2)))
	g.Expect(core.FirstValidTime(nil)).To(BeZero())

	unsatisfiable := &core.Assertion{Times: match.Times(7), Matched: calls}
	g.Expect(core.FirstValidTime(unsatisfiable)).To(Equal(int64(5)))
}

func TestFirstValidTime_InheritsWhenNothingRemoved(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	root := &core.Assertion{Times: match.Once(), Matched: []core.Call{{Time: 4}}}

	empty := &core.Assertion{Times: match.AtLeast(1), Previous: root}
	g.Expect(core.FirstValidTime(empty)).To(Equal(int64(4)))

	zeroAllowed := &core.Assertion{Times: match.AtMost(3), Matched: []core.Call{{Time: 9}}, Previous: root}
	g.Expect(core.FirstValidTime(zeroAllowed)).To(Equal(int64(4)))
}

func TestFirstValidTime_ExactCountPicksKthCall(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		times := rapid.SliceOfNDistinct(rapid.Int64Range(1, 1000), 1, 20, rapid.ID[int64]).Draw(rt, "times")
		k := rapid.IntRange(1, len(times)).Draw(rt, "k")

		calls := make([]core.Call, len(times))
		for i, at := range times {
			calls[i] = core.Call{Time: at}
		}

		got := core.FirstValidTime(&core.Assertion{Times: match.Times(k), Matched: calls})

		sorted := slices.Sorted(slices.Values(times))
		if got != sorted[k-1] {
			rt.Fatalf("expected %d, got %d", sorted[k-1], got)
		}
	})
}

func TestVerify_OrderedChain(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	login := core.NewOperationID[core.Void]("Login(user:)")
	fetch := core.NewOperationID[string]("Fetch(_:)")
	logout := core.NewOperationID[core.Void]("Logout()")

	core.Mocked[core.Void](mock, login, "ann")
	core.Mocked[string](mock, fetch, "a")
	core.Mocked[string](mock, fetch, "b")
	core.Mocked[core.Void](mock, logout)

	loggedIn := mock.Verify(login, match.Equal("ann")).Called(match.Once())
	fetched := mock.Verify(fetch).CalledAfter(loggedIn, match.Times(2))
	loggedOut := mock.Verify(logout).CalledAfter(fetched, match.Once())
	quiet := mock.Verify(fetch).NeverCalledAfter(loggedOut)

	for _, assertion := range []*core.Assertion{loggedIn, fetched, loggedOut, quiet} {
		g.Expect(assertion.Passed()).To(BeTrue(), assertion.Description())
	}

	g.Expect(core.FirstValidTime(fetched)).To(Equal(int64(3)))
	g.Expect(failures.Messages()).To(BeEmpty())
	g.Expect(mock.AllCallsVerified()).To(BeTrue())
	g.Expect(mock.VerifyNoUnverifiedCalls()).To(BeTrue())
	g.Expect(loggedOut.Description()).To(Equal(
		"Logout() -> Void called exactly 1 times after Fetch(_: any) -> string called exactly 2 times" +
			" after Login(user: equal to \"ann\") -> Void called exactly 1 times"))
}

func TestVerify_CalledAfterFailsOutOfOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	open := core.NewOperationID[core.Void]("Open()")
	closeID := core.NewOperationID[core.Void]("Close()")

	core.Mocked[core.Void](mock, closeID)
	core.Mocked[core.Void](mock, open)

	opened := mock.Verify(open).Called(match.Once())
	closed := mock.Verify(closeID).CalledAfter(opened, match.Once())

	g.Expect(closed.Passed()).To(BeFalse())
	g.Expect(closed.Matched).To(BeEmpty())
	g.Expect(failures.Messages()).To(ConsistOf(And(
		HavePrefix("assertion failure: Close() -> Void"),
		ContainSubstring("expected: called exactly 1 times"),
		ContainSubstring("actual:   called 0 times"),
		ContainSubstring("after:    Open() -> Void called exactly 1 times (first valid time 2)"),
	)))
}

func TestVerify_NeverCalledAfterFailedPriorRepeatsItsMessage(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	ping := core.NewOperationID[core.Void]("Ping()")
	pong := core.NewOperationID[core.Void]("Pong()")

	core.Mocked[core.Void](mock, ping)
	core.Mocked[core.Void](mock, pong)

	prior := mock.Verify(ping).Called(match.Times(3))
	after := mock.Verify(pong).NeverCalledAfter(prior)

	g.Expect(prior.Passed()).To(BeFalse())
	g.Expect(after.Failure).To(Equal(prior.Failure))
	g.Expect(failures.Messages()).To(Equal([]string{prior.Failure, prior.Failure}))
	g.Expect(mock.Calls(pong)).To(HaveLen(1))
	g.Expect(mock.AllCallsVerified()).To(BeFalse(), "pong was never evaluated")
}

func TestVerify_FailuresStillMarkCallsVerified(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	send := core.NewOperationID[bool]("Send(message:)")

	core.Mocked[bool](mock, send, "hi")
	core.Mocked[bool](mock, send, "bye")

	g.Expect(mock.AllCallsVerified()).To(BeFalse())

	assertion := core.Verify(mock, send).Called(match.Once())

	g.Expect(assertion.Passed()).To(BeFalse())
	g.Expect(assertion.Matched).To(HaveLen(2))
	g.Expect(failures.Messages()).To(HaveLen(1))
	g.Expect(mock.AllCallsVerified()).To(BeTrue())
}

func TestVerify_NeverCalled(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	save := core.NewOperationID[core.Void]("Save(_:)")

	core.Mocked[core.Void](mock, save, "draft")

	g.Expect(mock.Verify(save, match.Equal("final")).NeverCalled().Passed()).To(BeTrue())
	g.Expect(mock.Verify(save, match.Equal("draft")).NeverCalled().Passed()).To(BeFalse())
	g.Expect(failures.Messages()).To(ConsistOf(ContainSubstring("expected: called never")))
}

func TestVerifyNoUnverifiedCalls_ListsPending(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock, _, failures := newTestMock()
	add := core.NewOperationID[int]("Add(a:b:)")
	name := core.NewOperationID[string]("Name")

	core.Mocked[int](mock, add, 1, 2)
	core.Mocked[string](mock, name)
	core.Mocked[int](mock, add, 3, 4)

	mock.Verify(add, match.Equal(1)).Called(match.Once())

	g.Expect(mock.VerifyNoUnverifiedCalls()).To(BeFalse())
	g.Expect(failures.Messages()).To(Equal([]string{
		"2 unverified calls:\n  [2] Name() -> string\n  [3] Add(a: 3, b: 4) -> int",
	}))
}
