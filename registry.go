package impmock

import "github.com/toejough/impmock/internal/core"

// GetOrCreateMock returns the Mock for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Mock instance.
// Hand-written adapters that want one call log for the whole test use it.
func GetOrCreateMock(t TestReporter, opts ...Option) *Mock {
	t.Helper()

	return core.GetOrCreateMock(t, opts...)
}

// NewTestMock creates a new Mock bound to the test. Mocks created for the same test share a
// clock, so calls across them can be verified in order. Generated adapters are built on it.
func NewTestMock(t TestReporter, opts ...Option) *Mock {
	t.Helper()

	return core.NewTestMock(t, opts...)
}
