package core

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// GetOrCreateMock returns the shared Mock for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Mock instance.
// opts only apply when the Mock is created.
func GetOrCreateMock(t TestReporter, opts ...Option) *Mock {
	t.Helper()

	s := sessionFor(t)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shared == nil {
		s.shared = NewMock(t, append(s.options(), opts...)...)
	}

	return s.shared
}

// NewTestMock creates a new Mock bound to the test. Every Mock created for the same
// TestReporter shares one clock, so calls to different mocks can be verified in order against
// each other.
//
// The first use for a test reads the config named by IMPMOCK_CONFIG. If the TestReporter
// supports it, diagnostics are logged through the test's own log, and the test's state is
// dropped when the test completes.
func NewTestMock(t TestReporter, opts ...Option) *Mock {
	t.Helper()

	return NewMock(t, append(sessionFor(t).options(), opts...)...)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*session)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

// session is the state shared by all mocks of one test.
type session struct {
	clock  *LogicalClock
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	shared *Mock
}

func (s *session) options() []Option {
	return []Option{WithClock(s.clock), WithConfig(s.config), WithLogger(s.logger)}
}

func sessionFor(t TestReporter) *session {
	t.Helper()

	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[t]; ok {
		return s
	}

	cfg, err := ConfigFromEnv(os.Getenv)
	if err != nil {
		t.Fatalf("impmock: %v", err)

		cfg = DefaultConfig()
	}

	s := &session{clock: NewLogicalClock(), config: cfg, logger: testLogger(t, cfg)}
	registry[t] = s

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return s
}

// testLogger logs through the test when the reporter can carry it.
func testLogger(t TestReporter, cfg Config) *zap.Logger {
	tt, ok := t.(zaptest.TestingT)
	if !ok {
		return zap.NewNop()
	}

	level, err := cfg.Level()
	if err != nil {
		return zap.NewNop()
	}

	return zaptest.NewLogger(tt, zaptest.Level(level))
}
