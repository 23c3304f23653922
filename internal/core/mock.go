// Package core provides the internal implementation of impmock's call-matching and
// verification engine.
package core

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/toejough/impmock/match"
	"go.uber.org/zap"
)

// Adapter is implemented by generated and hand-written mocks that wrap a Mock.
type Adapter interface {
	ImpMock() *Mock
}

// Mock is the engine behind one test double: its clock, call log, behaviours, defaults and
// resolution chain. It lives for one test.
type Mock struct {
	t          TestReporter
	clock      Clock
	calls      *CallRegister
	behaviours *BehaviourRegister
	locals     *DefaultValues
	chain      *Chain
	errors     ErrorHandler
	failures   FailureRecorder
	logger     *zap.Logger
	config     Config
}

// Option configures a Mock.
type Option func(*settings)

// NewMock creates a mock reporting to t.
func NewMock(t TestReporter, opts ...Option) *Mock {
	cfg := settings{
		clock:    NewLogicalClock(),
		errors:   ReporterErrorHandler{T: t},
		failures: ReporterFailureRecorder{T: t},
		logger:   zap.NewNop(),
		config:   DefaultConfig(),
		global:   GlobalDefaults(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	mock := &Mock{
		t:          t,
		clock:      cfg.clock,
		calls:      NewCallRegister(cfg.clock),
		behaviours: NewBehaviourRegister(),
		locals:     NewDefaultValues(),
		errors:     cfg.errors,
		failures:   cfg.failures,
		logger:     cfg.logger,
		config:     cfg.config,
	}

	mock.chain = mock.buildChain(cfg)

	return mock
}

// WithClock replaces the logical clock.
func WithClock(clock Clock) Option {
	return func(s *settings) { s.clock = clock }
}

// WithConfig replaces the configuration.
func WithConfig(config Config) Option {
	return func(s *settings) { s.config = config }
}

// WithDefaultTable replaces the table used by the global stub tier.
func WithDefaultTable(table *DefaultTable) Option {
	return func(s *settings) { s.global = table }
}

// WithErrorHandler replaces the handler consulted when resolution fails.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(s *settings) { s.errors = handler }
}

// WithFailureRecorder replaces the verification failure sink.
func WithFailureRecorder(recorder FailureRecorder) Option {
	return func(s *settings) { s.failures = recorder }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithResolvers adds custom tiers after the configured ones and before the terminal tier.
func WithResolvers(resolvers ...Resolver) Option {
	return func(s *settings) { s.extra = append(s.extra, resolvers...) }
}

// Cast extracts the engine from an adapter. Anything else, including a nil adapter, is a
// CastFailure reported fatally to t, and a fresh mock is returned so the caller still has
// something to work with.
func Cast(t TestReporter, value any) *Mock {
	t.Helper()

	return CastWith(ReporterErrorHandler{T: t}, t, value)
}

// CastWith is Cast with the CastFailure sent to handler. A *Mock recovered by the handler is
// returned as is.
func CastWith(handler ErrorHandler, t TestReporter, value any) *Mock {
	t.Helper()

	switch typed := value.(type) {
	case *Mock:
		if typed != nil {
			return typed
		}
	case Adapter:
		if !isNilReference(value) {
			if mock := typed.ImpMock(); mock != nil {
				return mock
			}
		}
	}

	recovered := handler.Handle(&MockError{
		Kind:        CastFailure,
		Description: fmt.Sprintf("%T", value),
	}, reflect.TypeFor[*Mock]())

	if mock, ok := recovered.(*Mock); ok && mock != nil {
		return mock
	}

	return NewMock(t)
}

// Mocked records a call and resolves its response. A behaviour that raises an error on this
// path panics with that error, unchanged.
func Mocked[T any](m *Mock, id OperationID, params ...any) T {
	value, err := m.invoke(id, params, reflect.TypeFor[T](), false)
	if err != nil {
		panic(err)
	}

	typed, _ := value.(T)

	return typed
}

// MockedThrowable records a call and resolves its response on the error-returning path.
// Behaviour errors are returned verbatim.
func MockedThrowable[T any](m *Mock, id OperationID, params ...any) (T, error) {
	value, err := m.invoke(id, params, reflect.TypeFor[T](), true)

	typed, _ := value.(T)

	return typed, err
}

// AllCallsVerified reports whether every recorded call has been verified.
func (m *Mock) AllCallsVerified() bool {
	return m.calls.AllVerified()
}

// Calls returns the recorded calls to id matching predicates, oldest first.
func (m *Mock) Calls(id OperationID, predicates ...match.AnyPredicate) []Call {
	return m.calls.Recorded(id, predicates)
}

// Config returns the mock's configuration.
func (m *Mock) Config() Config {
	return m.config
}

// ImpMock implements Adapter, so a bare Mock can be passed wherever an adapter is expected.
func (m *Mock) ImpMock() *Mock {
	return m
}

// Logger returns the diagnostic logger.
func (m *Mock) Logger() *zap.Logger {
	return m.logger
}

// Verify starts a verification of calls to id.
func (m *Mock) Verify(id OperationID, predicates ...match.AnyPredicate) *Verification {
	return &Verification{mock: m, id: id, predicates: predicates}
}

// VerifyNoUnverifiedCalls records a failure listing every call no verification has covered.
func (m *Mock) VerifyNoUnverifiedCalls() bool {
	return m.VerifyNoUnverifiedCallsAt(CallerLocation(1))
}

// VerifyNoUnverifiedCallsAt is VerifyNoUnverifiedCalls with the failure attributed to loc, for
// wrappers that capture their own caller.
func (m *Mock) VerifyNoUnverifiedCallsAt(loc Location) bool {
	pending := m.calls.Unverified()
	if len(pending) == 0 {
		return true
	}

	lines := make([]string, len(pending))
	for i, call := range pending {
		lines[i] = fmt.Sprintf("  [%d] %s", call.Time, call.Description())
	}

	m.failures.RecordFailure(
		fmt.Sprintf("%d unverified calls:\n%s", len(pending), strings.Join(lines, "\n")),
		loc,
	)

	return false
}

func (m *Mock) buildChain(cfg settings) *Chain {
	tiers := make([]Resolver, 0, len(cfg.config.Resolvers)+len(cfg.extra))

	for _, name := range cfg.config.Resolvers {
		switch name {
		case ResolverGiven:
			tiers = append(tiers, &GivenResolver{
				Behaviours:         m.behaviours,
				Errors:             m.errors,
				Logger:             m.logger,
				WarnOnTypeMismatch: cfg.config.WarnOnTypeMismatch,
			})
		case ResolverLocal:
			tiers = append(tiers, &LocalStubResolver{Defaults: m.locals})
		case ResolverGlobal:
			tiers = append(tiers, &GlobalStubResolver{Table: cfg.global})
		default:
			m.logger.Warn("ignoring unknown resolver", zap.String("resolver", name))
		}
	}

	tiers = append(tiers, cfg.extra...)

	return NewChain(&UnresolvedResolver{Errors: m.errors}, tiers...)
}

func (m *Mock) invoke(id OperationID, params []any, resultType reflect.Type, throwing bool) (any, error) {
	call := m.calls.Record(id, params)

	m.logger.Debug("call recorded",
		zap.String("call", call.Description()),
		zap.Int64("time", call.Time))

	return m.chain.Resolve(Request{
		Operation:  id,
		Params:     params,
		ResultType: resultType,
		Throwing:   throwing,
	})
}

// settings collects Option values before the mock is assembled.
type settings struct {
	clock    Clock
	errors   ErrorHandler
	failures FailureRecorder
	logger   *zap.Logger
	config   Config
	global   *DefaultTable
	extra    []Resolver
}

// isNilReference reports whether value holds a nil pointer, map, slice, func or channel.
func isNilReference(value any) bool {
	reflected := reflect.ValueOf(value)

	//nolint:exhaustive // only nilable kinds can be nil
	switch reflected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return reflected.IsNil()
	default:
		return false
	}
}
