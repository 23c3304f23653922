// Package impmock provides test doubles for Go: mocks that record every call, answer with
// behaviours selected by predicates on the actual arguments, and verify afterwards what was
// called, how often and in what order.
//
// Adapters (usually generated by impmockgen) forward each method to Mocked or MockedThrowable
// with an OperationID naming the method. Tests then stub with Given and check with Verify:
//
//	calc := NewCalculatorMock(t)
//	impmock.Given[int](calc, CalculatorAdd, match.Equal(1), match.Any[int]()).WillReturn(3)
//	code.Under.Test(calc)
//	impmock.Verify(calc, CalculatorAdd).Called(match.Once())
//
// This is the public API entry point. Implementation lives in internal/core.
package impmock

import (
	"github.com/toejough/impmock/internal/core"
	"github.com/toejough/impmock/match"
	"go.uber.org/zap"
)

// Types re-exported from internal/core.

// Adapter is implemented by anything wrapping a Mock.
type Adapter = core.Adapter

// Assertion is the result of one verification step.
type Assertion = core.Assertion

// Behaviour is a registered response.
type Behaviour = core.Behaviour

// Call is one recorded invocation.
type Call = core.Call

// Clock hands out logical timestamps.
type Clock = core.Clock

// Config tunes a mock.
type Config = core.Config

// ErrorHandler is consulted when resolution cannot produce a response.
type ErrorHandler = core.ErrorHandler

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc = core.ErrorHandlerFunc

// ErrorKind classifies engine failures.
type ErrorKind = core.ErrorKind

// FailureRecorder receives verification failures.
type FailureRecorder = core.FailureRecorder

// FailureRecorderFunc adapts a function to FailureRecorder.
type FailureRecorderFunc = core.FailureRecorderFunc

// Handler computes a response from the actual parameters.
type Handler = core.Handler

// Location is a source position.
type Location = core.Location

// Mock is the engine behind one test double.
type Mock = core.Mock

// MockError describes an engine failure.
type MockError = core.MockError

// Next hands resolution to the following tier.
type Next = core.Next

// OperationID identifies a mocked member and its result type.
type OperationID = core.OperationID

// Option configures a Mock.
type Option = core.Option

// Request is what a resolver sees for one call.
type Request = core.Request

// Resolver is one tier of the resolution chain.
type Resolver = core.Resolver

// ResolverFunc adapts a function to Resolver.
type ResolverFunc = core.ResolverFunc

// Stubbing registers behaviours for one operation.
type Stubbing[T any] = core.Stubbing[T]

// TestReporter is the minimal interface impmock needs from test frameworks.
type TestReporter = core.TestReporter

// Verification builds assertions over recorded calls.
type Verification = core.Verification

// Void is the result type of operations that produce no value.
type Void = core.Void

// ErrorKind values.
const (
	CastFailure             = core.CastFailure
	NoDefinedBehaviour      = core.NoDefinedBehaviour
	TooManyDefinedBehaviour = core.TooManyDefinedBehaviour
	AssertionFailure        = core.AssertionFailure
)

// Resolver tier names for Config.Resolvers.
const (
	ResolverGiven  = core.ResolverGiven
	ResolverLocal  = core.ResolverLocal
	ResolverGlobal = core.ResolverGlobal
)

// ConfigEnvVar names the environment variable holding a path to a YAML config file.
const ConfigEnvVar = core.ConfigEnvVar

// Sentinel errors for errors.Is.
var (
	ErrCastFailure             = core.ErrCastFailure
	ErrNoDefinedBehaviour      = core.ErrNoDefinedBehaviour
	ErrTooManyDefinedBehaviour = core.ErrTooManyDefinedBehaviour
	ErrAssertionFailure        = core.ErrAssertionFailure
)

// Functions re-exported from internal/core.

// AllCallsVerified reports whether every call recorded by each adapter has been verified.
func AllCallsVerified(adapters ...Adapter) bool {
	for _, adapter := range adapters {
		if !adapter.ImpMock().AllCallsVerified() {
			return false
		}
	}

	return true
}

// Cast extracts the engine from an adapter, reporting a CastFailure for anything else.
func Cast(t TestReporter, value any) *Mock {
	t.Helper()

	return core.Cast(t, value)
}

// CastWith is Cast with the CastFailure sent to handler instead of failing t.
func CastWith(handler ErrorHandler, t TestReporter, value any) *Mock {
	t.Helper()

	return core.CastWith(handler, t, value)
}

// DefaultConfig returns the configuration used when nothing else is supplied.
func DefaultConfig() Config {
	return core.DefaultConfig()
}

// FirstValidTime is the logical time after which calls count as following a.
func FirstValidTime(a *Assertion) int64 {
	return core.FirstValidTime(a)
}

// Given starts registering a behaviour for calls to id on adapter.
func Given[T any](adapter Adapter, id OperationID, predicates ...match.AnyPredicate) *Stubbing[T] {
	return core.Given[T](adapter.ImpMock(), id, predicates...)
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	return core.LoadConfig(path)
}

// Mocked records a call and resolves its response. Adapters call it from methods that do not
// return an error.
func Mocked[T any](adapter Adapter, id OperationID, params ...any) T {
	return core.Mocked[T](adapter.ImpMock(), id, params...)
}

// MockedThrowable records a call and resolves its response, returning behaviour errors.
// Adapters call it from methods whose last result is an error.
func MockedThrowable[T any](adapter Adapter, id OperationID, params ...any) (T, error) {
	return core.MockedThrowable[T](adapter.ImpMock(), id, params...)
}

// NewMock creates a standalone mock. Most tests want NewTestMock instead.
func NewMock(t TestReporter, opts ...Option) *Mock {
	return core.NewMock(t, opts...)
}

// NewOperationID builds the identifier for an operation returning T.
func NewOperationID[T any](signature string) OperationID {
	return core.NewOperationID[T](signature)
}

// RegisterDefault sets the canonical value of T used when nothing else answers a call.
func RegisterDefault[T any](factory func() T) {
	core.RegisterDefault(factory)
}

// Stub sets the value adapter returns for any unmatched operation whose result type is T.
func Stub[T any](adapter Adapter, value T) {
	core.Stub(adapter.ImpMock(), value)
}

// Verify starts a verification of calls to id on adapter.
func Verify(adapter Adapter, id OperationID, predicates ...match.AnyPredicate) *Verification {
	return core.Verify(adapter.ImpMock(), id, predicates...)
}

// VerifyNoUnverifiedCalls records a failure for each adapter with calls no verification
// covered.
func VerifyNoUnverifiedCalls(adapters ...Adapter) bool {
	loc := core.CallerLocation(1)
	clean := true

	for _, adapter := range adapters {
		if !adapter.ImpMock().VerifyNoUnverifiedCallsAt(loc) {
			clean = false
		}
	}

	return clean
}

// WithClock replaces the logical clock.
func WithClock(clock Clock) Option {
	return core.WithClock(clock)
}

// WithConfig replaces the configuration.
func WithConfig(config Config) Option {
	return core.WithConfig(config)
}

// WithErrorHandler replaces the handler consulted when resolution fails.
func WithErrorHandler(handler ErrorHandler) Option {
	return core.WithErrorHandler(handler)
}

// WithFailureRecorder replaces the verification failure sink.
func WithFailureRecorder(recorder FailureRecorder) Option {
	return core.WithFailureRecorder(recorder)
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}

// WithResolvers adds custom resolution tiers.
func WithResolvers(resolvers ...Resolver) Option {
	return core.WithResolvers(resolvers...)
}
