package core

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
)

// TestReporter is the minimal interface impmock needs from test frameworks.
// *testing.T satisfies it.
type TestReporter interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
}

// ErrorHandler is consulted when resolution cannot produce a response. It either aborts the
// test or returns a recovery value of resultType so execution can continue.
type ErrorHandler interface {
	Handle(err *MockError, resultType reflect.Type) any
}

// ErrorHandlerFunc adapts a function to ErrorHandler.
type ErrorHandlerFunc func(err *MockError, resultType reflect.Type) any

// Handle implements ErrorHandler.
func (f ErrorHandlerFunc) Handle(err *MockError, resultType reflect.Type) any {
	return f(err, resultType)
}

// ReporterErrorHandler reports to a TestReporter. Cast failures and ambiguous behaviours are
// fatal; a missing behaviour fails the test but lets it continue with the zero value.
type ReporterErrorHandler struct {
	T TestReporter
}

// Handle implements ErrorHandler.
func (h ReporterErrorHandler) Handle(err *MockError, resultType reflect.Type) any {
	h.T.Helper()

	switch err.Kind {
	case NoDefinedBehaviour, AssertionFailure:
		h.T.Errorf("%v", err)
	default:
		h.T.Fatalf("%v", err)
	}

	return zeroOf(resultType)
}

// Location is a source position reported alongside verification failures.
type Location struct {
	File string
	Line int
}

// CallerLocation captures the position skip frames above its caller.
func CallerLocation(skip int) Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Location{}
	}

	return Location{File: file, Line: line}
}

// String renders the location as base-name:line.
func (l Location) String() string {
	if l.File == "" {
		return "unknown location"
	}

	return fmt.Sprintf("%s:%d", filepath.Base(l.File), l.Line)
}

// FailureRecorder accumulates verification failures without stopping the test.
type FailureRecorder interface {
	RecordFailure(message string, loc Location)
}

// FailureRecorderFunc adapts a function to FailureRecorder.
type FailureRecorderFunc func(message string, loc Location)

// RecordFailure implements FailureRecorder.
func (f FailureRecorderFunc) RecordFailure(message string, loc Location) {
	f(message, loc)
}

// ReporterFailureRecorder records failures with TestReporter.Errorf.
type ReporterFailureRecorder struct {
	T TestReporter
}

// RecordFailure implements FailureRecorder.
func (r ReporterFailureRecorder) RecordFailure(message string, loc Location) {
	r.T.Helper()
	r.T.Errorf("%s: %s", loc, message)
}

func zeroOf(resultType reflect.Type) any {
	if resultType == nil || resultType == voidType {
		return Void{}
	}

	return reflect.Zero(resultType).Interface()
}
