package core_test

import (
	"fmt"
	"sync"

	"github.com/toejough/impmock/internal/core"
)

// fakeReporter records what the engine reports instead of failing the real test.
type fakeReporter struct {
	mu     sync.Mutex
	errors []string
	fatals []string
}

func (f *fakeReporter) Errorf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *fakeReporter) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.errors...)
}

func (f *fakeReporter) Fatalf(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func (f *fakeReporter) Fatals() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.fatals...)
}

func (f *fakeReporter) Helper() {}

// failureLog collects verification failures.
type failureLog struct {
	mu       sync.Mutex
	messages []string
}

func (l *failureLog) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *failureLog) RecordFailure(message string, _ core.Location) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, message)
}

type point struct {
	X, Y int
}

type wrapper struct {
	mock *core.Mock
}

func (w wrapper) ImpMock() *core.Mock { return w.mock }

// pointerWrapper dereferences its receiver, so a nil one panics if ImpMock is called.
type pointerWrapper struct {
	mock *core.Mock
}

func (w *pointerWrapper) ImpMock() *core.Mock { return w.mock }

func newTestMock(opts ...core.Option) (*core.Mock, *fakeReporter, *failureLog) {
	reporter := &fakeReporter{}
	failures := &failureLog{}

	mock := core.NewMock(reporter, append([]core.Option{core.WithFailureRecorder(failures)}, opts...)...)

	return mock, reporter, failures
}
