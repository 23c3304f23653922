package core

import (
	"reflect"

	"github.com/toejough/impmock/match"
	"go.uber.org/zap"
)

// Stubbing registers behaviours for one operation and predicate list.
type Stubbing[T any] struct {
	mock       *Mock
	id         OperationID
	predicates []match.AnyPredicate
}

// Given starts registering a behaviour for calls to id whose parameters satisfy predicates.
func Given[T any](m *Mock, id OperationID, predicates ...match.AnyPredicate) *Stubbing[T] {
	if resultType := TypeName(reflect.TypeFor[T]()); resultType != id.ResultType {
		m.logger.Warn("stubbing result type differs from the operation's",
			zap.String("operation", id.String()),
			zap.String("stubbing", resultType))
	}

	return &Stubbing[T]{mock: m, id: id, predicates: predicates}
}

// Stub sets the mock-local default returned for any unmatched operation whose result type is
// exactly T.
func Stub[T any](m *Mock, value T) {
	m.locals.Set(reflect.TypeFor[T](), value)
}

// Will registers an arbitrary handler.
func (s *Stubbing[T]) Will(handler Handler) *Behaviour {
	behaviour := NewBehaviour(handler)

	s.mock.behaviours.Record(Trigger{Predicates: s.predicates, Behaviour: behaviour}, s.id)

	s.mock.logger.Debug("behaviour registered",
		zap.String("operation", s.id.ExpectationDescription(s.predicates)),
		zap.String("behaviour", behaviour.ID.String()))

	return behaviour
}

// WillDoNothing registers a behaviour answering with the zero T. For void operations this is
// the explicit "accept the call" stub.
func (s *Stubbing[T]) WillDoNothing() *Behaviour {
	var zero T

	return s.Will(Returning(zero))
}

// WillPanic registers a behaviour that panics with value.
func (s *Stubbing[T]) WillPanic(value any) *Behaviour {
	return s.Will(Panicking(value))
}

// WillProduce registers a typed computation over the actual parameters.
func (s *Stubbing[T]) WillProduce(produce func(params []any) (T, error)) *Behaviour {
	return s.Will(Producing(produce))
}

// WillReturn registers values returned on successive calls; the last repeats once the others
// are used up.
func (s *Stubbing[T]) WillReturn(values ...T) *Behaviour {
	return s.Will(Returning(values...))
}

// WillThrow registers a behaviour raising err. On the non-throwing path this surfaces as a
// panic carrying err.
func (s *Stubbing[T]) WillThrow(err error) *Behaviour {
	return s.Will(Throwing(err))
}
