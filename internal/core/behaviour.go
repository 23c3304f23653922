package core

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/toejough/impmock/match"
)

// Handler computes a response from the actual parameters of a call. A non-nil error is the
// handler "raising": it propagates to the caller untouched.
type Handler func(params []any) (any, error)

// Behaviour is a registered response.
type Behaviour struct {
	ID      uuid.UUID
	handler Handler
}

// NewBehaviour wraps a handler.
func NewBehaviour(handler Handler) *Behaviour {
	return &Behaviour{ID: uuid.New(), handler: handler}
}

// Handle invokes the handler and narrows its result to resultType.
//
// ok is false when the produced value is not a resultType: that is "no value", a signal that
// the behaviour was registered for an overload with a different result type. It is distinct
// from a handler legitimately producing nil or Void. A handler error is returned verbatim and
// never read as "no value".
func (b *Behaviour) Handle(params []any, resultType reflect.Type) (value any, ok bool, err error) {
	produced, err := b.handler(params)
	if err != nil {
		return nil, false, err
	}

	value, ok = narrowTo(produced, resultType)

	return value, ok, nil
}

// Trigger gates a behaviour behind per-parameter predicates.
type Trigger struct {
	Predicates []match.AnyPredicate
	Behaviour  *Behaviour
}

// BehaviourRegister is the append-only store of triggers for one mock, in registration order.
type BehaviourRegister struct {
	mu       sync.Mutex
	triggers map[OperationID][]Trigger
}

// NewBehaviourRegister creates an empty register.
func NewBehaviourRegister() *BehaviourRegister {
	return &BehaviourRegister{triggers: make(map[OperationID][]Trigger)}
}

// Record appends a trigger for id.
func (r *BehaviourRegister) Record(trigger Trigger, id OperationID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.triggers[id] = append(r.triggers[id], trigger)
}

// Recorded returns the triggers for id whose predicates accept params, in registration order.
func (r *BehaviourRegister) Recorded(id OperationID, params []any) []Trigger {
	r.mu.Lock()
	triggers := r.triggers[id]
	r.mu.Unlock()

	matched := make([]Trigger, 0, 1)

	for _, trigger := range triggers {
		if paramsSatisfy(trigger.Predicates, params) {
			matched = append(matched, trigger)
		}
	}

	return matched
}

// Panicking returns a handler that panics with value.
func Panicking(value any) Handler {
	return func([]any) (any, error) {
		panic(value)
	}
}

// Producing adapts a typed computation into a Handler.
func Producing[T any](produce func(params []any) (T, error)) Handler {
	return func(params []any) (any, error) {
		value, err := produce(params)
		if err != nil {
			return nil, err
		}

		return value, nil
	}
}

// Returning returns a handler producing values in order, repeating the last one once they
// run out. With no values it produces the zero T.
func Returning[T any](values ...T) Handler {
	var (
		mu   sync.Mutex
		next int
	)

	return func([]any) (any, error) {
		if len(values) == 0 {
			var zero T

			return zero, nil
		}

		mu.Lock()
		defer mu.Unlock()

		value := values[next]
		if next < len(values)-1 {
			next++
		}

		return value, nil
	}
}

// Throwing returns a handler that raises err.
func Throwing(err error) Handler {
	return func([]any) (any, error) {
		return nil, err
	}
}

// narrowTo checks that value can stand in for resultType. nil is accepted for nilable result
// types and for Void.
func narrowTo(value any, resultType reflect.Type) (any, bool) {
	if resultType == nil || resultType == voidType {
		if value == nil {
			return Void{}, true
		}

		_, ok := value.(Void)

		return Void{}, ok
	}

	if value == nil {
		if match.Nilable(resultType) {
			return reflect.Zero(resultType).Interface(), true
		}

		return nil, false
	}

	if !reflect.TypeOf(value).AssignableTo(resultType) {
		return nil, false
	}

	return value, true
}
