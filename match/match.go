// Package match provides the predicates impmock uses to select behaviours and to filter
// recorded calls. Predicates are typed at construction and erased at the engine boundary:
//
//	given.Add(match.GreaterThan(0), match.Any[int]()).WillReturn(42)
//
// Every Predicate also satisfies the gomega-compatible Matcher interface, and any gomega
// matcher can be turned into a predicate with FromMatcher.
package match

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
)

// AnyPredicate is the type-erased form of a Predicate. Satisfy never panics: a value that is
// not of the predicate's type simply does not satisfy it.
type AnyPredicate interface {
	Satisfy(value any) bool
	Description() string
}

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// Predicate is a named boolean test over values of type T.
// The zero Predicate matches everything.
type Predicate[T any] struct {
	description string
	test        func(T) bool
	explain     func(actual T) string
}

// BeAny is a predicate that matches any value.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny = Any[any]()

// Any returns a predicate that is always satisfied.
func Any[T any]() Predicate[T] {
	return Predicate[T]{
		description: "any",
		test:        func(T) bool { return true },
	}
}

// Equal returns a predicate satisfied by values deeply equal to expected.
func Equal[T any](expected T) Predicate[T] {
	return Predicate[T]{
		description: "equal to " + Render(expected),
		test: func(actual T) bool {
			return reflect.DeepEqual(actual, expected)
		},
		explain: func(actual T) string {
			return equalFailure(actual, expected)
		},
	}
}

// Extract derives a predicate on T from a predicate on some projection of T.
//
//	match.Extract("length", func(s string) int { return len(s) }, match.GreaterThan(3))
func Extract[T, U any](description string, projection func(T) U, inner Predicate[U]) Predicate[T] {
	return Predicate[T]{
		description: description + " " + inner.Description(),
		test: func(actual T) bool {
			return inner.Test(projection(actual))
		},
	}
}

// FromMatcher adapts a gomega (or any duck-typed) matcher. A matcher error counts as a
// mismatch.
func FromMatcher(matcher Matcher) Predicate[any] {
	return Predicate[any]{
		description: "matching " + matcherName(matcher),
		test: func(actual any) bool {
			ok, err := matcher.Match(actual)

			return err == nil && ok
		},
		explain: func(actual any) string {
			_, err := matcher.Match(actual)
			if err != nil {
				return err.Error()
			}

			return matcher.FailureMessage(actual)
		},
	}
}

// Identical returns a predicate satisfied only by the very same pointer, not by a
// structurally equal value.
func Identical[T any](ref *T) Predicate[*T] {
	return Predicate[*T]{
		description: fmt.Sprintf("identical to %p", ref),
		test: func(actual *T) bool {
			return actual == ref
		},
	}
}

// IsFalse matches false.
func IsFalse() Predicate[bool] {
	return Predicate[bool]{
		description: "false",
		test:        func(actual bool) bool { return !actual },
	}
}

// IsNil matches nil pointers, interfaces, maps, slices, funcs and channels. For any other T it
// never matches.
func IsNil[T any]() Predicate[T] {
	return Predicate[T]{
		description: "nil",
		test: func(actual T) bool {
			return isNil(any(actual))
		},
	}
}

// IsTrue matches true.
func IsTrue() Predicate[bool] {
	return Predicate[bool]{
		description: "true",
		test:        func(actual bool) bool { return actual },
	}
}

// Match is the escape hatch for arbitrary tests. Functions cannot be introspected, so the
// caller supplies the description.
func Match[T any](description string, test func(T) bool) Predicate[T] {
	return Predicate[T]{description: description, test: test}
}

// Not negates a predicate.
func Not[T any](predicate Predicate[T]) Predicate[T] {
	return Predicate[T]{
		description: "not " + predicate.Description(),
		test: func(actual T) bool {
			return !predicate.Test(actual)
		},
	}
}

// Render formats a value the way descriptions and call descriptions show it.
func Render(value any) string {
	if isNil(value) {
		return "nil"
	}

	switch typed := value.(type) {
	case AnyPredicate:
		return typed.Description()
	case string:
		return strconv.Quote(typed)
	case error:
		return typed.Error()
	}

	return fmt.Sprintf("%v", value)
}

// Same returns an identity predicate for reference-like values. Pointers, maps, channels and
// funcs match when they share the same underlying reference. Funcs compare by code pointer, so
// two closures over one function literal are the same. Slices must share both backing array and
// length. Nil never matches, and neither does any other kind of T.
func Same[T any](ref T) Predicate[T] {
	expected := reflect.ValueOf(any(ref))

	return Predicate[T]{
		description: "same reference as " + Render(ref),
		test: func(actual T) bool {
			return sameReference(expected, reflect.ValueOf(any(actual)))
		},
	}
}

// Satisfy returns a predicate from a function that returns nil on a match, or an error
// describing the mismatch.
//
//	match.Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})
func Satisfy[T any](predicate func(T) error) Predicate[T] {
	return Predicate[T]{
		description: "satisfying predicate",
		test: func(actual T) bool {
			return predicate(actual) == nil
		},
		explain: func(actual T) string {
			err := predicate(actual)
			if err != nil {
				return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, err)
			}

			return fmt.Sprintf("value %v does not satisfy predicate", actual)
		},
	}
}

// Values turns raw expectations into predicates: predicates pass through, gomega-style
// matchers are adapted, anything else is compared with Equal.
func Values(values ...any) []AnyPredicate {
	predicates := make([]AnyPredicate, len(values))

	for i, value := range values {
		switch typed := value.(type) {
		case AnyPredicate:
			predicates[i] = typed
		case Matcher:
			predicates[i] = FromMatcher(typed)
		default:
			predicates[i] = Equal[any](value)
		}
	}

	return predicates
}

// Description returns the human-readable form of the predicate.
func (p Predicate[T]) Description() string {
	if p.description == "" {
		return "any"
	}

	return p.description
}

// FailureMessage explains why actual does not satisfy the predicate.
func (p Predicate[T]) FailureMessage(actual any) string {
	typed, ok := narrow[T](actual)
	if !ok {
		return fmt.Sprintf("%v: expected %s, got %T", errTypeMismatch, typeName[T](), actual)
	}

	if p.explain != nil {
		return p.explain(typed)
	}

	return fmt.Sprintf("expected %s to be %s", Render(actual), p.Description())
}

// Match implements Matcher. Values of the wrong type are reported as an error rather than a
// plain mismatch.
func (p Predicate[T]) Match(actual any) (bool, error) {
	typed, ok := narrow[T](actual)
	if !ok {
		return false, fmt.Errorf("%w: expected %s, got %T", errTypeMismatch, typeName[T](), actual)
	}

	return p.safeTest(typed), nil
}

// Satisfy implements AnyPredicate.
func (p Predicate[T]) Satisfy(value any) bool {
	typed, ok := narrow[T](value)
	if !ok {
		return false
	}

	return p.safeTest(typed)
}

// String returns the description.
func (p Predicate[T]) String() string {
	return p.Description()
}

// Test applies the predicate to a value of its own type.
func (p Predicate[T]) Test(value T) bool {
	if p.test == nil {
		return true
	}

	return p.test(value)
}

// safeTest runs Test, turning a panic inside user code into a mismatch.
func (p Predicate[T]) safeTest(value T) (satisfied bool) {
	defer func() {
		if recover() != nil {
			satisfied = false
		}
	}()

	return p.Test(value)
}

// Nilable reports whether values of the type can be nil.
func Nilable(reflected reflect.Type) bool {
	switch reflected.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// unexported constants.
const (
	multilineThreshold = 2
)

// unexported variables.
var (
	errTypeMismatch = errors.New("type mismatch")
)

func equalFailure[T any](actual, expected T) string {
	actualText, actualIsString := any(actual).(string)
	expectedText, expectedIsString := any(expected).(string)

	if actualIsString && expectedIsString &&
		(strings.Count(actualText, "\n") >= multilineThreshold || strings.Count(expectedText, "\n") >= multilineThreshold) {
		return "strings differ:\n" + textdiff.Unified("expected", "actual", expectedText, actualText)
	}

	return fmt.Sprintf("expected %s, got %s", Render(expected), Render(actual))
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	reflected := reflect.ValueOf(value)

	return Nilable(reflected.Type()) && reflected.IsNil()
}

func matcherName(matcher Matcher) string {
	reflected := reflect.TypeOf(matcher)
	for reflected.Kind() == reflect.Pointer {
		reflected = reflected.Elem()
	}

	name := strings.TrimSuffix(reflected.Name(), "Matcher")
	if name == "" {
		return reflected.String()
	}

	return name
}

// narrow is the checked downcast at the erased boundary. A nil value narrows to the zero T
// only when T can hold nil.
func narrow[T any](value any) (T, bool) {
	if typed, ok := value.(T); ok {
		return typed, true
	}

	var zero T

	if value == nil && Nilable(reflect.TypeFor[T]()) {
		return zero, true
	}

	return zero, false
}

func sameReference(expected, actual reflect.Value) bool {
	if !expected.IsValid() || !actual.IsValid() || expected.Type() != actual.Type() {
		return false
	}

	//nolint:exhaustive // only reference kinds have an identity
	switch expected.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return !expected.IsNil() && expected.Pointer() == actual.Pointer()
	case reflect.Slice:
		return !expected.IsNil() && expected.Pointer() == actual.Pointer() && expected.Len() == actual.Len()
	default:
		return false
	}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
