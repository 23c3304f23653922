package core

import (
	"reflect"
	"strings"

	"github.com/toejough/impmock/match"
)

// OperationID identifies a mocked member together with its declared result type, so two
// members sharing a name but differing only in result type are distinct operations.
//
// Signatures use labelled-parameter notation: "Add(a:b:)", "Fetch(_:)", "Name()",
// "subscript(_:)".
type OperationID struct {
	Signature  string
	ResultType string
}

// Void is the result type of operations that produce no value.
type Void struct{}

// NewOperationID builds the identifier for an operation returning T.
func NewOperationID[T any](signature string) OperationID {
	return NewOperationIDOf(signature, reflect.TypeFor[T]())
}

// NewOperationIDOf builds an identifier from a reflected result type. The signature is
// normalized once, here:
//   - plain calls are left unchanged;
//   - field-like access ("Name") becomes "Name()" for reads and "Name(newValue:)" for writes
//     (a Void result);
//   - subscript writes get a trailing "newValue:" label.
func NewOperationIDOf(signature string, resultType reflect.Type) OperationID {
	isWrite := resultType == nil || resultType == voidType

	return OperationID{
		Signature:  normalizeSignature(signature, isWrite),
		ResultType: TypeName(resultType),
	}
}

// TypeName renders a result type the way operation identifiers store it.
func TypeName(resultType reflect.Type) string {
	if resultType == nil || resultType == voidType {
		return "Void"
	}

	return resultType.String()
}

// CallDescription renders the operation applied to params, e.g.
// "f(arg1: 2, arg2: nil) -> int". It is only used in messages.
func (id OperationID) CallDescription(params []any) string {
	return id.describe(func(i int) string {
		if i < len(params) {
			return match.Render(params[i])
		}

		return "nil"
	})
}

// ExpectationDescription renders the operation with predicate descriptions in place of
// values; parameters without a predicate show as "any".
func (id OperationID) ExpectationDescription(predicates []match.AnyPredicate) string {
	return id.describe(func(i int) string {
		if i < len(predicates) && predicates[i] != nil {
			return predicates[i].Description()
		}

		return "any"
	})
}

// String renders the identifier without parameters.
func (id OperationID) String() string {
	return id.Signature + " -> " + id.ResultType
}

// unexported constants.
const (
	newValueLabel  = "newValue:"
	subscriptStart = "subscript("
)

// unexported variables.
var (
	voidType = reflect.TypeFor[Void]()
)

func (id OperationID) describe(render func(int) string) string {
	open := strings.IndexByte(id.Signature, '(')
	if open < 0 {
		return id.Signature + " -> " + id.ResultType
	}

	labels := strings.Split(strings.TrimSuffix(id.Signature[open+1:], ")"), ":")
	// "a:b:" splits into "a", "b", "" - the last element follows the final boundary.
	labels = labels[:len(labels)-1]

	rendered := make([]string, len(labels))
	for i, label := range labels {
		rendered[i] = label + ": " + render(i)
	}

	return id.Signature[:open] + "(" + strings.Join(rendered, ", ") + ") -> " + id.ResultType
}

func normalizeSignature(signature string, isWrite bool) string {
	switch {
	case strings.HasPrefix(signature, subscriptStart):
		if isWrite {
			return strings.TrimSuffix(signature, ")") + newValueLabel + ")"
		}

		return signature
	case !strings.Contains(signature, "("):
		if isWrite {
			return signature + "(" + newValueLabel + ")"
		}

		return signature + "()"
	default:
		return signature
	}
}
