package core

import (
	"reflect"

	"go.uber.org/zap"
)

// Request is what a resolver sees for one call.
type Request struct {
	Operation  OperationID
	Params     []any
	ResultType reflect.Type
	// Throwing is set on the error-returning path (MockedThrowable). Only the terminal
	// substitution depends on it.
	Throwing bool
}

// Next hands resolution to the following tier.
type Next func() (any, error)

// Resolver is one tier of the resolution chain. It either produces a response or delegates
// by calling next.
type Resolver interface {
	Resolve(req Request, next Next) (any, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(req Request, next Next) (any, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(req Request, next Next) (any, error) {
	return f(req, next)
}

// Chain runs resolver tiers in order. The terminal tier is always last and is never handed a
// usable next.
type Chain struct {
	tiers    []Resolver
	terminal Resolver
}

// NewChain builds a chain ending in terminal.
func NewChain(terminal Resolver, tiers ...Resolver) *Chain {
	return &Chain{tiers: tiers, terminal: terminal}
}

// Resolve produces the response for req.
func (c *Chain) Resolve(req Request) (any, error) {
	return c.resolveFrom(0, req)
}

func (c *Chain) resolveFrom(index int, req Request) (any, error) {
	if index >= len(c.tiers) {
		return c.terminal.Resolve(req, func() (any, error) {
			return zeroOf(req.ResultType), nil
		})
	}

	return c.tiers[index].Resolve(req, func() (any, error) {
		return c.resolveFrom(index+1, req)
	})
}

// GivenResolver answers from registered behaviours.
//
// No match delegates. Exactly one match is handled; if its value is not of the requested type
// the call is treated as unmatched and delegated, which is how result-type overloads coexist.
// Two or more matches are reported as TooManyDefinedBehaviour and never delegated.
type GivenResolver struct {
	Behaviours *BehaviourRegister
	Errors     ErrorHandler
	Logger     *zap.Logger
	// WarnOnTypeMismatch logs when a matched behaviour produced the wrong type.
	WarnOnTypeMismatch bool
}

// Resolve implements Resolver.
func (r *GivenResolver) Resolve(req Request, next Next) (any, error) {
	triggers := r.Behaviours.Recorded(req.Operation, req.Params)

	switch len(triggers) {
	case 0:
		return next()
	case 1:
		value, ok, err := triggers[0].Behaviour.Handle(req.Params, req.ResultType)
		if err != nil {
			return nil, err
		}

		if !ok {
			if r.WarnOnTypeMismatch && r.Logger != nil {
				r.Logger.Warn("behaviour produced a value of the wrong type; falling through",
					zap.String("call", req.Operation.CallDescription(req.Params)),
					zap.String("behaviour", triggers[0].Behaviour.ID.String()),
					zap.String("expected", TypeName(req.ResultType)))
			}

			return next()
		}

		return value, nil
	default:
		return failResolution(r.Errors, req, &MockError{
			Kind:        TooManyDefinedBehaviour,
			Operation:   req.Operation,
			Description: req.Operation.CallDescription(req.Params),
			Matches:     len(triggers),
		})
	}
}

// LocalStubResolver answers with a per-mock default for the exact result type.
type LocalStubResolver struct {
	Defaults *DefaultValues
}

// Resolve implements Resolver.
func (r *LocalStubResolver) Resolve(req Request, next Next) (any, error) {
	if value, ok := r.Defaults.Lookup(req.ResultType); ok {
		return value, nil
	}

	return next()
}

// GlobalStubResolver answers with the canonical empty value of the result type.
type GlobalStubResolver struct {
	Table *DefaultTable
}

// Resolve implements Resolver.
func (r *GlobalStubResolver) Resolve(req Request, next Next) (any, error) {
	if value, ok := r.Table.Lookup(req.ResultType); ok {
		return value, nil
	}

	return next()
}

// UnresolvedResolver is the terminal tier: it reports NoDefinedBehaviour and substitutes the
// error handler's recovery value. On the throwing path the failure is also raised.
type UnresolvedResolver struct {
	Errors ErrorHandler
}

// Resolve implements Resolver.
func (r *UnresolvedResolver) Resolve(req Request, _ Next) (any, error) {
	return failResolution(r.Errors, req, &MockError{
		Kind:        NoDefinedBehaviour,
		Operation:   req.Operation,
		Description: req.Operation.CallDescription(req.Params),
	})
}

// failResolution asks the error handler for a recovery value, falling back to the zero value
// when the handler's answer has the wrong type.
func failResolution(handler ErrorHandler, req Request, mockErr *MockError) (any, error) {
	recovered, ok := narrowTo(handler.Handle(mockErr, req.ResultType), req.ResultType)
	if !ok {
		recovered = zeroOf(req.ResultType)
	}

	if req.Throwing {
		return recovered, mockErr
	}

	return recovered, nil
}
