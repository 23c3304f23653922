package core

import (
	"sync"

	"github.com/google/uuid"
	"github.com/toejough/impmock/match"
)

// Call is one recorded invocation of a mocked operation.
type Call struct {
	ID        uuid.UUID
	Operation OperationID
	Params    []any
	Time      int64
}

// Description renders the call for messages.
func (c Call) Description() string {
	return c.Operation.CallDescription(c.Params)
}

// CallRegister is the append-only log of invocations for one mock.
// Calls are never removed; verification only marks them.
type CallRegister struct {
	clock Clock

	mu         sync.Mutex
	byID       map[OperationID][]Call
	all        []Call
	unverified map[uuid.UUID]struct{}
}

// NewCallRegister creates an empty register stamping calls with clock.
func NewCallRegister(clock Clock) *CallRegister {
	return &CallRegister{
		clock:      clock,
		byID:       make(map[OperationID][]Call),
		unverified: make(map[uuid.UUID]struct{}),
	}
}

// AllVerified reports whether every recorded call has been marked verified.
func (r *CallRegister) AllVerified() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.unverified) == 0
}

// MarkVerified marks the call with the given id verified. Unknown or already verified ids are
// ignored.
func (r *CallRegister) MarkVerified(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.unverified, id)
}

// Record stamps and appends a call.
func (r *CallRegister) Record(id OperationID, params []any) Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := Call{
		ID:        uuid.New(),
		Operation: id,
		Params:    params,
		Time:      r.clock.Tick(),
	}

	r.byID[id] = append(r.byID[id], call)
	r.all = append(r.all, call)
	r.unverified[call.ID] = struct{}{}

	return call
}

// Recorded returns, in chronological order, the calls to id whose parameters satisfy
// predicates positionally. Fewer predicates than parameters match a prefix.
func (r *CallRegister) Recorded(id OperationID, predicates []match.AnyPredicate) []Call {
	r.mu.Lock()
	calls := r.byID[id]
	r.mu.Unlock()

	matched := make([]Call, 0, len(calls))

	for _, call := range calls {
		if paramsSatisfy(predicates, call.Params) {
			matched = append(matched, call)
		}
	}

	return matched
}

// Unverified returns the calls not yet marked verified, oldest first.
func (r *CallRegister) Unverified() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending := make([]Call, 0, len(r.unverified))

	for _, call := range r.all {
		if _, ok := r.unverified[call.ID]; ok {
			pending = append(pending, call)
		}
	}

	return pending
}

// paramsSatisfy applies predicates index by index. A predicate list longer than the
// parameter list never matches.
func paramsSatisfy(predicates []match.AnyPredicate, params []any) bool {
	if len(predicates) > len(params) {
		return false
	}

	for i, predicate := range predicates {
		if predicate == nil {
			continue
		}

		if !predicate.Satisfy(params[i]) {
			return false
		}
	}

	return true
}
