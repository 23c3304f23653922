package core

import (
	"reflect"
	"sync"
)

// DefaultValues holds per-mock default results keyed by exact result type.
type DefaultValues struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

// NewDefaultValues creates an empty table.
func NewDefaultValues() *DefaultValues {
	return &DefaultValues{values: make(map[reflect.Type]any)}
}

// Lookup returns the default registered for resultType.
func (d *DefaultValues) Lookup(resultType reflect.Type) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, ok := d.values[resultType]

	return value, ok
}

// Set registers value as the default for resultType, replacing any earlier one.
func (d *DefaultValues) Set(resultType reflect.Type, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.values[resultType] = value
}

// DefaultTable is the open, type-keyed table of canonical "empty" values used by the global
// stub tier. Registered factories win over the built-in kind rules.
type DefaultTable struct {
	mu        sync.RWMutex
	factories map[reflect.Type]func() any
}

// NewDefaultTable creates a table with only the built-in kind rules.
func NewDefaultTable() *DefaultTable {
	return &DefaultTable{factories: make(map[reflect.Type]func() any)}
}

// GlobalDefaults returns the process-wide table.
func GlobalDefaults() *DefaultTable {
	return globalDefaults
}

// RegisterDefault registers factory as the canonical value of T in the process-wide table.
// Call it from init or TestMain.
func RegisterDefault[T any](factory func() T) {
	globalDefaults.Register(reflect.TypeFor[T](), func() any { return factory() })
}

// Lookup produces the canonical value for resultType:
//   - a registered factory, if any;
//   - false, 0 or "" for booleans, numbers and strings (including named types of those kinds);
//   - nil for pointers, interfaces, funcs and channels;
//   - empty, non-nil slices and maps.
//
// Anything else (structs, arrays, Void) is not in the table unless registered, so an unstubbed
// void operation reaches the unresolved tier.
func (d *DefaultTable) Lookup(resultType reflect.Type) (any, bool) {
	if resultType == nil {
		return nil, false
	}

	d.mu.RLock()
	factory, ok := d.factories[resultType]
	d.mu.RUnlock()

	if ok {
		return factory(), true
	}

	//nolint:exhaustive // everything else falls through to "not registered"
	switch resultType.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return reflect.Zero(resultType).Interface(), true
	case reflect.Slice:
		return reflect.MakeSlice(resultType, 0, 0).Interface(), true
	case reflect.Map:
		return reflect.MakeMap(resultType).Interface(), true
	default:
		return nil, false
	}
}

// Register adds or replaces the factory for resultType.
func (d *DefaultTable) Register(resultType reflect.Type, factory func() any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.factories[resultType] = factory
}

// unexported variables.
var (
	//nolint:gochecknoglobals // the canonical-value table is process-wide by definition
	globalDefaults = NewDefaultTable()
)
