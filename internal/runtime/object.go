package runtime

import (
	"sort"
	"strconv"

	"github.com/cwbudde/es6sandbox/internal/ast"
)

// Class tags the internal class of an Object, used for `typeof`,
// `Array.isArray`, method dispatch, and diagnostics (spec §3).
type Class string

const (
	ClassObject      Class = "Object"
	ClassArray       Class = "Array"
	ClassString      Class = "String"
	ClassDate        Class = "Date"
	ClassFunction    Class = "Function"
	ClassHost        Class = "Host"
	ClassDynamicHost Class = "DynamicHost"
	ClassMap         Class = "Map"
	ClassSet         Class = "Set"
	ClassError       Class = "Error"
)

// NativeFunc is the uniform shape every callable Object's Callable field
// holds, whether it wraps a host function or (via a closure installed by
// the interpreter) a script-defined function body. ctx is always the
// EvalCtx driving the call; `this` is the receiver (Undefined for bare
// calls); args is already fully evaluated left-to-right.
type NativeFunc func(ctx *EvalCtx, this Value, args []Value) (Value, error)

// ScriptFunctionData holds everything needed to invoke a script-defined
// function or arrow: its AST and the lexical scope it closed over. The
// interpreter package populates and interprets this; runtime only carries
// it so it can travel inside an Object's Callable closure.
type ScriptFunctionData struct {
	Name      string
	Params    []ast.Pattern
	Body      *ast.BlockStatement
	ExprBody  ast.Expression
	Closure   *Environment
	IsArrow   bool
	BoundThis Value // meaningful only for IsArrow (captured lexical `this`)
}

// DynamicResolver is the host-supplied callback set backing a
// dynamic-property object (spec §4.7 mechanism 3).
type DynamicResolver interface {
	Get(ctx *EvalCtx, name string) (Value, bool, error)
	Set(ctx *EvalCtx, name string, v Value) (bool, error)
	Delete(ctx *EvalCtx, name string) (bool, error)
	Enumerate(ctx *EvalCtx) (map[string]Value, error)
}

// Object is the engine's single heap-allocated reference type: plain
// objects, arrays, boxed strings, dates, functions, host objects, and
// dynamic-property objects are all *Object values distinguished by Class
// (spec §3).
type Object struct {
	Class Class

	props     map[string]Value
	propOrder []string
	Frozen    bool

	// Array storage (Class == ClassArray).
	Elements []Value

	// Function storage (Class == ClassFunction).
	Callable NativeFunc
	Script   *ScriptFunctionData

	// Host storage (Class == ClassHost): an opaque handle with a stable
	// identity string, per SPEC_FULL.md's uuid wiring.
	HostHandle any
	HostID     string

	// Dynamic-property storage (Class == ClassDynamicHost).
	Resolver DynamicResolver

	// Boxed-primitive storage (Class == ClassString / number/boolean boxes).
	Primitive Value

	// Date storage (Class == ClassDate): Unix milliseconds.
	TimeMillis float64

	// Map/Set storage.
	MapData *OrderedMap
	SetData *OrderedMap

	// Error storage (Class == ClassError / thrown script errors carrying a
	// Go error for LimitsError passthrough is handled outside Value entirely).
}

// NewPlainObject returns an empty Object with class Object.
func NewPlainObject() *Object {
	return &Object{Class: ClassObject, props: map[string]Value{}}
}

// NewArray returns an empty Object with class Array.
func NewArray() *Object {
	return &Object{Class: ClassArray, props: map[string]Value{}}
}

// Get reads an own property. Indexed numeric keys on an array read
// Elements directly; "length" is synthesized for arrays.
func (o *Object) Get(key string) (Value, bool) {
	if o.Class == ClassArray {
		if key == "length" {
			return Number(float64(len(o.Elements))), true
		}
		if idx, ok := arrayIndex(key); ok {
			if idx >= 0 && idx < len(o.Elements) {
				return o.Elements[idx], true
			}
			return Undefined(), false
		}
	}
	v, ok := o.props[key]
	return v, ok
}

// Set writes an own property, tracking insertion order for enumeration.
// Indexed numeric keys on an array grow Elements, filling gaps with
// `undefined` holes as spec §4.3 mandates.
func (o *Object) Set(key string, v Value) {
	if o.Class == ClassArray {
		if key == "length" {
			n := int(v.NumberRaw())
			o.setLength(n)
			return
		}
		if idx, ok := arrayIndex(key); ok {
			o.setIndex(idx, v)
			return
		}
	}
	if o.props == nil {
		o.props = map[string]Value{}
	}
	if _, exists := o.props[key]; !exists {
		o.propOrder = append(o.propOrder, key)
	}
	o.props[key] = v
}

func (o *Object) setIndex(idx int, v Value) {
	for len(o.Elements) <= idx {
		o.Elements = append(o.Elements, Undefined())
	}
	o.Elements[idx] = v
}

func (o *Object) setLength(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(o.Elements) {
		o.Elements = o.Elements[:n]
		return
	}
	for len(o.Elements) < n {
		o.Elements = append(o.Elements, Undefined())
	}
}

// Delete removes an own property or array index.
func (o *Object) Delete(key string) bool {
	if o.Class == ClassArray {
		if idx, ok := arrayIndex(key); ok && idx >= 0 && idx < len(o.Elements) {
			o.Elements[idx] = Undefined()
			return true
		}
	}
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.propOrder {
		if k == key {
			o.propOrder = append(o.propOrder[:i], o.propOrder[i+1:]...)
			break
		}
	}
	return true
}

// Has reports own-property (or array index) presence.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	if ok {
		return true
	}
	_, ok = o.props[key]
	return ok
}

// OwnKeys returns enumerable own keys in ES order: ascending integer-like
// keys first, then string keys in insertion order (spec §3).
func (o *Object) OwnKeys() []string {
	var intKeys []int
	var strKeys []string
	if o.Class == ClassArray {
		for i := range o.Elements {
			intKeys = append(intKeys, i)
		}
	}
	for _, k := range o.propOrder {
		if idx, ok := arrayIndex(k); ok {
			intKeys = append(intKeys, idx)
			continue
		}
		strKeys = append(strKeys, k)
	}
	sort.Ints(intKeys)
	keys := make([]string, 0, len(intKeys)+len(strKeys))
	for _, i := range intKeys {
		keys = append(keys, strconv.Itoa(i))
	}
	keys = append(keys, strKeys...)
	return keys
}

// EnumerableKeys returns the keys Object.keys/for-in should walk. For a
// plain object or array this is OwnKeys(); for a dynamic-property object
// (spec §4.7 mechanism 3) it dispatches through Resolver.Enumerate instead,
// since such an object's properties never live in props. Resolver.Enumerate
// returns an unordered map, so the result is sorted for determinism; a host
// that needs a specific key order must encode that order into the keys
// themselves or accept the sort.
func (o *Object) EnumerableKeys(ctx *EvalCtx) ([]string, error) {
	if o.Class == ClassDynamicHost && o.Resolver != nil {
		m, err := o.Resolver.Enumerate(ctx)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	}
	return o.OwnKeys(), nil
}

func arrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// OrderedMap backs the Map/Set builtins (SPEC_FULL.md §12): insertion
// order is preserved and keys compare with SameValueZero.
type OrderedMap struct {
	keys   []Value
	values []Value
}

func NewOrderedMap() *OrderedMap { return &OrderedMap{} }

func (m *OrderedMap) indexOf(key Value) int {
	for i, k := range m.keys {
		if SameValueZero(k, key) {
			return i
		}
	}
	return -1
}

func (m *OrderedMap) Get(key Value) (Value, bool) {
	i := m.indexOf(key)
	if i < 0 {
		return Undefined(), false
	}
	return m.values[i], true
}

func (m *OrderedMap) Set(key, value Value) {
	if i := m.indexOf(key); i >= 0 {
		m.values[i] = value
		return
	}
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

func (m *OrderedMap) Delete(key Value) bool {
	i := m.indexOf(key)
	if i < 0 {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	return true
}

func (m *OrderedMap) Has(key Value) bool { return m.indexOf(key) >= 0 }
func (m *OrderedMap) Size() int          { return len(m.keys) }
func (m *OrderedMap) Keys() []Value      { return append([]Value(nil), m.keys...) }
func (m *OrderedMap) Values() []Value    { return append([]Value(nil), m.values...) }
