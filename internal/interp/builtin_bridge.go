package interp

import (
	"github.com/cwbudde/es6sandbox/internal/builtins"
	"github.com/cwbudde/es6sandbox/internal/runtime"
)

// stringMember resolves a String.prototype method or the reified `length`
// property for a primitive string (spec §4.3's "strings behave like
// read-only objects for member access" rule).
func (it *Interpreter) stringMember(s string, key string) (runtime.Value, error) {
	v, ok := builtins.StringProperty(it.ctx, s, key)
	if !ok {
		return runtime.Undefined(), nil
	}
	return v, nil
}

// lookupBuiltinMethod resolves a prototype method for o's class (Array,
// Map, Set) that isn't stored as an own property.
func (it *Interpreter) lookupBuiltinMethod(o *runtime.Object, key string) *runtime.Object {
	return builtins.ObjectMethod(it.ctx, o, key)
}
