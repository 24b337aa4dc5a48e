package runtime

import "testing"

func TestEnvironmentGetWalksParentChain(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Declare("x", BindLet, true, Number(1))
	child := NewEnvironment(parent)

	v, err := child.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.NumberRaw() != 1 {
		t.Fatalf("expected 1, got %v", v.GoString())
	}
}

func TestEnvironmentGetUndeclaredReturnsErrNotDefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("missing")
	if _, ok := err.(*ErrNotDefined); !ok {
		t.Fatalf("expected *ErrNotDefined, got %v", err)
	}
}

func TestEnvironmentGetUninitializedReturnsTDZ(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("x", BindLet, false, Undefined())
	_, err := env.Get("x")
	if _, ok := err.(*ErrTDZ); !ok {
		t.Fatalf("expected *ErrTDZ, got %v", err)
	}
}

func TestEnvironmentSetRejectsConstReassignment(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("x", BindConst, true, Number(1))
	err := env.Set("x", Number(2))
	if _, ok := err.(*ErrConstAssign); !ok {
		t.Fatalf("expected *ErrConstAssign, got %v", err)
	}
}

func TestEnvironmentSetThroughParentMutatesSharedBinding(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Declare("x", BindLet, true, Number(1))
	child := NewEnvironment(parent)

	if err := child.Set("x", Number(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := parent.Get("x")
	if v.NumberRaw() != 2 {
		t.Fatalf("expected parent binding to be mutated to 2, got %v", v.GoString())
	}
}

func TestEnvironmentInitializeMarksTDZBindingInitialized(t *testing.T) {
	env := NewEnvironment(nil)
	env.Declare("x", BindLet, false, Undefined())
	env.Initialize("x", Number(42))
	v, err := env.Get("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.NumberRaw() != 42 {
		t.Fatalf("expected 42, got %v", v.GoString())
	}
}
