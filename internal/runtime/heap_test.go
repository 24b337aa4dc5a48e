package runtime

import (
	"testing"
	"time"

	"github.com/cwbudde/es6sandbox/internal/errors"
	"github.com/cwbudde/es6sandbox/internal/limits"
)

func newTestHeap(maxMem int64) *Heap {
	m := limits.New(limits.Config{MaxMemBytes: maxMem, MaxOps: 1_000_000}, time.Now(), nil)
	return NewHeap(m)
}

func TestHeapSetPropertyChargesOnlyOnFirstWrite(t *testing.T) {
	h := newTestHeap(1000)
	o, err := h.NewObject()
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if err := h.SetProperty(o, "x", Number(1)); err != nil {
		t.Fatalf("first SetProperty: %v", err)
	}
	before := h.meter.Stats().AllocatedBytes
	if err := h.SetProperty(o, "x", Number(2)); err != nil {
		t.Fatalf("overwrite SetProperty: %v", err)
	}
	if after := h.meter.Stats().AllocatedBytes; after != before {
		t.Fatalf("overwriting an existing key should be free: before=%d after=%d", before, after)
	}
	v, ok := o.Get("x")
	if !ok || v.NumberRaw() != 2 {
		t.Fatalf("expected x=2, got %v ok=%v", v.GoString(), ok)
	}
}

func TestHeapAllocationsFailOverMemBudget(t *testing.T) {
	h := newTestHeap(limits.ObjectHeaderBytes)
	if _, err := h.NewObject(); err != nil {
		t.Fatalf("first NewObject should fit budget: %v", err)
	}
	_, err := h.NewObject()
	if err == nil {
		t.Fatal("expected memory LimitsError, got nil")
	}
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitMemory {
		t.Fatalf("expected memory LimitsError, got %v", err)
	}
}

func TestHeapNewArrayWithCapacityChargesHeaderAndSlots(t *testing.T) {
	h := newTestHeap(limits.ObjectHeaderBytes + 2*limits.SlotBytes)
	if _, err := h.NewArrayWithCapacity(2); err != nil {
		t.Fatalf("expected capacity-sized array to fit: %v", err)
	}
	if _, err := h.NewArrayWithCapacity(1); err == nil {
		t.Fatal("expected a further allocation to exceed the budget")
	}
}

func TestHeapPushArrayAppendsAndCharges(t *testing.T) {
	h := newTestHeap(1000)
	arr, err := h.NewArray()
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	if err := h.PushArray(arr, Number(1)); err != nil {
		t.Fatalf("PushArray: %v", err)
	}
	if err := h.PushArray(arr, Number(2)); err != nil {
		t.Fatalf("PushArray: %v", err)
	}
	if len(arr.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(arr.Elements))
	}
}
