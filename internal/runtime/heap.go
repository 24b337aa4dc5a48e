package runtime

import "github.com/cwbudde/es6sandbox/internal/limits"

// Heap is the per-EvalCtx allocator: every reference-type value (object,
// array, string, closure) is created through it so allocation is charged
// against the execution's Meter before the value becomes observable to
// the script (spec §4.6). A Heap is released wholesale when its EvalCtx
// ends; nothing it allocates outlives that execution.
type Heap struct {
	meter *limits.Meter
}

// NewHeap creates a Heap charging against meter.
func NewHeap(meter *limits.Meter) *Heap {
	return &Heap{meter: meter}
}

// NewObject allocates an empty plain object, charging its header.
func (h *Heap) NewObject() (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return NewPlainObject(), nil
}

// NewArray allocates an empty array, charging its header.
func (h *Heap) NewArray() (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return NewArray(), nil
}

// NewArrayWithCapacity allocates an array and charges for n pre-sized
// element slots in addition to the header (used when materializing array
// literals so the whole literal is charged up front).
func (h *Heap) NewArrayWithCapacity(n int) (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes + int64(n)*limits.SlotBytes); err != nil {
		return nil, err
	}
	return NewArray(), nil
}

// NewString charges a string allocation's header plus payload and returns
// the Value (strings are held inline in Value, not by Heap reference, but
// still cost memory budget per spec §4.6).
func (h *Heap) NewString(s string) (Value, error) {
	if err := h.meter.ChargeAlloc(limits.StringHeaderBytes + int64(len(s))); err != nil {
		return Value{}, err
	}
	return String(s), nil
}

// SetProperty charges one extra slot the first time key is written to o,
// then performs the write. Overwriting an existing key is free.
func (h *Heap) SetProperty(o *Object, key string, v Value) error {
	if !o.Has(key) {
		if err := h.meter.ChargeAlloc(limits.SlotBytes); err != nil {
			return err
		}
	}
	o.Set(key, v)
	return nil
}

// PushArray charges one slot and appends v to o's element storage.
func (h *Heap) PushArray(o *Object, v Value) error {
	if err := h.meter.ChargeAlloc(limits.SlotBytes); err != nil {
		return err
	}
	o.Elements = append(o.Elements, v)
	return nil
}

// NewClosure allocates a function object closing over env, charging the
// closure header plus one captured-slot cost per captured binding
// (capturedCount). The interpreter passes 0, so a script closure is charged
// its header only.
func (h *Heap) NewClosure(capturedCount int) (*Object, error) {
	cost := int64(limits.ClosureHeaderBytes) + int64(capturedCount)*int64(limits.CapturedSlotBytes)
	if err := h.meter.ChargeAlloc(cost); err != nil {
		return nil, err
	}
	return &Object{Class: ClassFunction}, nil
}

// NewHostObject allocates a host-class object wrapping handle, charging
// only the header (the handle's memory is the host's concern, not the
// sandbox's).
func (h *Heap) NewHostObject(handle any, id string) (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return &Object{Class: ClassHost, HostHandle: handle, HostID: id}, nil
}

// NewDynamicObject allocates a dynamic-property object backed by resolver,
// charging only the header.
func (h *Heap) NewDynamicObject(resolver DynamicResolver) (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return &Object{Class: ClassDynamicHost, Resolver: resolver}, nil
}

// NewMap / NewSet allocate empty Map/Set objects, charging their header.
func (h *Heap) NewMap() (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return &Object{Class: ClassMap, MapData: NewOrderedMap()}, nil
}

func (h *Heap) NewSet() (*Object, error) {
	if err := h.meter.ChargeAlloc(limits.ObjectHeaderBytes); err != nil {
		return nil, err
	}
	return &Object{Class: ClassSet, SetData: NewOrderedMap()}, nil
}

// ChargeMapEntry charges one slot for a new Map/Set entry; called by the
// builtins before inserting.
func (h *Heap) ChargeMapEntry() error {
	return h.meter.ChargeAlloc(limits.SlotBytes)
}
