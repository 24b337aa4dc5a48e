package limits

import (
	"testing"
	"time"

	"github.com/cwbudde/es6sandbox/internal/errors"
)

func TestStepChargesOpsAndEnforcesMaxOps(t *testing.T) {
	m := New(Config{MaxOps: 3}, time.Now(), nil)
	for i := 0; i < 3; i++ {
		if err := m.Step(); err != nil {
			t.Fatalf("unexpected error on step %d: %v", i, err)
		}
	}
	err := m.Step()
	if err == nil {
		t.Fatal("expected LimitsError, got nil")
	}
	le, ok := err.(*errors.LimitsError)
	if !ok {
		t.Fatalf("expected *errors.LimitsError, got %T", err)
	}
	if le.Kind != errors.LimitOps {
		t.Fatalf("expected LimitOps, got %v", le.Kind)
	}
}

func TestStepHonorsCancel(t *testing.T) {
	m := New(Config{MaxOps: 1000}, time.Now(), nil)
	m.Cancel()
	err := m.Step()
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitTimeout {
		t.Fatalf("expected timeout LimitsError after Cancel, got %v", err)
	}
}

func TestStepHonorsDeadline(t *testing.T) {
	start := time.Now()
	fakeNow := start
	m := New(Config{MaxOps: 1000, Timeout: time.Second}, start, func() time.Time { return fakeNow })
	if err := m.Step(); err != nil {
		t.Fatalf("unexpected error before deadline: %v", err)
	}
	fakeNow = start.Add(2 * time.Second)
	err := m.Step()
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitTimeout {
		t.Fatalf("expected timeout LimitsError past deadline, got %v", err)
	}
}

func TestChargeAllocEnforcesMaxMemBytesAndTracksPeak(t *testing.T) {
	m := New(Config{MaxMemBytes: 100}, time.Now(), nil)
	if err := m.ChargeAlloc(60); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.ChargeAlloc(30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := m.ChargeAlloc(20)
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitMemory {
		t.Fatalf("expected memory LimitsError, got %v", err)
	}
	if got := m.Stats().AllocatedBytes; got != 110 {
		t.Fatalf("expected peak bytes 110, got %d", got)
	}
}

func TestPushPopCallEnforcesMaxCallDepth(t *testing.T) {
	m := New(Config{MaxCallDepth: 2}, time.Now(), nil)
	if err := m.PushCall(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.PushCall(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := m.PushCall()
	le, ok := err.(*errors.LimitsError)
	if !ok || le.Kind != errors.LimitCallDepth {
		t.Fatalf("expected call-depth LimitsError, got %v", err)
	}
	m.PopCall()
	if err := m.PushCall(); err != nil {
		t.Fatalf("unexpected error after pop freed a slot: %v", err)
	}
}

func TestStatsReportsOpsAndPeakBytes(t *testing.T) {
	m := New(DefaultConfig(), time.Now(), nil)
	_ = m.Step()
	_ = m.Step()
	_ = m.ChargeAlloc(64)
	stats := m.Stats()
	if stats.Ops != 2 {
		t.Fatalf("expected 2 ops, got %d", stats.Ops)
	}
	if stats.AllocatedBytes != 64 {
		t.Fatalf("expected 64 allocated bytes, got %d", stats.AllocatedBytes)
	}
}
