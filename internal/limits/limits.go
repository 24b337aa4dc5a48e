// Package limits implements the engine's resource-metering subsystem: an
// ops counter, a byte-accurate memory accountant, a wall-clock deadline,
// and a call-stack depth cap, consulted uniformly at every evaluation step
// (spec §4.5–§4.6). The design mirrors the actual-cost-tracking pattern
// used by cel-go's interpreter/runtimecost.go (checked pack example): a
// single Meter accumulates cost and is asked "have we blown the budget?"
// at each step, rather than the evaluator pre-computing a static cost.
package limits

import (
	"sync/atomic"
	"time"

	"github.com/cwbudde/es6sandbox/internal/errors"
)

// Config is the caller-supplied resource budget for one execution (spec
// §6 EvalOpts: max_ops, max_mem_bytes, timeout_ms, max_call_depth).
type Config struct {
	MaxOps       int64
	MaxMemBytes  int64
	Timeout      time.Duration
	MaxCallDepth int
}

// DefaultConfig matches the example defaults enumerated in spec §6.
func DefaultConfig() Config {
	return Config{
		MaxOps:       10_000_000,
		MaxMemBytes:  1 << 23,
		Timeout:      5 * time.Second,
		MaxCallDepth: 300,
	}
}

// ObjectHeaderBytes and friends are the fixed per-allocation header costs
// charged in addition to the payload size (spec §4.6).
const (
	StringHeaderBytes  = 16
	ObjectHeaderBytes  = 48
	SlotBytes          = 16
	ClosureHeaderBytes = 32
	CapturedSlotBytes  = 8
)

// Meter tracks ops/memory/call-depth consumption for a single EvalCtx and
// enforces Config against it. The cancel flag is safe to set from another
// goroutine (spec §5 Cancellation); everything else is only ever touched
// by the single thread driving that EvalCtx.
type Meter struct {
	cfg Config

	ops            int64
	allocatedBytes int64
	callDepth      int
	peakBytes      int64

	deadline time.Time
	nowFunc  func() time.Time

	cancelled atomic.Bool
}

// New creates a Meter for cfg. start is the wall-clock instant execution
// begins, used to compute the absolute deadline; nowFunc lets tests
// substitute a controllable clock (defaults to time.Now).
func New(cfg Config, start time.Time, nowFunc func() time.Time) *Meter {
	if nowFunc == nil {
		nowFunc = time.Now
	}
	return &Meter{
		cfg:      cfg,
		deadline: start.Add(cfg.Timeout),
		nowFunc:  nowFunc,
	}
}

// Cancel requests termination of the execution this Meter is attached to.
// It may be called from any goroutine.
func (m *Meter) Cancel() { m.cancelled.Store(true) }

// Step charges one op for an AST-node evaluation (or loop iteration) and
// checks every budget in the order mandated by spec §9 Open Question (c):
// ops, then cancel/deadline.
func (m *Meter) Step() error {
	m.ops++
	if m.ops > m.cfg.MaxOps {
		return errors.NewLimitsError(errors.LimitOps)
	}
	if m.cancelled.Load() {
		return errors.NewLimitsError(errors.LimitTimeout)
	}
	if m.cfg.Timeout > 0 && !m.nowFunc().Before(m.deadline) {
		return errors.NewLimitsError(errors.LimitTimeout)
	}
	return nil
}

// ChargeAlloc records a new allocation of n bytes and fails if the
// cumulative (never-decremented) total exceeds the memory budget.
func (m *Meter) ChargeAlloc(n int64) error {
	m.allocatedBytes += n
	if m.allocatedBytes > m.peakBytes {
		m.peakBytes = m.allocatedBytes
	}
	if m.cfg.MaxMemBytes > 0 && m.allocatedBytes > m.cfg.MaxMemBytes {
		return errors.NewLimitsError(errors.LimitMemory)
	}
	return nil
}

// PushCall increments the call-stack depth counter and fails if it now
// exceeds MaxCallDepth.
func (m *Meter) PushCall() error {
	m.callDepth++
	if m.cfg.MaxCallDepth > 0 && m.callDepth > m.cfg.MaxCallDepth {
		m.callDepth--
		return errors.NewLimitsError(errors.LimitCallDepth)
	}
	return nil
}

// PopCall decrements the call-stack depth counter on return/unwind.
func (m *Meter) PopCall() {
	if m.callDepth > 0 {
		m.callDepth--
	}
}

// Stats is an ExecutionStats snapshot (spec §3).
type Stats struct {
	Ops            int64
	AllocatedBytes int64
}

// Stats returns the current ops count and peak allocated bytes.
func (m *Meter) Stats() Stats {
	return Stats{Ops: m.ops, AllocatedBytes: m.peakBytes}
}
