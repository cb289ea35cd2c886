// Package render provides Ebiten-based rendering for matrixquiz.
// This file implements render timing statistics.
package render

import (
	"sync/atomic"
	"time"
)

// RenderTimings tracks how long plane renders take.
// All methods are safe for concurrent use.
type RenderTimings struct {
	count   atomic.Int64
	skipped atomic.Int64
	last    atomic.Int64 // nanoseconds
	min     atomic.Int64 // nanoseconds
	max     atomic.Int64 // nanoseconds
	total   atomic.Int64 // nanoseconds
}

// NewRenderTimings creates an empty RenderTimings.
func NewRenderTimings() *RenderTimings {
	rt := &RenderTimings{}
	rt.min.Store(int64(time.Hour))
	return rt
}

// Record adds one render. Skipped renders are counted but do not affect
// the duration statistics.
func (rt *RenderTimings) Record(drawn bool, elapsed time.Duration) {
	if !drawn {
		rt.skipped.Add(1)
		return
	}
	n := elapsed.Nanoseconds()
	rt.count.Add(1)
	rt.last.Store(n)
	rt.total.Add(n)

	for {
		cur := rt.min.Load()
		if n >= cur || rt.min.CompareAndSwap(cur, n) {
			break
		}
	}
	for {
		cur := rt.max.Load()
		if n <= cur || rt.max.CompareAndSwap(cur, n) {
			break
		}
	}
}

// Hook returns a RenderHook that records into rt.
func (rt *RenderTimings) Hook() RenderHook {
	return func(_ PlaneKind, drawn bool, elapsed time.Duration) {
		rt.Record(drawn, elapsed)
	}
}

// Count returns the number of completed renders.
func (rt *RenderTimings) Count() int64 {
	return rt.count.Load()
}

// Skipped returns the number of renders skipped for an unusable surface.
func (rt *RenderTimings) Skipped() int64 {
	return rt.skipped.Load()
}

// Last returns the duration of the most recent render.
func (rt *RenderTimings) Last() time.Duration {
	return time.Duration(rt.last.Load())
}

// Min returns the fastest render, or 0 before the first one.
func (rt *RenderTimings) Min() time.Duration {
	if rt.count.Load() == 0 {
		return 0
	}
	return time.Duration(rt.min.Load())
}

// Max returns the slowest render.
func (rt *RenderTimings) Max() time.Duration {
	return time.Duration(rt.max.Load())
}

// Average returns the mean render duration.
func (rt *RenderTimings) Average() time.Duration {
	count := rt.count.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(rt.total.Load() / count)
}

// Reset clears all statistics.
func (rt *RenderTimings) Reset() {
	rt.count.Store(0)
	rt.skipped.Store(0)
	rt.last.Store(0)
	rt.min.Store(int64(time.Hour))
	rt.max.Store(0)
	rt.total.Store(0)
}
