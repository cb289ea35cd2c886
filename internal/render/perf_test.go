package render

import (
	"sync"
	"testing"
	"time"
)

func TestRenderTimingsRecord(t *testing.T) {
	rt := NewRenderTimings()
	if rt.Min() != 0 || rt.Average() != 0 {
		t.Error("empty timings should report zero")
	}

	rt.Record(true, 2*time.Millisecond)
	rt.Record(true, 4*time.Millisecond)
	rt.Record(false, time.Second)

	if rt.Count() != 2 {
		t.Errorf("Count() = %d, want 2", rt.Count())
	}
	if rt.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", rt.Skipped())
	}
	if rt.Min() != 2*time.Millisecond || rt.Max() != 4*time.Millisecond {
		t.Errorf("Min/Max = %v/%v", rt.Min(), rt.Max())
	}
	if rt.Average() != 3*time.Millisecond {
		t.Errorf("Average() = %v, want 3ms", rt.Average())
	}
	if rt.Last() != 4*time.Millisecond {
		t.Errorf("Last() = %v, want 4ms", rt.Last())
	}

	rt.Reset()
	if rt.Count() != 0 || rt.Skipped() != 0 || rt.Max() != 0 {
		t.Error("Reset() did not clear timings")
	}
}

func TestRenderTimingsHook(t *testing.T) {
	rt := NewRenderTimings()
	hook := rt.Hook()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hook(GuessPlane, true, time.Microsecond)
		}()
	}
	wg.Wait()

	if rt.Count() != 50 {
		t.Errorf("Count() = %d, want 50", rt.Count())
	}
}
