package counters

import (
	"runtime"

	"snipbench/internal/snippet"
)

// MeasureAllocated runs the snippet once and reports the bytes it
// allocated, the Go analogue of a peak-memory trace (the same MemStats
// source testing.B uses for B/op). A GC settles the heap first so
// earlier garbage is not billed to this snippet.
func MeasureAllocated(s snippet.Snippet) (uint64, error) {
	runtime.GC()

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	err := s.Run()
	runtime.ReadMemStats(&after)
	if err != nil {
		return 0, err
	}
	return after.TotalAlloc - before.TotalAlloc, nil
}
