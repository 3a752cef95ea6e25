// Package counters maps named measurement kinds onto hardware counter
// events, samples them around snippet executions, and derives the
// reported values.
package counters

import "fmt"

// Event identifies one countable hardware or software event source.
// Implementations are small comparable values so events can be
// deduplicated via map membership across measurement kinds.
type Event interface {
	fmt.Stringer
	event()
}

// Hardware is a generalized hardware event, portable across CPUs.
type Hardware int

const (
	Instructions Hardware = iota
	CacheReferences
	CacheMisses
	BranchInstructions
	BranchMisses
)

func (Hardware) event() {}

func (h Hardware) String() string {
	switch h {
	case Instructions:
		return "instructions"
	case CacheReferences:
		return "cache-references"
	case CacheMisses:
		return "cache-misses"
	case BranchInstructions:
		return "branch-instructions"
	case BranchMisses:
		return "branch-misses"
	}
	return fmt.Sprintf("hardware(%d)", int(h))
}

// CacheID selects which cache a Cache event observes.
type CacheID int

const (
	L1D CacheID = iota
	LL
)

// CacheOp selects the operation a Cache event counts.
type CacheOp int

const (
	CacheRead CacheOp = iota
	CacheWrite
)

// CacheResult selects whether accesses or misses are counted.
type CacheResult int

const (
	CacheAccess CacheResult = iota
	CacheMiss
)

// Cache is a hardware cache event, identified by cache, operation and
// result dimensions the way perf encodes them.
type Cache struct {
	ID     CacheID
	Op     CacheOp
	Result CacheResult
}

func (Cache) event() {}

func (c Cache) String() string {
	id := "L1D"
	if c.ID == LL {
		id = "LL"
	}
	op := "read"
	if c.Op == CacheWrite {
		op = "write"
	}
	result := "access"
	if c.Result == CacheMiss {
		result = "miss"
	}
	return fmt.Sprintf("%s-%s-%s", id, op, result)
}

// Raw is a CPU-specific raw event code, as passed to perf's raw event
// interface (e.g. 0x10C7 for fp_arith_inst_retired.256b_packed_double
// on Intel).
type Raw uint64

func (Raw) event() {}

func (r Raw) String() string {
	return fmt.Sprintf("raw(%#x)", uint64(r))
}
