package counters

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownKind is returned when a requested measurement kind is not
// registered in the catalog. It fails before any snippet execution.
var ErrUnknownKind = errors.New("unknown measurement kind")

// KindPeakMemory is handled outside the counter facility: it is
// measured by the allocation tracker, not a hardware counter.
const KindPeakMemory = "peak_memory"

// Value is one derived measurement. Valid is false on platforms without
// a counter facility; presentation renders such values as "n/a". This
// replaces the original mixed number/text placeholder with a single
// representation.
type Value struct {
	Float64 float64
	Valid   bool
}

// Number wraps a derived number in a valid Value.
func Number(f float64) Value {
	return Value{Float64: f, Valid: true}
}

// MarshalJSON encodes invalid values as null so stored runs round-trip
// without inventing numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float64)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var f *float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f == nil {
		*v = Value{}
		return nil
	}
	*v = Number(*f)
	return nil
}

// Kind ties a measurement-kind id to the ordered events it needs and
// the pure derivation from raw event counts to the reported value.
type Kind struct {
	ID     string
	Title  string
	Events []Event

	// Derive receives one raw count per Events entry, in declaration
	// order, regardless of how events were batched during sampling.
	Derive func(raw []uint64) float64
}

// missRate reports misses as a percentage of references, rounded to one
// decimal like the original tables.
func missRate(raw []uint64) float64 {
	refs, misses := raw[0], raw[1]
	if refs == 0 {
		return 0
	}
	return math.Round(float64(misses)/float64(refs)*1000) / 10
}

func first(raw []uint64) float64 { return float64(raw[0]) }

func sum2(raw []uint64) float64 { return float64(raw[0] + raw[1]) }

// catalog is built once at init and never mutated afterwards.
var catalog = map[string]Kind{}

func register(k Kind) {
	catalog[k.ID] = k
}

func init() {
	register(Kind{
		ID:     "instructions",
		Title:  "CPU instructions",
		Events: []Event{Instructions},
		Derive: first,
	})
	register(Kind{
		ID:     "memory_cache_miss",
		Title:  "Memory cache miss %",
		Events: []Event{CacheReferences, CacheMisses},
		Derive: missRate,
	})
	register(Kind{
		ID:     "memory_cache_refs",
		Title:  "Memory cache references",
		Events: []Event{CacheReferences},
		Derive: first,
	})
	register(Kind{
		ID:    "l1_memory_cache_miss",
		Title: "L1 cache miss %",
		Events: []Event{
			Cache{L1D, CacheRead, CacheAccess},
			Cache{L1D, CacheRead, CacheMiss},
		},
		Derive: missRate,
	})
	register(Kind{
		ID:     "l1_memory_cache_refs",
		Title:  "L1 cache references",
		Events: []Event{Cache{L1D, CacheRead, CacheAccess}},
		Derive: first,
	})
	register(Kind{
		ID:    "ll_memory_cache_miss",
		Title: "LL cache miss %",
		Events: []Event{
			Cache{LL, CacheRead, CacheAccess},
			Cache{LL, CacheRead, CacheMiss},
		},
		Derive: missRate,
	})
	register(Kind{
		ID:     "ll_memory_cache_refs",
		Title:  "LL cache references",
		Events: []Event{Cache{LL, CacheRead, CacheAccess}},
		Derive: first,
	})
	register(Kind{
		ID:     "branch_mispredictions",
		Title:  "Branch misprediction %",
		Events: []Event{BranchInstructions, BranchMisses},
		Derive: missRate,
	})
	register(Kind{
		ID:     "branches",
		Title:  "Branch instructions",
		Events: []Event{BranchInstructions},
		Derive: first,
	})
	register(Kind{
		ID:    "simd_256bit",
		Title: "256-bit SIMD instructions",
		// fp_arith_inst_retired.256b_packed_{double,single}
		Events: []Event{Raw(0x10C7), Raw(0x20C7)},
		Derive: sum2,
	})
	register(Kind{
		ID:    "simd_128bit",
		Title: "128-bit SIMD instructions",
		// fp_arith_inst_retired.128b_packed_{double,single}
		Events: []Event{Raw(0x4C7), Raw(0x8C7)},
		Derive: sum2,
	})
	register(Kind{
		ID:     KindPeakMemory,
		Title:  "Allocated bytes",
		Events: nil,
	})
}

// Lookup resolves a measurement-kind id.
func Lookup(id string) (Kind, error) {
	k, ok := catalog[id]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownKind, id)
	}
	return k, nil
}

// Kinds lists all registered kind ids, sorted.
func Kinds() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Titles resolves the column titles for the requested kinds, in request
// order.
func Titles(ids []string) ([]string, error) {
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		k, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		titles = append(titles, k.Title)
	}
	return titles, nil
}
