package counters

import (
	"errors"

	"snipbench/internal/snippet"
)

// Aggregator executes a snippet under counter measurement. The union of
// all requested kinds' events is sampled as a set, so a counter shared
// by several kinds is measured in one pass and every kind's value is
// re-derived from the shared results.
type Aggregator struct {
	fac Facility
}

// NewAggregator wires an aggregator to a counter facility (usually the
// one Detect selected at startup).
func NewAggregator(fac Facility) *Aggregator {
	return &Aggregator{fac: fac}
}

// Aggregate resolves each requested kind for one snippet. The result is
// aligned 1:1 with kindIDs, duplicates included: a duplicated kind is
// derived twice but its counters are sampled only once.
//
// Unknown kinds fail before any snippet execution. On platforms without
// a counter facility, counter-backed kinds yield invalid Values while
// peak-memory requests are still measured.
func (a *Aggregator) Aggregate(kindIDs []string, s snippet.Snippet) ([]Value, error) {
	kinds := make([]Kind, len(kindIDs))
	for i, id := range kindIDs {
		k, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}

	events := dedupEvents(kinds)

	counts := make(map[Event]uint64, len(events))
	unsupported := false
	for _, group := range batchEvents(events, a.fac.MaxGroup()) {
		values, err := a.fac.Measure(group, s.Run)
		if errors.Is(err, ErrUnsupported) {
			unsupported = true
			break
		}
		if err != nil {
			return nil, err
		}
		for i, ev := range group {
			counts[ev] = values[i]
		}
	}

	results := make([]Value, 0, len(kinds))
	for _, k := range kinds {
		if k.ID == KindPeakMemory {
			allocated, err := MeasureAllocated(s)
			if err != nil {
				return nil, err
			}
			results = append(results, Number(float64(allocated)))
			continue
		}
		if unsupported {
			results = append(results, Value{})
			continue
		}
		raw := make([]uint64, len(k.Events))
		for i, ev := range k.Events {
			raw[i] = counts[ev]
		}
		results = append(results, Number(k.Derive(raw)))
	}
	return results, nil
}

// dedupEvents unions the kinds' event lists preserving first-seen order.
func dedupEvents(kinds []Kind) []Event {
	seen := make(map[Event]struct{})
	var events []Event
	for _, k := range kinds {
		for _, ev := range k.Events {
			if _, ok := seen[ev]; ok {
				continue
			}
			seen[ev] = struct{}{}
			events = append(events, ev)
		}
	}
	return events
}

// batchEvents splits the event set into facility-sized passes; limit <= 0
// means one pass takes everything. The snippet is assumed deterministic
// enough that re-running it per batch samples the same work.
func batchEvents(events []Event, limit int) [][]Event {
	if len(events) == 0 {
		return nil
	}
	if limit <= 0 || len(events) <= limit {
		return [][]Event{events}
	}
	var batches [][]Event
	for len(events) > limit {
		batches = append(batches, events[:limit])
		events = events[limit:]
	}
	return append(batches, events)
}
