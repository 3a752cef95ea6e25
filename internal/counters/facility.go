package counters

import "errors"

// ErrUnsupported is reported by facilities that cannot sample hardware
// counters on this platform or under the current kernel settings.
var ErrUnsupported = errors.New("hardware counters not available")

// Facility samples a set of events across one execution of a snippet.
// Returned counts are positionally aligned with the requested events.
//
// One interface, two implementations: a perf-backed facility on Linux
// and an unsupported stub everywhere else, selected once by Detect.
type Facility interface {
	// MaxGroup is the largest number of events the facility can sample
	// in a single pass; 0 means unlimited. The aggregator re-runs the
	// snippet once per batch beyond this limit.
	MaxGroup() int

	// Measure runs the body exactly once with all events counting and
	// returns their counts. A body error propagates unmodified.
	Measure(events []Event, body func() error) ([]uint64, error)
}

// Detect picks the counter facility for this platform. Callers treat
// the result as fixed for the process lifetime.
func Detect() Facility {
	return newPlatformFacility()
}

// Unsupported returns the stub facility; every Measure call reports
// ErrUnsupported and never executes the body.
func Unsupported() Facility {
	return unsupportedFacility{}
}

type unsupportedFacility struct{}

func (unsupportedFacility) MaxGroup() int { return 0 }

func (unsupportedFacility) Measure([]Event, func() error) ([]uint64, error) {
	return nil, ErrUnsupported
}
