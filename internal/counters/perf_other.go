//go:build !linux

package counters

// perf_event_open is Linux-only; other platforms get the stub.
func newPlatformFacility() Facility {
	return unsupportedFacility{}
}
