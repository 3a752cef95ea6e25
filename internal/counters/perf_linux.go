//go:build linux

package counters

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// perfGroupSize caps events sampled per pass. General-purpose PMCs are
// scarce (four to six on most cores); staying at six avoids kernel
// multiplexing, which would silently scale counts.
const perfGroupSize = 6

func newPlatformFacility() Facility {
	if perfAvailable() {
		return perfFacility{}
	}
	return unsupportedFacility{}
}

// perfAvailable probes whether perf_event_open works here at all, which
// depends on kernel support and perf_event_paranoid.
func perfAvailable() bool {
	attr, err := eventAttr(Instructions)
	if err != nil {
		return false
	}
	fd, err := unix.PerfEventOpen(&attr, 0, -1, -1, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		return false
	}
	unix.Close(fd)
	return true
}

// perfFacility samples counters through perf_event_open(2), reading the
// whole event group from the leader in one read.
type perfFacility struct{}

func (perfFacility) MaxGroup() int { return perfGroupSize }

func (perfFacility) Measure(events []Event, body func() error) ([]uint64, error) {
	// Counters attach to the calling thread; keep the body there too.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	fds := make([]int, 0, len(events))
	defer func() {
		for _, fd := range fds {
			unix.Close(fd)
		}
	}()

	leader := -1
	for _, ev := range events {
		attr, err := eventAttr(ev)
		if err != nil {
			return nil, err
		}
		fd, err := unix.PerfEventOpen(&attr, 0, -1, leader, unix.PERF_FLAG_FD_CLOEXEC)
		if err != nil {
			return nil, fmt.Errorf("perf_event_open %s: %w", ev, err)
		}
		fds = append(fds, fd)
		if leader == -1 {
			leader = fd
		}
	}

	if err := unix.IoctlSetInt(leader, unix.PERF_EVENT_IOC_RESET, unix.PERF_IOC_FLAG_GROUP); err != nil {
		return nil, fmt.Errorf("reset counters: %w", err)
	}
	if err := unix.IoctlSetInt(leader, unix.PERF_EVENT_IOC_ENABLE, unix.PERF_IOC_FLAG_GROUP); err != nil {
		return nil, fmt.Errorf("enable counters: %w", err)
	}

	bodyErr := body()

	if err := unix.IoctlSetInt(leader, unix.PERF_EVENT_IOC_DISABLE, unix.PERF_IOC_FLAG_GROUP); err != nil {
		return nil, fmt.Errorf("disable counters: %w", err)
	}
	if bodyErr != nil {
		return nil, bodyErr
	}

	return readGroup(leader, len(events))
}

// readGroup reads a PERF_FORMAT_GROUP record from the leader fd:
// {nr uint64, values [nr]uint64}, values in the order the group members
// were opened.
func readGroup(leader, n int) ([]uint64, error) {
	buf := make([]byte, 8*(1+n))
	if _, err := unix.Read(leader, buf); err != nil {
		return nil, fmt.Errorf("read counters: %w", err)
	}
	nr := binary.NativeEndian.Uint64(buf[:8])
	if int(nr) != n {
		return nil, fmt.Errorf("read counters: got %d values, want %d", nr, n)
	}
	values := make([]uint64, n)
	for i := range values {
		values[i] = binary.NativeEndian.Uint64(buf[8*(i+1):])
	}
	return values, nil
}

// eventAttr translates an Event into a perf_event_attr counting only
// user-space activity of the current thread, initially disabled so the
// whole group starts and stops together.
func eventAttr(ev Event) (unix.PerfEventAttr, error) {
	attr := unix.PerfEventAttr{
		Read_format: unix.PERF_FORMAT_GROUP,
		Bits:        unix.PerfBitDisabled | unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
	}
	attr.Size = uint32(unsafe.Sizeof(attr))

	switch e := ev.(type) {
	case Hardware:
		attr.Type = unix.PERF_TYPE_HARDWARE
		switch e {
		case Instructions:
			attr.Config = unix.PERF_COUNT_HW_INSTRUCTIONS
		case CacheReferences:
			attr.Config = unix.PERF_COUNT_HW_CACHE_REFERENCES
		case CacheMisses:
			attr.Config = unix.PERF_COUNT_HW_CACHE_MISSES
		case BranchInstructions:
			attr.Config = unix.PERF_COUNT_HW_BRANCH_INSTRUCTIONS
		case BranchMisses:
			attr.Config = unix.PERF_COUNT_HW_BRANCH_MISSES
		default:
			return attr, fmt.Errorf("unmapped hardware event %v", e)
		}
	case Cache:
		attr.Type = unix.PERF_TYPE_HW_CACHE
		var id, op, result uint64
		switch e.ID {
		case L1D:
			id = unix.PERF_COUNT_HW_CACHE_L1D
		case LL:
			id = unix.PERF_COUNT_HW_CACHE_LL
		}
		switch e.Op {
		case CacheRead:
			op = unix.PERF_COUNT_HW_CACHE_OP_READ
		case CacheWrite:
			op = unix.PERF_COUNT_HW_CACHE_OP_WRITE
		}
		switch e.Result {
		case CacheAccess:
			result = unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS
		case CacheMiss:
			result = unix.PERF_COUNT_HW_CACHE_RESULT_MISS
		}
		attr.Config = id | op<<8 | result<<16
	case Raw:
		attr.Type = unix.PERF_TYPE_RAW
		attr.Config = uint64(e)
	default:
		return attr, fmt.Errorf("unmapped event type %T", ev)
	}
	return attr, nil
}
