// Package chrono provides the scaled guest clock and FILETIME calendar
// support.
//
// Two clock domains exist: the host domain maps 1:1 onto FILETIME (100-ns
// ticks since 1601-01-01 UTC), and the guest domain runs at a configurable
// scale on top of it, offset by the configured guest system time base.
package chrono

import (
	"math"
	"sync/atomic"
	"time"
)

// TicksPerSecond is the FILETIME resolution.
const TicksPerSecond = 10_000_000

// UnixEpochDelta is the number of 100-ns ticks between 1601-01-01 and
// 1970-01-01: 369 years including 89 leap days.
const UnixEpochDelta = (369*365 + 89) * 86400 * int64(TicksPerSecond)

var (
	guestTickFrequency  atomic.Uint64
	guestSystemTimeBase atomic.Uint64
	guestTimeScalarBits atomic.Uint64 // float64 bits
	noScaling           atomic.Bool

	// Host anchor taken when the guest time base was set; the guest clock
	// advances from the base by the scaled host delta since then.
	guestHostAnchor atomic.Uint64
)

func init() {
	guestTickFrequency.Store(50_000_000)
	guestTimeScalarBits.Store(math.Float64bits(1.0))
	SetGuestSystemTimeBase(QueryHostSystemTime())
}

// SetGuestTickFrequency sets the guest timebase frequency in Hz.
func SetGuestTickFrequency(hz uint64) { guestTickFrequency.Store(hz) }

// GuestTickFrequency returns the guest timebase frequency.
func GuestTickFrequency() uint64 { return guestTickFrequency.Load() }

// SetGuestSystemTimeBase pins the guest system time to base as of now.
func SetGuestSystemTimeBase(base uint64) {
	guestHostAnchor.Store(QueryHostSystemTime())
	guestSystemTimeBase.Store(base)
}

// GuestSystemTimeBase returns the configured guest time base.
func GuestSystemTimeBase() uint64 { return guestSystemTimeBase.Load() }

// SetGuestTimeScalar sets the guest/host clock speed ratio.
func SetGuestTimeScalar(scalar float64) {
	guestTimeScalarBits.Store(math.Float64bits(scalar))
}

// GuestTimeScalar returns the guest/host clock speed ratio.
func GuestTimeScalar() float64 {
	return math.Float64frombits(guestTimeScalarBits.Load())
}

// SetNoScaling disables clock scaling entirely; the guest clock then runs
// at host speed.
func SetNoScaling(v bool) { noScaling.Store(v) }

// NoScaling reports whether clock scaling is disabled.
func NoScaling() bool { return noScaling.Load() }

// QueryHostSystemTime returns the host wall clock as a FILETIME.
func QueryHostSystemTime() uint64 {
	now := time.Now()
	return uint64(now.UnixNano()/100 + UnixEpochDelta)
}

// QueryGuestSystemTime returns the scaled guest clock as a FILETIME.
func QueryGuestSystemTime() uint64 {
	delta := int64(QueryHostSystemTime() - guestHostAnchor.Load())
	if !NoScaling() {
		delta = int64(float64(delta) * GuestTimeScalar())
	}
	return guestSystemTimeBase.Load() + uint64(delta)
}

// ScaleGuestDurationMillis converts a guest-relative duration in
// milliseconds to the host duration it takes to elapse.
func ScaleGuestDurationMillis(ms uint32) uint32 {
	if NoScaling() {
		return ms
	}
	scalar := GuestTimeScalar()
	if scalar == 0 {
		return ms
	}
	return uint32(float64(ms) / scalar)
}

// ScaleGuestDuration converts a guest-relative duration to host time.
func ScaleGuestDuration(d time.Duration) time.Duration {
	if NoScaling() {
		return d
	}
	scalar := GuestTimeScalar()
	if scalar == 0 {
		return d
	}
	return time.Duration(float64(d) / scalar)
}
