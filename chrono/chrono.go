package chrono

import "time"

// HostTime is a time point on the unscaled host clock, in FILETIME ticks.
type HostTime int64

// GuestTime is a time point on the scaled guest clock, in FILETIME ticks.
type GuestTime int64

// HostNow samples the host clock.
func HostNow() HostTime { return HostTime(QueryHostSystemTime()) }

// GuestNow samples the guest clock.
func GuestNow() GuestTime { return GuestTime(QueryGuestSystemTime()) }

// HostFromFileTime converts a raw FILETIME to a host time point.
func HostFromFileTime(ft uint64) HostTime { return HostTime(ft) }

// ToFileTime converts a host time point back to a raw FILETIME.
func (t HostTime) ToFileTime() uint64 { return uint64(t) }

// GuestFromFileTime converts a raw FILETIME to a guest time point.
func GuestFromFileTime(ft uint64) GuestTime { return GuestTime(ft) }

// ToFileTime converts a guest time point back to a raw FILETIME.
func (t GuestTime) ToFileTime() uint64 { return uint64(t) }

// ToSys converts a host time point to the Go system clock.
func (t HostTime) ToSys() time.Time {
	unixTicks := int64(t) - UnixEpochDelta
	return time.Unix(unixTicks/TicksPerSecond, (unixTicks%TicksPerSecond)*100).UTC()
}

// HostFromSys converts a Go system clock value to a host time point.
func HostFromSys(tm time.Time) HostTime {
	return HostTime(tm.Unix()*TicksPerSecond + int64(tm.Nanosecond())/100 + UnixEpochDelta)
}

// sampleBoth takes a pair of host and guest clock samples. The two reads
// are taken back to back with no fence and no lock around them.
func sampleBoth() (HostTime, GuestTime) {
	h := HostNow()
	g := GuestNow()
	return h, g
}

// ToHost converts a guest time point to the host domain: the guest-side
// delta against guest-now is scaled and applied to host-now.
func (t GuestTime) ToHost() HostTime {
	hostNow, guestNow := sampleBoth()
	delta := int64(t) - int64(guestNow)
	if !NoScaling() {
		delta = int64(float64(delta) * GuestTimeScalar())
	}
	return hostNow + HostTime(delta)
}

// ToGuest converts a host time point to the guest domain.
func (t HostTime) ToGuest() GuestTime {
	hostNow, guestNow := sampleBoth()
	delta := int64(t) - int64(hostNow)
	if !NoScaling() {
		scalar := GuestTimeScalar()
		if scalar != 0 {
			delta = int64(float64(delta) / scalar)
		}
	}
	return guestNow + GuestTime(delta)
}
