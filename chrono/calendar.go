package chrono

import "time"

// TimeFields is the broken-down calendar form of a FILETIME, mirroring the
// fields RtlTimeToTimeFields produces. Weekday uses 0=Sunday..6=Saturday.
type TimeFields struct {
	Year        int
	Month       int
	Day         int
	Weekday     int
	Hour        int
	Minute      int
	Second      int
	Millisecond int
}

// ToTimeFields decomposes a FILETIME at millisecond precision.
func ToTimeFields(filetime uint64) TimeFields {
	t := HostTime(filetime).ToSys()
	return TimeFields{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Weekday:     int(t.Weekday()),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / 1_000_000,
	}
}

// FromTimeFields recomposes a FILETIME from calendar fields. Invalid dates
// (month 13, Feb 30, Feb 29 in a non-leap year, out-of-range time of day)
// yield zero. The weekday field is ignored.
func FromTimeFields(tf TimeFields) uint64 {
	if tf.Month < 1 || tf.Month > 12 || tf.Day < 1 || tf.Day > 31 {
		return 0
	}
	if tf.Hour < 0 || tf.Hour > 23 || tf.Minute < 0 || tf.Minute > 59 ||
		tf.Second < 0 || tf.Second > 59 || tf.Millisecond < 0 || tf.Millisecond > 999 {
		return 0
	}

	t := time.Date(tf.Year, time.Month(tf.Month), tf.Day,
		tf.Hour, tf.Minute, tf.Second, tf.Millisecond*1_000_000, time.UTC)

	// time.Date normalises out-of-range days (Feb 30 becomes Mar 2);
	// reject anything that did not survive the round trip.
	if t.Year() != tf.Year || int(t.Month()) != tf.Month || t.Day() != tf.Day {
		return 0
	}

	return HostFromSys(t).ToFileTime()
}
