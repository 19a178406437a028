package chrono_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rexlab/rexglue/chrono"
)

// Known FILETIME constants, all in 100-ns intervals since 1601-01-01 UTC.
const (
	ftNtEpoch   = uint64(0)                   // 1601-01-01
	ftUnixEpoch = uint64(116444736000000000)  // 1970-01-01
	ftY2k       = uint64(125911584000000000)  // 2000-01-01
	ftLeapDay   = uint64(125962560000000000)  // 2000-02-29
	ftSubDay    = uint64(132538032123450000)  // 2020-12-30 12:00:12.345
	ft2021      = uint64(132539328000000000)  // 2021-01-01
	ftLarge     = uint64(2650467743990000000) // ~year 9999
)

func TestUnixEpochDelta(t *testing.T) {
	// 369 years from 1601 to 1970, with 89 leap days.
	expected := int64(369*365+89) * 86400 * 10_000_000
	assert.Equal(t, expected, chrono.UnixEpochDelta)
}

func TestFileTimeRoundTrip(t *testing.T) {
	for _, ft := range []uint64{ftNtEpoch, ftUnixEpoch, ftY2k, ftSubDay, ftLarge} {
		tp := chrono.HostFromFileTime(ft)
		assert.Equal(t, ft, tp.ToFileTime())
	}
}

func TestToSysKnownValues(t *testing.T) {
	assert.Equal(t, int64(0), chrono.HostFromFileTime(ftUnixEpoch).ToSys().Unix())
	// 2000-01-01 is 10957 days after the Unix epoch.
	assert.Equal(t, int64(10957*86400), chrono.HostFromFileTime(ftY2k).ToSys().Unix())
	// 2021-01-01 is 18628 days after the Unix epoch.
	assert.Equal(t, int64(18628*86400), chrono.HostFromFileTime(ft2021).ToSys().Unix())
}

func TestFromSysRoundTrip(t *testing.T) {
	for _, ft := range []uint64{ftNtEpoch, ftUnixEpoch, ftY2k, ft2021} {
		tp := chrono.HostFromFileTime(ft)
		sys := tp.ToSys()
		assert.Equal(t, ft, chrono.HostFromSys(sys).ToFileTime())
	}
}

func TestCalendarDecomposition(t *testing.T) {
	cases := []struct {
		ft   uint64
		want chrono.TimeFields
	}{
		{ftNtEpoch, chrono.TimeFields{Year: 1601, Month: 1, Day: 1, Weekday: 1}},
		{ftUnixEpoch, chrono.TimeFields{Year: 1970, Month: 1, Day: 1, Weekday: 4}},
		{ftY2k, chrono.TimeFields{Year: 2000, Month: 1, Day: 1, Weekday: 6}},
		{ftLeapDay, chrono.TimeFields{Year: 2000, Month: 2, Day: 29, Weekday: 2}},
		{ftSubDay, chrono.TimeFields{
			Year: 2020, Month: 12, Day: 30, Weekday: 3,
			Hour: 12, Minute: 0, Second: 12, Millisecond: 345,
		}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, chrono.ToTimeFields(c.ft), "filetime %d", c.ft)
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	for _, ft := range []uint64{ftNtEpoch, ftUnixEpoch, ftY2k, ftLeapDay, ftSubDay} {
		tf := chrono.ToTimeFields(ft)
		assert.Equal(t, ft, chrono.FromTimeFields(tf), "filetime %d", ft)
	}
}

func TestCalendarRejectsInvalidDates(t *testing.T) {
	invalid := []chrono.TimeFields{
		{Year: 2020, Month: 13, Day: 1},
		{Year: 2020, Month: 0, Day: 1},
		{Year: 2020, Month: 2, Day: 30},
		{Year: 2021, Month: 2, Day: 29}, // not a leap year
		{Year: 2020, Month: 1, Day: 0},
		{Year: 2020, Month: 1, Day: 32},
		{Year: 2020, Month: 1, Day: 1, Hour: 24},
		{Year: 2020, Month: 1, Day: 1, Minute: 60},
		{Year: 2020, Month: 1, Day: 1, Millisecond: 1000},
	}
	for _, tf := range invalid {
		assert.Zero(t, chrono.FromTimeFields(tf), "%+v", tf)
	}
}

func TestHostClockTracksWallClock(t *testing.T) {
	before := time.Now().UTC()
	sys := chrono.HostNow().ToSys()
	after := time.Now().UTC()

	require.False(t, sys.Before(before.Add(-time.Second)))
	require.False(t, sys.After(after.Add(time.Second)))
}

func TestScaleGuestDurationMillis(t *testing.T) {
	chrono.SetNoScaling(false)
	chrono.SetGuestTimeScalar(2.0)
	defer chrono.SetGuestTimeScalar(1.0)

	assert.Equal(t, uint32(50), chrono.ScaleGuestDurationMillis(100))

	chrono.SetNoScaling(true)
	assert.Equal(t, uint32(100), chrono.ScaleGuestDurationMillis(100))
	chrono.SetNoScaling(false)
}

func TestClockCastRoundTrip(t *testing.T) {
	chrono.SetGuestTimeScalar(1.0)
	chrono.SetNoScaling(true)
	defer chrono.SetNoScaling(false)

	guest := chrono.GuestNow() + chrono.GuestTime(5*10_000_000)
	host := guest.ToHost()
	back := host.ToGuest()

	// Round trip through both conversions; allow a small sampling skew.
	assert.InDelta(t, float64(guest), float64(back), float64(10_000))
}

func TestGuestClockAdvancesFromBase(t *testing.T) {
	base := uint64(0x01C0000000000000)
	chrono.SetGuestSystemTimeBase(base)
	defer chrono.SetGuestSystemTimeBase(chrono.QueryHostSystemTime())

	got := chrono.QueryGuestSystemTime()
	assert.GreaterOrEqual(t, got, base)
	assert.Less(t, got, base+10*10_000_000) // within ten seconds of the base
}
