package osr

import (
	"fmt"
	"math"
	"time"
)

const (
	// TicksPerSecond is the number of 100ns ticks in one second.
	TicksPerSecond = 10_000_000
	// UnixEpochTicks is 1970-01-01T00:00:00Z counted in ticks from 0001-01-01.
	UnixEpochTicks = 621_355_968_000_000_000
)

// dateLayouts are tried in order. Single-digit month, day and time fields are
// accepted; the zone offset may be "+03", "+0330" or "+03:30".
var dateLayouts = []string{
	"2006-1-2 15:4:5 -07",
	"2006-1-2 15:4:5 -0700",
	"2006-1-2 15:4:5 -07:00",
}

// TicksFromTime converts t to ticks, truncating to whole seconds. Times
// before 0001-01-01 UTC or too far in the future for a uint64 fail with
// ErrMalformedTimestamp.
func TicksFromTime(t time.Time) (uint64, error) {
	sec := t.Unix()
	const minSec = -UnixEpochTicks / TicksPerSecond
	const maxSec = (math.MaxUint64 - UnixEpochTicks) / TicksPerSecond
	if sec < minSec {
		return 0, fmt.Errorf("%w: %s is before year 1", ErrMalformedTimestamp, t.UTC().Format(time.RFC3339))
	}
	if sec > 0 && uint64(sec) > maxSec {
		return 0, fmt.Errorf("%w: %s is out of range", ErrMalformedTimestamp, t.UTC().Format(time.RFC3339))
	}
	if sec < 0 {
		return UnixEpochTicks - uint64(-sec)*TicksPerSecond, nil
	}
	return uint64(sec)*TicksPerSecond + UnixEpochTicks, nil
}

// TimeFromTicks is the inverse of TicksFromTime. Sub-second ticks are
// discarded and the result is in UTC.
func TimeFromTicks(ticks uint64) time.Time {
	if ticks >= UnixEpochTicks {
		return time.Unix(int64((ticks-UnixEpochTicks)/TicksPerSecond), 0).UTC()
	}
	// Round toward year 1 so that partial seconds do not move the result forward.
	back := (UnixEpochTicks - ticks + TicksPerSecond - 1) / TicksPerSecond
	return time.Unix(-int64(back), 0).UTC()
}

// ParseDate parses "YYYY-MM-DD hh:mm:ss ±HH[[:]MM]",
// e.g. "2023-07-08 16:20:00 +03".
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match \"YYYY-MM-DD hh:mm:ss +HH[:MM]\"", ErrMalformedTimestamp, s)
}

// ParseTicks parses a date in the ParseDate format and converts it to ticks.
func ParseTicks(s string) (uint64, error) {
	t, err := ParseDate(s)
	if err != nil {
		return 0, err
	}
	return TicksFromTime(t)
}
