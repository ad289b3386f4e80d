package viewscan

import (
	"fmt"
	"time"
)

const (
	timeDateSize = 8

	// allDay in the first word means the value carries no time of day,
	// anyDay in the second word means it carries no date.
	allDay = 0xFFFFFFFF
	anyDay = 0xFFFFFFFF

	julianDayMask  = 0x00FFFFFF
	zoneHoursShift = 24
	zoneHoursMask  = 0x0F
	zoneQtrShift   = 28
	zoneQtrMask    = 0x03
	dstBit         = 1 << 30
	eastOfGMTBit   = 1 << 31

	// Julian day number of 1970-01-01.
	unixEpochJulianDay = 2440588

	ticksPerSecond = 100
	secondsPerDay  = 24 * 60 * 60
	tickDuration   = time.Second / ticksPerSecond
)

// TimeDate is the store's packed 8 byte date/time.
//
// Innards[0] holds hundredths of a second since midnight GMT. Innards[1]
// holds the Julian day in its low 24 bits followed by the zone the value was
// written in: whole hours, quarter hours, a DST bit and an east-of-GMT bit.
type TimeDate struct {
	Innards [2]uint32
}

// DateTimeContext is the daylight/GMT-offset context used to present decoded
// times. GMTOffsetMinutes is positive east of GMT.
type DateTimeContext struct {
	Daylight         bool
	GMTOffsetMinutes int
}

// Location returns the fixed zone described by the context. Daylight saving
// adds one hour to the standard offset.
func (c DateTimeContext) Location() *time.Location {
	offset := c.GMTOffsetMinutes * 60
	if c.Daylight {
		offset += 60 * 60
	}
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone(zoneName(offset), offset)
}

func zoneName(offsetSeconds int) string {
	sign := '+'
	if offsetSeconds < 0 {
		sign = '-'
		offsetSeconds = -offsetSeconds
	}
	return fmt.Sprintf("GMT%c%02d%02d", sign, offsetSeconds/3600, (offsetSeconds%3600)/60)
}

// TimeDateFromTime packs t, keeping its zone in the high bits of the second
// word. Precision below a hundredth of a second is dropped.
func TimeDateFromTime(t time.Time) TimeDate {
	utc := t.UTC()
	days := floorDiv(utc.Unix(), secondsPerDay)
	midnight := time.Unix(days*secondsPerDay, 0).UTC()
	ticks := uint32(utc.Sub(midnight) / tickDuration)

	var td TimeDate
	td.Innards[0] = ticks
	td.Innards[1] = uint32(days+unixEpochJulianDay) & julianDayMask

	_, offset := t.Zone()
	if offset >= 0 {
		td.Innards[1] |= eastOfGMTBit
	} else {
		offset = -offset
	}
	hours := uint32(offset / 3600)
	quarters := uint32((offset % 3600) / 900)
	td.Innards[1] |= (hours & zoneHoursMask) << zoneHoursShift
	td.Innards[1] |= (quarters & zoneQtrMask) << zoneQtrShift
	if t.IsDST() {
		td.Innards[1] |= dstBit
	}
	return td
}

// DateOnly packs a calendar date without a time of day.
func DateOnly(year int, month time.Month, day int) TimeDate {
	days := floorDiv(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix(), secondsPerDay)
	return TimeDate{Innards: [2]uint32{allDay, uint32(days+unixEpochJulianDay) & julianDayMask}}
}

func (td TimeDate) HasTime() bool {
	return td.Innards[0] != allDay
}

func (td TimeDate) HasDate() bool {
	return td.Innards[1] != anyDay
}

// IsZero reports whether both words are zero, which the store writes for
// "no date".
func (td TimeDate) IsZero() bool {
	return td.Innards[0] == 0 && td.Innards[1] == 0
}

// Time unpacks the value and presents it in the zone described by dtc.
//
// A date-only value becomes midnight of that calendar day in the context
// zone. A time-only value is placed on January 1st of year 1.
func (td TimeDate) Time(dtc DateTimeContext) time.Time {
	loc := dtc.Location()

	if !td.HasDate() {
		if !td.HasTime() {
			return time.Time{}
		}
		return time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).
			Add(time.Duration(td.Innards[0]) * tickDuration).In(loc)
	}

	days := int64(td.Innards[1]&julianDayMask) - unixEpochJulianDay
	if !td.HasTime() {
		y, m, d := time.Unix(days*secondsPerDay, 0).UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	instant := time.Unix(days*secondsPerDay, 0).Add(time.Duration(td.Innards[0]) * tickDuration)
	return instant.In(loc)
}

// Zone returns the offset, in seconds east of GMT, the value was written in.
func (td TimeDate) Zone() (offset int, dst bool) {
	w := td.Innards[1]
	offset = int((w>>zoneHoursShift)&zoneHoursMask)*3600 + int((w>>zoneQtrShift)&zoneQtrMask)*900
	if w&eastOfGMTBit == 0 {
		offset = -offset
	}
	return offset, w&dstBit != 0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
