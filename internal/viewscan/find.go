package viewscan

import (
	"fmt"
)

// Find flags sent along with a positional or name search.
const (
	findPartial           uint16 = 0x0001
	findCaseInsensitive   uint16 = 0x0002
	findAccentInsensitive uint16 = 0x0008
	findLessThan          uint16 = 0x0040
	findLastEqual         uint16 = 0x0080
	findGreaterThan       uint16 = 0x00C0
	findRangeOverlap      uint16 = 0x0100
	findNonCategoryOnly   uint16 = 0x0400
	findEqual             uint16 = 0x0800

	findModeMask = findLessThan | findLastEqual | findGreaterThan
)

// MatchMode selects which entry of (or next to) the equal range a search
// lands on.
type MatchMode int

const (
	// FirstEqual lands on the lowest collating match.
	FirstEqual MatchMode = iota
	// LastEqual lands on the highest collating match.
	LastEqual
	// LessThan lands on the entry just before the equal range.
	LessThan
	// GreaterThan lands on the entry just after the equal range.
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
)

func (m MatchMode) String() string {
	switch m {
	case FirstEqual:
		return "FIRST_EQUAL"
	case LastEqual:
		return "LAST_EQUAL"
	case LessThan:
		return "LESS_THAN"
	case GreaterThan:
		return "GREATER_THAN"
	case LessThanOrEqual:
		return "LESS_THAN_OR_EQUAL"
	case GreaterThanOrEqual:
		return "GREATER_THAN_OR_EQUAL"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

func (m MatchMode) flags() uint16 {
	switch m {
	case LastEqual:
		return findLastEqual
	case LessThan:
		return findLessThan
	case GreaterThan:
		return findGreaterThan
	case LessThanOrEqual:
		return findLessThan | findEqual
	case GreaterThanOrEqual:
		return findGreaterThan | findEqual
	default:
		return 0
	}
}

// CanDetermineExactCount reports whether the store reports a real match
// count for mode. It only does so for the equality modes; for anything
// carrying the less-than or greater-than bits it cannot.
func CanDetermineExactCount(mode MatchMode) bool {
	flags := mode.flags() & findModeMask
	return flags != findLessThan && flags != findGreaterThan
}

// FindOptions tune a positional or name search.
type FindOptions struct {
	Mode              MatchMode
	Partial           bool
	CaseInsensitive   bool
	AccentInsensitive bool
	RangeOverlap      bool
	NonCategoryOnly   bool
}

// Flags returns the find flag word sent to the store.
func (o FindOptions) Flags() uint16 {
	flags := o.Mode.flags()
	if o.Partial {
		flags |= findPartial
	}
	if o.CaseInsensitive {
		flags |= findCaseInsensitive
	}
	if o.AccentInsensitive {
		flags |= findAccentInsensitive
	}
	if o.RangeOverlap {
		flags |= findRangeOverlap
	}
	if o.NonCategoryOnly {
		flags |= findNonCategoryOnly
	}
	return flags
}

// FindOptionsFromFlags recovers the options from a flag word.
func FindOptionsFromFlags(flags uint16) FindOptions {
	opts := FindOptions{
		Partial:           flags&findPartial != 0,
		CaseInsensitive:   flags&findCaseInsensitive != 0,
		AccentInsensitive: flags&findAccentInsensitive != 0,
		RangeOverlap:      flags&findRangeOverlap != 0,
		NonCategoryOnly:   flags&findNonCategoryOnly != 0,
	}
	equal := flags&findEqual != 0
	switch flags & findModeMask {
	case findLessThan:
		opts.Mode = LessThan
		if equal {
			opts.Mode = LessThanOrEqual
		}
	case findGreaterThan:
		opts.Mode = GreaterThan
		if equal {
			opts.Mode = GreaterThanOrEqual
		}
	case findLastEqual:
		opts.Mode = LastEqual
	default:
		opts.Mode = FirstEqual
	}
	return opts
}

// FindResult is where a search landed. When HasExactCount is false
// EntriesFound is a placeholder of 1 and only Position is meaningful.
type FindResult struct {
	Position      *Position
	EntriesFound  uint32
	HasExactCount bool
}

// Found reports whether the search matched anything.
func (r FindResult) Found() bool {
	return r.EntriesFound > 0
}
