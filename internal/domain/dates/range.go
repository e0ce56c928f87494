package dates

import (
	"fmt"
	"time"
)

// Granularity selects the window size of a statistics query.
type Granularity int

const (
	Day Granularity = iota
	Month
	Year
)

var granularityNames = map[Granularity]string{
	Day:   "day",
	Month: "month",
	Year:  "year",
}

func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

// ParseGranularity maps the wire form ("day", "month", "year") to a
// Granularity. Unknown values are an error so callers can reject bad
// query parameters before any range math runs.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "day":
		return Day, nil
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Range is an inclusive calendar interval.
type Range struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// Resolve expands an anchor date to the inclusive range covered by the
// granularity. Passing an out-of-domain granularity is a programming
// error and panics.
func Resolve(anchor Date, g Granularity) Range {
	switch g {
	case Day:
		return Range{Start: anchor, End: anchor}
	case Month:
		return Range{
			Start: Date{Year: anchor.Year, Month: anchor.Month, Day: 1},
			End:   Date{Year: anchor.Year, Month: anchor.Month, Day: daysIn(anchor.Year, anchor.Month)},
		}
	case Year:
		return Range{
			Start: Date{Year: anchor.Year, Month: time.January, Day: 1},
			End:   Date{Year: anchor.Year, Month: time.December, Day: 31},
		}
	}
	panic(fmt.Sprintf("dates: resolve called with %v", g))
}

// Advance moves the anchor forward one unit of the granularity. Month and
// year steps clamp the day-of-month so the anchor never lands in the
// following month (Jan 31 advances to Feb 28 or 29, not Mar 2).
func Advance(anchor Date, g Granularity) Date {
	return step(anchor, g, 1)
}

// Retreat moves the anchor back one unit of the granularity, with the
// same day-of-month clamping as Advance.
func Retreat(anchor Date, g Granularity) Date {
	return step(anchor, g, -1)
}

func step(anchor Date, g Granularity, delta int) Date {
	switch g {
	case Day:
		return anchor.AddDays(delta)
	case Month:
		y, m := anchor.Year, int(anchor.Month)+delta
		for m < 1 {
			m += 12
			y--
		}
		for m > 12 {
			m -= 12
			y++
		}
		return clampDay(y, time.Month(m), anchor.Day)
	case Year:
		return clampDay(anchor.Year+delta, anchor.Month, anchor.Day)
	}
	panic(fmt.Sprintf("dates: step called with %v", g))
}

func clampDay(year int, month time.Month, day int) Date {
	if max := daysIn(year, month); day > max {
		day = max
	}
	return Date{Year: year, Month: month, Day: day}
}
