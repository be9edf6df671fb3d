// Package season implements calendar-interval arithmetic on a fixed
// reference year. Seasonal availability only depends on month and day, so
// every date is projected onto the reference year before comparison;
// intervals that cross the year boundary are tagged as wrapping when they are
// built, not re-derived on every query.
package season

import "time"

// ReferenceYear is the year all seasonal dates are normalized onto. It is a
// leap year so Feb 29 windows stay representable.
const ReferenceYear = 2000

const day = 24 * time.Hour

// Normalize projects a date onto the reference year, keeping month and day.
func Normalize(t time.Time) time.Time {
	return toYear(t, ReferenceYear)
}

// toYear moves t into the given year. Feb 29 clamps to Feb 28 when the target
// year is not a leap year.
func toYear(t time.Time, year int) time.Time {
	month, d := t.Month(), t.Day()
	if month == time.February && d == 29 && !leap(year) {
		d = 28
	}
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func leap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Window is one "available from A until B" interval normalized onto the
// reference year. Both bounds are inclusive. A window whose start falls after
// its end wraps across the year boundary (Nov through Feb).
type Window struct {
	from     time.Time
	until    time.Time
	wrapping bool
}

// NewWindow builds a window from two dates, normalizing both and deciding
// once whether the interval wraps.
func NewWindow(from, until time.Time) Window {
	f := Normalize(from)
	u := Normalize(until)
	return Window{from: f, until: u, wrapping: f.After(u)}
}

// From returns the normalized start of the window.
func (w Window) From() time.Time { return w.from }

// Until returns the normalized end of the window.
func (w Window) Until() time.Time { return w.until }

// Wrapping reports whether the window crosses the year boundary.
func (w Window) Wrapping() bool { return w.wrapping }

// Active reports whether date falls inside the window stretched by
// extensionDays past its end. Extensions that roll past Dec 31 carry into the
// following year, so a long enough extension keeps any window active all year
// round.
func (w Window) Active(date time.Time, extensionDays int) bool {
	d := Normalize(date)

	if !w.wrapping {
		limit := w.until.AddDate(0, 0, extensionDays)
		if !d.Before(w.from) {
			return !d.After(limit)
		}
		// Date precedes the window. Only an extension that spilled past
		// Dec 31 can reach it, coming around from the previous season.
		if limit.Year() == ReferenceYear {
			return false
		}
		return !toYear(d, ReferenceYear+1).After(limit)
	}

	if !d.Before(w.from) {
		return true
	}
	// Tail segment: the end of a wrapping window belongs to the year
	// after its start, so the extension is applied after rolling it
	// there. Rolling first keeps the day count exact when the following
	// year drops Feb 29.
	limit := toYear(w.until, ReferenceYear+1).AddDate(0, 0, extensionDays)
	return !toYear(d, ReferenceYear+1).After(limit)
}

// DaysApart returns how many days date lies past the window's end, or 0 when
// the date is inside the unextended window. Dates earlier in the year than
// the end roll into the following year first, so the distance is always
// counted forward from the season's end.
func (w Window) DaysApart(date time.Time) int {
	if w.Active(date, 0) {
		return 0
	}
	d := Normalize(date)
	until := w.until
	if d.Before(until) {
		d = toYear(d, ReferenceYear+1)
	}
	return int(d.Sub(until) / day)
}
