package season

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize(date(2014, time.March, 5))
	want := date(ReferenceYear, time.March, 5)
	if !got.Equal(want) {
		t.Fatalf("Normalize returned %v, want %v", got, want)
	}

	// The reference year is a leap year, so Feb 29 survives normalization.
	got = Normalize(date(2024, time.February, 29))
	want = date(ReferenceYear, time.February, 29)
	if !got.Equal(want) {
		t.Fatalf("Normalize returned %v, want %v", got, want)
	}
}

func TestInnerWindowActivity(t *testing.T) {
	t.Parallel()

	w := NewWindow(date(2013, time.February, 2), date(2013, time.July, 7))
	if w.Wrapping() {
		t.Fatalf("window Feb 2..Jul 7 must not be wrapping")
	}

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"before start", date(2013, time.February, 1), false},
		{"on start", date(2013, time.February, 2), true},
		{"inside", date(2013, time.April, 15), true},
		{"on end", date(2013, time.July, 7), true},
		{"after end", date(2013, time.July, 8), false},
		{"other year inside", date(1999, time.March, 3), true},
		{"far outside", date(2013, time.November, 11), false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := w.Active(tt.date, 0); got != tt.want {
				t.Fatalf("Active(%v, 0) = %t, want %t", tt.date, got, tt.want)
			}
		})
	}
}

func TestWrappingWindowActivity(t *testing.T) {
	t.Parallel()

	w := NewWindow(date(2013, time.September, 9), date(2013, time.July, 7))
	if !w.Wrapping() {
		t.Fatalf("window Sep 9..Jul 7 must be wrapping")
	}

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"on start", date(2013, time.September, 9), true},
		{"after start", date(2013, time.November, 20), true},
		{"year end", date(2013, time.December, 31), true},
		{"year begin", date(2013, time.January, 1), true},
		{"on end", date(2013, time.July, 7), true},
		{"just past end", date(2013, time.July, 8), false},
		{"just before start", date(2013, time.September, 8), false},
		{"mid gap", date(2013, time.August, 10), false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := w.Active(tt.date, 0); got != tt.want {
				t.Fatalf("Active(%v, 0) = %t, want %t", tt.date, got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	w := NewWindow(date(2013, time.February, 2), date(2013, time.April, 4))

	if !w.Active(date(2013, time.April, 8), 4) {
		t.Fatalf("Apr 8 must be active with a 4 day extension")
	}
	if w.Active(date(2013, time.April, 9), 4) {
		t.Fatalf("Apr 9 must not be active with a 4 day extension")
	}

	// An extension longer than a year keeps the window active on any date.
	for _, d := range []time.Time{
		date(2013, time.January, 1),
		date(2013, time.February, 1),
		date(2013, time.August, 20),
		date(2013, time.December, 31),
	} {
		if !w.Active(d, 400) {
			t.Fatalf("%v must be active with a 400 day extension", d)
		}
	}
}

func TestExtensionAcrossYearBoundary(t *testing.T) {
	t.Parallel()

	// An inner window ending in December reaches into January when the
	// extension spills past Dec 31.
	w := NewWindow(date(2013, time.June, 1), date(2013, time.December, 20))

	if !w.Active(date(2013, time.January, 10), 30) {
		t.Fatalf("Jan 10 must be active with a 30 day extension past Dec 20")
	}
	if w.Active(date(2013, time.January, 20), 30) {
		t.Fatalf("Jan 20 must not be active with a 30 day extension past Dec 20")
	}
	if w.Active(date(2013, time.January, 10), 0) {
		t.Fatalf("Jan 10 must not be active without an extension")
	}
}

func TestWrappingExtensionLeapClamp(t *testing.T) {
	t.Parallel()

	// The tail of a wrapping window is extended after rolling its end into
	// the following, non-leap year: Feb 29 clamps to Feb 28, so a 2 day
	// extension reaches Mar 2 and no further.
	w := NewWindow(date(2013, time.November, 1), date(ReferenceYear, time.February, 29))

	if !w.Active(date(2013, time.March, 2), 2) {
		t.Fatalf("Mar 2 must be active with a 2 day extension past Feb 29")
	}
	if w.Active(date(2013, time.March, 3), 2) {
		t.Fatalf("Mar 3 must not be active with a 2 day extension past Feb 29")
	}
}

func TestDaysApart(t *testing.T) {
	t.Parallel()

	inner := NewWindow(date(2013, time.February, 2), date(2013, time.April, 4))
	wrapping := NewWindow(date(2013, time.September, 9), date(2013, time.February, 10))

	cases := []struct {
		name   string
		window Window
		date   time.Time
		want   int
	}{
		{"inside window", inner, date(2013, time.March, 3), 0},
		{"on end", inner, date(2013, time.April, 4), 0},
		{"day after end", inner, date(2013, time.April, 5), 1},
		{"weeks after end", inner, date(2013, time.May, 4), 30},
		{"before start rolls forward", inner, date(2013, time.January, 4), 275},
		{"wrapping gap", wrapping, date(2013, time.March, 1), 20},
		{"wrapping inside tail", wrapping, date(2013, time.January, 15), 0},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.window.DaysApart(tt.date); got != tt.want {
				t.Fatalf("DaysApart(%v) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}
