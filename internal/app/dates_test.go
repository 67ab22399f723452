package app

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveDate_WeekdayStrictlyFuture(t *testing.T) {
	names := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday,
		"saturday": time.Saturday, "sunday": time.Sunday,
	}
	base := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC) // a Monday, mid-morning

	for offset := 0; offset < 7; offset++ {
		now := base.AddDate(0, 0, offset)
		for name, want := range names {
			for _, phrase := range []string{name, "next " + name} {
				r, ok := ResolveDate(phrase, now)
				if !ok {
					t.Fatalf("%q not resolved", phrase)
				}
				if !r.Start.After(now) {
					t.Fatalf("%q from %s: got %s, not strictly future", phrase, now, r.Start)
				}
				if r.Start.Weekday() != want {
					t.Fatalf("%q from %s: got weekday %s, want %s", phrase, now, r.Start.Weekday(), want)
				}
				if r.Start.Sub(now) > 8*24*time.Hour {
					t.Fatalf("%q from %s: %s is more than a week out", phrase, now, r.Start)
				}
			}
		}
	}
}

func TestResolveDate_NextWeekendFromTuesday(t *testing.T) {
	now := date(2026, 3, 3) // Tuesday
	r, ok := ResolveDate("next weekend", now)
	if !ok {
		t.Fatal("not resolved")
	}
	if r.Start.Weekday() != time.Saturday || r.End.Weekday() != time.Sunday {
		t.Fatalf("got %s..%s, want Saturday..Sunday", r.Start.Weekday(), r.End.Weekday())
	}
	wantSat := date(2026, 3, 14)
	if !r.Start.Equal(wantSat) || !r.End.Equal(wantSat.AddDate(0, 0, 1)) {
		t.Fatalf("got %s..%s, want %s..%s", r.Start, r.End, wantSat, wantSat.AddDate(0, 0, 1))
	}
	// sanity: it lands in the week after the current one
	if r.Start.Sub(now) < 7*24*time.Hour {
		t.Fatalf("next weekend %s is in the current week", r.Start)
	}
}

func TestResolveDate_ThisWeekend(t *testing.T) {
	r, ok := ResolveDate("this weekend", date(2026, 3, 3)) // Tuesday
	if !ok || !r.Start.Equal(date(2026, 3, 7)) || !r.End.Equal(date(2026, 3, 8)) {
		t.Fatalf("got %+v ok=%v", r, ok)
	}
	// Sunday: this weekend's Saturday already passed; advance, never go back.
	r, ok = ResolveDate("this weekend", date(2026, 3, 8))
	if !ok || !r.Start.Equal(date(2026, 3, 14)) {
		t.Fatalf("from Sunday got %+v ok=%v", r, ok)
	}
}

func TestResolveDate_RelativeOffsets(t *testing.T) {
	now := time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		phrase string
		want   time.Time
	}{
		{"today", date(2026, 3, 3)},
		{"tomorrow", date(2026, 3, 4)},
		{"in 3 days", date(2026, 3, 6)},
		{"in 2 weeks", date(2026, 3, 17)},
		{"in 1 month", date(2026, 4, 3)},
	}
	for _, c := range cases {
		r, ok := ResolveDate(c.phrase, now)
		if !ok || !r.Start.Equal(c.want) {
			t.Errorf("%q: got %v ok=%v, want %s", c.phrase, r.Start, ok, c.want)
		}
	}
}

func TestResolveDate_ExplicitDates(t *testing.T) {
	now := date(2026, 3, 3)

	r, ok := ResolveDate("2026-07-14", now)
	if !ok || !r.Start.Equal(date(2026, 7, 14)) {
		t.Fatalf("iso: got %v ok=%v", r.Start, ok)
	}

	// month-name date without a year that already passed rolls forward
	r, ok = ResolveDate("january 15", now)
	if !ok || !r.Start.Equal(date(2027, 1, 15)) {
		t.Fatalf("rolled date: got %v ok=%v", r.Start, ok)
	}

	r, ok = ResolveDate("march 14", now)
	if !ok || !r.Start.Equal(date(2026, 3, 14)) {
		t.Fatalf("upcoming date: got %v ok=%v", r.Start, ok)
	}
}

func TestResolveDate_Unparseable(t *testing.T) {
	for _, phrase := range []string{"", "whenever works", "the usual"} {
		if _, ok := ResolveDate(phrase, date(2026, 3, 3)); ok {
			t.Errorf("%q: expected no resolution", phrase)
		}
	}
}
