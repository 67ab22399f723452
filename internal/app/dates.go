package app

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateRange is a resolved calendar range. End is the zero time for
// single-day phrases.
type DateRange struct {
	Start time.Time
	End   time.Time
}

const isoDate = "2006-01-02"

var (
	relativeRe = regexp.MustCompile(`\bin\s+(\d+)\s+(day|week|month)s?\b`)

	weekdays = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}

	// Layouts without a year roll forward to next year when already past.
	datedLayouts    = []string{isoDate, "January 2, 2006", "January 2 2006", "2 January 2006", "Jan 2, 2006", "2 Jan 2006", "01/02/2006"}
	yearlessLayouts = []string{"January 2", "2 January", "Jan 2", "2 Jan"}
)

// ResolveDate converts a natural-language date phrase into a concrete range
// relative to now. Pure; no side effects. Resolved dates are never in the
// past: phrases that land before now advance to the next valid occurrence.
func ResolveDate(phrase string, now time.Time) (DateRange, bool) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return DateRange{}, false
	}
	today := midnight(now)

	switch p {
	case "today", "tonight":
		return DateRange{Start: today}, true
	case "tomorrow":
		return DateRange{Start: today.AddDate(0, 0, 1)}, true
	}

	if strings.Contains(p, "weekend") {
		return resolveWeekend(p, today), true
	}

	if m := relativeRe.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch m[2] {
		case "day":
			return DateRange{Start: today.AddDate(0, 0, n)}, true
		case "week":
			return DateRange{Start: today.AddDate(0, 0, n*7)}, true
		case "month":
			return DateRange{Start: today.AddDate(0, n, 0)}, true
		}
	}

	if wd, ok := lookupWeekday(p); ok {
		// Nearest future occurrence, strictly after now.
		d := int(wd-today.Weekday()+7) % 7
		if d == 0 {
			d = 7
		}
		return DateRange{Start: today.AddDate(0, 0, d)}, true
	}

	for _, layout := range datedLayouts {
		if t, err := time.ParseInLocation(layout, titleCase(p), now.Location()); err == nil {
			for t.Before(today) {
				t = t.AddDate(1, 0, 0)
			}
			return DateRange{Start: t}, true
		}
	}
	for _, layout := range yearlessLayouts {
		if t, err := time.ParseInLocation(layout, titleCase(p), now.Location()); err == nil {
			t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
			if t.Before(today) {
				t = t.AddDate(1, 0, 0)
			}
			return DateRange{Start: t}, true
		}
	}

	return DateRange{}, false
}

// resolveWeekend maps "this weekend" to the upcoming Saturday–Sunday and
// "next weekend" to the Saturday–Sunday of the week after the current one.
func resolveWeekend(p string, today time.Time) DateRange {
	var sat time.Time
	if strings.Contains(p, "next") {
		// Monday of next week, then forward to its Saturday.
		d := int(time.Monday-today.Weekday()+7) % 7
		if d == 0 {
			d = 7
		}
		sat = today.AddDate(0, 0, d+5)
	} else {
		d := int(time.Saturday-today.Weekday()+7) % 7
		sat = today.AddDate(0, 0, d) // today when already Saturday
		if today.Weekday() == time.Sunday {
			sat = today.AddDate(0, 0, 6) // that Saturday is past; advance
		}
	}
	return DateRange{Start: sat, End: sat.AddDate(0, 0, 1)}
}

func lookupWeekday(p string) (time.Weekday, bool) {
	p = strings.TrimSpace(strings.TrimPrefix(p, "next "))
	p = strings.TrimSpace(strings.TrimPrefix(p, "on "))
	wd, ok := weekdays[p]
	return wd, ok
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// titleCase uppercases the first letter of each word so month names match
// time layouts ("march 14" -> "March 14").
func titleCase(s string) string {
	parts := strings.Fields(s)
	for i, w := range parts {
		parts[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(parts, " ")
}
