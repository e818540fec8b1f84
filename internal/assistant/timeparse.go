package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHour            = 14
	defaultMinute          = 0
	defaultDurationMinutes = 60
	maxDurationMinutes     = 7 * 24 * 60
)

// TimeExpression is a concrete start instant plus a length, produced from free text.
type TimeExpression struct {
	Instant         time.Time
	DurationMinutes int
}

// End is Instant plus the parsed duration.
func (te TimeExpression) End() time.Time {
	return te.Instant.Add(time.Duration(te.DurationMinutes) * time.Minute)
}

var (
	clockWithMeridiem = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clockWithColon    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	clockAfterAt      = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})\b`)
	durationPattern   = regexp.MustCompile(`(?i)\b(\d+)\s*(hours?|hrs?|minutes?|mins?)\b`)
)

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
}

// ParseTimeExpression turns phrases like "tomorrow at 2pm for 2 hours" into a
// start instant in now's location and a duration in minutes.
//
// Missing pieces fall back to defaults (today, 14:00, 60 minutes); so does a
// duration longer than a week. The second
// return value is false only when the text names neither a day nor a clock
// time, so there is nothing to anchor a booking to.
func ParseTimeExpression(text string, now time.Time) (TimeExpression, bool) {
	lower := strings.ToLower(text)

	offset, dayFound := referenceDayOffset(lower, now.Weekday())
	hour, minute, timeFound := parseClock(lower)
	if !dayFound && !timeFound {
		return TimeExpression{}, false
	}

	instant := time.Date(
		now.Year(), now.Month(), now.Day()+offset,
		hour, minute, 0, 0,
		now.Location(),
	)

	return TimeExpression{
		Instant:         instant,
		DurationMinutes: parseDuration(lower),
	}, true
}

// referenceDayOffset returns how many days ahead of today the text points at.
// Checks run in priority order: today, tomorrow, weekday name, next week.
func referenceDayOffset(lower string, current time.Weekday) (int, bool) {
	if strings.Contains(lower, "today") {
		return 0, true
	}
	if strings.Contains(lower, "tomorrow") {
		return 1, true
	}
	for _, wd := range weekdays {
		if strings.Contains(lower, wd.name) {
			return daysUntil(current, wd.day), true
		}
	}
	if strings.Contains(lower, "next week") {
		return 7, true
	}
	return 0, false
}

// daysUntil is strictly in the future: naming today's weekday means a week out.
func daysUntil(current, target time.Weekday) int {
	diff := (int(target) - int(current) + 7) % 7
	if diff == 0 {
		return 7
	}
	return diff
}

func parseClock(lower string) (hour, minute int, ok bool) {
	if m := clockWithMeridiem.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		switch {
		case m[3] == "pm" && h < 12:
			h += 12
		case m[3] == "am" && h == 12:
			h = 0
		}
		if validClock(h, min) {
			return h, min, true
		}
		return defaultHour, defaultMinute, false
	}

	if m := clockWithColon.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if validClock(h, min) {
			return h, min, true
		}
		return defaultHour, defaultMinute, false
	}

	if m := clockAfterAt.FindStringSubmatch(lower); m != nil {
		h, _ := strconv.Atoi(m[1])
		if validClock(h, 0) {
			return h, 0, true
		}
	}

	return defaultHour, defaultMinute, false
}

func validClock(h, m int) bool {
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

func parseDuration(lower string) int {
	m := durationPattern.FindStringSubmatch(lower)
	if m == nil {
		return defaultDurationMinutes
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return defaultDurationMinutes
	}
	if strings.HasPrefix(m[2], "h") {
		if n > maxDurationMinutes/60 {
			return defaultDurationMinutes
		}
		n *= 60
	}
	if n > maxDurationMinutes {
		return defaultDurationMinutes
	}
	return n
}
