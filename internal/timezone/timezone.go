package timezone

import "time"

// DefaultTimezone is the host's zone.
const DefaultTimezone = "Local"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the host's zone.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// Clock returns a clock bound to tz, suitable for injection.
func Clock(tz string) func() time.Time {
	loc := Location(tz)
	return func() time.Time { return time.Now().In(loc) }
}
