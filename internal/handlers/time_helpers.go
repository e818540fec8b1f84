package handlers

import (
	"errors"
	"strings"
	"time"
)

var errBadTime = errors.New("unrecognised time")

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimeParam accepts RFC3339, or a local date or date-time read in loc.
// An empty value yields def.
func parseTimeParam(raw string, loc *time.Location, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errBadTime
}
