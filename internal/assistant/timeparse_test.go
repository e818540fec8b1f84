package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, 11 March 2026, 10:00.
var wednesday = time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)

func TestParseTimeExpression(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		now      time.Time
		want     time.Time
		duration int
	}{
		{"tomorrow at 2pm", "tomorrow at 2pm", wednesday, time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC), 60},
		{"today with minutes", "today at 10:30am", wednesday, time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC), 60},
		{"24h clock", "Today at 17:45", wednesday, time.Date(2026, 3, 11, 17, 45, 0, 0, time.UTC), 60},
		{"weekday later this week", "Friday at 9am", wednesday, time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC), 60},
		{"weekday earlier wraps", "monday 11am", wednesday, time.Date(2026, 3, 16, 11, 0, 0, 0, time.UTC), 60},
		{"same weekday means next week", "next Wednesday at 4pm", wednesday, time.Date(2026, 3, 18, 16, 0, 0, 0, time.UTC), 60},
		{"next week defaults to 2pm", "sometime next week", wednesday, time.Date(2026, 3, 18, 14, 0, 0, 0, time.UTC), 60},
		{"weekday beats next week", "next week on tuesday", wednesday, time.Date(2026, 3, 17, 14, 0, 0, 0, time.UTC), 60},
		{"clock only means today", "at 3pm", wednesday, time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC), 60},
		{"bare hour after at", "tomorrow at 9", wednesday, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), 60},
		{"12am is midnight", "tomorrow 12am", wednesday, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), 60},
		{"12pm is noon", "tomorrow 12pm", wednesday, time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC), 60},
		{"duration in hours", "tomorrow at 9am for 2 hours", wednesday, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), 120},
		{"duration before anchor", "3 hours from tomorrow 9am", wednesday, time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC), 180},
		{"duration in minutes", "a 30 min call today at 4pm", wednesday, time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC), 30},
		{"duration in hrs", "today 1 hr", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 60},
		{"invalid clock falls back", "today at 25pm", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 60},
		{"one week is the longest duration", "today for 168 hours", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 7 * 24 * 60},
		{"longer than a week falls back", "today for 169 hours", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 60},
		{"huge hours fall back", "tomorrow at 3pm for 3000000 hours", wednesday, time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC), 60},
		{"hours that overflow fall back", "tomorrow at 3pm for 999999999999999999 hours", wednesday, time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC), 60},
		{"digits beyond int64 fall back", "today for 99999999999999999999 minutes", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 60},
		{"huge minutes fall back", "today for 20000 minutes", wednesday, time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC), 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimeExpression(tt.text, tt.now)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got.Instant), "want %s, got %s", tt.want, got.Instant)
			assert.Equal(t, tt.duration, got.DurationMinutes)
		})
	}
}

func TestParseTimeExpressionWeekdayOnSameDay(t *testing.T) {
	friday := time.Date(2026, time.March, 13, 8, 0, 0, 0, time.UTC)

	got, ok := ParseTimeExpression("friday at 10am", friday)
	require.True(t, ok)
	assert.Equal(t, 20, got.Instant.Day())
	assert.Equal(t, time.Friday, got.Instant.Weekday())
}

func TestParseTimeExpressionNothingToAnchor(t *testing.T) {
	for _, text := range []string{"book a meeting", "am I free?", "", "lunch with Sarah for 2 hours"} {
		_, ok := ParseTimeExpression(text, wednesday)
		assert.False(t, ok, text)
	}
}

func TestParseTimeExpressionKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2026, time.March, 7, 22, 0, 0, 0, loc)

	// Crosses the DST switch on 8 March; the wall clock must still read 14:00.
	got, ok := ParseTimeExpression("tomorrow at 2pm", now)
	require.True(t, ok)
	assert.Equal(t, loc, got.Instant.Location())
	assert.Equal(t, 14, got.Instant.Hour())
	assert.Equal(t, 8, got.Instant.Day())
}

func TestTimeExpressionEnd(t *testing.T) {
	te := TimeExpression{Instant: wednesday, DurationMinutes: 90}
	assert.Equal(t, wednesday.Add(90*time.Minute), te.End())
}
