package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func TestFindConflicts(t *testing.T) {
	existing := models.Appointment{ID: "a", Title: "Team Standup", Start: at(9, 0), End: at(10, 0)}

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"candidate starts inside", at(9, 30), at(10, 30), 1},
		{"candidate ends inside", at(8, 30), at(9, 30), 1},
		{"candidate contains appointment", at(8, 0), at(11, 0), 1},
		{"candidate inside appointment", at(9, 15), at(9, 45), 1},
		{"identical interval", at(9, 0), at(10, 0), 1},
		{"back to back after", at(10, 0), at(11, 0), 0},
		{"back to back before", at(8, 0), at(9, 0), 0},
		{"disjoint", at(13, 0), at(14, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflicts([]models.Appointment{existing}, tt.start, tt.end)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestFindConflictsEmpty(t *testing.T) {
	got := FindConflicts(nil, at(9, 0), at(10, 0))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindConflictsKeepsCancelled(t *testing.T) {
	cancelled := models.Appointment{ID: "c", Title: "Old", Start: at(9, 0), End: at(10, 0), Status: string(StatusCancelled)}

	got := FindConflicts([]models.Appointment{cancelled}, at(9, 0), at(9, 30))
	assert.Len(t, got, 1)

	got = FindConflicts(ActiveOnly([]models.Appointment{cancelled}), at(9, 0), at(9, 30))
	assert.Empty(t, got)
}

func TestFindConflictsPreservesOrder(t *testing.T) {
	first := models.Appointment{ID: "1", Title: "First", Start: at(9, 0), End: at(10, 0)}
	second := models.Appointment{ID: "2", Title: "Second", Start: at(9, 30), End: at(11, 0)}

	got := FindConflicts([]models.Appointment{first, second}, at(9, 45), at(10, 15))
	if assert.Len(t, got, 2) {
		assert.Equal(t, "First", got[0].Title)
		assert.Equal(t, "Second", got[1].Title)
	}
}
