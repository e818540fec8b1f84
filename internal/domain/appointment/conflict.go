package appointment

import (
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// FindConflicts returns the appointments overlapping [start, end).
//
// An appointment conflicts when the candidate starts inside it, ends inside it,
// or fully contains it; all three collapse to start < ap.End && end > ap.Start.
// Intervals that only touch at a boundary do not conflict. Status is not
// inspected: callers filter cancelled appointments first if they want to.
func FindConflicts(appointments []models.Appointment, start, end time.Time) []models.Appointment {
	conflicts := []models.Appointment{}
	for _, ap := range appointments {
		if start.Before(ap.End) && end.After(ap.Start) {
			conflicts = append(conflicts, ap)
		}
	}
	return conflicts
}
