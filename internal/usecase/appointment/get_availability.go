package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

// Execute returns the free gaps in [in.Start, in.End) that last at least
// SlotDurationMinutes. Cancelled appointments do not block time.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if !in.End.After(in.Start) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	slotMinutes := in.SlotDurationMinutes
	if slotMinutes <= 0 {
		slotMinutes = domain.DefaultSlotDurationMinutes
	}
	minGap := time.Duration(slotMinutes) * time.Minute

	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	busy := domain.FindConflicts(domain.ActiveOnly(all), in.Start, in.End)
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})

	return freeSlots(busy, in.Start, in.End, minGap), nil
}

func freeSlots(busy []models.Appointment, start, end time.Time, minGap time.Duration) []domain.TimeSlot {
	slots := []domain.TimeSlot{}
	cursor := start

	for _, ap := range busy {
		if cursor.Before(ap.Start) && ap.Start.Sub(cursor) >= minGap {
			slots = append(slots, domain.TimeSlot{Start: cursor, End: ap.Start})
		}
		if ap.End.After(cursor) {
			cursor = ap.End
		}
	}

	if cursor.Before(end) && end.Sub(cursor) >= minGap {
		slots = append(slots, domain.TimeSlot{Start: cursor, End: end})
	}

	return slots
}
