package appointment

import "time"

const DefaultSlotDurationMinutes = 30

type AvailabilityInput struct {
	Start               time.Time
	End                 time.Time
	SlotDurationMinutes int
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
