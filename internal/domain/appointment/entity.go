package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Validate checks the invariants every stored appointment must hold.
func Validate(ap *models.Appointment) error {
	if strings.TrimSpace(ap.Title) == "" {
		return httperr.ErrBusiness(httperr.CodeEmptyTitle)
	}
	if !ap.End.After(ap.Start) {
		return httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}
	if !Status(ap.Status).Valid() {
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}
	for _, a := range ap.Attendees {
		if strings.TrimSpace(a) == "" {
			return httperr.ErrBusiness(httperr.CodeInvalidAttendee)
		}
	}
	return nil
}

// SetStatus applies any status from any other; there is no transition graph.
func SetStatus(ap *models.Appointment, status Status) error {
	if !status.Valid() {
		return httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}
	ap.Status = string(status)
	return nil
}

// Active reports whether the appointment still blocks its interval.
func Active(ap models.Appointment) bool {
	return Status(ap.Status) != StatusCancelled
}

// ActiveOnly drops cancelled appointments, keeping order.
func ActiveOnly(aps []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, 0, len(aps))
	for _, ap := range aps {
		if Active(ap) {
			out = append(out, ap)
		}
	}
	return out
}

// StartsWithin reports whether ap starts in [from, to).
func StartsWithin(ap models.Appointment, from, to time.Time) bool {
	return !ap.Start.Before(from) && ap.Start.Before(to)
}
