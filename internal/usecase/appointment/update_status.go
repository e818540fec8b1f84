package appointment

import (
	"context"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute sets any status from any other. Re-activating an appointment does
// not re-check conflicts.
func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	sessionID string,
	appointmentID string,
	rawStatus string,
) (*models.Appointment, error) {

	status, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	before, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.UpdateStatus(ctx, appointmentID, status)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SessionID: sessionID,
		Action:    "appointment_status_changed",
		Entity:    "appointment",
		EntityID:  ap.ID,
		Metadata:  map[string]string{"from": before.Status, "to": ap.Status},
	})

	return ap, nil
}
