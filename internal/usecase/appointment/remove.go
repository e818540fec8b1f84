package appointment

import (
	"context"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type RemoveAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RemoveAppointment {
	return &RemoveAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute deletes the appointment and returns what was removed.
func (uc *RemoveAppointment) Execute(
	ctx context.Context,
	sessionID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Remove(ctx, appointmentID); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SessionID: sessionID,
		Action:    "appointment_removed",
		Entity:    "appointment",
		EntityID:  ap.ID,
	})

	return ap, nil
}
