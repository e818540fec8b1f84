package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type ListAppointmentsByMonth struct {
	repo appointment.Repository
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

// Execute lists the appointments of a calendar month in loc.
func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	year int,
	month int,
	loc *time.Location,
) ([]models.Appointment, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	return uc.repo.ListForPeriod(ctx, start, end)
}
