package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

// Execute lists appointments starting in [start, end), cancelled ones
// included, ordered by start.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	if !end.After(start) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInterval)
	}

	return uc.repo.ListForPeriod(ctx, start, end)
}
