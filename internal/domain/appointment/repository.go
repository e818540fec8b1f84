package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// Repository is the appointment ledger of a single session.
type Repository interface {
	// -------- Read --------
	List(ctx context.Context) ([]models.Appointment, error)

	Get(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	ListForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Write --------
	Add(
		ctx context.Context,
		ap models.Appointment,
	) error

	Remove(
		ctx context.Context,
		id string,
	) error

	UpdateStatus(
		ctx context.Context,
		id string,
		status Status,
	) (*models.Appointment, error)
}
