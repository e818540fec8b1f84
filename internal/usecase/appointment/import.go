package appointment

import (
	"context"
	"io"
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/icalendar"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

type ImportResult struct {
	Imported []models.Appointment
	Skipped  int
}

type ImportAppointments struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewImportAppointments(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ImportAppointments {
	return &ImportAppointments{
		repo:  repo,
		audit: audit,
	}
}

// Execute adds every usable VEVENT of body. Events whose UID is already
// stored, or that fail validation, are skipped. Imported events are not
// checked for conflicts.
func (uc *ImportAppointments) Execute(
	ctx context.Context,
	sessionID string,
	body io.Reader,
	loc *time.Location,
) (*ImportResult, error) {

	decoded, err := icalendar.Import(body, loc)
	if err != nil {
		return nil, err
	}

	out := &ImportResult{
		Imported: []models.Appointment{},
		Skipped:  decoded.Skipped,
	}

	for _, ap := range decoded.Appointments {
		if err := uc.repo.Add(ctx, ap); err != nil {
			if httperr.CodeOf(err) == "" {
				return nil, err
			}
			out.Skipped++
			continue
		}
		out.Imported = append(out.Imported, ap)
	}

	if len(out.Imported) > 0 {
		uc.audit.Dispatch(audit.Event{
			SessionID: sessionID,
			Action:    "appointments_imported",
			Entity:    "appointment",
			Metadata:  map[string]int{"imported": len(out.Imported), "skipped": out.Skipped},
		})
	}

	return out, nil
}
