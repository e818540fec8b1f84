package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	SessionID string

	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	Attendees   []string
	Description string
	Location    string
	Status      string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Status
	// --------------------------------------------------
	status := domain.InitialStatus()
	if strings.TrimSpace(in.Status) != "" {
		s, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	// --------------------------------------------------
	// 2. Shape
	// --------------------------------------------------
	ap := models.Appointment{
		ID:          strings.TrimSpace(in.ID),
		Title:       strings.TrimSpace(in.Title),
		Start:       in.Start,
		End:         in.End,
		Attendees:   cleanAttendees(in.Attendees),
		Description: in.Description,
		Location:    in.Location,
		Status:      string(status),
	}
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}

	if err := domain.Validate(&ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Conflicts (only active appointments block)
	// --------------------------------------------------
	if domain.Active(ap) {
		existing, err := uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(domain.FindConflicts(domain.ActiveOnly(existing), ap.Start, ap.End)) > 0 {
			return nil, httperr.ErrBusiness(httperr.CodeTimeConflict)
		}
	}

	// --------------------------------------------------
	// 4. Persist
	// --------------------------------------------------
	if err := uc.repo.Add(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		SessionID: in.SessionID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  ap.ID,
		Metadata:  map[string]string{"source": "api", "title": ap.Title},
	})

	return &ap, nil
}

// cleanAttendees trims entries and always returns a non-nil slice. Blank
// entries are kept so validation can reject them.
func cleanAttendees(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, strings.TrimSpace(a))
	}
	return out
}
