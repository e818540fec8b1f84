package appointment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/infra/repository"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

var day = time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type sink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *sink) Log(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func newDeps(t *testing.T) (*repository.AppointmentMemoryRepository, *audit.Dispatcher, *sink) {
	t.Helper()
	s := &sink{}
	return repository.NewAppointmentMemoryRepository(), audit.NewDispatcher(s, zap.NewNop()), s
}

func seed(t *testing.T, repo domain.Repository, id string, start, end time.Time, status string) {
	t.Helper()
	require.NoError(t, repo.Add(context.Background(), models.Appointment{
		ID: id, Title: id, Start: start, End: end, Status: status,
	}))
}

// ======================================================
// CREATE
// ======================================================

func TestCreateAppointment(t *testing.T) {
	repo, d, s := newDeps(t)
	uc := NewCreateAppointment(repo, d)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		SessionID: "s1",
		Title:     "  Planning ",
		Start:     at(15, 0),
		End:       at(16, 0),
		Attendees: []string{" ana@example.com "},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ap.ID)
	assert.Equal(t, "Planning", ap.Title)
	assert.Equal(t, "confirmed", ap.Status)
	assert.Equal(t, []string{"ana@example.com"}, ap.Attendees)

	d.Close()
	require.Len(t, s.events, 1)
	assert.Equal(t, "appointment_created", s.events[0].Action)
	assert.Equal(t, ap.ID, s.events[0].EntityID)
}

func TestCreateAppointmentRejections(t *testing.T) {
	repo, d, _ := newDeps(t)
	seed(t, repo, "busy", at(9, 0), at(10, 0), "confirmed")
	seed(t, repo, "gone", at(12, 0), at(13, 0), "cancelled")
	uc := NewCreateAppointment(repo, d)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateAppointmentInput
		code string
	}{
		{"overlap", CreateAppointmentInput{Title: "x", Start: at(9, 30), End: at(10, 30)}, httperr.CodeTimeConflict},
		{"inverted", CreateAppointmentInput{Title: "x", Start: at(11, 0), End: at(11, 0)}, httperr.CodeInvalidInterval},
		{"empty title", CreateAppointmentInput{Title: "  ", Start: at(11, 0), End: at(11, 30)}, httperr.CodeEmptyTitle},
		{"bad status", CreateAppointmentInput{Title: "x", Start: at(11, 0), End: at(11, 30), Status: "done"}, httperr.CodeInvalidStatus},
		{"blank attendee", CreateAppointmentInput{Title: "x", Start: at(11, 0), End: at(11, 30), Attendees: []string{" "}}, httperr.CodeInvalidAttendee},
		{"duplicate id", CreateAppointmentInput{ID: "busy", Title: "x", Start: at(18, 0), End: at(19, 0)}, httperr.CodeDuplicateID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tc.in)
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestCreateAppointmentIgnoresCancelledAndBackToBack(t *testing.T) {
	repo, d, _ := newDeps(t)
	seed(t, repo, "busy", at(9, 0), at(10, 0), "confirmed")
	seed(t, repo, "gone", at(12, 0), at(13, 0), "cancelled")
	uc := NewCreateAppointment(repo, d)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateAppointmentInput{Title: "after", Start: at(10, 0), End: at(11, 0)})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, CreateAppointmentInput{Title: "over cancelled", Start: at(12, 0), End: at(13, 0)})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, CreateAppointmentInput{
		Title: "tentative overlap", Start: at(9, 0), End: at(10, 0), Status: "Cancelled",
	})
	assert.NoError(t, err, "a cancelled appointment never conflicts")
}

// ======================================================
// REMOVE / STATUS
// ======================================================

func TestRemoveAppointment(t *testing.T) {
	repo, d, s := newDeps(t)
	seed(t, repo, "a", at(9, 0), at(10, 0), "confirmed")
	uc := NewRemoveAppointment(repo, d)
	ctx := context.Background()

	removed, err := uc.Execute(ctx, "s1", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", removed.ID)

	_, err = uc.Execute(ctx, "s1", "a")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	d.Close()
	require.Len(t, s.events, 1)
	assert.Equal(t, "appointment_removed", s.events[0].Action)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	repo, d, s := newDeps(t)
	seed(t, repo, "a", at(9, 0), at(10, 0), "confirmed")
	uc := NewUpdateAppointmentStatus(repo, d)
	ctx := context.Background()

	ap, err := uc.Execute(ctx, "s1", "a", "CANCELLED")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", ap.Status)

	ap, err = uc.Execute(ctx, "s1", "a", "pending")
	require.NoError(t, err)
	assert.Equal(t, "pending", ap.Status)

	_, err = uc.Execute(ctx, "s1", "a", "archived")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidStatus))

	_, err = uc.Execute(ctx, "s1", "missing", "pending")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAppointmentNotFound))

	d.Close()
	require.Len(t, s.events, 2)
	assert.Equal(t, map[string]string{"from": "confirmed", "to": "cancelled"}, s.events[0].Metadata)
}

// ======================================================
// AVAILABILITY
// ======================================================

func TestGetAvailability(t *testing.T) {
	repo, _, _ := newDeps(t)
	seed(t, repo, "early", at(7, 0), at(9, 0), "confirmed")
	seed(t, repo, "short-gap", at(9, 20), at(10, 0), "confirmed")
	seed(t, repo, "nested", at(9, 30), at(9, 45), "confirmed")
	seed(t, repo, "cancelled", at(11, 0), at(12, 0), "cancelled")
	seed(t, repo, "late", at(14, 0), at(15, 0), "pending")
	uc := NewGetAvailability(repo)

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		Start: at(8, 0),
		End:   at(17, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.TimeSlot{
		{Start: at(10, 0), End: at(14, 0)},
		{Start: at(15, 0), End: at(17, 0)},
	}, slots)
}

func TestGetAvailabilityHonoursSlotDuration(t *testing.T) {
	repo, _, _ := newDeps(t)
	seed(t, repo, "a", at(9, 0), at(10, 0), "confirmed")
	seed(t, repo, "b", at(10, 45), at(12, 0), "confirmed")
	uc := NewGetAvailability(repo)
	ctx := context.Background()

	slots, err := uc.Execute(ctx, domain.AvailabilityInput{Start: at(9, 0), End: at(12, 0), SlotDurationMinutes: 60})
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)

	slots, err = uc.Execute(ctx, domain.AvailabilityInput{Start: at(9, 0), End: at(12, 0)})
	require.NoError(t, err)
	assert.Equal(t, []domain.TimeSlot{{Start: at(10, 0), End: at(10, 45)}}, slots)

	_, err = uc.Execute(ctx, domain.AvailabilityInput{Start: at(12, 0), End: at(9, 0)})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidInterval))
}

// ======================================================
// LISTING
// ======================================================

func TestListAppointments(t *testing.T) {
	repo, _, _ := newDeps(t)
	seed(t, repo, "b", at(15, 0), at(16, 0), "cancelled")
	seed(t, repo, "a", at(9, 0), at(10, 0), "confirmed")
	seed(t, repo, "next-day", at(33, 0), at(34, 0), "confirmed")

	got, err := NewListAppointments(repo).Execute(context.Background(), at(0, 0), at(24, 0))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestListAppointmentsByMonth(t *testing.T) {
	repo, _, _ := newDeps(t)
	seed(t, repo, "feb", time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC), "confirmed")
	seed(t, repo, "mar", at(9, 0), at(10, 0), "confirmed")
	seed(t, repo, "apr", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 1, 0, 0, 0, time.UTC), "confirmed")
	uc := NewListAppointmentsByMonth(repo)

	got, err := uc.Execute(context.Background(), 2026, 3, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mar", got[0].ID)

	_, err = uc.Execute(context.Background(), 2026, 13, time.UTC)
	assert.Error(t, err)
}

// ======================================================
// IMPORT
// ======================================================

const importBody = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:existing\r\n" +
	"DTSTAMP:20260311T100000Z\r\n" +
	"SUMMARY:Duplicate\r\n" +
	"DTSTART:20260312T090000Z\r\n" +
	"DTEND:20260312T100000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:fresh\r\n" +
	"DTSTAMP:20260311T100000Z\r\n" +
	"SUMMARY:Imported\r\n" +
	"DTSTART:20260312T110000Z\r\n" +
	"DTEND:20260312T120000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportAppointments(t *testing.T) {
	repo, d, s := newDeps(t)
	seed(t, repo, "existing", at(9, 0), at(10, 0), "confirmed")
	uc := NewImportAppointments(repo, d)

	res, err := uc.Execute(context.Background(), "s1", strings.NewReader(importBody), time.UTC)
	require.NoError(t, err)

	require.Len(t, res.Imported, 1)
	assert.Equal(t, "fresh", res.Imported[0].ID)
	assert.Equal(t, 1, res.Skipped)

	stored, err := repo.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.Equal(t, "Imported", stored.Title)

	d.Close()
	require.Len(t, s.events, 1)
	assert.Equal(t, "appointments_imported", s.events[0].Action)
}
