package assistant

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// Result is what the assistant hands back for one message. NewAppointment is
// set only when a booking succeeded; committing it is the caller's job.
// Conflict names the appointment that blocked a booking.
type Result struct {
	Intent         Intent
	Reply          string
	NewAppointment *models.Appointment
	Conflict       *models.Appointment
}

type request struct {
	message      string
	lower        string
	appointments []models.Appointment
	now          time.Time
	newID        func() string
}

// ======================================================
// ENGINE
// ======================================================

// Engine binds Respond to a clock and an id source.
type Engine struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Respond(message string, appointments []models.Appointment) Result {
	return respond(message, appointments, e.now(), e.newID)
}

// Respond answers message against a snapshot of appointments. now decides what
// "today" means and carries the location times are parsed in.
func Respond(message string, appointments []models.Appointment, now time.Time) Result {
	return respond(message, appointments, now, uuid.NewString)
}

func respond(message string, appointments []models.Appointment, now time.Time, newID func() string) Result {
	req := request{
		message:      message,
		lower:        normalize(message),
		appointments: domain.ActiveOnly(appointments),
		now:          now,
		newID:        newID,
	}

	for _, r := range rules {
		if r.matches(req.lower) {
			res := r.handle(req)
			res.Intent = r.intent
			return res
		}
	}

	return Result{Intent: IntentUnknown, Reply: replyFallback}
}

// ======================================================
// HANDLERS
// ======================================================

func handleScheduleQuery(r request) Result {
	today := startOfDay(r.now)

	from, to, label := today, today.AddDate(0, 0, 1), "today"
	switch {
	case strings.Contains(r.lower, "tomorrow"):
		from, to, label = today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), "tomorrow"
	case strings.Contains(r.lower, "this week"):
		from, to, label = today, today.AddDate(0, 0, 7), "this week"
	}

	var inWindow []models.Appointment
	for _, ap := range r.appointments {
		if domain.StartsWithin(ap, from, to) {
			inWindow = append(inWindow, ap)
		}
	}

	if len(inWindow) == 0 {
		return Result{Reply: replyEmptySchedule(label)}
	}

	sort.SliceStable(inWindow, func(i, j int) bool {
		return inWindow[i].Start.Before(inWindow[j].Start)
	})

	return Result{Reply: replySchedule(label, inWindow)}
}

func handleAvailability(r request) Result {
	te, ok := ParseTimeExpression(r.message, r.now)
	if !ok {
		return Result{Reply: replyAvailabilityNeedsTime}
	}

	start := te.Instant
	end := start.Add(time.Hour)

	conflicts := domain.FindConflicts(r.appointments, start, end)
	if len(conflicts) > 0 {
		return Result{Reply: replyBusy(conflicts[0])}
	}

	return Result{Reply: replyFree(start, r.now)}
}

func handleBooking(r request) Result {
	te, ok := ParseTimeExpression(r.message, r.now)
	if !ok {
		return Result{Reply: replyBookingNeedsTime}
	}

	start := te.Instant
	end := te.End()
	if !end.After(start) {
		return Result{Reply: replyBookingNeedsTime}
	}

	conflicts := domain.FindConflicts(r.appointments, start, end)
	if len(conflicts) > 0 {
		return Result{
			Reply:    replyBookingConflict(conflicts[0]),
			Conflict: &conflicts[0],
		}
	}

	ap := models.Appointment{
		ID:        r.newID(),
		Title:     ExtractTitle(r.message),
		Start:     start,
		End:       end,
		Attendees: []string{},
		Status:    string(domain.InitialStatus()),
	}

	return Result{
		Reply:          replyBooked(ap, r.now),
		NewAppointment: &ap,
	}
}
