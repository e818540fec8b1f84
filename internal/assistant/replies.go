package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

const (
	replyCancellation = "To cancel an appointment, open it in the calendar or list view and choose \"Cancel Appointment\". " +
		"I can't remove appointments from the chat yet."

	replyGreeting = "Hello! I'm your scheduling assistant. I can help you:\n" +
		"• Check your schedule\n" +
		"• Find available times\n" +
		"• Book new appointments\n\n" +
		"What would you like to do?"

	replyThanks = "You're welcome! Let me know if there's anything else I can help you with."

	replyFallback = "I can help you manage your calendar. Try something like:\n" +
		"• \"What's on my schedule today?\"\n" +
		"• \"Am I free tomorrow at 2pm?\"\n" +
		"• \"Book a meeting with Sarah on Friday at 10am\""

	replyAvailabilityNeedsTime = "I'd be happy to check your availability! Which day and time are you interested in?"

	replyBookingNeedsTime = "I'd be happy to book that for you! What day and time works best?"
)

func replyEmptySchedule(label string) string {
	return fmt.Sprintf("You don't have anything scheduled for %s. Would you like me to book something?", label)
}

func replySchedule(label string, appointments []models.Appointment) string {
	lines := make([]string, 0, len(appointments))
	for _, ap := range appointments {
		lines = append(lines, fmt.Sprintf("• %s at %s", ap.Title, formatClock(ap.Start)))
	}
	return fmt.Sprintf("Here's your schedule for %s:\n\n%s", label, strings.Join(lines, "\n"))
}

func replyFree(instant, now time.Time) string {
	return fmt.Sprintf(
		"Good news! You're free %s at %s. Would you like me to book something then?",
		describeDay(instant, now), formatClock(instant),
	)
}

func replyBusy(conflict models.Appointment) string {
	return fmt.Sprintf(
		"You already have \"%s\" from %s to %s, so that time isn't free. Would you like me to check another time?",
		conflict.Title, formatClock(conflict.Start), formatClock(conflict.End),
	)
}

func replyBookingConflict(conflict models.Appointment) string {
	return fmt.Sprintf(
		"I couldn't book that because it conflicts with \"%s\" (%s to %s). Would you like to try a different time?",
		conflict.Title, formatClock(conflict.Start), formatClock(conflict.End),
	)
}

func replyBooked(ap models.Appointment, now time.Time) string {
	return fmt.Sprintf(
		"Done! I've booked \"%s\" for %s at %s.",
		ap.Title, describeDay(ap.Start, now), formatClock(ap.Start),
	)
}

// formatClock renders h:mm AM/PM, e.g. "9:00 AM".
func formatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// describeDay names t relative to now: "today", "tomorrow" or "on Friday, March 13".
func describeDay(t, now time.Time) string {
	day := startOfDay(t)
	today := startOfDay(now.In(t.Location()))
	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "tomorrow"
	default:
		return "on " + t.Format("Monday, January 2")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
