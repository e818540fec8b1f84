package icalendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

const productID = "-//schedule-assistant//EN"

var statusToICal = map[string]string{
	"confirmed": "CONFIRMED",
	"pending":   "TENTATIVE",
	"cancelled": "CANCELLED",
}

// ErrEmpty is returned by Export when there is nothing to write; a
// VCALENDAR must hold at least one component.
var ErrEmpty = errors.New("icalendar: no appointments to export")

// Export writes aps as one VCALENDAR. Times are emitted in UTC; stamp fills
// DTSTAMP.
func Export(w io.Writer, aps []models.Appointment, stamp time.Time) error {
	if len(aps) == 0 {
		return ErrEmpty
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, ap := range aps {
		cal.Children = append(cal.Children, toEvent(ap, stamp).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toEvent(ap models.Appointment, stamp time.Time) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, ap.ID)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ev.Props.SetText(ical.PropSummary, ap.Title)
	ev.Props.SetDateTime(ical.PropDateTimeStart, ap.Start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, ap.End.UTC())

	if s, ok := statusToICal[ap.Status]; ok {
		ev.Props.SetText(ical.PropStatus, s)
	}
	if ap.Description != "" {
		ev.Props.SetText(ical.PropDescription, ap.Description)
	}
	if ap.Location != "" {
		ev.Props.SetText(ical.PropLocation, ap.Location)
	}

	for _, a := range ap.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = attendeeURI(a)
		ev.Props.Add(prop)
	}

	return ev
}

func attendeeURI(a string) string {
	if strings.Contains(a, "@") && !strings.HasPrefix(strings.ToLower(a), "mailto:") {
		return "mailto:" + a
	}
	return a
}
