package icalendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// ImportResult holds the appointments decoded from a calendar and how many
// events were left out.
type ImportResult struct {
	Appointments []models.Appointment
	Skipped      int
}

// Import decodes every VEVENT in r. Floating times are read in loc. Events
// without a start, an end after the start, or a summary are skipped. Events
// without a UID get a fresh one.
func Import(r io.Reader, loc *time.Location) (ImportResult, error) {
	dec := ical.NewDecoder(r)
	out := ImportResult{Appointments: []models.Appointment{}}

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			ap, ok := fromEvent(comp, loc)
			if !ok {
				out.Skipped++
				continue
			}
			out.Appointments = append(out.Appointments, ap)
		}
	}

	return out, nil
}

func fromEvent(comp *ical.Component, loc *time.Location) (models.Appointment, bool) {
	ap := models.Appointment{
		ID:        text(comp, ical.PropUID),
		Title:     strings.TrimSpace(text(comp, ical.PropSummary)),
		Attendees: []string{},
		Status:    statusFromICal(text(comp, ical.PropStatus)),
	}
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	if ap.Title == "" {
		return ap, false
	}

	start, ok := dateTime(comp, ical.PropDateTimeStart, loc)
	if !ok {
		return ap, false
	}
	end, ok := dateTime(comp, ical.PropDateTimeEnd, loc)
	if !ok || !end.After(start) {
		return ap, false
	}
	ap.Start, ap.End = start, end

	ap.Description = text(comp, ical.PropDescription)
	ap.Location = text(comp, ical.PropLocation)

	for _, prop := range comp.Props.Values(ical.PropAttendee) {
		v := strings.TrimSpace(prop.Value)
		if len(v) >= 7 && strings.EqualFold(v[:7], "mailto:") {
			v = v[7:]
		}
		if v != "" {
			ap.Attendees = append(ap.Attendees, v)
		}
	}

	return ap, true
}

func text(comp *ical.Component, name string) string {
	v, err := comp.Props.Text(name)
	if err != nil {
		return ""
	}
	return v
}

func dateTime(comp *ical.Component, name string, loc *time.Location) (time.Time, bool) {
	prop := comp.Props.Get(name)
	if prop == nil {
		return time.Time{}, false
	}
	t, err := prop.DateTime(loc)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(loc), true
}

func statusFromICal(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CANCELLED":
		return "cancelled"
	case "TENTATIVE":
		return "pending"
	default:
		return "confirmed"
	}
}
