package models

import "time"

type Appointment struct {
	ID string `json:"id"`

	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Attendees []string  `json:"attendees"`

	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	Status string `json:"status"`
}

// Duration is the length of the booked interval.
func (a Appointment) Duration() time.Duration {
	return a.End.Sub(a.Start)
}
