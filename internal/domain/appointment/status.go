package appointment

import (
	"strings"

	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// ParseStatus accepts any of the three values, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", httperr.ErrBusiness(httperr.CodeInvalidStatus)
	}
	return s, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// InitialStatus is the status every new appointment starts with.
func InitialStatus() Status {
	return StatusConfirmed
}
