package httperr

import "errors"

const (
	CodeAppointmentNotFound = "appointment_not_found"
	CodeTimeConflict        = "time_conflict"
	CodeInvalidInterval     = "invalid_interval"
	CodeEmptyTitle          = "empty_title"
	CodeDuplicateID         = "duplicate_id"
	CodeInvalidStatus       = "invalid_status"
	CodeInvalidAttendee     = "invalid_attendee"
	CodeSessionNotFound     = "session_not_found"
	CodeRateLimited         = "rate_limited"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// CodeOf returns the business code carried by err, or "" for any other error.
func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
