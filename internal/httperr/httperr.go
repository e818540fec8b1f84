package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context, code, message string) {
	Write(c, http.StatusTooManyRequests, code, message)
}

// FromBusiness maps a domain error onto the matching HTTP status.
// Errors without a business code become 500s.
func FromBusiness(c *gin.Context, err error) {
	switch code := CodeOf(err); code {
	case CodeAppointmentNotFound:
		NotFound(c, code, "Appointment not found.")
	case CodeSessionNotFound:
		NotFound(c, code, "Session not found.")
	case CodeTimeConflict:
		Conflict(c, code, "The requested time overlaps an existing appointment.")
	case CodeDuplicateID:
		Conflict(c, code, "An appointment with this id already exists.")
	case CodeInvalidInterval:
		BadRequest(c, code, "End must be after start.")
	case CodeEmptyTitle:
		BadRequest(c, code, "Title is required.")
	case CodeInvalidStatus:
		BadRequest(c, code, "Status must be confirmed, pending or cancelled.")
	case CodeInvalidAttendee:
		BadRequest(c, code, "Attendee identifiers must be non-empty.")
	case CodeRateLimited:
		TooManyRequests(c, code, "Too many requests.")
	default:
		Internal(c, "internal_error", "Unexpected error.")
	}
}
