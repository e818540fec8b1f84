package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/dto"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/httpresp"
	"github.com/BruksfildServices01/schedule-assistant/internal/icalendar"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
	ucAppointment "github.com/BruksfildServices01/schedule-assistant/internal/usecase/appointment"
)

const (
	defaultListWindow         = 30 * 24 * time.Hour
	defaultAvailabilityWindow = 7 * 24 * time.Hour
	maxImportBytes            = 1 << 20
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	sessions *session.Manager
	audit    *audit.Dispatcher
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
}

func NewAppointmentHandler(
	sessions *session.Manager,
	dispatcher *audit.Dispatcher,
	loc *time.Location,
	now func() time.Time,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		sessions: sessions,
		audit:    dispatcher,
		loc:      loc,
		now:      now,
		log:      log,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	now := h.now()
	start, err := parseTimeParam(c.Query("start"), h.loc, now)
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "start must be RFC3339 or YYYY-MM-DD.")
		return
	}
	end, err := parseTimeParam(c.Query("end"), h.loc, start.Add(defaultListWindow))
	if err != nil {
		httperr.BadRequest(c, "invalid_end", "end must be RFC3339 or YYYY-MM-DD.")
		return
	}

	aps, err := ucAppointment.NewListAppointments(s.Appointments()).
		Execute(c.Request.Context(), start, end)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	now := h.now().In(h.loc)
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		httperr.BadRequest(c, "invalid_year", "year must be a number.")
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month must be a number.")
		return
	}

	aps, err := ucAppointment.NewListAppointmentsByMonth(s.Appointments()).
		Execute(c.Request.Context(), year, month, h.loc)
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	ap, err := s.Appointments().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// WRITE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "title, start and end are required.")
		return
	}

	uc := ucAppointment.NewCreateAppointment(s.Appointments(), h.audit)

	var created *models.Appointment
	err := s.Exclusive(func() error {
		var err error
		created, err = uc.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
			SessionID:   s.ID,
			ID:          req.ID,
			Title:       req.Title,
			Start:       req.Start,
			End:         req.End,
			Attendees:   req.Attendees,
			Description: req.Description,
			Location:    req.Location,
			Status:      req.Status,
		})
		return err
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	h.sessions.Notify(s.ID, session.EventAppointmentCreated, created)
	httpresp.Created(c, created)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "status is required.")
		return
	}

	uc := ucAppointment.NewUpdateAppointmentStatus(s.Appointments(), h.audit)

	var updated *models.Appointment
	err := s.Exclusive(func() error {
		var err error
		updated, err = uc.Execute(c.Request.Context(), s.ID, c.Param("id"), req.Status)
		return err
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	event := session.EventAppointmentUpdated
	if domain.Status(updated.Status) == domain.StatusCancelled {
		event = session.EventAppointmentCancelled
	}
	h.sessions.Notify(s.ID, event, updated)

	httpresp.OK(c, updated)
}

func (h *AppointmentHandler) Remove(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	uc := ucAppointment.NewRemoveAppointment(s.Appointments(), h.audit)

	var removed *models.Appointment
	err := s.Exclusive(func() error {
		var err error
		removed, err = uc.Execute(c.Request.Context(), s.ID, c.Param("id"))
		return err
	})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	h.sessions.Notify(s.ID, session.EventAppointmentCancelled, gin.H{"id": removed.ID})
	c.Status(http.StatusNoContent)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	start, err := parseTimeParam(c.Query("start"), h.loc, h.now())
	if err != nil {
		httperr.BadRequest(c, "invalid_start", "start must be RFC3339 or YYYY-MM-DD.")
		return
	}
	end, err := parseTimeParam(c.Query("end"), h.loc, start.Add(defaultAvailabilityWindow))
	if err != nil {
		httperr.BadRequest(c, "invalid_end", "end must be RFC3339 or YYYY-MM-DD.")
		return
	}
	slot, err := intQuery(c, "slot_duration_minutes", domain.DefaultSlotDurationMinutes)
	if err != nil || slot <= 0 {
		httperr.BadRequest(c, "invalid_slot_duration", "slot_duration_minutes must be a positive number.")
		return
	}

	slots, err := ucAppointment.NewGetAvailability(s.Appointments()).
		Execute(c.Request.Context(), domain.AvailabilityInput{
			Start:               start,
			End:                 end,
			SlotDurationMinutes: slot,
		})
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// ICALENDAR
// ======================================================

func (h *AppointmentHandler) Export(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	aps, err := s.Appointments().List(c.Request.Context())
	if err != nil {
		httperr.FromBusiness(c, err)
		return
	}

	var buf bytes.Buffer
	if err := icalendar.Export(&buf, aps, h.now()); err != nil {
		if errors.Is(err, icalendar.ErrEmpty) {
			c.Status(http.StatusNoContent)
			return
		}
		h.log.Error("ics export failed", zap.String("session_id", s.ID), zap.Error(err))
		httperr.Internal(c, "export_failed", "Could not export appointments.")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="appointments.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *AppointmentHandler) Import(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	body := io.LimitReader(c.Request.Body, maxImportBytes)
	uc := ucAppointment.NewImportAppointments(s.Appointments(), h.audit)

	var res *ucAppointment.ImportResult
	err := s.Exclusive(func() error {
		var err error
		res, err = uc.Execute(c.Request.Context(), s.ID, body, h.loc)
		return err
	})
	if err != nil {
		httperr.BadRequest(c, "invalid_calendar", "The body is not a valid iCalendar document.")
		return
	}

	ids := make([]string, 0, len(res.Imported))
	for _, ap := range res.Imported {
		ids = append(ids, ap.ID)
	}
	if len(ids) > 0 {
		h.sessions.Notify(s.ID, session.EventAppointmentsChanged, gin.H{"imported": len(ids)})
	}

	httpresp.OK(c, dto.ImportResponse{
		Imported: len(ids),
		Skipped:  res.Skipped,
		IDs:      ids,
	})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
