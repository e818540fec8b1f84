package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// AppointmentMemoryRepository keeps one session's appointments in memory.
// Returned values are copies; callers never alias stored records.
type AppointmentMemoryRepository struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{
		appointments: make(map[string]models.Appointment),
	}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentMemoryRepository) List(ctx context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Appointment, 0, len(r.appointments))
	for _, ap := range r.appointments {
		out = append(out, clone(ap))
	}
	sortByStart(out)
	return out, nil
}

func (r *AppointmentMemoryRepository) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	cp := clone(ap)
	return &cp, nil
}

// ListForPeriod returns appointments starting in [start, end), ordered by start.
func (r *AppointmentMemoryRepository) ListForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Appointment{}
	for _, ap := range r.appointments {
		if domain.StartsWithin(ap, start, end) {
			out = append(out, clone(ap))
		}
	}
	sortByStart(out)
	return out, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *AppointmentMemoryRepository) Add(
	ctx context.Context,
	ap models.Appointment,
) error {

	if ap.Status == "" {
		ap.Status = string(domain.InitialStatus())
	}
	if ap.Attendees == nil {
		ap.Attendees = []string{}
	}
	if err := domain.Validate(&ap); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.appointments[ap.ID]; exists {
		return httperr.ErrBusiness(httperr.CodeDuplicateID)
	}
	r.appointments[ap.ID] = clone(ap)
	return nil
}

func (r *AppointmentMemoryRepository) Remove(
	ctx context.Context,
	id string,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	delete(r.appointments, id)
	return nil
}

func (r *AppointmentMemoryRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.Status,
) (*models.Appointment, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}
	if err := domain.SetStatus(&ap, status); err != nil {
		return nil, err
	}
	r.appointments[id] = ap

	cp := clone(ap)
	return &cp, nil
}

func clone(ap models.Appointment) models.Appointment {
	ap.Attendees = append([]string{}, ap.Attendees...)
	return ap
}

func sortByStart(aps []models.Appointment) {
	sort.Slice(aps, func(i, j int) bool {
		if aps[i].Start.Equal(aps[j].Start) {
			return aps[i].ID < aps[j].ID
		}
		return aps[i].Start.Before(aps[j].Start)
	})
}

// Compile-time check
var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
