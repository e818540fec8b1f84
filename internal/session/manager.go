package session

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/assistant"
	"github.com/BruksfildServices01/schedule-assistant/internal/audit"
	"github.com/BruksfildServices01/schedule-assistant/internal/dto"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/metrics"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

const (
	EventAppointmentCreated   = "appointment_created"
	EventAppointmentCancelled = "appointment_cancelled"
	EventAppointmentUpdated   = "appointment_updated"
	EventAppointmentsChanged  = "appointments_changed"
)

const defaultCacheSize = 1024

// Publisher delivers a message to every live connection of a session.
type Publisher interface {
	Publish(sessionID string, msg any)
}

type Config struct {
	CacheSize     int
	ThinkDelayMax time.Duration
}

// Manager holds the live sessions in a bounded LRU cache. Evicting a
// session drops its appointments and transcript.
type Manager struct {
	mu       sync.Mutex
	sessions *lru.Cache[string, *Session]

	engine    *assistant.Engine
	audit     *audit.Dispatcher
	publisher Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger

	thinkDelayMax time.Duration
	now           func() time.Time
	newID         func() string
}

func NewManager(
	cfg Config,
	engine *assistant.Engine,
	dispatcher *audit.Dispatcher,
	publisher Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *Manager {

	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}

	mgr := &Manager{
		engine:        engine,
		audit:         dispatcher,
		publisher:     publisher,
		metrics:       m,
		log:           log,
		thinkDelayMax: cfg.ThinkDelayMax,
		now:           time.Now,
		newID:         uuid.NewString,
	}

	cache, err := lru.NewWithEvict[string, *Session](size, func(id string, _ *Session) {
		log.Info("session evicted", zap.String("session_id", id))
	})
	if err != nil {
		panic(err)
	}
	mgr.sessions = cache

	return mgr
}

// ======================================================
// LIFECYCLE
// ======================================================

func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(m.newID())
}

func (m *Manager) createLocked(id string) *Session {
	s := newSession(id, m.now())
	m.sessions.Add(id, s)
	m.metrics.SetSessions(m.sessions.Len())
	m.log.Info("session created", zap.String("session_id", id))
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	s, ok := m.sessions.Get(id)
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeSessionNotFound)
	}
	return s, nil
}

// GetOrCreate resumes the session id, creating it when unknown. An empty id
// always yields a fresh session. created reports whether one was made.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		return m.createLocked(m.newID()), true
	}
	if s, ok := m.sessions.Get(id); ok {
		return s, false
	}
	return m.createLocked(id), true
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

// ======================================================
// CONVERSATION
// ======================================================

// Handle runs one user message through the assistant, commits any booking
// and records both turns. Messages of one session are handled one at a time
// in arrival order. A cancelled ctx during the thinking delay leaves the
// session untouched.
func (m *Manager) Handle(
	ctx context.Context,
	s *Session,
	message string,
) (assistant.Result, error) {

	s.work.Lock()
	defer s.work.Unlock()

	started := time.Now()
	received := m.now()

	if err := m.think(ctx); err != nil {
		return assistant.Result{}, err
	}

	appointments, err := s.repo.List(ctx)
	if err != nil {
		return assistant.Result{}, fmt.Errorf("list appointments: %w", err)
	}

	res := m.engine.Respond(message, appointments)

	switch {
	case res.NewAppointment != nil:
		if err := s.repo.Add(ctx, *res.NewAppointment); err != nil {
			return assistant.Result{}, fmt.Errorf("commit appointment: %w", err)
		}
		m.metrics.IncBooking("booked")
		m.audit.Dispatch(audit.Event{
			SessionID: s.ID,
			Action:    "appointment_created",
			Entity:    "appointment",
			EntityID:  res.NewAppointment.ID,
			Metadata:  map[string]string{"source": "chat", "title": res.NewAppointment.Title},
		})
		m.Notify(s.ID, EventAppointmentCreated, res.NewAppointment)

	case res.Conflict != nil:
		m.metrics.IncBooking("conflict")
		m.audit.Dispatch(audit.Event{
			SessionID: s.ID,
			Action:    "appointment_conflict",
			Entity:    "appointment",
			EntityID:  res.Conflict.ID,
		})
	}

	s.append(
		models.ChatMessage{Role: models.RoleUser, Content: message, Timestamp: received},
		models.ChatMessage{Role: models.RoleAssistant, Content: res.Reply, Timestamp: m.now()},
	)

	m.metrics.IncIntent(string(res.Intent))
	m.metrics.ObserveReply(time.Since(started))
	m.log.Debug("message handled",
		zap.String("session_id", s.ID),
		zap.String("intent", string(res.Intent)),
		zap.Bool("booked", res.NewAppointment != nil),
	)

	return res, nil
}

// Notify publishes an appointment event to the session's live connections.
func (m *Manager) Notify(sessionID, event string, data any) {
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(sessionID, dto.NotificationMessage{
		Type:  dto.WSTypeNotification,
		Event: event,
		Data:  data,
	})
}

func (m *Manager) think(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.thinkDelayMax <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(rand.Int63n(int64(m.thinkDelayMax))))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
