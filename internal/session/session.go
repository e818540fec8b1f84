package session

import (
	"sync"
	"time"

	domain "github.com/BruksfildServices01/schedule-assistant/internal/domain/appointment"
	"github.com/BruksfildServices01/schedule-assistant/internal/infra/repository"
	"github.com/BruksfildServices01/schedule-assistant/internal/models"
)

// Session owns one conversation: its appointments and its transcript.
type Session struct {
	ID        string
	CreatedAt time.Time

	repo domain.Repository

	// work serialises message handling and appointment mutations.
	work sync.Mutex

	mu         sync.RWMutex
	transcript []models.ChatMessage
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		repo:       repository.NewAppointmentMemoryRepository(),
		transcript: []models.ChatMessage{},
	}
}

func (s *Session) Appointments() domain.Repository {
	return s.repo
}

// Exclusive runs fn while no message of this session is being handled.
func (s *Session) Exclusive(fn func() error) error {
	s.work.Lock()
	defer s.work.Unlock()
	return fn()
}

// History returns a copy of the transcript, oldest first.
func (s *Session) History() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ChatMessage{}, s.transcript...)
}

func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = []models.ChatMessage{}
}

func (s *Session) append(turns ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turns...)
}
