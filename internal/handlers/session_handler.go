package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	"github.com/BruksfildServices01/schedule-assistant/internal/dto"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/httpresp"
	"github.com/BruksfildServices01/schedule-assistant/internal/middleware"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
)

type SessionHandler struct {
	sessions *session.Manager
	config   *config.Config
	log      *zap.Logger
}

func NewSessionHandler(sessions *session.Manager, cfg *config.Config, log *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, config: cfg, log: log}
}

// Create starts a fresh session. A signed token is returned when auth is on.
func (h *SessionHandler) Create(c *gin.Context) {
	s := h.sessions.Create()

	resp := dto.CreateSessionResponse{SessionID: s.ID}

	if h.config.AuthEnabled() {
		token, err := middleware.IssueSessionToken(h.config.JWTSecret, s.ID, time.Now())
		if err != nil {
			h.log.Error("failed to sign session token", zap.Error(err))
			httperr.Internal(c, "token_error", "Could not create session.")
			return
		}
		resp.Token = token
	}

	httpresp.Created(c, resp)
}

// --------------------------------------------------
// helpers shared by session-scoped handlers
// --------------------------------------------------

// currentSession resumes the session resolved by the auth middleware. It
// writes a 400 and returns nil when the request names no session.
func currentSession(c *gin.Context, sessions *session.Manager) *session.Session {
	id := c.GetString(middleware.ContextSessionID)
	if id == "" {
		httperr.BadRequest(c, "missing_session", "A session id is required.")
		return nil
	}
	s, _ := sessions.GetOrCreate(id)
	return s
}
