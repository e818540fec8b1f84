package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/dto"
	"github.com/BruksfildServices01/schedule-assistant/internal/httperr"
	"github.com/BruksfildServices01/schedule-assistant/internal/httpresp"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
)

// ======================================================
// HANDLER
// ======================================================

type ChatHandler struct {
	sessions *session.Manager
	log      *zap.Logger
}

func NewChatHandler(sessions *session.Manager, log *zap.Logger) *ChatHandler {
	return &ChatHandler{sessions: sessions, log: log}
}

// ======================================================
// SEND
// ======================================================

func (h *ChatHandler) Send(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A message is required.")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		httperr.BadRequest(c, "empty_message", "A message is required.")
		return
	}

	res, err := h.sessions.Handle(c.Request.Context(), s, message)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.log.Error("chat failed", zap.String("session_id", s.ID), zap.Error(err))
		httperr.Internal(c, "chat_failed", "Error processing message.")
		return
	}

	httpresp.OK(c, dto.ChatResponse{
		Reply:       res.Reply,
		Intent:      string(res.Intent),
		Appointment: res.NewAppointment,
	})
}

// ======================================================
// HISTORY
// ======================================================

func (h *ChatHandler) History(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	httpresp.OK(c, dto.HistoryResponse{
		SessionID: s.ID,
		Messages:  s.History(),
	})
}

func (h *ChatHandler) ClearHistory(c *gin.Context) {
	s := currentSession(c, h.sessions)
	if s == nil {
		return
	}

	s.ClearHistory()
	c.Status(http.StatusNoContent)
}
