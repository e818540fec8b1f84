package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/schedule-assistant/internal/config"
	"github.com/BruksfildServices01/schedule-assistant/internal/dto"
	"github.com/BruksfildServices01/schedule-assistant/internal/metrics"
	"github.com/BruksfildServices01/schedule-assistant/internal/middleware"
	"github.com/BruksfildServices01/schedule-assistant/internal/ratelimit"
	"github.com/BruksfildServices01/schedule-assistant/internal/realtime"
	"github.com/BruksfildServices01/schedule-assistant/internal/session"
)

// Application close codes sent before dropping an unauthenticated socket.
const (
	CloseAuthRequired = 4001
	CloseAuthFailed   = 4002
)

type ChatWSHandler struct {
	sessions *session.Manager
	hub      *realtime.Hub
	limiter  ratelimit.Limiter
	config   *config.Config
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewChatWSHandler(
	sessions *session.Manager,
	hub *realtime.Hub,
	limiter ratelimit.Limiter,
	cfg *config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) *ChatWSHandler {
	allowed := make(map[string]struct{}, len(cfg.CORSOrigins))
	for _, o := range cfg.CORSOrigins {
		allowed[o] = struct{}{}
	}

	return &ChatWSHandler{
		sessions: sessions,
		hub:      hub,
		limiter:  limiter,
		config:   cfg,
		metrics:  m,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Serve upgrades the request and runs the chat protocol until the client
// leaves. ?session_id resumes a session; with auth on, ?token is required
// and its subject wins over session_id.
func (h *ChatWSHandler) Serve(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	token := c.Query("token")

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	if h.config.AuthEnabled() {
		if token == "" {
			closeWith(ws, CloseAuthRequired, "Authentication token required")
			return
		}
		sub, err := middleware.ParseSessionToken(h.config.JWTSecret, token)
		if err != nil {
			closeWith(ws, CloseAuthFailed, "Authentication failed")
			return
		}
		sessionID = sub
	}

	s, _ := h.sessions.GetOrCreate(sessionID)
	conn := h.hub.Register(s.ID, ws)
	defer h.hub.Unregister(conn)

	conn.Send(dto.ConnectedMessage{Type: dto.WSTypeConnected, SessionID: s.ID})
	if history := s.History(); len(history) > 0 {
		conn.Send(dto.HistoryMessage{Type: dto.WSTypeHistory, Messages: history})
	}

	for {
		raw, err := conn.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("ws read ended", zap.String("session_id", s.ID), zap.Error(err))
			}
			return
		}

		var msg dto.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			conn.Send(dto.ErrorMessage{Type: dto.WSTypeError, Message: "Invalid message format."})
			continue
		}

		switch msg.Type {
		case "", dto.WSTypeMessage:
			h.handleMessage(c, conn, s, msg.Content)

		case dto.WSTypeClearHistory:
			s.ClearHistory()
			conn.Send(dto.SignalMessage{Type: dto.WSTypeHistoryCleared})

		case dto.WSTypePing:
			conn.Send(dto.SignalMessage{Type: dto.WSTypePong})

		default:
			conn.Send(dto.ErrorMessage{Type: dto.WSTypeError, Message: "Unknown message type: " + msg.Type})
		}
	}
}

func (h *ChatWSHandler) handleMessage(c *gin.Context, conn *realtime.Conn, s *session.Session, content string) {
	ctx := c.Request.Context()

	d, err := h.limiter.Allow(ctx, "ws:"+s.ID)
	if err != nil {
		h.log.Warn("ws rate limiter unavailable", zap.Error(err))
	} else if !d.Allowed {
		h.metrics.IncRateLimited("ws")
		conn.Send(dto.ErrorMessage{
			Type:    dto.WSTypeError,
			Message: "Rate limit exceeded. Please wait before sending more messages.",
		})
		return
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	conn.Send(dto.AckMessage{Type: dto.WSTypeAck, Status: "processing"})

	res, err := h.sessions.Handle(ctx, s, content)
	if err != nil {
		h.log.Error("ws chat failed", zap.String("session_id", s.ID), zap.Error(err))
		conn.Send(dto.ErrorMessage{Type: dto.WSTypeError, Message: "Error processing message."})
		return
	}

	conn.Send(dto.ResponseMessage{
		Type:                dto.WSTypeResponse,
		Content:             res.Reply,
		Intent:              string(res.Intent),
		AppointmentsChanged: res.NewAppointment != nil,
	})
}

func closeWith(ws *websocket.Conn, code int, reason string) {
	_ = ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(time.Second),
	)
	_ = ws.Close()
}
