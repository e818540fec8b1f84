package dto

import "github.com/BruksfildServices01/schedule-assistant/internal/models"

// ======================================================
// HTTP
// ======================================================

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token,omitempty"`
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply       string              `json:"reply"`
	Intent      string              `json:"intent"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
}

type HistoryResponse struct {
	SessionID string               `json:"session_id"`
	Messages  []models.ChatMessage `json:"messages"`
}

// ======================================================
// WEBSOCKET
// ======================================================

const (
	WSTypeMessage        = "message"
	WSTypeClearHistory   = "clear_history"
	WSTypePing           = "ping"
	WSTypeConnected      = "connected"
	WSTypeHistory        = "history"
	WSTypeAck            = "ack"
	WSTypeResponse       = "response"
	WSTypeNotification   = "notification"
	WSTypeError          = "error"
	WSTypePong           = "pong"
	WSTypeHistoryCleared = "history_cleared"
)

// ClientMessage is any frame sent by the browser. Type defaults to "message".
type ClientMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ConnectedMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

type HistoryMessage struct {
	Type     string               `json:"type"`
	Messages []models.ChatMessage `json:"messages"`
}

type AckMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type ResponseMessage struct {
	Type                string `json:"type"`
	Content             string `json:"content"`
	Intent              string `json:"intent"`
	AppointmentsChanged bool   `json:"appointments_changed"`
}

type NotificationMessage struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SignalMessage carries only a type, e.g. pong or history_cleared.
type SignalMessage struct {
	Type string `json:"type"`
}
