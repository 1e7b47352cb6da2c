package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Player    string `json:"player"`
	Mines     int    `json:"mines,omitempty"`
	Size      int    `json:"size,omitempty"`
	ControlID string `json:"control_id,omitempty"`
}

type ResponsePayload struct {
	SessionID string        `json:"session_id,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Outcome   string        `json:"outcome,omitempty"`
	Board     *entity.Board `json:"board,omitempty"`
	Message   string        `json:"message,omitempty"`
	Ephemeral bool          `json:"ephemeral,omitempty"`
	Error     string        `json:"error,omitempty"`
}

func newResponsePayload(outcome *usecase.Outcome) ResponsePayload {
	payload := ResponsePayload{
		SessionID: outcome.SessionID,
		Kind:      string(outcome.GameKind),
		Outcome:   string(outcome.Kind),
		Message:   outcome.Message,
		Ephemeral: outcome.Ephemeral,
	}

	if outcome.Board.Rows != nil || outcome.Board.Status != "" {
		board := outcome.Board
		payload.Board = &board
	}

	return payload
}

func (that *Server) sendMessage(conn *connection, action string, payload ResponsePayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.writeJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, ResponsePayload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
