package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
)

func (that *Server) handleNewMinesweeper(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewMinesweeper")

	payloadReq, err := that.readPayload(msg, conn)
	if err != nil || payloadReq == nil {
		return err
	}

	outcome, err := that.gameUseCase.StartMinesweeper(ctx, payloadReq.Player, payloadReq.Mines)
	if err != nil {
		log.Warn("failed to start minesweeper", "playerID", payloadReq.Player, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return that.sendMessage(conn, msg.Action, newResponsePayload(outcome))
}

func (that *Server) handleNewTictactoe(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewTictactoe")

	payloadReq, err := that.readPayload(msg, conn)
	if err != nil || payloadReq == nil {
		return err
	}

	outcome, err := that.gameUseCase.StartTictactoe(ctx, payloadReq.Player, payloadReq.Size)
	if err != nil {
		log.Warn("failed to start tictactoe", "playerID", payloadReq.Player, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	return that.sendMessage(conn, msg.Action, newResponsePayload(outcome))
}

func (that *Server) handleControl(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleControl")

	payloadReq, err := that.readPayload(msg, conn)
	if err != nil || payloadReq == nil {
		return err
	}

	if payloadReq.ControlID == "" {
		return that.sendErrorResponse(conn, msg.Action, "control_id is required")
	}

	outcome := that.gameUseCase.ApplyAction(ctx, payloadReq.ControlID, payloadReq.Player)
	payloadResp := newResponsePayload(outcome)

	if outcome.Ephemeral || !slices.Contains(outcome.Participants, payloadReq.Player) {
		return that.sendMessage(conn, msg.Action, payloadResp)
	}

	log = log.With("sessionID", outcome.SessionID)

	for _, player := range outcome.Participants {
		if player == "" {
			continue
		}

		that.connectionsMutex.RLock()
		playerConn, ok := that.connections[player]
		that.connectionsMutex.RUnlock()

		if !ok {
			log.Warn("connection not found for player", "playerID", player)
			continue
		}

		if err = that.sendMessage(playerConn, msg.Action, payloadResp); err != nil {
			log.Error("failed to send game update", "playerID", player, "error", err)
		}
	}

	return nil
}

// readPayload decodes the request and remembers conn as the player's connection.
// A nil payload with a nil error means a rejection has already been sent.
func (that *Server) readPayload(msg *Message, conn *connection) (*RequestPayload, error) {
	var payloadReq RequestPayload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		if sendErr := that.sendErrorResponse(conn, msg.Action, "invalid payload"); sendErr != nil {
			return nil, sendErr
		}

		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Player == "" {
		return nil, that.sendErrorResponse(conn, msg.Action, usecase.ErrPlayerRequired.Error())
	}

	that.connectionsMutex.Lock()
	previous, bound := that.connections[payloadReq.Player]
	that.connections[payloadReq.Player] = conn
	that.connectionsMutex.Unlock()

	if bound && previous != conn {
		that.logger.Warn("player connection replaced", "method", "readPayload", "playerID", payloadReq.Player)
	}

	return &payloadReq, nil
}

func (that *Server) handleDisconnect(conn *connection) {
	log := that.logger.With("method", "handleDisconnect")

	that.connectionsMutex.Lock()
	defer that.connectionsMutex.Unlock()

	for playerID, existing := range that.connections {
		if existing == conn {
			delete(that.connections, playerID)
			log.Info("player disconnected", "playerID", playerID)
		}
	}
}
