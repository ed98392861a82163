package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one player's live connection to a game.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		c.WriteJSON(errorMessage(err))
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read error for %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("game %s: parse error for %s: %v", gameID, playerID, err)
			wsc.notify(gameID, playerID, ws.MessageTypeError, ws.ErrorPayload{Error: "malformed message"})
			continue
		}

		result, err := wsc.handleMessage(gameID, playerID, msg)
		if err != nil {
			wsc.notify(gameID, playerID, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
			continue
		}
		wsc.notify(gameID, playerID, ws.MessageTypeMoveResult, result)
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) (engine.MoveResult, error) {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MoveRequest
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return engine.MoveResult{}, err
		}
		if !move.From.InBounds() || !move.To.InBounds() {
			return engine.MoveResult{}, engine.ErrInvalidSquare
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypePromote:
		var req ws.PromotionRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return engine.MoveResult{}, err
		}
		return wsc.gameService.ResolvePromotion(gameID, playerID, req)
	case ws.MessageTypeCancelPromotion:
		return wsc.gameService.CancelPromotion(gameID, playerID)
	default:
		return engine.MoveResult{}, fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) notify(gameID, playerID string, t ws.MessageType, payload interface{}) {
	if err := wsc.gameService.Notify(gameID, playerID, t, payload); err != nil {
		log.Debugf("game %s: notify %s failed: %v", gameID, playerID, err)
	}
}

// HandleMatchmaking queues the player and holds the connection open until a
// match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)
	ch := make(chan string, 1)
	if err := wsc.gameService.StartMatchmaking(playerID, ch); err != nil {
		c.WriteJSON(errorMessage(err))
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	// the reader only exists to notice the client closing the connection
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)})
		c.Close()
	case <-gone:
		log.Debugf("matchmaking: %s disconnected", playerID)
	}
}

func errorMessage(err error) ws.Message {
	msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	return msg
}
