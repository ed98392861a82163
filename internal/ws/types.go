package ws

import (
	"encoding/json"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove            MessageType = "move"
	MessageTypePromote         MessageType = "promote"
	MessageTypeCancelPromotion MessageType = "cancelPromotion"
	MessageTypeGameState       MessageType = "gameState"
	MessageTypeMoveResult      MessageType = "moveResult"
	MessageTypeMatchFound      MessageType = "matchFound"
	MessageTypeError           MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

type MoveRequest struct {
	From engine.Square `json:"from"`
	To   engine.Square `json:"to"`
}

type PromotionRequest struct {
	Kind engine.PieceType `json:"kind"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}
