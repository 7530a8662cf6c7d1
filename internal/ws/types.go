package ws

import (
	"encoding/json"
)

// MessageType names the kind of payload a websocket message carries.
type MessageType string

const (
	// client to server
	MessageTypeMove      MessageType = "move"
	MessageTypeResign    MessageType = "resign"
	MessageTypeDrawOffer MessageType = "drawOffer"
	MessageTypeDraw      MessageType = "draw" // accepts the opponent's offer

	// server to client
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload reports a failed command. Reason is the rule that rejected a
// move, when there is one.
type ErrorPayload struct {
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// NewMessage marshals payload into an envelope of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}
