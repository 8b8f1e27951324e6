package server

import (
	"encoding/json"

	"github.com/asurahunt/karma-server-go/internal/game"
)

// Envelope is the wire frame for every websocket message, in both
// directions. Data holds the type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound intent types.
const (
	msgCreateRoom  = "create_room"
	msgJoinRoom    = "join_room"
	msgReclaim     = "reclaim_player"
	msgWatchRoom   = "watch_room"
	msgToggleReady = "toggle_ready"
	msgChatMessage = "chat_message"
	msgStartGame   = "start_game"
	msgResetRoom   = "reset_room"
	msgGameAction  = "game_action"
)

// Outbound publication types.
const (
	msgRoomUpdated = "room_updated"
	msgError       = "error"
)

// roomScopedIntent carries the routing fields shared by room-level intents.
type roomScopedIntent struct {
	RoomID     string `json:"roomId"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Text       string `json:"text,omitempty"`
}

// reclaimIntent asks to re-associate this connection with a stored seat.
type reclaimIntent struct {
	RoomCode  string `json:"roomCode"`
	ClientKey string `json:"clientKey"`
}

// gameActionIntent wraps an in-game action with its routing fields.
type gameActionIntent struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	game.ActionRequest
}

// roomUpdatedPayload is the room_updated publication body. CurrentPlayerID
// is set only on the copy delivered to the client that just gained a seat.
type roomUpdatedPayload struct {
	Room            game.RoomSnapshot `json:"room"`
	CurrentPlayerID string            `json:"currentPlayerId,omitempty"`
}

// errorPayload is the directed error publication body.
type errorPayload struct {
	Message string `json:"message"`
}

func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: data})
}
