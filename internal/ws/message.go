package ws

import "encoding/json"

// Message represents a WebSocket message with type-based routing.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Message types - client to server
const (
	TypeJoin           = "join"
	TypeUpdateLocation = "update_location"
	TypeStartGame      = "start_game"
	TypeAttemptTag     = "attempt_tag"
	TypeTransferHost   = "transfer_host"
	TypeUpdateSettings = "update_settings"
	TypeAddBot         = "add_bot"
)

// Message types - server to client
const (
	TypePlayersUpdated  = "players_updated"
	TypeGameStarted     = "game_started"
	TypeGameEnded       = "game_ended"
	TypePlayerTagged    = "player_tagged"
	TypeYouAreHost      = "you_are_host"
	TypeZoneUpdated     = "zone_updated"
	TypeSettingsUpdated = "settings_updated"
	TypeTagResult       = "tag_result"
	TypeError           = "error"
)

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Message string `json:"message"`
}

// NewErrorMessage creates a Message with an error payload.
func NewErrorMessage(msg string) Message {
	data, _ := json.Marshal(ErrorMessage{Message: msg})
	return Message{Type: TypeError, Data: data}
}

// NewMessage creates a Message with a typed payload.
func NewMessage(msgType string, payload any) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: data}, nil
}
