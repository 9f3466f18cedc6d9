package handler

import (
	"encoding/json"

	"github.com/MarcVidalCodes/CuHackking/internal/game"
	"github.com/MarcVidalCodes/CuHackking/internal/geo"
	"github.com/MarcVidalCodes/CuHackking/internal/session"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// GameplayHandler handles in-game messages.
type GameplayHandler struct {
	sess *session.Session
}

// NewGameplayHandler creates a new gameplay handler.
func NewGameplayHandler(sess *session.Session) *GameplayHandler {
	return &GameplayHandler{sess: sess}
}

type startGameRequest struct {
	Settings *game.SettingsPatch `json:"settings"`
}

// HandleStartGame starts a game with optional settings overrides.
func (h *GameplayHandler) HandleStartGame(client *ws.Client, msg ws.Message) {
	var req startGameRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid settings"))
			return
		}
	}

	if err := h.sess.StartGame(client.ID, req.Settings); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

type locationUpdate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HandleUpdateLocation records a player's reported position.
func (h *GameplayHandler) HandleUpdateLocation(client *ws.Client, msg ws.Message) {
	var req locationUpdate
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid location data"))
		return
	}

	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		client.SendMessage(ws.NewErrorMessage("location out of bounds"))
		return
	}

	h.sess.UpdateLocation(client.ID, geo.Coordinates{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
}

// HandleAttemptTag runs a tag attempt and replies privately with the result.
// Successful tags are broadcast by the session itself.
func (h *GameplayHandler) HandleAttemptTag(client *ws.Client) {
	result := h.sess.AttemptTag(client.ID)

	resp, _ := ws.NewMessage(ws.TypeTagResult, result)
	client.SendMessage(resp)
}
