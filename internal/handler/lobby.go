package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/MarcVidalCodes/CuHackking/internal/bot"
	"github.com/MarcVidalCodes/CuHackking/internal/game"
	"github.com/MarcVidalCodes/CuHackking/internal/session"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// LobbyHandler handles roster and host messages.
type LobbyHandler struct {
	sess *session.Session
	bots *bot.Manager
}

// NewLobbyHandler creates a new lobby handler.
func NewLobbyHandler(sess *session.Session, bots *bot.Manager) *LobbyHandler {
	return &LobbyHandler{sess: sess, bots: bots}
}

type joinRequest struct {
	Username string `json:"username"`
}

type joinResponse struct {
	PlayerID string `json:"player_id"`
}

// HandleJoin registers the connection as a player and acks with its id.
func (h *LobbyHandler) HandleJoin(client *ws.Client, msg ws.Message) {
	var req joinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Username == "" {
		client.SendMessage(ws.NewErrorMessage("username is required"))
		return
	}

	p := h.sess.Join(client, req.Username)

	resp, _ := ws.NewMessage(ws.TypeJoin, joinResponse{PlayerID: p.ID})
	client.SendMessage(resp)
}

type transferHostRequest struct {
	TargetID string `json:"target_id"`
}

// HandleTransferHost moves host privilege to another player.
func (h *LobbyHandler) HandleTransferHost(client *ws.Client, msg ws.Message) {
	var req transferHostRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.TargetID == "" {
		client.SendMessage(ws.NewErrorMessage("target_id is required"))
		return
	}

	if err := h.sess.TransferHost(client.ID, req.TargetID); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

// HandleUpdateSettings merges a partial settings update into the session.
func (h *LobbyHandler) HandleUpdateSettings(client *ws.Client, msg ws.Message) {
	var patch game.SettingsPatch
	if err := json.Unmarshal(msg.Data, &patch); err != nil {
		client.SendMessage(ws.NewErrorMessage("invalid settings"))
		return
	}

	if err := h.sess.UpdateSettings(client.ID, patch); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

type addBotRequest struct {
	Difficulty string `json:"difficulty"`
}

// HandleAddBot adds an AI opponent to the lobby. Host-gated.
func (h *LobbyHandler) HandleAddBot(client *ws.Client, msg ws.Message) {
	var req addBotRequest
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			client.SendMessage(ws.NewErrorMessage("invalid bot request"))
			return
		}
	}

	if !h.sess.IsHost(client.ID) {
		client.SendMessage(ws.NewErrorMessage("only the host can add bots"))
		return
	}

	if err := h.bots.Add(req.Difficulty); err != nil {
		client.SendMessage(ws.NewErrorMessage(err.Error()))
	}
}

// HandleDisconnect removes the dropped connection's player.
func (h *LobbyHandler) HandleDisconnect(client *ws.Client) {
	h.sess.Remove(client.ID)
	slog.Debug("connection cleaned up", "client", client.ID)
}
