package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/MarcVidalCodes/CuHackking/internal/bot"
	"github.com/MarcVidalCodes/CuHackking/internal/session"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
type Router struct {
	lobby    *LobbyHandler
	gameplay *GameplayHandler
}

// NewRouter creates a new message router.
func NewRouter(sess *session.Session, bots *bot.Manager) *Router {
	return &Router{
		lobby:    NewLobbyHandler(sess, bots),
		gameplay: NewGameplayHandler(sess),
	}
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	// Lobby messages
	case ws.TypeJoin:
		r.lobby.HandleJoin(cm.Client, msg)
	case ws.TypeTransferHost:
		r.lobby.HandleTransferHost(cm.Client, msg)
	case ws.TypeUpdateSettings:
		r.lobby.HandleUpdateSettings(cm.Client, msg)
	case ws.TypeAddBot:
		r.lobby.HandleAddBot(cm.Client, msg)

	// Gameplay messages
	case ws.TypeStartGame:
		r.gameplay.HandleStartGame(cm.Client, msg)
	case ws.TypeUpdateLocation:
		r.gameplay.HandleUpdateLocation(cm.Client, msg)
	case ws.TypeAttemptTag:
		r.gameplay.HandleAttemptTag(cm.Client)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.lobby.HandleDisconnect(client)
}
