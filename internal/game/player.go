package game

import "github.com/MarcVidalCodes/CuHackking/internal/geo"

// Player is one participant in the session. Identity is connection-scoped:
// the ID is stable only for the lifetime of the underlying connection.
// Host and tagger status are not stored here; the session derives them from
// its own single source of truth when serializing.
type Player struct {
	ID       string
	Username string
	Location *geo.Coordinates
	Score    int
	Bot      bool
}

func NewPlayer(id, username string) *Player {
	return &Player{ID: id, Username: username}
}

// SetLocation overwrites the player's last known location.
func (p *Player) SetLocation(c geo.Coordinates) {
	p.Location = &c
}

// HasLocation reports whether the player has ever reported a location.
func (p *Player) HasLocation() bool {
	return p.Location != nil
}
