package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MarcVidalCodes/CuHackking/internal/game"
	"github.com/MarcVidalCodes/CuHackking/internal/geo"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// rosterPushInterval throttles location-driven roster broadcasts so a busy
// lobby does not flood every client with position spam.
const rosterPushInterval = 2 * time.Second

// Session is the single authoritative game state for this process: the
// ordered roster, host and tagger identity, the tag cooldown gate and the
// lifecycle timers. All mutation funnels through it; handlers and timers
// never touch player fields directly.
type Session struct {
	mu sync.RWMutex

	players []*game.Player // join order, the host-reassignment tie-break
	clients map[string]*ws.Client

	hostID   string
	taggerID string // single source of truth for "it"; is_it is derived

	inProgress  bool
	settings    game.Settings
	lastTagTime time.Time
	remaining   int // seconds until forced game end

	zone   *zoneController
	stopCh chan struct{}

	lastRosterPush time.Time

	// now is swappable in tests.
	now func() time.Time
}

func New() *Session {
	return &Session{
		clients:  make(map[string]*ws.Client),
		settings: game.DefaultSettings(),
		now:      time.Now,
	}
}

// PlayerInfo is the wire form of a player. Host and tagger flags are derived
// from the session's ids so the two can never drift apart.
type PlayerInfo struct {
	ID       string           `json:"id"`
	Username string           `json:"username"`
	Location *geo.Coordinates `json:"location,omitempty"`
	IsHost   bool             `json:"is_host"`
	IsIt     bool             `json:"is_it"`
	Score    int              `json:"score"`
	IsBot    bool             `json:"is_bot,omitempty"`
}

// Snapshot is the full state sent with game_started.
type Snapshot struct {
	GameInProgress    bool          `json:"game_in_progress"`
	Players           []PlayerInfo  `json:"players"`
	Settings          game.Settings `json:"settings"`
	DurationRemaining int           `json:"duration_remaining"`
	Zone              *ZoneUpdate   `json:"zone,omitempty"`
}

// Join adds a player, or updates the username in place when the connection id
// is already registered (a client may re-send join after a flaky reconnect).
// The first player in an empty roster becomes host and is privately notified.
func (s *Session) Join(client *ws.Client, username string) *game.Player {
	s.mu.Lock()
	if p := s.findLocked(client.ID); p != nil {
		p.Username = username
		s.mu.Unlock()
		s.BroadcastRoster()
		return p
	}

	p := game.NewPlayer(client.ID, username)
	s.players = append(s.players, p)
	s.clients[p.ID] = client
	becameHost := len(s.players) == 1
	if becameHost {
		s.hostID = p.ID
	}
	s.mu.Unlock()

	if becameHost {
		s.sendTo(p.ID, ws.Message{Type: ws.TypeYouAreHost})
	}
	s.BroadcastRoster()
	slog.Info("player joined", "player", username, "id", p.ID, "host", becameHost)
	return p
}

// JoinBot registers an AI-controlled player. Bots have no transport client,
// so broadcasts simply skip them.
func (s *Session) JoinBot(username string) *game.Player {
	s.mu.Lock()
	p := game.NewPlayer(uuid.New().String(), username)
	p.Bot = true
	s.players = append(s.players, p)
	if len(s.players) == 1 {
		s.hostID = p.ID
	}
	s.mu.Unlock()

	s.BroadcastRoster()
	slog.Info("bot joined", "bot", username, "id", p.ID)
	return p
}

// Remove deletes the player behind a dropped connection. The earliest-joined
// human survivor inherits host duty (a bot only when no humans remain, since
// bots cannot issue host commands); a departing tagger is replaced by a random
// remaining player when the reassignment policy is on. Unknown ids are
// tolerated no-ops: disconnects race with in-flight messages.
func (s *Session) Remove(playerID string) {
	s.mu.Lock()
	idx := -1
	for i, p := range s.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return
	}
	removed := s.players[idx]
	s.players = append(s.players[:idx], s.players[idx+1:]...)
	delete(s.clients, playerID)

	var newHostID string
	if s.hostID == playerID {
		s.hostID = s.hostCandidateLocked()
		newHostID = s.hostID
	}
	if s.taggerID == playerID {
		s.taggerID = ""
		if s.inProgress && len(s.players) > 0 && s.settings.ReassignTaggerOnLeave {
			s.taggerID = s.players[rand.Intn(len(s.players))].ID
		}
	}
	endNow := s.inProgress && len(s.players) == 0
	s.mu.Unlock()

	if endNow {
		s.EndGame("all players left")
	}
	if newHostID != "" {
		s.sendTo(newHostID, ws.Message{Type: ws.TypeYouAreHost})
	}
	s.BroadcastRoster()
	slog.Info("player removed", "player", removed.Username, "id", playerID)
}

// UpdateLocation overwrites a player's last known location. Unknown ids are
// ignored. When the mover is the current tagger, the tag check runs
// implicitly; only a successful tag has any effect.
func (s *Session) UpdateLocation(playerID string, coords geo.Coordinates) {
	s.mu.Lock()
	p := s.findLocked(playerID)
	if p == nil {
		s.mu.Unlock()
		return
	}
	p.SetLocation(coords)
	isTagger := s.inProgress && s.taggerID == playerID
	s.mu.Unlock()

	s.maybeBroadcastRoster()
	if isTagger {
		s.AttemptTag(playerID)
	}
}

// TagResult is the private reply to an attempt_tag request.
type TagResult struct {
	Success                  bool   `json:"success"`
	Message                  string `json:"message"`
	CooldownRemainingSeconds int    `json:"cooldown_remaining_seconds,omitempty"`
}

// TagEvent is broadcast when a tag lands.
type TagEvent struct {
	TaggerName     string  `json:"tagger_name"`
	TaggedName     string  `json:"tagged_name"`
	DistanceMeters float64 `json:"distance_meters"`
	Timestamp      int64   `json:"timestamp"`
}

// AttemptTag runs the tag transition rule for the given player: the game
// must be in progress, the caller must be the tagger, the session-wide
// cooldown must have elapsed, and the nearest located player within the tag
// radius becomes the new tagger. On success the event and updated roster are
// broadcast to everyone; the returned result is for the caller alone.
func (s *Session) AttemptTag(playerID string) TagResult {
	s.mu.Lock()
	tagger := s.findLocked(playerID)
	if tagger == nil {
		s.mu.Unlock()
		return TagResult{Message: "unknown player"}
	}
	if !s.inProgress {
		s.mu.Unlock()
		return TagResult{Message: "game is not in progress"}
	}
	if s.taggerID != playerID {
		s.mu.Unlock()
		return TagResult{Message: "you are not it"}
	}

	now := s.now()
	if left := s.settings.TagCooldown() - now.Sub(s.lastTagTime); left > 0 {
		secs := int((left + time.Second - 1) / time.Second)
		s.mu.Unlock()
		return TagResult{
			Message:                  fmt.Sprintf("still cooling down, %ds left", secs),
			CooldownRemainingSeconds: secs,
		}
	}

	target, dist := game.SelectTagTarget(tagger, s.players, s.settings.TagRadiusMeters)
	if target == nil {
		s.mu.Unlock()
		return TagResult{Message: "no one in range"}
	}

	s.taggerID = target.ID
	s.lastTagTime = now
	tagger.Score++
	event := TagEvent{
		TaggerName:     tagger.Username,
		TaggedName:     target.Username,
		DistanceMeters: dist,
		Timestamp:      now.UnixMilli(),
	}
	s.mu.Unlock()

	slog.Info("player tagged", "tagger", event.TaggerName, "tagged", event.TaggedName, "distance_m", dist)
	msg, _ := ws.NewMessage(ws.TypePlayerTagged, event)
	s.Broadcast(msg)
	s.BroadcastRoster()
	return TagResult{Success: true, Message: fmt.Sprintf("you tagged %s", target.Username)}
}

// IsHost reports whether the player currently holds host privilege.
func (s *Session) IsHost(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return playerID != "" && s.hostID == playerID
}

// TransferHost moves host privilege to another player. Host-gated.
func (s *Session) TransferHost(requesterID, targetID string) error {
	s.mu.Lock()
	if s.hostID != requesterID {
		s.mu.Unlock()
		return errors.New("only the host can transfer host")
	}
	if s.findLocked(targetID) == nil {
		s.mu.Unlock()
		return errors.New("target player not found")
	}
	s.hostID = targetID
	s.mu.Unlock()

	s.sendTo(targetID, ws.Message{Type: ws.TypeYouAreHost})
	s.BroadcastRoster()
	slog.Info("host transferred", "from", requesterID, "to", targetID)
	return nil
}

// UpdateSettings merges a partial settings update. Host-gated, lobby only.
func (s *Session) UpdateSettings(requesterID string, patch game.SettingsPatch) error {
	s.mu.Lock()
	if s.hostID != requesterID {
		s.mu.Unlock()
		return errors.New("only the host can change settings")
	}
	if s.inProgress {
		s.mu.Unlock()
		return errors.New("cannot change settings during a game")
	}
	s.settings.Apply(patch)
	settings := s.settings
	s.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeSettingsUpdated, settings)
	s.Broadcast(msg)
	return nil
}

// StartGame begins a game: host-gated, requires the minimum player count,
// merges any settings overrides, picks a uniformly random initial tagger and
// starts the countdown and (when enabled) the safe-zone controller.
func (s *Session) StartGame(requesterID string, patch *game.SettingsPatch) error {
	s.mu.Lock()
	if s.hostID != requesterID {
		s.mu.Unlock()
		return errors.New("only the host can start the game")
	}
	if s.inProgress {
		s.mu.Unlock()
		return errors.New("game already in progress")
	}
	// The patch is staged and committed only once the start is accepted, so a
	// rejected start leaves the shared settings untouched.
	settings := s.settings
	if patch != nil {
		settings.Apply(*patch)
	}
	if len(s.players) < settings.MinPlayers {
		n := settings.MinPlayers
		s.mu.Unlock()
		return fmt.Errorf("need at least %d players to start", n)
	}
	s.settings = settings

	s.inProgress = true
	s.taggerID = s.players[rand.Intn(len(s.players))].ID
	s.lastTagTime = time.Time{}
	s.remaining = s.settings.DurationSeconds
	s.stopCh = make(chan struct{})

	if s.settings.ZoneEnabled {
		if anchor := s.zoneAnchorLocked(); anchor != nil {
			initial := game.Circle{Center: *anchor, Radius: s.settings.InitialCircleSize}
			s.zone = newZoneController(s, initial, s.settings, s.stopCh)
		} else {
			slog.Warn("zone enabled but no player has a location, zone disabled for this game")
		}
	}

	snap := s.snapshotLocked()
	stop := s.stopCh
	zone := s.zone
	s.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeGameStarted, snap)
	s.Broadcast(msg)
	s.BroadcastRoster()
	go s.durationLoop(stop)
	if zone != nil {
		go zone.run()
	}
	slog.Info("game started", "players", len(snap.Players), "duration_s", snap.Settings.DurationSeconds)
	return nil
}

// EndGame stops the game and tears down every associated timer through the
// shared stop channel, so no stale tick can touch a later game. Idempotent.
func (s *Session) EndGame(reason string) {
	s.mu.Lock()
	if !s.inProgress {
		s.mu.Unlock()
		return
	}
	s.inProgress = false
	s.taggerID = ""
	s.zone = nil
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.mu.Unlock()

	msg, _ := ws.NewMessage(ws.TypeGameEnded, gameEndedMessage{Reason: reason})
	s.Broadcast(msg)
	s.BroadcastRoster()
	slog.Info("game ended", "reason", reason)
}

type gameEndedMessage struct {
	Reason string `json:"reason"`
}

// durationLoop decrements the countdown once per second and force-ends the
// game at zero, regardless of any in-flight tag.
func (s *Session) durationLoop(stop chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.remaining--
			expired := s.remaining <= 0
			s.mu.Unlock()
			if expired {
				s.EndGame("time up")
				return
			}
		}
	}
}

// Roster returns a snapshot of all players in join order.
func (s *Session) Roster() []PlayerInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rosterLocked()
}

// InProgress reports whether a game is running.
func (s *Session) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

// TaggerID returns the current tagger's id, or empty outside a game.
func (s *Session) TaggerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taggerID
}

// HostID returns the current host's id, or empty when the roster is empty.
func (s *Session) HostID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hostID
}

// Settings returns a copy of the current settings.
func (s *Session) Settings() game.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// DurationRemaining returns the seconds left on the game countdown.
func (s *Session) DurationRemaining() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining
}

// Broadcast sends a message to every connected player.
func (s *Session) Broadcast(msg ws.Message) {
	s.mu.RLock()
	clients := make([]*ws.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		c.SendMessage(msg)
	}
}

// BroadcastRoster pushes the current roster to every client.
func (s *Session) BroadcastRoster() {
	msg, _ := ws.NewMessage(ws.TypePlayersUpdated, s.Roster())
	s.Broadcast(msg)
}

// maybeBroadcastRoster is the throttled variant used for location updates.
func (s *Session) maybeBroadcastRoster() {
	s.mu.Lock()
	now := s.now()
	if now.Sub(s.lastRosterPush) < rosterPushInterval {
		s.mu.Unlock()
		return
	}
	s.lastRosterPush = now
	s.mu.Unlock()

	s.BroadcastRoster()
}

func (s *Session) sendTo(playerID string, msg ws.Message) {
	s.mu.RLock()
	c := s.clients[playerID]
	s.mu.RUnlock()
	if c != nil {
		c.SendMessage(msg)
	}
}

// findLocked returns the player with the given id. Caller must hold s.mu.
func (s *Session) findLocked(playerID string) *game.Player {
	for _, p := range s.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// hostCandidateLocked picks the next host: the earliest-joined human, or the
// earliest bot when no humans remain. Caller must hold s.mu.
func (s *Session) hostCandidateLocked() string {
	for _, p := range s.players {
		if !p.Bot {
			return p.ID
		}
	}
	if len(s.players) > 0 {
		return s.players[0].ID
	}
	return ""
}

// rosterLocked builds the wire roster. Caller must hold s.mu.
func (s *Session) rosterLocked() []PlayerInfo {
	out := make([]PlayerInfo, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, PlayerInfo{
			ID:       p.ID,
			Username: p.Username,
			Location: p.Location,
			IsHost:   p.ID == s.hostID,
			IsIt:     p.ID == s.taggerID,
			Score:    p.Score,
			IsBot:    p.Bot,
		})
	}
	return out
}

// zoneAnchorLocked picks the initial zone center: the host's location, or
// failing that the first located player. Caller must hold s.mu.
func (s *Session) zoneAnchorLocked() *geo.Coordinates {
	if host := s.findLocked(s.hostID); host != nil && host.HasLocation() {
		return host.Location
	}
	for _, p := range s.players {
		if p.HasLocation() {
			return p.Location
		}
	}
	return nil
}

// snapshotLocked builds the full state snapshot. Caller must hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		GameInProgress:    s.inProgress,
		Players:           s.rosterLocked(),
		Settings:          s.settings,
		DurationRemaining: s.remaining,
	}
	if s.zone != nil {
		u := s.zone.Snapshot()
		snap.Zone = &u
	}
	return snap
}
