package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/MarcVidalCodes/CuHackking/internal/geo"
	"github.com/MarcVidalCodes/CuHackking/internal/session"
)

const (
	// Bots report locations on the same cadence as a human client.
	tickInterval = time.Second
	maxBots      = 8
)

// moveFactors maps a difficulty to the fraction of the distance to the
// target a bot covers each tick.
var moveFactors = map[string]float64{
	"easy":   0.10,
	"medium": 0.18,
	"hard":   0.28,
}

var botNames = []string{
	"Hunter", "Runner", "Speedy", "Tactician", "Tracker",
	"Shadow", "Dodger", "Phantom", "Chaser", "Navigator",
}

// Manager owns the AI opponents in the session and drives their movement.
// Bots chase the nearest player while "it" and run from the tagger
// otherwise; tags land through the session's ordinary tag evaluation, so
// bots obey the same radius and cooldown rules as humans.
type Manager struct {
	sess *session.Session

	mu   sync.Mutex
	bots map[string]float64 // bot player id -> move factor

	stopOnce sync.Once
	stopCh   chan struct{}
}

func NewManager(sess *session.Session) *Manager {
	return &Manager{
		sess:   sess,
		bots:   make(map[string]float64),
		stopCh: make(chan struct{}),
	}
}

// Add joins one AI opponent to the lobby, spawned 50-150m from the first
// located human. An empty difficulty means medium.
func (m *Manager) Add(difficulty string) error {
	if difficulty == "" {
		difficulty = "medium"
	}
	factor, ok := moveFactors[difficulty]
	if !ok {
		return fmt.Errorf("unknown difficulty %q", difficulty)
	}

	m.mu.Lock()
	if len(m.bots) >= maxBots {
		m.mu.Unlock()
		return errors.New("bot limit reached")
	}
	m.mu.Unlock()

	name := "AI-" + botNames[rand.Intn(len(botNames))]
	p := m.sess.JoinBot(name)
	m.sess.UpdateLocation(p.ID, m.spawnPoint())

	m.mu.Lock()
	m.bots[p.ID] = factor
	m.mu.Unlock()

	slog.Info("bot added", "bot", name, "difficulty", difficulty)
	return nil
}

// Count returns the number of managed bots.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bots)
}

// Run drives bot movement until Stop. Bots only move while a game is in
// progress.
func (m *Manager) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			if m.sess.InProgress() {
				m.step()
			}
		}
	}
}

// Stop terminates the movement loop.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// step moves every bot one tick. The session runs the implicit tag check
// when a tagger bot's location lands in range.
func (m *Manager) step() {
	roster := m.sess.Roster()
	var tagger *session.PlayerInfo
	byID := make(map[string]session.PlayerInfo, len(roster))
	for i, p := range roster {
		byID[p.ID] = p
		if p.IsIt {
			tagger = &roster[i]
		}
	}

	m.mu.Lock()
	bots := make(map[string]float64, len(m.bots))
	for id, f := range m.bots {
		// Drop bots that left the roster (e.g. after a session reset).
		if _, ok := byID[id]; !ok {
			delete(m.bots, id)
			continue
		}
		bots[id] = f
	}
	m.mu.Unlock()

	for id, factor := range bots {
		self := byID[id]
		if self.Location == nil {
			continue
		}

		var target geo.Coordinates
		switch {
		case self.IsIt:
			nearest, found := nearestLocation(self, roster)
			if !found {
				continue
			}
			target = nearest
		case tagger != nil && tagger.Location != nil:
			target = fleePoint(*self.Location, *tagger.Location)
		default:
			continue
		}

		m.sess.UpdateLocation(id, stepToward(*self.Location, target, factor))
	}
}

// spawnPoint places a new bot 50-150m from the first located human, or at
// the map origin when nobody has reported a position yet.
func (m *Manager) spawnPoint() geo.Coordinates {
	var anchor geo.Coordinates
	for _, p := range m.sess.Roster() {
		if !p.IsBot && p.Location != nil {
			anchor = *p.Location
			break
		}
	}
	dist := 50 + rand.Float64()*100
	bearing := rand.Float64() * 2 * math.Pi
	return geo.Offset(anchor, dist, bearing)
}

// nearestLocation returns the location of the closest located player other
// than self.
func nearestLocation(self session.PlayerInfo, roster []session.PlayerInfo) (geo.Coordinates, bool) {
	var best geo.Coordinates
	bestDist := math.MaxFloat64
	found := false
	for _, p := range roster {
		if p.ID == self.ID || p.Location == nil {
			continue
		}
		d := geo.DistanceMeters(*self.Location, *p.Location)
		if d < bestDist {
			bestDist = d
			best = *p.Location
			found = true
		}
	}
	return best, found
}

// fleePoint projects a target on the far side of self from the tagger, with
// a little random drift so fleeing bots do not run in straight lines.
func fleePoint(self, tagger geo.Coordinates) geo.Coordinates {
	return geo.Coordinates{
		Latitude:  self.Latitude + (self.Latitude - tagger.Latitude) + (rand.Float64()-0.5)*0.0004,
		Longitude: self.Longitude + (self.Longitude - tagger.Longitude) + (rand.Float64()-0.5)*0.0004,
	}
}

// stepToward covers a fraction of the distance to the target.
func stepToward(from, target geo.Coordinates, factor float64) geo.Coordinates {
	return geo.Lerp(from, target, factor)
}
