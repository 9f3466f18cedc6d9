package session

import (
	"sync"
	"time"

	"github.com/MarcVidalCodes/CuHackking/internal/game"
	"github.com/MarcVidalCodes/CuHackking/internal/geo"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// shrinkTick is the fine interval used while animating a shrink, small
// enough for smooth client rendering.
const shrinkTick = 50 * time.Millisecond

// ZoneUpdate is the zone_updated broadcast payload.
type ZoneUpdate struct {
	Phase            game.ZonePhase   `json:"phase"`
	Center           geo.Coordinates  `json:"center"`
	Radius           float64          `json:"radius"`
	SecondsRemaining int              `json:"seconds_remaining"`
	NextCenter       *geo.Coordinates `json:"next_center,omitempty"`
	NextRadius       float64          `json:"next_radius,omitempty"`
}

// zoneController runs the Waiting -> Warning -> Shrinking cycle for one
// game. It owns the zone geometry; the session only reads snapshots. The
// game's stop channel tears it down together with every other timer.
type zoneController struct {
	session *Session
	stop    chan struct{}

	mu     sync.Mutex
	phase  game.ZonePhase
	circle game.Circle
	target *game.Circle
	timer  int // seconds left in the current phase

	shrinkPercent  float64
	minRadius      float64
	shrinkDuration time.Duration
	waitSeconds    int
	warningSeconds int
}

func newZoneController(s *Session, initial game.Circle, cfg game.Settings, stop chan struct{}) *zoneController {
	wait := cfg.ShrinkIntervalSeconds - cfg.WarningSeconds
	if wait < 1 {
		wait = 1
	}
	return &zoneController{
		session:        s,
		stop:           stop,
		phase:          game.ZoneWaiting,
		circle:         initial,
		timer:          wait,
		shrinkPercent:  cfg.CircleShrinkPercent,
		minRadius:      cfg.MinRadiusMeters,
		shrinkDuration: time.Duration(cfg.ShrinkDurationSeconds) * time.Second,
		waitSeconds:    wait,
		warningSeconds: cfg.WarningSeconds,
	}
}

// Snapshot returns the current zone geometry.
func (z *zoneController) Snapshot() ZoneUpdate {
	z.mu.Lock()
	defer z.mu.Unlock()

	u := ZoneUpdate{
		Phase:            z.phase,
		Center:           z.circle.Center,
		Radius:           z.circle.Radius,
		SecondsRemaining: z.timer,
	}
	if z.target != nil {
		c := z.target.Center
		u.NextCenter = &c
		u.NextRadius = z.target.Radius
	}
	return u
}

func (z *zoneController) broadcast() {
	msg, _ := ws.NewMessage(ws.TypeZoneUpdated, z.Snapshot())
	z.session.Broadcast(msg)
}

// run drives the phase cycle until the game's stop channel closes.
func (z *zoneController) run() {
	z.broadcast()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-z.stop:
			return
		case <-ticker.C:
			z.mu.Lock()
			z.timer--
			expired := z.timer <= 0
			phase := z.phase
			z.mu.Unlock()

			if !expired {
				// Countdown updates keep client-side timers honest.
				z.broadcast()
				continue
			}

			switch phase {
			case game.ZoneWaiting:
				z.mu.Lock()
				t := game.NextCircle(z.circle, z.shrinkPercent, z.minRadius)
				z.target = &t
				z.phase = game.ZoneWarning
				z.timer = z.warningSeconds
				z.mu.Unlock()
				z.broadcast()

			case game.ZoneWarning:
				z.mu.Lock()
				z.phase = game.ZoneShrinking
				z.timer = int(z.shrinkDuration / time.Second)
				z.mu.Unlock()
				z.broadcast()

				if !z.shrink() {
					return // game stopped mid-shrink
				}

				z.mu.Lock()
				z.phase = game.ZoneWaiting
				z.timer = z.waitSeconds
				z.mu.Unlock()
				z.broadcast()
			}
		}
	}
}

// shrink animates the circle to the pending target over shrinkDuration,
// emitting intermediate geometry on every fine tick. Returns false if the
// game stopped before the animation finished.
func (z *zoneController) shrink() bool {
	z.mu.Lock()
	from := z.circle
	target := z.target
	z.mu.Unlock()
	if target == nil {
		return true
	}

	start := time.Now()
	fine := time.NewTicker(shrinkTick)
	defer fine.Stop()
	for {
		select {
		case <-z.stop:
			return false
		case <-fine.C:
			elapsed := time.Since(start)
			t := float64(elapsed) / float64(z.shrinkDuration)

			z.mu.Lock()
			z.circle = game.LerpCircle(from, *target, t)
			z.timer = int((z.shrinkDuration - elapsed) / time.Second)
			if z.timer < 0 {
				z.timer = 0
			}
			done := t >= 1
			if done {
				z.circle = *target
				z.target = nil
			}
			z.mu.Unlock()

			z.broadcast()
			if done {
				return true
			}
		}
	}
}
