package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcVidalCodes/CuHackking/internal/game"
	"github.com/MarcVidalCodes/CuHackking/internal/ws"
)

// startZoneGame starts a two-player game with a fast shrink cycle:
// 1s waiting, 1s warning, 1s shrinking.
func startZoneGame(t *testing.T) (*Session, *ws.Client) {
	t.Helper()
	s := New()
	c1, c2 := mockClient("c1"), mockClient("c2")
	s.Join(c1, "Alice")
	s.Join(c2, "Bob")
	s.UpdateLocation("c1", origin)
	s.UpdateLocation("c2", north(origin, 20))
	drainMessages(c1)

	require.NoError(t, s.StartGame("c1", &game.SettingsPatch{
		ZoneEnabled:           bptr(true),
		InitialCircleSize:     fptr(100),
		CircleShrinkPercent:   fptr(50),
		ShrinkDurationSeconds: iptr(1),
		ShrinkIntervalSeconds: iptr(2),
		WarningSeconds:        iptr(1),
		MinRadiusMeters:       fptr(10),
	}))
	return s, c1
}

func zoneUpdates(t *testing.T, msgs []ws.Message) []ZoneUpdate {
	t.Helper()
	var updates []ZoneUpdate
	for _, m := range msgs {
		if m.Type != ws.TypeZoneUpdated {
			continue
		}
		var u ZoneUpdate
		require.NoError(t, json.Unmarshal(m.Data, &u))
		updates = append(updates, u)
	}
	return updates
}

func TestZone_StartsInWaitingWithInitialCircle(t *testing.T) {
	s, c1 := startZoneGame(t)
	defer s.EndGame("test over")

	time.Sleep(100 * time.Millisecond)

	updates := zoneUpdates(t, drainMessages(c1))
	require.NotEmpty(t, updates)
	assert.Equal(t, game.ZoneWaiting, updates[0].Phase)
	assert.InDelta(t, 100, updates[0].Radius, 1e-9)
}

func TestZone_FullCycle(t *testing.T) {
	s, c1 := startZoneGame(t)
	defer s.EndGame("test over")

	// One full cycle: waiting (1s) -> warning (1s) -> shrinking (1s).
	time.Sleep(3500 * time.Millisecond)

	updates := zoneUpdates(t, drainMessages(c1))
	require.NotEmpty(t, updates)

	seen := map[game.ZonePhase]bool{}
	for _, u := range updates {
		seen[u.Phase] = true
	}
	assert.True(t, seen[game.ZoneWaiting], "waiting phase observed")
	assert.True(t, seen[game.ZoneWarning], "warning phase observed")
	assert.True(t, seen[game.ZoneShrinking], "shrinking phase observed")

	// Radius only ever shrinks.
	for i := 1; i < len(updates); i++ {
		assert.LessOrEqual(t, updates[i].Radius, updates[i-1].Radius+1e-9)
	}

	// The cycle committed the 50% shrink.
	last := updates[len(updates)-1]
	assert.InDelta(t, 50, last.Radius, 1e-9)
}

func TestZone_WarningAnnouncesTarget(t *testing.T) {
	s, c1 := startZoneGame(t)
	defer s.EndGame("test over")

	time.Sleep(1500 * time.Millisecond)

	updates := zoneUpdates(t, drainMessages(c1))
	var warning *ZoneUpdate
	for i := range updates {
		if updates[i].Phase == game.ZoneWarning {
			warning = &updates[i]
			break
		}
	}
	require.NotNil(t, warning, "warning update observed")
	require.NotNil(t, warning.NextCenter, "pending target announced")
	assert.InDelta(t, 50, warning.NextRadius, 1e-9)
}

func TestZone_StopsWithGame(t *testing.T) {
	s, c1 := startZoneGame(t)
	time.Sleep(100 * time.Millisecond)

	s.EndGame("host stopped the game")
	time.Sleep(100 * time.Millisecond)
	drainMessages(c1)
	time.Sleep(1200 * time.Millisecond)

	// No stale ticks after teardown: ending the game closes the shared stop
	// channel, which kills the zone loop with every other timer.
	assert.Empty(t, zoneUpdates(t, drainMessages(c1)))
}

func TestZone_SkippedWithoutAnyLocation(t *testing.T) {
	s := New()
	c1 := mockClient("c1")
	s.Join(c1, "Alice")
	s.Join(mockClient("c2"), "Bob")
	drainMessages(c1)

	require.NoError(t, s.StartGame("c1", &game.SettingsPatch{ZoneEnabled: bptr(true)}))
	defer s.EndGame("test over")

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, zoneUpdates(t, drainMessages(c1)))
}
