package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcVidalCodes/CuHackking/internal/geo"
)

// north returns a point the given number of meters north of p.
func north(p geo.Coordinates, meters float64) geo.Coordinates {
	return geo.Coordinates{
		Latitude:  p.Latitude + meters/111195.0,
		Longitude: p.Longitude,
	}
}

func locatedPlayer(id string, loc geo.Coordinates) *Player {
	p := NewPlayer(id, id)
	p.SetLocation(loc)
	return p
}

func TestSelectTagTarget_PicksNearestInRange(t *testing.T) {
	origin := geo.Coordinates{Latitude: 45.0, Longitude: -75.0}
	tagger := locatedPlayer("tagger", origin)
	near := locatedPlayer("near", north(origin, 10))
	far := locatedPlayer("far", north(origin, 40))

	target, dist := SelectTagTarget(tagger, []*Player{tagger, far, near}, 30)

	require.NotNil(t, target)
	assert.Equal(t, "near", target.ID)
	assert.InDelta(t, 10, dist, 0.5)
}

func TestSelectTagTarget_NobodyInRange(t *testing.T) {
	origin := geo.Coordinates{Latitude: 45.0, Longitude: -75.0}
	tagger := locatedPlayer("tagger", origin)
	far := locatedPlayer("far", north(origin, 40))

	target, _ := SelectTagTarget(tagger, []*Player{tagger, far}, 30)

	assert.Nil(t, target)
}

func TestSelectTagTarget_SkipsUnlocatedPlayers(t *testing.T) {
	origin := geo.Coordinates{Latitude: 45.0, Longitude: -75.0}
	tagger := locatedPlayer("tagger", origin)
	ghost := NewPlayer("ghost", "ghost") // never reported a location
	near := locatedPlayer("near", north(origin, 10))

	target, _ := SelectTagTarget(tagger, []*Player{tagger, ghost, near}, 30)

	require.NotNil(t, target)
	assert.Equal(t, "near", target.ID)
}

func TestSelectTagTarget_ExactTieKeepsRosterOrder(t *testing.T) {
	origin := geo.Coordinates{Latitude: 45.0, Longitude: -75.0}
	spot := north(origin, 10)
	tagger := locatedPlayer("tagger", origin)
	first := locatedPlayer("first", spot)
	second := locatedPlayer("second", spot)

	target, _ := SelectTagTarget(tagger, []*Player{tagger, first, second}, 30)

	require.NotNil(t, target)
	assert.Equal(t, "first", target.ID)
}

func TestSelectTagTarget_UnlocatedTagger(t *testing.T) {
	origin := geo.Coordinates{Latitude: 45.0, Longitude: -75.0}
	tagger := NewPlayer("tagger", "tagger")
	near := locatedPlayer("near", origin)

	target, _ := SelectTagTarget(tagger, []*Player{tagger, near}, 30)

	assert.Nil(t, target)
}
