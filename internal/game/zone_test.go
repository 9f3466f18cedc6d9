package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcVidalCodes/CuHackking/internal/geo"
)

var zoneOrigin = geo.Coordinates{Latitude: 45.4215, Longitude: -75.6972}

func TestNextCircle_ShrinksByPercent(t *testing.T) {
	cur := Circle{Center: zoneOrigin, Radius: 1000}

	next := NextCircle(cur, 30, 25)

	assert.InDelta(t, 700, next.Radius, 1e-9)
}

func TestNextCircle_TargetContainedInCurrent(t *testing.T) {
	cur := Circle{Center: zoneOrigin, Radius: 1000}

	// Center offset is random; every sample must stay inside the old circle.
	for i := 0; i < 50; i++ {
		next := NextCircle(cur, 30, 25)
		centerShift := geo.DistanceMeters(cur.Center, next.Center)
		assert.LessOrEqual(t, centerShift+next.Radius, cur.Radius+0.5)
	}
}

func TestNextCircle_FlooredAtMinRadius(t *testing.T) {
	cur := Circle{Center: zoneOrigin, Radius: 30}

	next := NextCircle(cur, 50, 25)

	assert.InDelta(t, 25, next.Radius, 1e-9)
}

func TestNextCircle_NeverGrowsBackToFloor(t *testing.T) {
	cur := Circle{Center: zoneOrigin, Radius: 20}

	next := NextCircle(cur, 50, 25)

	assert.InDelta(t, 20, next.Radius, 1e-9)
	assert.InDelta(t, 0, geo.DistanceMeters(cur.Center, next.Center), 0.001)
}

func TestNextCircle_MonotonicOverCycles(t *testing.T) {
	cur := Circle{Center: zoneOrigin, Radius: 1000}

	for i := 0; i < 20; i++ {
		next := NextCircle(cur, 30, 25)
		assert.LessOrEqual(t, next.Radius, cur.Radius)
		assert.GreaterOrEqual(t, next.Radius, 25.0)
		cur = next
	}
}

func TestLerpCircle(t *testing.T) {
	from := Circle{Center: zoneOrigin, Radius: 1000}
	to := Circle{Center: geo.Offset(zoneOrigin, 100, 0), Radius: 700}

	assert.Equal(t, from, LerpCircle(from, to, 0))
	assert.Equal(t, to, LerpCircle(from, to, 1))

	mid := LerpCircle(from, to, 0.5)
	assert.InDelta(t, 850, mid.Radius, 1e-9)
	assert.InDelta(t, 50, geo.DistanceMeters(from.Center, mid.Center), 0.5)

	// t is clamped
	assert.Equal(t, to, LerpCircle(from, to, 2))
}

func TestZonePhase_String(t *testing.T) {
	assert.Equal(t, "waiting", ZoneWaiting.String())
	assert.Equal(t, "warning", ZoneWarning.String())
	assert.Equal(t, "shrinking", ZoneShrinking.String())
}
