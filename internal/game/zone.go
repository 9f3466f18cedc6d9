package game

import (
	"encoding/json"
	"math"
	"math/rand"

	"github.com/MarcVidalCodes/CuHackking/internal/geo"
)

// containmentFactor bounds how far the next circle's center may drift from
// the current one, so the target circle stays fully inside it with margin.
const containmentFactor = 0.7

type ZonePhase int

const (
	ZoneWaiting ZonePhase = iota
	ZoneWarning
	ZoneShrinking
)

func (z ZonePhase) String() string {
	switch z {
	case ZoneWarning:
		return "warning"
	case ZoneShrinking:
		return "shrinking"
	default:
		return "waiting"
	}
}

// MarshalJSON serializes ZonePhase as a string.
func (z ZonePhase) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// UnmarshalJSON deserializes ZonePhase from a string.
func (z *ZonePhase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "warning":
		*z = ZoneWarning
	case "shrinking":
		*z = ZoneShrinking
	default:
		*z = ZoneWaiting
	}
	return nil
}

// Circle is the safe-zone geometry: a center point and a radius in meters.
type Circle struct {
	Center geo.Coordinates `json:"center"`
	Radius float64         `json:"radius"`
}

// NextCircle computes the target circle for the next shrink cycle. The new
// radius never exceeds the current one and never drops below minRadius; the
// center moves a random distance bounded so the target is fully contained in
// the current circle.
func NextCircle(cur Circle, shrinkPercent, minRadius float64) Circle {
	r := cur.Radius * (1 - shrinkPercent/100)
	if r < minRadius {
		// The floor must not make the zone grow when it is already smaller.
		r = math.Min(minRadius, cur.Radius)
	}

	maxOffset := (cur.Radius - r) * containmentFactor
	dist := rand.Float64() * maxOffset
	bearing := rand.Float64() * 2 * math.Pi
	return Circle{Center: geo.Offset(cur.Center, dist, bearing), Radius: r}
}

// LerpCircle linearly interpolates between two circles. t is clamped to [0, 1].
func LerpCircle(from, to Circle, t float64) Circle {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Circle{
		Center: geo.Lerp(from.Center, to.Center, t),
		Radius: from.Radius + (to.Radius-from.Radius)*t,
	}
}
