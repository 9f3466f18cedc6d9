package game

import "github.com/MarcVidalCodes/CuHackking/internal/geo"

// SelectTagTarget returns the nearest player within radiusMeters of the
// tagger, along with the distance to it. The tagger itself and players that
// have never reported a location are skipped. Exact ties keep the earliest
// player in roster order, so the outcome does not depend on join/leave churn.
// Returns nil when nobody is in range.
func SelectTagTarget(tagger *Player, roster []*Player, radiusMeters float64) (*Player, float64) {
	if tagger == nil || !tagger.HasLocation() {
		return nil, 0
	}

	var best *Player
	var bestDist float64
	for _, p := range roster {
		if p.ID == tagger.ID || !p.HasLocation() {
			continue
		}
		d := geo.DistanceMeters(*tagger.Location, *p.Location)
		if d > radiusMeters {
			continue
		}
		if best == nil || d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best, bestDist
}
