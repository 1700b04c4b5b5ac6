package extract

import (
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
)

// Zone is a coarse region of Summoner's Rift used by the gank classifier.
type Zone string

const (
	ZoneLaneTop    Zone = "LANE_TOP"
	ZoneLaneMid    Zone = "LANE_MID"
	ZoneLaneBottom Zone = "LANE_BOTTOM"
	ZoneRiver      Zone = "RIVER"
	ZoneJungle     Zone = "JUNGLE"
)

// ZoneClassifier maps a world position to a map zone. The default
// implementation is a coordinate heuristic with tunable band widths; it is an
// interface so the thresholds can be replaced without touching any consumer.
type ZoneClassifier interface {
	Classify(p model.Position) Zone
}

// bandZoner classifies positions by distance from the three lane bands and
// the river anti-diagonal. Side lanes run along the map edges, mid along the
// main diagonal y = x, the river along x + y = MapSize.
type bandZoner struct {
	cfg config.ZoneConfig
}

// NewZoneClassifier builds the default coordinate-heuristic classifier.
func NewZoneClassifier(cfg config.ZoneConfig) ZoneClassifier {
	return &bandZoner{cfg: cfg}
}

func (z *bandZoner) Classify(p model.Position) Zone {
	x, y := float64(p.X), float64(p.Y)
	size := z.cfg.MapSize
	edge := z.cfg.LaneEdgeWidth

	// Side lanes first: the lane corners also sit on the river anti-diagonal,
	// so edge bands must win over the river band.
	if x < edge || y > size-edge {
		return ZoneLaneTop
	}
	if y < edge || x > size-edge {
		return ZoneLaneBottom
	}
	if abs(x-y) < z.cfg.MidLaneWidth {
		return ZoneLaneMid
	}
	if abs(x+y-size) < z.cfg.RiverWidth {
		return ZoneRiver
	}
	return ZoneJungle
}

// IsLane reports whether a zone is one of the three lanes.
func IsLane(z Zone) bool {
	return z == ZoneLaneTop || z == ZoneLaneMid || z == ZoneLaneBottom
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
