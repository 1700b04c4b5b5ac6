package extract

import (
	"testing"

	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
)

func TestZoneClassification(t *testing.T) {
	z := NewZoneClassifier(config.Default().Zones)

	cases := []struct {
		name string
		pos  model.Position
		want Zone
	}{
		{"top lane, left edge", model.Position{X: 900, Y: 7000}, ZoneLaneTop},
		{"top lane, top edge", model.Position{X: 7000, Y: 14000}, ZoneLaneTop},
		{"bottom lane, bottom edge", model.Position{X: 7000, Y: 900}, ZoneLaneBottom},
		{"bottom lane, right edge", model.Position{X: 14000, Y: 7000}, ZoneLaneBottom},
		{"mid lane, center", model.Position{X: 7400, Y: 7400}, ZoneLaneMid},
		{"mid lane, off-center within band", model.Position{X: 5000, Y: 5600}, ZoneLaneMid},
		{"river, top-side", model.Position{X: 5300, Y: 9500}, ZoneRiver},
		{"river, bot-side", model.Position{X: 9500, Y: 5300}, ZoneRiver},
		{"jungle, blue top quadrant", model.Position{X: 3500, Y: 7700}, ZoneJungle},
		{"jungle, red bot quadrant", model.Position{X: 10000, Y: 3000}, ZoneJungle},
		// Lane corners sit on the river anti-diagonal; the lane must win.
		{"top-left corner is top lane, not river", model.Position{X: 500, Y: 14300}, ZoneLaneTop},
		{"bot-right corner is bottom lane, not river", model.Position{X: 14300, Y: 500}, ZoneLaneBottom},
	}
	for _, c := range cases {
		if got := z.Classify(c.pos); got != c.want {
			t.Errorf("%s: Classify(%v) = %s, want %s", c.name, c.pos, got, c.want)
		}
	}
}

func TestIsLane(t *testing.T) {
	for _, z := range []Zone{ZoneLaneTop, ZoneLaneMid, ZoneLaneBottom} {
		if !IsLane(z) {
			t.Errorf("IsLane(%s) = false", z)
		}
	}
	for _, z := range []Zone{ZoneRiver, ZoneJungle} {
		if IsLane(z) {
			t.Errorf("IsLane(%s) = true", z)
		}
	}
}
