package role

import (
	"testing"

	"github.com/riftlens/riftlens/internal/model"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want model.Role
	}{
		{"TOP", model.RoleTop},
		{"top", model.RoleTop},
		{"JUNGLE", model.RoleJungle},
		{"MIDDLE", model.RoleMiddle},
		{"MID", model.RoleMiddle},
		{"mid", model.RoleMiddle},
		{"BOTTOM", model.RoleBottom},
		{"BOT", model.RoleBottom},
		{"bot", model.RoleBottom},
		{"ADC", model.RoleBottom},
		{"UTILITY", model.RoleUtility},
		{"SUPPORT", model.RoleUtility},
		{"sup", model.RoleUtility},
		{" top ", model.RoleTop},
		{"", model.RoleUnknown},
		{"FILL", model.RoleUnknown},
		{"DUO_CARRY", model.RoleUnknown}, // legacy labels need the lane field
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q): want %s, got %s", c.in, c.want, got)
		}
	}
}

// Normalizing an already-canonical role must return it unchanged.
func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"TOP", "JUNGLE", "MIDDLE", "BOTTOM", "UTILITY", "bot", "sup", "garbage", ""}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(string(once))
		if once != twice && once != model.RoleUnknown {
			t.Errorf("Normalize(Normalize(%q)) = %s, want %s", in, twice, once)
		}
	}
	for _, r := range model.Roles {
		if got := Normalize(string(r)); got != r {
			t.Errorf("canonical %s did not survive normalization: got %s", r, got)
		}
	}
}

func TestFromLaneRole(t *testing.T) {
	cases := []struct {
		lane, role string
		want       model.Role
	}{
		{"BOTTOM_LANE", "DUO_CARRY", model.RoleBottom},
		{"BOTTOM_LANE", "DUO_SUPPORT", model.RoleUtility},
		{"bottom_lane", "duo_support", model.RoleUtility},
		{"", "JUNGLE", model.RoleJungle},
		{"JUNGLE", "NONE", model.RoleJungle},
		{"TOP_LANE", "SOLO", model.RoleTop},
		{"MIDDLE_LANE", "SOLO", model.RoleMiddle},
		{"BOTTOM_LANE", "SOLO", model.RoleUnknown},
		{"", "", model.RoleUnknown},
	}
	for _, c := range cases {
		if got := FromLaneRole(c.lane, c.role); got != c.want {
			t.Errorf("FromLaneRole(%q, %q): want %s, got %s", c.lane, c.role, c.want, got)
		}
	}
}

func TestForParticipant_FallsBackToLaneRole(t *testing.T) {
	p := &model.Participant{TeamPosition: "", Lane: "BOTTOM_LANE", Role: "DUO_SUPPORT"}
	if got := ForParticipant(p); got != model.RoleUtility {
		t.Errorf("want UTILITY via lane+role fallback, got %s", got)
	}

	p = &model.Participant{TeamPosition: "MIDDLE", Lane: "BOTTOM_LANE", Role: "DUO_CARRY"}
	if got := ForParticipant(p); got != model.RoleMiddle {
		t.Errorf("primary label should win over lane fallback, got %s", got)
	}
}

func TestParse(t *testing.T) {
	if r, ok := Parse(""); !ok || r != model.RoleUnknown {
		t.Errorf("empty filter should parse to (UNKNOWN, true), got (%s, %v)", r, ok)
	}
	if r, ok := Parse("adc"); !ok || r != model.RoleBottom {
		t.Errorf("Parse(adc): want (BOTTOM, true), got (%s, %v)", r, ok)
	}
	if _, ok := Parse("yordle"); ok {
		t.Error("Parse(yordle) should fail")
	}
}
