// Package role maps heterogeneous raw role/lane labels onto the canonical
// 5-role taxonomy.
package role

import (
	"strings"

	"github.com/riftlens/riftlens/internal/model"
)

// Normalize maps a raw position label (case-insensitive) to a canonical role.
// Unmatched input yields RoleUnknown. Normalize is idempotent: feeding a
// canonical role back in returns it unchanged.
func Normalize(raw string) model.Role {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TOP":
		return model.RoleTop
	case "JUNGLE":
		return model.RoleJungle
	case "MIDDLE", "MID":
		return model.RoleMiddle
	case "BOTTOM", "BOT", "ADC":
		return model.RoleBottom
	case "UTILITY", "SUPPORT", "SUP":
		return model.RoleUtility
	default:
		return model.RoleUnknown
	}
}

// FromLaneRole derives a canonical role from the legacy lane + role field
// pair, used when the primary position label is blank.
func FromLaneRole(lane, role string) model.Role {
	lane = strings.ToUpper(strings.TrimSpace(lane))
	role = strings.ToUpper(strings.TrimSpace(role))

	switch {
	case lane == "BOTTOM_LANE" && role == "DUO_CARRY":
		return model.RoleBottom
	case lane == "BOTTOM_LANE" && role == "DUO_SUPPORT":
		return model.RoleUtility
	case role == "JUNGLE" || lane == "JUNGLE":
		return model.RoleJungle
	case lane == "TOP_LANE":
		return model.RoleTop
	case lane == "MIDDLE_LANE":
		return model.RoleMiddle
	default:
		return model.RoleUnknown
	}
}

// ForParticipant resolves a participant's canonical role: the primary
// position label wins; lane+role derivation is the fallback for blank or
// unrecognized labels.
func ForParticipant(p *model.Participant) model.Role {
	if r := Normalize(p.TeamPosition); r != model.RoleUnknown {
		return r
	}
	return FromLaneRole(p.Lane, p.Role)
}

// Parse validates a user-supplied role filter. The empty string means "no
// filter" and maps to RoleUnknown with ok=true.
func Parse(s string) (model.Role, bool) {
	if strings.TrimSpace(s) == "" {
		return model.RoleUnknown, true
	}
	r := Normalize(s)
	return r, r != model.RoleUnknown
}
