package score

import (
	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
)

// Baseline and clamp bounds for the final score.
const (
	Baseline = 50.0
	MinScore = 0
	MaxScore = 100
)

// Percentile-bucket contributions for positive metrics (higher is better).
const (
	AboveP90 = 10.0
	AboveP75 = 5.0
	AboveP50 = 2.0
	BelowP50 = -2.0
)

// Inverted bucket contributions for negative metrics (lower is better).
const (
	InvBelowP50 = 3.0
	InvAboveP90 = -10.0
	InvAboveP75 = -6.0
	InvMiddle   = -1.0
)

// GankRateFloor is the early-gank-death-rate below which the metric is
// treated as unremarkable (full credit) regardless of the cohort spread.
// Everyone gets ganked sometimes.
const GankRateFloor = 0.35

// Volume adjustments by rollup group size.
const (
	VolumeHighGames   = 20
	VolumeMidGames    = 10
	VolumeLowGames    = 5
	VolumeHighBonus   = 4.0
	VolumeMidBonus    = 2.0
	VolumeLowBonus    = 1.0
	VolumeThinPenalty = -6.0
)

// Group labels bundle metric contributions for role weighting.
type Group string

const (
	GroupGeneral    Group = "general"
	GroupFarming    Group = "farming"
	GroupCombat     Group = "combat"
	GroupSupport    Group = "support"
	GroupObjectives Group = "objectives"
	GroupSurvival   Group = "survival"
)

// positiveMetrics lists higher-is-better metrics with their groups, in
// evaluation order.
var positiveMetrics = []struct {
	Name  string
	Group Group
}{
	{metrics.WinRate, GroupGeneral},
	{metrics.KDA, GroupCombat},
	{metrics.DamagePerMin, GroupCombat},
	{metrics.KAPerMin, GroupCombat},
	{metrics.AssistsPerMin, GroupSupport},
	{metrics.GoldAt10, GroupFarming},
	{metrics.CSAt10, GroupFarming},
	{metrics.GoldAt15, GroupFarming},
	{metrics.CSAt15, GroupFarming},
	{metrics.DamageShare, GroupCombat},
	{metrics.ObjectivePart, GroupObjectives},
}

// negativeMetrics lists lower-is-better metrics scored on inverted buckets.
var negativeMetrics = []struct {
	Name  string
	Group Group
}{
	{metrics.DeathsPerMin, GroupSurvival},
	{metrics.DamageTakenPerMin, GroupSurvival},
	{metrics.EarlyGankDeathRate, GroupSurvival},
}

// roleWeights maps role -> group -> contribution multiplier. Unlisted pairs
// multiply by 1.
var roleWeights = map[model.Role]map[Group]float64{
	model.RoleBottom: {
		GroupFarming:  1.25,
		GroupCombat:   1.15,
		GroupSurvival: 0.85,
	},
	model.RoleUtility: {
		GroupSupport:    1.3,
		GroupObjectives: 1.2,
		GroupFarming:    0.6,
	},
	model.RoleJungle: {
		GroupObjectives: 1.3,
		GroupCombat:     1.1,
	},
	model.RoleTop: {
		GroupSurvival: 1.1,
	},
	model.RoleMiddle: {
		GroupCombat: 1.2,
	},
}

// weightFor looks up the multiplier for a role/group pair.
func weightFor(role model.Role, group Group) float64 {
	if groups, ok := roleWeights[role]; ok {
		if w, ok := groups[group]; ok {
			return w
		}
	}
	return 1.0
}
