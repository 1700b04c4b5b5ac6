// Package score converts a player's rollup group plus its cohort percentile
// distribution into a single bounded 0-100 score using a
// baseline-plus-contributions model with role-weighted percentile buckets.
//
// The scorer is a pure function of its inputs: identical rollup and cohort
// values always produce the identical score.
package score

import (
	"math"

	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
)

// Contribution records one metric's effect on the score, for breakdown
// reporting.
type Contribution struct {
	Metric   string  `json:"metric"`
	Group    Group   `json:"group"`
	Value    float64 `json:"value"`
	Raw      float64 `json:"raw"`      // bucket contribution before weighting
	Weight   float64 `json:"weight"`   // role multiplier applied
	Weighted float64 `json:"weighted"` // Raw * Weight
	Skipped  bool    `json:"skipped"`  // player value was null
}

// Result is the full score breakdown for one rollup group.
type Result struct {
	Champion string     `json:"champion"`
	Role     model.Role `json:"role"`
	Matches  int        `json:"matches"`

	Total         int            `json:"total"`
	Contributions []Contribution `json:"contributions"`
	Volume        float64        `json:"volume"`
}

// Score positions one rollup group against its cohort distribution. cohortStats
// may have missing metrics (or be entirely empty for an unseen cohort);
// bucket edges then default to zero and contributions degrade rather than
// erroring.
func Score(g *model.RollupGroup, cohortStats *model.CohortStats) *Result {
	res := &Result{
		Champion: g.Champion,
		Role:     g.Role,
		Matches:  g.Matches,
	}

	total := Baseline
	for _, m := range positiveMetrics {
		c := contribution(g, cohortStats, m.Name, m.Group, positiveBucket)
		res.Contributions = append(res.Contributions, c)
		total += c.Weighted
	}
	for _, m := range negativeMetrics {
		c := contribution(g, cohortStats, m.Name, m.Group, negativeBucket)
		res.Contributions = append(res.Contributions, c)
		total += c.Weighted
	}

	res.Volume = volumeAdjustment(g.Matches)
	total += res.Volume

	res.Total = finalize(total)
	return res
}

// contribution evaluates one metric. A null player value skips the metric
// with a zero contribution.
func contribution(g *model.RollupGroup, cohortStats *model.CohortStats, name string, group Group, bucket func(string, float64, model.Distribution) float64) Contribution {
	c := Contribution{Metric: name, Group: group, Weight: weightFor(g.Role, group)}

	v, ok := playerValue(g, name)
	if !ok {
		c.Skipped = true
		c.Weight = 0
		return c
	}
	c.Value = v

	var dist model.Distribution
	if cohortStats != nil && cohortStats.Metrics != nil {
		dist = cohortStats.Metrics[name] // zero edges when absent
	}
	c.Raw = bucket(name, v, dist)
	c.Weighted = c.Raw * c.Weight
	return c
}

func positiveBucket(_ string, v float64, d model.Distribution) float64 {
	switch {
	case v >= d.P90:
		return AboveP90
	case v >= d.P75:
		return AboveP75
	case v >= d.P50:
		return AboveP50
	default:
		return BelowP50
	}
}

func negativeBucket(name string, v float64, d model.Distribution) float64 {
	if name == metrics.EarlyGankDeathRate && v <= GankRateFloor {
		return InvBelowP50
	}
	switch {
	case v <= d.P50:
		return InvBelowP50
	case v >= d.P90:
		return InvAboveP90
	case v >= d.P75:
		return InvAboveP75
	default:
		return InvMiddle
	}
}

func volumeAdjustment(matches int) float64 {
	switch {
	case matches >= VolumeHighGames:
		return VolumeHighBonus
	case matches >= VolumeMidGames:
		return VolumeMidBonus
	case matches >= VolumeLowGames:
		return VolumeLowBonus
	default:
		return VolumeThinPenalty
	}
}

// finalize clamps to [0,100] and rounds. Non-finite totals fall back to the
// baseline.
func finalize(total float64) int {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return int(Baseline)
	}
	if total < MinScore {
		return MinScore
	}
	if total > MaxScore {
		return MaxScore
	}
	return int(math.Round(total))
}

// playerValue maps a scored metric name onto the rollup group's fields.
func playerValue(g *model.RollupGroup, name string) (float64, bool) {
	switch name {
	case metrics.WinRate:
		return g.WinRate, true
	case metrics.KDA:
		return g.AvgKDA, true
	case metrics.DamagePerMin:
		return g.DamagePerMin, true
	case metrics.KAPerMin:
		return g.KAPerMin, true
	case metrics.AssistsPerMin:
		return g.AssistsPerMin, true
	case metrics.GoldAt10:
		return fromPtr(g.AvgGoldAt10)
	case metrics.CSAt10:
		return fromPtr(g.AvgCSAt10)
	case metrics.GoldAt15:
		return fromPtr(g.AvgGoldAt15)
	case metrics.CSAt15:
		return fromPtr(g.AvgCSAt15)
	case metrics.DamageShare:
		return fromPtr(g.AvgDamageShare)
	case metrics.ObjectivePart:
		return fromPtr(g.AvgObjectivePart)
	case metrics.DeathsPerMin:
		return g.DeathsPerMin, true
	case metrics.DamageTakenPerMin:
		return g.DamageTakenPerMin, true
	case metrics.EarlyGankDeathRate:
		return fromPtr(g.AvgEarlyGankDeathRate)
	default:
		return 0, false
	}
}

func fromPtr(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
