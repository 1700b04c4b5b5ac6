package badge

import (
	"fmt"
	"math"
	"sort"

	"github.com/riftlens/riftlens/internal/model"
)

// MaxAwards caps how many badges one classification returns.
const MaxAwards = 5

// Award is one earned badge. Strength is the dominant satisfied condition's
// |value| / |threshold| ratio, used only for ranking when more than MaxAwards
// qualify.
type Award struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Strength    float64  `json:"strength"`
	Reasons     []string `json:"reasons"`
}

// Classifier evaluates a catalog against rollup groups.
type Classifier struct {
	catalog *Catalog
}

func NewClassifier(c *Catalog) *Classifier {
	return &Classifier{catalog: c}
}

// Classify evaluates every badge against the player's values for one rollup
// group, using cohortStats to resolve percentile-edged conditions. Conditions
// over null metrics are unsatisfiable, never defaulted. Returns at most
// MaxAwards awards ranked by strength, or an empty slice when nothing
// qualifies.
func (c *Classifier) Classify(g *model.RollupGroup, cohortStats *model.CohortStats) []Award {
	awards := make([]Award, 0, MaxAwards)
	for _, b := range c.catalog.Badges {
		if a, ok := evaluate(b, g, cohortStats); ok {
			awards = append(awards, a)
		}
	}
	sort.SliceStable(awards, func(i, j int) bool {
		if awards[i].Strength != awards[j].Strength {
			return awards[i].Strength > awards[j].Strength
		}
		return awards[i].Name < awards[j].Name
	})
	if len(awards) > MaxAwards {
		awards = awards[:MaxAwards]
	}
	return awards
}

func evaluate(b Badge, g *model.RollupGroup, cohortStats *model.CohortStats) (Award, bool) {
	a := Award{Name: b.Name, Description: b.Description}
	satisfied := 0
	for _, cond := range b.Conditions {
		v, threshold, ok := resolve(cond, g, cohortStats)
		if !ok || !holds(cond.Op, v, threshold) {
			if b.Mode == "all" {
				return Award{}, false
			}
			continue
		}
		satisfied++
		a.Reasons = append(a.Reasons, reason(cond, v, threshold))
		if s := strength(v, threshold); s > a.Strength {
			a.Strength = s
		}
	}
	if satisfied == 0 {
		return Award{}, false
	}
	return a, true
}

// resolve produces the player value and threshold for one condition. Both
// sides must be defined: a null player metric or a missing cohort percentile
// makes the condition unsatisfiable.
func resolve(cond Condition, g *model.RollupGroup, cohortStats *model.CohortStats) (v, threshold float64, ok bool) {
	v, ok = groupValue(g, cond.Metric)
	if !ok {
		return 0, 0, false
	}
	if cond.Percentile == "" {
		return v, cond.Value, true
	}
	if cohortStats == nil {
		return 0, 0, false
	}
	dist, found := cohortStats.Metrics[cond.Metric]
	if !found {
		return 0, 0, false
	}
	switch cond.Percentile {
	case "p50":
		threshold = dist.P50
	case "p75":
		threshold = dist.P75
	case "p90":
		threshold = dist.P90
	case "p95":
		threshold = dist.P95
	}
	return v, threshold, true
}

func holds(op string, v, threshold float64) bool {
	if op == "le" {
		return v <= threshold
	}
	return v >= threshold
}

// strength ranks evidence by how far the value overshoots its threshold.
func strength(v, threshold float64) float64 {
	denom := math.Abs(threshold)
	if denom == 0 {
		denom = 1
	}
	return math.Abs(v) / denom
}

func reason(cond Condition, v, threshold float64) string {
	op := ">="
	if cond.Op == "le" {
		op = "<="
	}
	if cond.Percentile != "" {
		return fmt.Sprintf("%s %.2f %s cohort %s %.2f", cond.Metric, v, op, cond.Percentile, threshold)
	}
	return fmt.Sprintf("%s %.2f %s %.2f", cond.Metric, v, op, threshold)
}

// groupValue maps a catalog metric name onto a rollup group's fields. Null
// aggregates report not-ok.
func groupValue(g *model.RollupGroup, name string) (float64, bool) {
	switch name {
	case "win_rate":
		return g.WinRate, true
	case "kda":
		return g.AvgKDA, true
	case "kills_per_min":
		return g.KillsPerMin, true
	case "deaths_per_min":
		return g.DeathsPerMin, true
	case "assists_per_min":
		return g.AssistsPerMin, true
	case "ka_per_min":
		return g.KAPerMin, true
	case "cs_per_min":
		return g.CSPerMin, true
	case "gold_per_min":
		return g.GoldPerMin, true
	case "damage_per_min":
		return g.DamagePerMin, true
	case "damage_taken_per_min":
		return g.DamageTakenPerMin, true
	case "vision_per_min":
		return g.VisionPerMin, true
	case "gold_at10":
		return fromPtr(g.AvgGoldAt10)
	case "cs_at10":
		return fromPtr(g.AvgCSAt10)
	case "gold_at15":
		return fromPtr(g.AvgGoldAt15)
	case "cs_at15":
		return fromPtr(g.AvgCSAt15)
	case "early_deaths":
		return fromPtr(g.AvgEarlyDeaths)
	case "early_solo_kills":
		return fromPtr(g.AvgEarlySoloKills)
	case "early_ward_kills":
		return fromPtr(g.AvgEarlyWardKills)
	case "early_gank_death_rate":
		return fromPtr(g.AvgEarlyGankDeathRate)
	case "objective_participation":
		return fromPtr(g.AvgObjectivePart)
	case "dragon_participation":
		return fromPtr(g.AvgDragonPart)
	case "herald_participation":
		return fromPtr(g.AvgHeraldPart)
	case "baron_participation":
		return fromPtr(g.AvgBaronPart)
	case "voidgrub_participation":
		return fromPtr(g.AvgVoidgrubPart)
	case "atakhan_participation":
		return fromPtr(g.AvgAtakhanPart)
	case "tower_participation":
		return fromPtr(g.AvgTowerPart)
	case "plate_participation":
		return fromPtr(g.AvgPlatePart)
	case "damage_share":
		return fromPtr(g.AvgDamageShare)
	case "damage_taken_share":
		return fromPtr(g.AvgDamageTakenShare)
	case "gold_at10_diff":
		return fromPtr(g.AvgGoldAt10Diff)
	case "cs_at10_diff":
		return fromPtr(g.AvgCSAt10Diff)
	case "gold_at15_diff":
		return fromPtr(g.AvgGoldAt15Diff)
	case "cs_at15_diff":
		return fromPtr(g.AvgCSAt15Diff)
	case "xp_at10_diff":
		return fromPtr(g.AvgXPAt10Diff)
	case "kills_diff":
		return fromPtr(g.AvgKillsDiff)
	case "deaths_diff":
		return fromPtr(g.AvgDeathsDiff)
	case "damage_diff":
		return fromPtr(g.AvgDamageDiff)
	case "vision_diff":
		return fromPtr(g.AvgVisionDiff)
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
