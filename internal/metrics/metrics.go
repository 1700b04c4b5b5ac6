// Package metrics names the derived metrics and maps them onto MetricRow
// fields, so the cohort builder, rollup aggregator, and scorer all agree on
// what "gold_at10" means.
package metrics

import "github.com/riftlens/riftlens/internal/model"

// Metric names. Snake_case strings double as cache-key fragments and badge
// catalog references.
const (
	WinRate = "win_rate"
	KDA     = "kda"

	KillsPerMin       = "kills_per_min"
	DeathsPerMin      = "deaths_per_min"
	AssistsPerMin     = "assists_per_min"
	KAPerMin          = "ka_per_min"
	CSPerMin          = "cs_per_min"
	GoldPerMin        = "gold_per_min"
	DamagePerMin      = "damage_per_min"
	DamageTakenPerMin = "damage_taken_per_min"
	VisionPerMin      = "vision_per_min"

	GoldAt10 = "gold_at10"
	GoldAt15 = "gold_at15"
	GoldAt20 = "gold_at20"
	GoldAt30 = "gold_at30"
	CSAt10   = "cs_at10"
	CSAt15   = "cs_at15"
	CSAt20   = "cs_at20"
	CSAt30   = "cs_at30"

	EarlyKills         = "early_kills"
	EarlyDeaths        = "early_deaths"
	EarlySoloKills     = "early_solo_kills"
	EarlyWardKills     = "early_ward_kills"
	EarlyGankDeathRate = "early_gank_death_rate"

	DamageShare      = "damage_share"
	DamageTakenShare = "damage_taken_share"
	ObjectivePart    = "objective_participation"
)

// RowNames is the ordered list of metrics with per-row values. WinRate is
// intentionally absent: a single row's win is a 0/1 flag, and its percentile
// distribution is built over per-player win rates instead (see cohort).
var RowNames = []string{
	KDA,
	KillsPerMin, DeathsPerMin, AssistsPerMin, KAPerMin,
	CSPerMin, GoldPerMin, DamagePerMin, DamageTakenPerMin, VisionPerMin,
	GoldAt10, GoldAt15, GoldAt20, GoldAt30,
	CSAt10, CSAt15, CSAt20, CSAt30,
	EarlyKills, EarlyDeaths, EarlySoloKills, EarlyWardKills, EarlyGankDeathRate,
	DamageShare, DamageTakenShare, ObjectivePart,
}

// RowValue extracts a named metric from a row. ok is false when the metric
// is null for this row; callers must skip such rows, never treat them as 0.
func RowValue(r *model.MetricRow, name string) (float64, bool) {
	switch name {
	case KDA:
		return r.KDA(), true
	case KillsPerMin:
		return r.KillsPerMin, true
	case DeathsPerMin:
		return r.DeathsPerMin, true
	case AssistsPerMin:
		return r.AssistsPerMin, true
	case KAPerMin:
		return r.KAPerMin, true
	case CSPerMin:
		return r.CSPerMin, true
	case GoldPerMin:
		return r.GoldPerMin, true
	case DamagePerMin:
		return r.DamagePerMin, true
	case DamageTakenPerMin:
		return r.DamageTakenPerMin, true
	case VisionPerMin:
		return r.VisionPerMin, true
	case GoldAt10:
		return deref(r.GoldAt10)
	case GoldAt15:
		return deref(r.GoldAt15)
	case GoldAt20:
		return deref(r.GoldAt20)
	case GoldAt30:
		return deref(r.GoldAt30)
	case CSAt10:
		return deref(r.CSAt10)
	case CSAt15:
		return deref(r.CSAt15)
	case CSAt20:
		return deref(r.CSAt20)
	case CSAt30:
		return deref(r.CSAt30)
	case EarlyKills:
		return deref(r.EarlyKills)
	case EarlyDeaths:
		return deref(r.EarlyDeaths)
	case EarlySoloKills:
		return deref(r.EarlySoloKills)
	case EarlyWardKills:
		return deref(r.EarlyWardKills)
	case EarlyGankDeathRate:
		return deref(r.EarlyGankDeathRate)
	case DamageShare:
		return deref(r.DamageShare)
	case DamageTakenShare:
		return deref(r.DamageTakenShare)
	case ObjectivePart:
		return objectiveMean(r)
	default:
		return 0, false
	}
}

// objectiveMean averages the non-null per-category participation rates of a
// row. All-null (no timeline, or no team takes at all) reports not-ok.
func objectiveMean(r *model.MetricRow) (float64, bool) {
	var sum float64
	var n int
	for _, p := range []*float64{r.DragonPart, r.HeraldPart, r.BaronPart, r.VoidgrubPart, r.AtakhanPart, r.TowerPart, r.PlatePart} {
		if p != nil {
			sum += *p
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
