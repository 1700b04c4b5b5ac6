// Package rollup folds a player's match history into per-(champion, role)
// aggregate groups: win rate, null-skipping metric averages, opponent diffs,
// and the player's own percentile spread for consistency checks.
package rollup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/champion"
	"github.com/riftlens/riftlens/internal/cohort"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/extract"
	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
)

// Filter selects the slice of a player's history to roll up. Only PUUID is
// required; empty optional fields mean "no restriction".
type Filter struct {
	PUUID    string `validate:"required"`
	Champion string
	Role     model.Role

	// Queues restricts queue ids. Nil uses the configured set.
	Queues []int

	// WindowStart/WindowEnd bound gameCreation. Zero values are unbounded.
	WindowStart time.Time
	WindowEnd   time.Time

	// Limit caps how many recent matches are considered. 0 means all stored.
	Limit int `validate:"min=0"`
}

// SourceQuery narrows a Source lookup, bounds in gameCreation ms epochs.
type SourceQuery struct {
	Queues  []int
	StartMS int64
	EndMS   int64
	Limit   int
}

// Source supplies a player's match documents, most recent first. Implemented
// by the sqlite store.
type Source interface {
	MatchesByPlayer(ctx context.Context, puuid string, q SourceQuery) ([]model.MatchDoc, error)
}

// Aggregator computes player rollups. Safe for concurrent use.
type Aggregator struct {
	src      Source
	cache    cache.Cache
	ex       *extract.Extractor
	cfg      *config.Config
	validate *validator.Validate
}

// NewAggregator wires an Aggregator over a match source and a cache.
func NewAggregator(src Source, c cache.Cache, cfg *config.Config) *Aggregator {
	return &Aggregator{
		src:      src,
		cache:    c,
		ex:       extract.New(cfg),
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (a *Aggregator) normalize(f Filter) (Filter, error) {
	if err := a.validate.Struct(f); err != nil {
		return f, fmt.Errorf("%w: %v", model.ErrInvalidParameter, err)
	}
	if f.Champion != "" {
		f.Champion = champion.Canonical(f.Champion)
	}
	if f.Role != "" && f.Role != model.RoleUnknown {
		valid := false
		for _, r := range model.Roles {
			if f.Role == r {
				valid = true
				break
			}
		}
		if !valid {
			return f, fmt.Errorf("%w: unknown role %q", model.ErrInvalidParameter, f.Role)
		}
	}
	if f.Queues == nil {
		f.Queues = a.cfg.Cohort.Queues
	}
	if !f.WindowStart.IsZero() && !f.WindowEnd.IsZero() && !f.WindowStart.Before(f.WindowEnd) {
		return f, fmt.Errorf("%w: window start is not before end", model.ErrInvalidParameter)
	}
	return f, nil
}

func (f Filter) key() string {
	qs := make([]string, len(f.Queues))
	for i, q := range f.Queues {
		qs[i] = fmt.Sprintf("%d", q)
	}
	return fmt.Sprintf("rollup|%s|%s|%s|q=%s|%d|%d|n=%d",
		f.PUUID, strings.ToLower(f.Champion), f.Role,
		strings.Join(qs, ","), epochMS(f.WindowStart), epochMS(f.WindowEnd), f.Limit)
}

func epochMS(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Rollup computes (or recalls) the aggregate view of one player's history.
// A player with no matching games gets an empty Rollup, not an error.
func (a *Aggregator) Rollup(ctx context.Context, f Filter) (*model.Rollup, error) {
	f, err := a.normalize(f)
	if err != nil {
		return nil, err
	}

	key := f.key()
	if raw, ok, _ := a.cache.Get(key); ok {
		var cached model.Rollup
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	docs, err := a.src.MatchesByPlayer(ctx, f.PUUID, SourceQuery{
		Queues:  f.Queues,
		StartMS: epochMS(f.WindowStart),
		EndMS:   epochMS(f.WindowEnd),
		Limit:   f.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("rollup source: %w", err)
	}

	rows := a.playerRows(docs, f)
	out := fold(f.PUUID, rows)

	if raw, err := json.Marshal(out); err == nil {
		_ = a.cache.Set(key, raw, a.cfg.Cache.RollupTTL)
	}
	return out, nil
}

// playerRows extracts the player's row from each document, applying champion
// and role filters. Full-match extraction is required even for one player so
// opponent diffs and team shares have their context.
func (a *Aggregator) playerRows(docs []model.MatchDoc, f Filter) []model.MetricRow {
	rows := make([]model.MetricRow, 0, len(docs))
	for _, doc := range docs {
		all, err := a.ex.Rows(doc.Match, doc.Timeline)
		if err != nil {
			continue
		}
		for _, r := range all {
			if r.PUUID != f.PUUID {
				continue
			}
			if f.Champion != "" && !champion.Equal(r.Champion, f.Champion) {
				continue
			}
			if f.Role != "" && r.Role != f.Role {
				continue
			}
			rows = append(rows, r)
		}
	}
	return rows
}

type groupKey struct {
	champion string
	role     model.Role
}

// fold groups rows by (champion, role) and computes the aggregate view.
func fold(puuid string, rows []model.MetricRow) *model.Rollup {
	out := &model.Rollup{
		PUUID:        puuid,
		RoleShare:    make(map[model.Role]float64),
		TotalMatches: len(rows),
	}
	if len(rows) == 0 {
		return out
	}

	byGroup := make(map[groupKey][]model.MetricRow)
	roleGames := make(map[model.Role]int)
	for _, r := range rows {
		k := groupKey{champion: r.Champion, role: r.Role}
		byGroup[k] = append(byGroup[k], r)
		if r.Role != model.RoleUnknown {
			roleGames[r.Role]++
		}
	}

	for k, grp := range byGroup {
		out.Groups = append(out.Groups, foldGroup(puuid, k, grp))
	}
	sort.Slice(out.Groups, func(i, j int) bool {
		gi, gj := out.Groups[i], out.Groups[j]
		if gi.Matches != gj.Matches {
			return gi.Matches > gj.Matches
		}
		if gi.Champion != gj.Champion {
			return gi.Champion < gj.Champion
		}
		return gi.Role < gj.Role
	})

	// Role share is over role-attributable games only; UNKNOWN rows still
	// count in TotalMatches and keep their own groups.
	attributed := 0
	for _, n := range roleGames {
		attributed += n
	}
	if attributed > 0 {
		for role, n := range roleGames {
			out.RoleShare[role] = float64(n) / float64(attributed)
		}
		out.MostWeightedRole = dominantRole(roleGames)
	} else {
		out.MostWeightedRole = model.RoleUnknown
	}
	return out
}

// dominantRole picks the role with the most games, breaking ties
// alphabetically.
func dominantRole(games map[model.Role]int) model.Role {
	best := model.RoleUnknown
	bestN := -1
	for _, role := range model.Roles {
		n := games[role]
		if n == 0 {
			continue
		}
		if n > bestN || (n == bestN && role < best) {
			best, bestN = role, n
		}
	}
	return best
}

// nullAvg accumulates a null-skipping average. All-null stays null.
type nullAvg struct {
	sum float64
	n   int
}

func (a *nullAvg) add(p *float64) {
	if p != nil {
		a.sum += *p
		a.n++
	}
}

func (a *nullAvg) value() *float64 {
	if a == nil || a.n == 0 {
		return nil
	}
	v := a.sum / float64(a.n)
	return &v
}

func foldGroup(puuid string, k groupKey, rows []model.MetricRow) model.RollupGroup {
	g := model.RollupGroup{
		PUUID:    puuid,
		Champion: k.champion,
		Role:     k.role,
		Matches:  len(rows),
	}

	var kills, deaths, assists, kda float64
	var kpm, dpm, apm, kapm, cspm, gpm, dmgpm, dtpm, vpm float64
	avgs := map[string]*nullAvg{}
	acc := func(name string) *nullAvg {
		a, ok := avgs[name]
		if !ok {
			a = &nullAvg{}
			avgs[name] = a
		}
		return a
	}

	for i := range rows {
		r := &rows[i]
		if r.Win {
			g.Wins++
		}
		kills += float64(r.Kills)
		deaths += float64(r.Deaths)
		assists += float64(r.Assists)
		kda += r.KDA()
		kpm += r.KillsPerMin
		dpm += r.DeathsPerMin
		apm += r.AssistsPerMin
		kapm += r.KAPerMin
		cspm += r.CSPerMin
		gpm += r.GoldPerMin
		dmgpm += r.DamagePerMin
		dtpm += r.DamageTakenPerMin
		vpm += r.VisionPerMin

		acc("goldAt10").add(r.GoldAt10)
		acc("goldAt15").add(r.GoldAt15)
		acc("goldAt20").add(r.GoldAt20)
		acc("goldAt30").add(r.GoldAt30)
		acc("csAt10").add(r.CSAt10)
		acc("csAt15").add(r.CSAt15)
		acc("csAt20").add(r.CSAt20)
		acc("csAt30").add(r.CSAt30)
		acc("earlyDeaths").add(r.EarlyDeaths)
		acc("earlySoloKills").add(r.EarlySoloKills)
		acc("earlyWardKills").add(r.EarlyWardKills)
		acc("gankDeathRate").add(r.EarlyGankDeathRate)
		acc("dragon").add(r.DragonPart)
		acc("herald").add(r.HeraldPart)
		acc("baron").add(r.BaronPart)
		acc("voidgrub").add(r.VoidgrubPart)
		acc("atakhan").add(r.AtakhanPart)
		acc("tower").add(r.TowerPart)
		acc("plate").add(r.PlatePart)
		acc("dmgShare").add(r.DamageShare)
		acc("dmgTakenShare").add(r.DamageTakenShare)
		acc("goldAt10Diff").add(r.GoldAt10Diff)
		acc("csAt10Diff").add(r.CSAt10Diff)
		acc("goldAt15Diff").add(r.GoldAt15Diff)
		acc("csAt15Diff").add(r.CSAt15Diff)
		acc("xpAt10Diff").add(r.XPAt10Diff)
		acc("killsDiff").add(r.KillsDiff)
		acc("deathsDiff").add(r.DeathsDiff)
		acc("damageDiff").add(r.DamageDiff)
		acc("visionDiff").add(r.VisionDiff)
		if v, ok := metrics.RowValue(r, metrics.ObjectivePart); ok {
			acc("objective").add(&v)
		}
	}

	n := float64(len(rows))
	g.WinRate = float64(g.Wins) / n
	g.AvgKills = kills / n
	g.AvgDeaths = deaths / n
	g.AvgAssists = assists / n
	g.AvgKDA = kda / n
	g.KillsPerMin = kpm / n
	g.DeathsPerMin = dpm / n
	g.AssistsPerMin = apm / n
	g.KAPerMin = kapm / n
	g.CSPerMin = cspm / n
	g.GoldPerMin = gpm / n
	g.DamagePerMin = dmgpm / n
	g.DamageTakenPerMin = dtpm / n
	g.VisionPerMin = vpm / n

	g.AvgGoldAt10 = avgs["goldAt10"].value()
	g.AvgGoldAt15 = avgs["goldAt15"].value()
	g.AvgGoldAt20 = avgs["goldAt20"].value()
	g.AvgGoldAt30 = avgs["goldAt30"].value()
	g.AvgCSAt10 = avgs["csAt10"].value()
	g.AvgCSAt15 = avgs["csAt15"].value()
	g.AvgCSAt20 = avgs["csAt20"].value()
	g.AvgCSAt30 = avgs["csAt30"].value()
	g.AvgEarlyDeaths = avgs["earlyDeaths"].value()
	g.AvgEarlySoloKills = avgs["earlySoloKills"].value()
	g.AvgEarlyWardKills = avgs["earlyWardKills"].value()
	g.AvgEarlyGankDeathRate = avgs["gankDeathRate"].value()
	g.AvgDragonPart = avgs["dragon"].value()
	g.AvgHeraldPart = avgs["herald"].value()
	g.AvgBaronPart = avgs["baron"].value()
	g.AvgVoidgrubPart = avgs["voidgrub"].value()
	g.AvgAtakhanPart = avgs["atakhan"].value()
	g.AvgTowerPart = avgs["tower"].value()
	g.AvgPlatePart = avgs["plate"].value()
	g.AvgObjectivePart = avgs["objective"].value()
	g.AvgDamageShare = avgs["dmgShare"].value()
	g.AvgDamageTakenShare = avgs["dmgTakenShare"].value()
	g.AvgGoldAt10Diff = avgs["goldAt10Diff"].value()
	g.AvgCSAt10Diff = avgs["csAt10Diff"].value()
	g.AvgGoldAt15Diff = avgs["goldAt15Diff"].value()
	g.AvgCSAt15Diff = avgs["csAt15Diff"].value()
	g.AvgXPAt10Diff = avgs["xpAt10Diff"].value()
	g.AvgKillsDiff = avgs["killsDiff"].value()
	g.AvgDeathsDiff = avgs["deathsDiff"].value()
	g.AvgDamageDiff = avgs["damageDiff"].value()
	g.AvgVisionDiff = avgs["visionDiff"].value()

	g.Self = selfDistributions(rows)
	return g
}

// selfDistributions summarizes the player's own spread per metric, skipping
// null rows. Used by consistency-flavored badges.
func selfDistributions(rows []model.MetricRow) map[string]model.Distribution {
	self := make(map[string]model.Distribution)
	values := make([]float64, 0, len(rows))
	for _, name := range metrics.RowNames {
		values = values[:0]
		for i := range rows {
			if v, ok := metrics.RowValue(&rows[i], name); ok {
				values = append(values, v)
			}
		}
		if dist, ok := cohort.Percentiles(values); ok {
			self[name] = dist
		}
	}
	return self
}
