// Package extract derives per-(match, participant) metric rows from raw
// match and timeline documents.
//
// Failure policy: a missing timeline never fails extraction; every
// timeline-derived field comes back null and the match-level counters still
// compute from the participant record alone.
package extract

import (
	"fmt"
	"strconv"

	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
	"github.com/riftlens/riftlens/internal/role"
)

// Extractor turns Match+Timeline documents into MetricRows.
type Extractor struct {
	earlyMS int
	zones   ZoneClassifier
}

// New builds an Extractor with the configured early window and zone
// heuristics.
func New(cfg *config.Config) *Extractor {
	return &Extractor{
		earlyMS: cfg.Window.EarlyMinutes * 60 * 1000,
		zones:   NewZoneClassifier(cfg.Zones),
	}
}

// WithEarlyWindow returns a copy using a different early cutoff (minutes).
// Call sites that score the first ten minutes instead of fifteen use this.
func (e *Extractor) WithEarlyWindow(minutes int) *Extractor {
	return &Extractor{earlyMS: minutes * 60 * 1000, zones: e.zones}
}

// Rows derives one MetricRow per participant, including direct-opponent
// diffs. tl may be nil.
func (e *Extractor) Rows(m *model.Match, tl *model.Timeline) ([]model.MetricRow, error) {
	if m == nil {
		return nil, model.ErrDataUnavailable
	}

	roles := make(map[int]model.Role, len(m.Info.Participants))
	teams := make(map[int]int, len(m.Info.Participants))
	for i := range m.Info.Participants {
		p := &m.Info.Participants[i]
		roles[p.ParticipantID] = role.ForParticipant(p)
		teams[p.ParticipantID] = p.TeamID
	}

	rows := make([]model.MetricRow, 0, len(m.Info.Participants))
	for i := range m.Info.Participants {
		rows = append(rows, e.row(m, tl, &m.Info.Participants[i], roles, teams))
	}
	attachOpponentDiffs(rows)
	return rows, nil
}

// Row derives the MetricRow for a single participant id.
func (e *Extractor) Row(m *model.Match, tl *model.Timeline, participantID int) (*model.MetricRow, error) {
	rows, err := e.Rows(m, tl)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if pidOf(m, rows[i].PUUID) == participantID {
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("participant %d not in match %s: %w", participantID, m.Metadata.MatchID, model.ErrDataUnavailable)
}

func pidOf(m *model.Match, puuid string) int {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return m.Info.Participants[i].ParticipantID
		}
	}
	return 0
}

func (e *Extractor) row(m *model.Match, tl *model.Timeline, p *model.Participant, roles map[int]model.Role, teams map[int]int) model.MetricRow {
	r := model.MetricRow{
		MatchID:      m.Metadata.MatchID,
		PUUID:        p.PUUID,
		Champion:     p.ChampionName,
		Role:         roles[p.ParticipantID],
		QueueID:      m.Info.QueueID,
		GameCreation: m.Info.GameCreation,
		DurationSec:  m.Info.GameDuration,
		TeamID:       p.TeamID,
		Win:          p.Win,
		HasTimeline:  tl != nil && len(tl.Info.Frames) > 0,

		Kills:       p.Kills,
		Deaths:      p.Deaths,
		Assists:     p.Assists,
		CS:          p.CS(),
		GoldEarned:  p.GoldEarned,
		DamageDealt: p.TotalDamageDealtToChampions,
		DamageTaken: p.TotalDamageTaken,
		VisionScore: p.VisionScore,
		DoubleKills: p.DoubleKills,
		TripleKills: p.TripleKills,
		QuadraKills: p.QuadraKills,
		PentaKills:  p.PentaKills,
	}

	min := r.Minutes()
	r.KillsPerMin = float64(p.Kills) / min
	r.DeathsPerMin = float64(p.Deaths) / min
	r.AssistsPerMin = float64(p.Assists) / min
	r.KAPerMin = float64(p.Kills+p.Assists) / min
	r.CSPerMin = float64(p.CS()) / min
	r.GoldPerMin = float64(p.GoldEarned) / min
	r.DamagePerMin = float64(p.TotalDamageDealtToChampions) / min
	r.DamageTakenPerMin = float64(p.TotalDamageTaken) / min
	r.VisionPerMin = float64(p.VisionScore) / min

	e.teamShares(&r, m, p)

	if r.HasTimeline {
		e.snapshots(&r, tl, p.ParticipantID)
		e.earlyCounters(&r, tl, p.ParticipantID, roles)
		e.objectives(&r, tl, p.ParticipantID, p.TeamID)
	}
	return r
}

// teamShares computes damage and damage-taken shares relative to the
// participant's own team. Zero team totals yield null, never zero.
func (e *Extractor) teamShares(r *model.MetricRow, m *model.Match, p *model.Participant) {
	var dmg, taken int
	for i := range m.Info.Participants {
		q := &m.Info.Participants[i]
		if q.TeamID != p.TeamID {
			continue
		}
		dmg += q.TotalDamageDealtToChampions
		taken += q.TotalDamageTaken
	}
	if dmg > 0 {
		r.DamageShare = fptr(float64(p.TotalDamageDealtToChampions) / float64(dmg))
	}
	if taken > 0 {
		r.DamageTakenShare = fptr(float64(p.TotalDamageTaken) / float64(taken))
	}
}

// snapshots reads minute-N participant frames. frame[N] ≈ minute N; a game
// shorter than N minutes has no frame N and the snapshot stays null.
func (e *Extractor) snapshots(r *model.MetricRow, tl *model.Timeline, pid int) {
	frameAt := func(n int) *model.ParticipantFrame {
		if n >= len(tl.Info.Frames) {
			return nil
		}
		pf, ok := tl.Info.Frames[n].ParticipantFrames[strconv.Itoa(pid)]
		if !ok {
			return nil
		}
		return &pf
	}

	if f := frameAt(10); f != nil {
		r.GoldAt10 = fptr(float64(f.TotalGold))
		r.CSAt10 = fptr(float64(f.MinionsKilled + f.JungleMinionsKilled))
		r.XPAt10 = fptr(float64(f.XP))
	}
	if f := frameAt(15); f != nil {
		r.GoldAt15 = fptr(float64(f.TotalGold))
		r.CSAt15 = fptr(float64(f.MinionsKilled + f.JungleMinionsKilled))
		r.XPAt15 = fptr(float64(f.XP))
	}
	if f := frameAt(20); f != nil {
		r.GoldAt20 = fptr(float64(f.TotalGold))
		r.CSAt20 = fptr(float64(f.MinionsKilled + f.JungleMinionsKilled))
	}
	if f := frameAt(30); f != nil {
		r.GoldAt30 = fptr(float64(f.TotalGold))
		r.CSAt30 = fptr(float64(f.MinionsKilled + f.JungleMinionsKilled))
	}
}

// earlyCounters scans events up to the early cutoff using event timestamps
// (authoritative), not frame indices (approximate).
func (e *Extractor) earlyCounters(r *model.MetricRow, tl *model.Timeline, pid int, roles map[int]model.Role) {
	var kills, deaths, solo, wards, gankDeaths float64

	victimRole := roles[pid]
	for fi := range tl.Info.Frames {
		for _, ev := range tl.Info.Frames[fi].Events {
			if ev.Timestamp > e.earlyMS {
				continue
			}
			switch ev.Type {
			case model.EventChampionKill:
				if ev.KillerID == pid {
					kills++
					if len(ev.AssistingParticipantIDs) == 0 {
						solo++
					}
				}
				if ev.VictimID == pid {
					deaths++
					if e.isGankAssisted(ev, victimRole, roles) {
						gankDeaths++
					}
				}
			case model.EventWardKill:
				if ev.KillerID == pid {
					wards++
				}
			}
		}
	}

	r.EarlyKills = fptr(kills)
	r.EarlyDeaths = fptr(deaths)
	r.EarlySoloKills = fptr(solo)
	r.EarlyWardKills = fptr(wards)

	// Junglers roam by trade; the gank metric is undefined for them. Also
	// undefined (not 0, not 1) when there were no early deaths to classify.
	if victimRole != model.RoleJungle && deaths > 0 {
		r.EarlyGankDeathRate = fptr(gankDeaths / deaths)
	}
}

// isGankAssisted flags a death as gank-assisted when it happened inside a
// lane zone and the killer is a jungler or an off-role champion. The zoning
// is a coordinate heuristic, see ZoneConfig.
func (e *Extractor) isGankAssisted(ev model.TimelineEvent, victimRole model.Role, roles map[int]model.Role) bool {
	if victimRole == model.RoleJungle || victimRole == model.RoleUnknown {
		return false
	}
	if !IsLane(e.zones.Classify(ev.Position)) {
		return false
	}
	killerRole := roles[ev.KillerID]
	return killerRole == model.RoleJungle || killerRole != victimRole
}

// objective categories keyed by monster-type aliases.
var monsterCategory = map[string]string{
	"DRAGON":       "dragon",
	"RIFTHERALD":   "herald",
	"RIFT_HERALD":  "herald",
	"BARON_NASHOR": "baron",
	"NASHOR":       "baron",
	"VOIDGRUB":     "voidgrub",
	"VOIDGRUBS":    "voidgrub",
	"HORDE":        "voidgrub",
	"ATAKHAN":      "atakhan",
}

// objectives counts team-level takes and participant involvement per
// category. Participation is involvement/takes, null when the team took zero
// of a category. A zero denominator is a missing signal, not a 0% one.
func (e *Extractor) objectives(r *model.MetricRow, tl *model.Timeline, pid, teamID int) {
	takes := map[string]float64{}
	involved := map[string]float64{}

	mark := func(cat string, teamTake, involvement bool) {
		if !teamTake {
			return
		}
		takes[cat]++
		if involvement {
			involved[cat]++
		}
	}
	participated := func(ev model.TimelineEvent) bool {
		if ev.KillerID == pid {
			return true
		}
		for _, id := range ev.AssistingParticipantIDs {
			if id == pid {
				return true
			}
		}
		return false
	}

	for fi := range tl.Info.Frames {
		for _, ev := range tl.Info.Frames[fi].Events {
			switch ev.Type {
			case model.EventEliteMonsterKill:
				cat, ok := monsterCategory[ev.MonsterType]
				if !ok {
					continue
				}
				mark(cat, ev.KillerTeamID == teamID, participated(ev))
			case model.EventBuildingKill:
				if ev.BuildingType != "TOWER_BUILDING" {
					continue
				}
				// The event's teamId is the team that OWNED the building, so
				// a take for us is an event tagged with the enemy team.
				mark("tower", ev.TeamID != teamID, participated(ev))
			case model.EventTurretPlateDestroyed:
				mark("plate", ev.TeamID != teamID, participated(ev))
			}
		}
	}

	rate := func(cat string) *float64 {
		t := takes[cat]
		if t == 0 {
			return nil
		}
		return fptr(involved[cat] / t)
	}
	r.DragonPart = rate("dragon")
	r.HeraldPart = rate("herald")
	r.BaronPart = rate("baron")
	r.VoidgrubPart = rate("voidgrub")
	r.AtakhanPart = rate("atakhan")
	r.TowerPart = rate("tower")
	r.PlatePart = rate("plate")
}

// attachOpponentDiffs fills player-vs-direct-opponent diffs. The direct
// opponent is the unique participant with the same normalized role on the
// other team; duplicate or missing role matches leave the diffs null.
func attachOpponentDiffs(rows []model.MetricRow) {
	for i := range rows {
		r := &rows[i]
		if r.Role == model.RoleUnknown {
			continue
		}
		var opp *model.MetricRow
		unique := true
		for j := range rows {
			o := &rows[j]
			if o.TeamID == r.TeamID || o.Role != r.Role {
				continue
			}
			if opp != nil {
				unique = false
				break
			}
			opp = o
		}
		if opp == nil || !unique {
			continue
		}

		r.GoldAt10Diff = diff(r.GoldAt10, opp.GoldAt10)
		r.CSAt10Diff = diff(r.CSAt10, opp.CSAt10)
		r.GoldAt15Diff = diff(r.GoldAt15, opp.GoldAt15)
		r.CSAt15Diff = diff(r.CSAt15, opp.CSAt15)
		r.XPAt10Diff = diff(r.XPAt10, opp.XPAt10)
		r.KillsDiff = fptr(float64(r.Kills - opp.Kills))
		r.DeathsDiff = fptr(float64(r.Deaths - opp.Deaths))
		r.DamageDiff = fptr(float64(r.DamageDealt - opp.DamageDealt))
		r.VisionDiff = fptr(float64(r.VisionScore - opp.VisionScore))
	}
}

func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return fptr(*a - *b)
}

func fptr(v float64) *float64 { return &v }
