package rollup

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/model"
)

type fakeSource struct {
	calls int
	docs  []model.MatchDoc
}

func (f *fakeSource) MatchesByPlayer(_ context.Context, _ string, _ SourceQuery) ([]model.MatchDoc, error) {
	f.calls++
	return f.docs, nil
}

type docOpts struct {
	id          string
	champ       string
	position    string
	win         bool
	kills       int
	durationSec int
	frames      int // 0 = no timeline
}

// playerDoc builds a two-participant match for puuid "me" plus a mirror-role
// opponent, optionally with a timeline of n minute frames.
func playerDoc(o docOpts) model.MatchDoc {
	m := &model.Match{
		Metadata: model.MatchMetadata{MatchID: o.id, Participants: []string{"me", "opp"}},
		Info: model.MatchInfo{
			GameCreation: 1_700_000_000_000,
			GameDuration: o.durationSec,
			QueueID:      420,
			Participants: []model.Participant{
				{
					ParticipantID: 1, PUUID: "me", TeamID: 100,
					ChampionName: o.champ, TeamPosition: o.position,
					Win: o.win, Kills: o.kills, Deaths: 3, Assists: 4,
					TotalMinionsKilled: 150, GoldEarned: 10000,
					TotalDamageDealtToChampions: 18000, TotalDamageTaken: 12000,
					VisionScore: 25,
				},
				{
					ParticipantID: 2, PUUID: "opp", TeamID: 200,
					ChampionName: "Ahri", TeamPosition: o.position,
					Win: !o.win, Kills: 2, Deaths: 4, Assists: 1,
					TotalMinionsKilled: 140, GoldEarned: 9000,
					TotalDamageDealtToChampions: 15000, TotalDamageTaken: 11000,
					VisionScore: 20,
				},
			},
		},
	}
	doc := model.MatchDoc{Match: m}
	if o.frames > 0 {
		tl := &model.Timeline{Info: model.TimelineInfo{FrameInterval: 60000}}
		for i := 0; i < o.frames; i++ {
			f := model.Frame{
				Timestamp:         i * 60000,
				ParticipantFrames: make(map[string]model.ParticipantFrame),
			}
			for pid := 1; pid <= 2; pid++ {
				f.ParticipantFrames[strconv.Itoa(pid)] = model.ParticipantFrame{
					ParticipantID: pid,
					TotalGold:     100*i + pid,
					XP:            80*i + pid,
					MinionsKilled: 7 * i,
				}
			}
			tl.Info.Frames = append(tl.Info.Frames, f)
		}
		doc.Timeline = tl
	}
	return doc
}

func newTestAggregator(src Source) *Aggregator {
	return NewAggregator(src, cache.NewMemory(), config.Default())
}

func TestRollup_KillsPerMinAverage(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "Jinx", position: "BOTTOM", win: true, kills: 5, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_2", champ: "Jinx", position: "BOTTOM", win: false, kills: 3, durationSec: 1500}),
		playerDoc(docOpts{id: "NA1_3", champ: "Jinx", position: "BOTTOM", win: true, kills: 7, durationSec: 2100}),
	}}
	a := newTestAggregator(src)

	out, err := a.Rollup(context.Background(), Filter{PUUID: "me"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if len(out.Groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(out.Groups))
	}
	g := out.Groups[0]
	want := (5.0/30 + 3.0/25 + 7.0/35) / 3
	if math.Abs(g.KillsPerMin-want) > 1e-9 {
		t.Errorf("kills/min = %v, want %v", g.KillsPerMin, want)
	}
	if math.Abs(g.WinRate-2.0/3) > 1e-9 {
		t.Errorf("win rate = %v, want 2/3", g.WinRate)
	}
}

func TestRollup_NullSkippingAverages(t *testing.T) {
	// Two games without timelines, one with. GoldAt10 averages over the one
	// game that has it instead of coercing the others to zero.
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "Jinx", position: "BOTTOM", win: true, kills: 5, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_2", champ: "Jinx", position: "BOTTOM", win: false, kills: 3, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_3", champ: "Jinx", position: "BOTTOM", win: true, kills: 7, durationSec: 1800, frames: 16}),
	}}
	a := newTestAggregator(src)

	out, err := a.Rollup(context.Background(), Filter{PUUID: "me"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	g := out.Groups[0]
	if g.AvgGoldAt10 == nil {
		t.Fatal("AvgGoldAt10 is null despite one game with a timeline")
	}
	// Frame 10 gold for pid 1 is 100*10+1.
	if *g.AvgGoldAt10 != 1001 {
		t.Errorf("AvgGoldAt10 = %v, want 1001 (single non-null game, not a zero-padded mean)", *g.AvgGoldAt10)
	}
	if g.AvgGoldAt30 != nil {
		t.Errorf("AvgGoldAt30 = %v, want null (no game reached minute 30)", *g.AvgGoldAt30)
	}
}

func TestRollup_GroupsAndRoleShare(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "Jinx", position: "BOTTOM", win: true, kills: 5, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_2", champ: "Jinx", position: "BOTTOM", win: false, kills: 3, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_3", champ: "Ahri", position: "MIDDLE", win: true, kills: 7, durationSec: 1800}),
	}}
	a := newTestAggregator(src)

	out, err := a.Rollup(context.Background(), Filter{PUUID: "me"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if out.TotalMatches != 3 {
		t.Errorf("total matches = %d, want 3", out.TotalMatches)
	}
	if len(out.Groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(out.Groups))
	}
	// Biggest group first.
	if out.Groups[0].Champion != "Jinx" || out.Groups[0].Matches != 2 {
		t.Errorf("first group = %s x%d, want Jinx x2", out.Groups[0].Champion, out.Groups[0].Matches)
	}
	if s := out.RoleShare[model.RoleBottom]; math.Abs(s-2.0/3) > 1e-9 {
		t.Errorf("BOTTOM share = %v, want 2/3", s)
	}
	if out.MostWeightedRole != model.RoleBottom {
		t.Errorf("most weighted role = %s, want BOTTOM", out.MostWeightedRole)
	}
}

func TestRollup_RoleTieBreaksAlphabetically(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "Garen", position: "TOP", win: true, kills: 2, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_2", champ: "LeeSin", position: "JUNGLE", win: true, kills: 4, durationSec: 1800}),
	}}
	a := newTestAggregator(src)

	out, err := a.Rollup(context.Background(), Filter{PUUID: "me"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if out.MostWeightedRole != model.RoleJungle {
		t.Errorf("most weighted role = %s, want JUNGLE on an alphabetical tie", out.MostWeightedRole)
	}
}

func TestRollup_ChampionFilterUsesAliases(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "MonkeyKing", position: "TOP", win: true, kills: 2, durationSec: 1800}),
		playerDoc(docOpts{id: "NA1_2", champ: "Garen", position: "TOP", win: true, kills: 2, durationSec: 1800}),
	}}
	a := newTestAggregator(src)

	out, err := a.Rollup(context.Background(), Filter{PUUID: "me", Champion: "Wukong"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if out.TotalMatches != 1 || out.Groups[0].Champion != "MonkeyKing" {
		t.Errorf("alias filter kept %d matches (%+v), want just MonkeyKing", out.TotalMatches, out.Groups)
	}
}

func TestRollup_CachesResult(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		playerDoc(docOpts{id: "NA1_1", champ: "Jinx", position: "BOTTOM", win: true, kills: 5, durationSec: 1800}),
	}}
	a := newTestAggregator(src)
	ctx := context.Background()

	if _, err := a.Rollup(ctx, Filter{PUUID: "me"}); err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if _, err := a.Rollup(ctx, Filter{PUUID: "me"}); err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}

	if _, err := a.Rollup(ctx, Filter{PUUID: "me", Role: model.RoleBottom}); err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2 for a different filter", src.calls)
	}
}

func TestRollup_EmptyHistory(t *testing.T) {
	a := newTestAggregator(&fakeSource{})

	out, err := a.Rollup(context.Background(), Filter{PUUID: "ghost"})
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if out.TotalMatches != 0 || len(out.Groups) != 0 {
		t.Errorf("empty history should produce an empty rollup, got %+v", out)
	}
	if out.MostWeightedRole != "" && out.MostWeightedRole != model.RoleUnknown {
		t.Errorf("most weighted role = %s, want unset", out.MostWeightedRole)
	}
}

func TestRollup_InvalidFilter(t *testing.T) {
	a := newTestAggregator(&fakeSource{})

	if _, err := a.Rollup(context.Background(), Filter{}); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter", err)
	}
	if _, err := a.Rollup(context.Background(), Filter{PUUID: "me", Role: "CARRY"}); !errors.Is(err, model.ErrInvalidParameter) {
		t.Errorf("err = %v, want ErrInvalidParameter for bad role", err)
	}
}
