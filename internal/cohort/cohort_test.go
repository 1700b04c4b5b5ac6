package cohort

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
)

func TestPercentiles_WorkedExample(t *testing.T) {
	dist, ok := Percentiles([]float64{10, 12, 15, 18, 20, 22, 25, 28, 30, 35})
	if !ok {
		t.Fatal("expected a distribution")
	}
	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"p50", dist.P50, 21},
		{"p75", dist.P75, 27.25},
		{"p90", dist.P90, 30.5},
		{"p95", dist.P95, 32.75},
	}
	for _, c := range cases {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestPercentiles_Monotonic(t *testing.T) {
	dist, ok := Percentiles([]float64{3, 1, 4, 1, 5, 9, 2, 6})
	if !ok {
		t.Fatal("expected a distribution")
	}
	if dist.P50 > dist.P75 || dist.P75 > dist.P90 || dist.P90 > dist.P95 {
		t.Errorf("non-monotonic distribution: %+v", dist)
	}
}

func TestPercentiles_Degenerate(t *testing.T) {
	if _, ok := Percentiles(nil); ok {
		t.Error("empty input should not produce a distribution")
	}
	dist, ok := Percentiles([]float64{7})
	if !ok {
		t.Fatal("single value should produce a distribution")
	}
	if dist.P50 != 7 || dist.P95 != 7 {
		t.Errorf("single-value distribution should be constant, got %+v", dist)
	}
}

type fakeSource struct {
	mu    sync.Mutex
	calls int
	docs  []model.MatchDoc
}

func (f *fakeSource) MatchesByChampionRole(_ context.Context, _ string, _ model.Role, _ SourceQuery) ([]model.MatchDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.docs, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// botLaneDoc builds a two-participant match with champ in BOTTOM on the blue
// side and a fixed opponent on red.
func botLaneDoc(id, champ, puuid string, win bool, kills int) model.MatchDoc {
	return model.MatchDoc{
		Match: &model.Match{
			Metadata: model.MatchMetadata{MatchID: id, Participants: []string{puuid, "opp"}},
			Info: model.MatchInfo{
				GameCreation: 1_700_000_000_000,
				GameDuration: 1800,
				QueueID:      420,
				Participants: []model.Participant{
					{
						ParticipantID: 1, PUUID: puuid, TeamID: 100,
						ChampionName: champ, TeamPosition: "BOTTOM",
						Win: win, Kills: kills, Deaths: 3, Assists: 4,
						TotalMinionsKilled: 200, GoldEarned: 12000,
						TotalDamageDealtToChampions: 20000, TotalDamageTaken: 15000,
						VisionScore: 20,
					},
					{
						ParticipantID: 2, PUUID: "opp", TeamID: 200,
						ChampionName: "Caitlyn", TeamPosition: "BOTTOM",
						Win: !win, Kills: 2, Deaths: 5, Assists: 3,
						TotalMinionsKilled: 180, GoldEarned: 11000,
						TotalDamageDealtToChampions: 18000, TotalDamageTaken: 14000,
						VisionScore: 18,
					},
				},
			},
		},
	}
}

func newTestBuilder(t *testing.T, src Source) *Builder {
	t.Helper()
	return NewBuilder(src, cache.NewMemory(), config.Default())
}

func TestBuild_CachesByParameterTuple(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		botLaneDoc("NA1_1", "MonkeyKing", "p1", true, 5),
		botLaneDoc("NA1_2", "MonkeyKing", "p1", false, 2),
	}}
	b := newTestBuilder(t, src)
	ctx := context.Background()

	first, err := b.Build(ctx, Spec{Champion: "Wukong", Role: model.RoleBottom})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if first.SampleSize != 2 {
		t.Fatalf("sample size = %d, want 2", first.SampleSize)
	}
	if first.Champion != "MonkeyKing" {
		t.Errorf("champion = %q, want canonical MonkeyKing", first.Champion)
	}

	// Alias spelling hits the same cache entry.
	second, err := b.Build(ctx, Spec{Champion: "MonkeyKing", Role: model.RoleBottom})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if src.callCount() != 1 {
		t.Errorf("source calls = %d, want 1 (second build should be cached)", src.callCount())
	}
	if second.Metrics[metrics.KDA] != first.Metrics[metrics.KDA] {
		t.Errorf("cached KDA distribution mismatch: %+v vs %+v", second.Metrics[metrics.KDA], first.Metrics[metrics.KDA])
	}

	// Any parameter change is a distinct cohort.
	if _, err := b.Build(ctx, Spec{Champion: "Wukong", Role: model.RoleBottom, WinsOnly: true}); err != nil {
		t.Fatalf("Build winsOnly: %v", err)
	}
	if src.callCount() != 2 {
		t.Errorf("source calls = %d, want 2 after winsOnly variant", src.callCount())
	}
}

func TestBuild_WinsOnlyFiltersSample(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		botLaneDoc("NA1_1", "Jinx", "p1", true, 8),
		botLaneDoc("NA1_2", "Jinx", "p1", false, 1),
		botLaneDoc("NA1_3", "Jinx", "p2", true, 6),
	}}
	b := newTestBuilder(t, src)

	stats, err := b.Build(context.Background(), Spec{Champion: "Jinx", Role: model.RoleBottom, WinsOnly: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.SampleSize != 2 {
		t.Errorf("sample size = %d, want 2 winning rows", stats.SampleSize)
	}
	// Both sampled rows are wins: kills 8 and 6, so p50 kda over
	// {(8+4)/3, (6+4)/3} must exceed the losing game's (1+4)/3.
	if kda := stats.Metrics[metrics.KDA]; kda.P50 <= 5.0/3.0 {
		t.Errorf("kda p50 = %v, losing row leaked into a wins-only sample", kda.P50)
	}
}

func TestBuild_WinRateOverPlayers(t *testing.T) {
	// p1 wins 2/2, p2 wins 0/1: the win_rate distribution spans the two
	// per-player rates instead of degenerate 0/1 rows.
	src := &fakeSource{docs: []model.MatchDoc{
		botLaneDoc("NA1_1", "Jinx", "p1", true, 5),
		botLaneDoc("NA1_2", "Jinx", "p1", true, 5),
		botLaneDoc("NA1_3", "Jinx", "p2", false, 5),
	}}
	b := newTestBuilder(t, src)

	stats, err := b.Build(context.Background(), Spec{Champion: "Jinx", Role: model.RoleBottom})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wr, ok := stats.Metrics[metrics.WinRate]
	if !ok {
		t.Fatal("win_rate distribution missing")
	}
	if wr.P50 != 0.5 {
		t.Errorf("win_rate p50 = %v, want 0.5 (midpoint of player rates 0 and 1)", wr.P50)
	}
	if math.Abs(wr.P95-0.95) > 1e-9 {
		t.Errorf("win_rate p95 = %v, want 0.95 interpolated between rates 0 and 1", wr.P95)
	}
}

func TestBuild_NullMetricsOmitted(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		botLaneDoc("NA1_1", "Jinx", "p1", true, 5),
	}}
	b := newTestBuilder(t, src)

	stats, err := b.Build(context.Background(), Spec{Champion: "Jinx", Role: model.RoleBottom})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// No timelines ingested: snapshot metrics must be absent, not zero.
	if _, ok := stats.Metrics[metrics.GoldAt10]; ok {
		t.Error("gold_at10 present despite missing timelines")
	}
	if _, ok := stats.Metrics[metrics.GoldPerMin]; !ok {
		t.Error("gold_per_min should survive without a timeline")
	}
}

func TestBuild_EmptySample(t *testing.T) {
	b := newTestBuilder(t, &fakeSource{})

	stats, err := b.Build(context.Background(), Spec{Champion: "Jinx", Role: model.RoleBottom})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if stats.SampleSize != 0 || len(stats.Metrics) != 0 {
		t.Errorf("empty source should yield an empty cohort, got %+v", stats)
	}
}

func TestBuild_InvalidSpecs(t *testing.T) {
	b := newTestBuilder(t, &fakeSource{})
	ctx := context.Background()

	cases := []struct {
		name string
		spec Spec
	}{
		{"missing champion", Spec{Role: model.RoleBottom}},
		{"bad role", Spec{Champion: "Jinx", Role: "SUPPORT"}},
		{"oversized sample", Spec{Champion: "Jinx", Role: model.RoleBottom, SampleSize: 100000}},
		{"inverted window", Spec{
			Champion: "Jinx", Role: model.RoleBottom,
			WindowStart: mustTime(t, "2026-02-01"), WindowEnd: mustTime(t, "2026-01-01"),
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := b.Build(ctx, c.spec); !errors.Is(err, model.ErrInvalidParameter) {
				t.Errorf("err = %v, want ErrInvalidParameter", err)
			}
		})
	}
}

func mustTime(t *testing.T, day string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", day)
	if err != nil {
		t.Fatalf("parse %s: %v", day, err)
	}
	return ts
}

func TestBuildMany_DeduplicatesSpecs(t *testing.T) {
	src := &fakeSource{docs: []model.MatchDoc{
		botLaneDoc("NA1_1", "Jinx", "p1", true, 5),
	}}
	b := newTestBuilder(t, src)

	specs := []Spec{
		{Champion: "Jinx", Role: model.RoleBottom},
		{Champion: "Jinx", Role: model.RoleBottom},
		{Champion: "jinx", Role: model.RoleBottom},
	}
	out, err := b.BuildMany(context.Background(), specs)
	if err != nil {
		t.Fatalf("BuildMany: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("results = %d, want one per input spec", len(out))
	}
	if src.callCount() != 1 {
		t.Errorf("source calls = %d, want 1 for three identical specs", src.callCount())
	}
	for i, s := range out {
		if s == nil || s.SampleSize != 1 {
			t.Errorf("result %d = %+v, want sample size 1", i, s)
		}
	}
}

func TestWithTTL_LeavesReceiverAlone(t *testing.T) {
	b := newTestBuilder(t, &fakeSource{})
	want := b.ttl

	bulk := b.WithTTL(7 * 24 * time.Hour)
	if bulk == b {
		t.Fatal("WithTTL should return a copy, not the receiver")
	}
	if bulk.ttl != 7*24*time.Hour {
		t.Errorf("copy ttl = %s, want 168h", bulk.ttl)
	}
	if b.ttl != want {
		t.Errorf("receiver ttl = %s, want unchanged %s", b.ttl, want)
	}
}
