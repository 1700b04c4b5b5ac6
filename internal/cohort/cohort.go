// Package cohort builds percentile distributions over (champion, role)
// populations. A cohort answers "what does p75 CS@10 look like for Jinx
// BOTTOM", sampled recency-first from stored matches and memoized in the
// cache layer.
package cohort

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/riftlens/riftlens/internal/cache"
	"github.com/riftlens/riftlens/internal/champion"
	"github.com/riftlens/riftlens/internal/config"
	"github.com/riftlens/riftlens/internal/extract"
	"github.com/riftlens/riftlens/internal/metrics"
	"github.com/riftlens/riftlens/internal/model"
)

// Spec identifies one cohort. Zero-valued optional fields fall back to the
// configured defaults during normalization.
type Spec struct {
	Champion string     `validate:"required"`
	Role     model.Role `validate:"required,oneof=TOP JUNGLE MIDDLE BOTTOM UTILITY"`

	// WinsOnly restricts the sample to winning games.
	WinsOnly bool

	// SampleSize caps the recency-biased sample. 0 uses the default.
	SampleSize int `validate:"min=0"`

	// Queues restricts queue ids. Nil uses the configured set.
	Queues []int

	// WindowStart/WindowEnd bound gameCreation. Zero values are unbounded.
	WindowStart time.Time
	WindowEnd   time.Time
}

// SourceQuery narrows a Source lookup. Bounds are gameCreation ms epochs,
// 0 meaning unbounded.
type SourceQuery struct {
	Queues  []int
	StartMS int64
	EndMS   int64
	Limit   int
}

// Source supplies candidate match documents featuring a champion in a role,
// ordered most recent first. Implemented by the sqlite store.
type Source interface {
	MatchesByChampionRole(ctx context.Context, champ string, role model.Role, q SourceQuery) ([]model.MatchDoc, error)
}

// Builder computes cohort percentiles. Safe for concurrent use.
type Builder struct {
	src      Source
	cache    cache.Cache
	ex       *extract.Extractor
	cfg      *config.Config
	ttl      time.Duration
	validate *validator.Validate
}

// NewBuilder wires a Builder over a match source and a cache. Pass cache.Nop{}
// to disable memoization.
func NewBuilder(src Source, c cache.Cache, cfg *config.Config) *Builder {
	return &Builder{
		src:      src,
		cache:    c,
		ex:       extract.New(cfg),
		cfg:      cfg,
		ttl:      cfg.Cache.CohortTTL,
		validate: validator.New(),
	}
}

// WithTTL returns a copy using a different cache TTL, for bulk call sites
// that tolerate staler distributions. The receiver keeps its own TTL.
func (b *Builder) WithTTL(ttl time.Duration) *Builder {
	nb := *b
	nb.ttl = ttl
	return &nb
}

// normalize canonicalizes the champion name and fills defaulted fields.
// Returns the effective spec without mutating the caller's copy.
func (b *Builder) normalize(s Spec) (Spec, error) {
	s.Champion = champion.Canonical(s.Champion)
	if s.SampleSize == 0 {
		s.SampleSize = b.cfg.Cohort.SampleSize
	}
	if s.SampleSize > b.cfg.Cohort.MaxSampleSize {
		return s, fmt.Errorf("%w: sample size %d exceeds max %d", model.ErrInvalidParameter, s.SampleSize, b.cfg.Cohort.MaxSampleSize)
	}
	if s.Queues == nil {
		s.Queues = b.cfg.Cohort.Queues
	}
	if err := b.validate.Struct(s); err != nil {
		return s, fmt.Errorf("%w: %v", model.ErrInvalidParameter, err)
	}
	if !s.WindowStart.IsZero() && !s.WindowEnd.IsZero() && !s.WindowStart.Before(s.WindowEnd) {
		return s, fmt.Errorf("%w: window start %s is not before end %s", model.ErrInvalidParameter, s.WindowStart.Format(time.RFC3339), s.WindowEnd.Format(time.RFC3339))
	}
	return s, nil
}

// Key is the cache key for a normalized spec: the full parameter tuple, so
// any variation produces a distinct entry.
func (s Spec) Key() string {
	qs := make([]string, len(s.Queues))
	for i, q := range s.Queues {
		qs[i] = fmt.Sprintf("%d", q)
	}
	return fmt.Sprintf("cohort|%s|%s|wins=%t|n=%d|q=%s|%d|%d",
		strings.ToLower(s.Champion), s.Role, s.WinsOnly, s.SampleSize,
		strings.Join(qs, ","), epochMS(s.WindowStart), epochMS(s.WindowEnd))
}

func epochMS(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Build computes (or recalls) the percentile distributions for one cohort.
// Cache failures degrade to misses; an empty sample yields a CohortStats with
// SampleSize 0 and no metrics rather than an error.
func (b *Builder) Build(ctx context.Context, spec Spec) (*model.CohortStats, error) {
	spec, err := b.normalize(spec)
	if err != nil {
		return nil, err
	}

	key := spec.Key()
	if raw, ok, _ := b.cache.Get(key); ok {
		var cached model.CohortStats
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	docs, err := b.src.MatchesByChampionRole(ctx, spec.Champion, spec.Role, SourceQuery{
		Queues:  spec.Queues,
		StartMS: epochMS(spec.WindowStart),
		EndMS:   epochMS(spec.WindowEnd),
		// Over-fetch so winsOnly filtering still fills the sample.
		Limit: fetchLimit(spec),
	})
	if err != nil {
		return nil, fmt.Errorf("cohort source: %w", err)
	}

	rows := b.collectRows(docs, spec)
	stats := b.summarize(spec, rows)

	if raw, err := json.Marshal(stats); err == nil {
		_ = b.cache.Set(key, raw, b.ttl)
	}
	return stats, nil
}

func fetchLimit(spec Spec) int {
	if spec.WinsOnly {
		return spec.SampleSize * 2
	}
	return spec.SampleSize
}

// collectRows extracts the rows matching the cohort's champion and role,
// applies the winsOnly filter, and truncates to the sample size. Documents
// arrive most recent first, so truncation keeps the recency bias.
func (b *Builder) collectRows(docs []model.MatchDoc, spec Spec) []model.MetricRow {
	rows := make([]model.MetricRow, 0, spec.SampleSize)
	for _, doc := range docs {
		if len(rows) >= spec.SampleSize {
			break
		}
		all, err := b.ex.Rows(doc.Match, doc.Timeline)
		if err != nil {
			continue
		}
		for _, r := range all {
			if !champion.Equal(r.Champion, spec.Champion) || r.Role != spec.Role {
				continue
			}
			if spec.WinsOnly && !r.Win {
				continue
			}
			rows = append(rows, r)
			if len(rows) >= spec.SampleSize {
				break
			}
		}
	}
	return rows
}

// summarize folds rows into the per-metric percentile distributions. Metrics
// null for every row in the sample are omitted from the map entirely.
func (b *Builder) summarize(spec Spec, rows []model.MetricRow) *model.CohortStats {
	stats := &model.CohortStats{
		Champion:   spec.Champion,
		Role:       spec.Role,
		SampleSize: len(rows),
		WinsOnly:   spec.WinsOnly,
		Metrics:    make(map[string]model.Distribution),
	}
	if len(rows) == 0 {
		return stats
	}

	values := make([]float64, 0, len(rows))
	for _, name := range metrics.RowNames {
		values = values[:0]
		for i := range rows {
			if v, ok := metrics.RowValue(&rows[i], name); ok {
				values = append(values, v)
			}
		}
		if dist, ok := Percentiles(values); ok {
			stats.Metrics[name] = dist
		}
	}

	// Win rate is distributed over per-player win rates within the sample,
	// not over 0/1 rows.
	if dist, ok := Percentiles(playerWinRates(rows)); ok {
		stats.Metrics[metrics.WinRate] = dist
	}
	return stats
}

func playerWinRates(rows []model.MetricRow) []float64 {
	type tally struct{ games, wins int }
	byPlayer := make(map[string]*tally)
	for i := range rows {
		t := byPlayer[rows[i].PUUID]
		if t == nil {
			t = &tally{}
			byPlayer[rows[i].PUUID] = t
		}
		t.games++
		if rows[i].Win {
			t.wins++
		}
	}
	rates := make([]float64, 0, len(byPlayer))
	for _, t := range byPlayer {
		rates = append(rates, float64(t.wins)/float64(t.games))
	}
	sort.Float64s(rates)
	return rates
}

// BuildMany resolves a batch of cohorts with bounded concurrency,
// deduplicating identical specs so each distinct cohort is computed once.
// Results align with the input order.
func (b *Builder) BuildMany(ctx context.Context, specs []Spec) ([]*model.CohortStats, error) {
	normalized := make([]Spec, len(specs))
	for i, s := range specs {
		ns, err := b.normalize(s)
		if err != nil {
			return nil, err
		}
		normalized[i] = ns
	}

	distinct := make(map[string]Spec)
	for _, s := range normalized {
		distinct[s.Key()] = s
	}

	var mu sync.Mutex
	results := make(map[string]*model.CohortStats, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Cohort.Concurrency)
	for key, s := range distinct {
		g.Go(func() error {
			stats, err := b.Build(gctx, s)
			if err != nil {
				return err
			}
			mu.Lock()
			results[key] = stats
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*model.CohortStats, len(normalized))
	for i, s := range normalized {
		out[i] = results[s.Key()]
	}
	return out, nil
}
