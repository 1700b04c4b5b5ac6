// Package config loads engine configuration: tunable map-geometry constants,
// early-window cutoffs, cohort sampling defaults, and cache TTLs.
//
// Defaults are defined in code, overridden by an optional YAML file, then by
// RIFTLENS_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// RIFTLENS_COHORT_SAMPLE_SIZE=500 or RIFTLENS_RIOT_API_KEY=RGAPI-....
const EnvPrefix = "RIFTLENS_"

// envKeys maps each RIFTLENS_* variable (prefix stripped, lowercased) to its
// config path. Key segments contain underscores themselves, so the mapping
// has to be explicit; a naive underscore-to-delimiter rewrite cannot tell
// RIOT_API_KEY apart from a three-level path. Unlisted variables are ignored.
var envKeys = map[string]string{
	"zones_map_size":         "zones.map_size",
	"zones_lane_edge_width":  "zones.lane_edge_width",
	"zones_mid_lane_width":   "zones.mid_lane_width",
	"zones_river_width":      "zones.river_width",
	"window_early_minutes":   "window.early_minutes",
	"cohort_sample_size":     "cohort.sample_size",
	"cohort_max_sample_size": "cohort.max_sample_size",
	"cohort_queues":          "cohort.queues",
	"cohort_concurrency":     "cohort.concurrency",
	"cache_cohort_ttl":       "cache.cohort_ttl",
	"cache_rollup_ttl":       "cache.rollup_ttl",
	"cache_bulk_cohort_ttl":  "cache.bulk_cohort_ttl",
	"riot_api_key":           "riot.api_key",
	"riot_region":            "riot.region",
	"riot_timeout":           "riot.timeout",
}

// Config is the full engine configuration tree.
type Config struct {
	Zones  ZoneConfig   `koanf:"zones"`
	Window WindowConfig `koanf:"window"`
	Cohort CohortConfig `koanf:"cohort"`
	Cache  CacheConfig  `koanf:"cache"`
	Riot   RiotConfig   `koanf:"riot"`
}

// ZoneConfig holds the geometric lane-zoning heuristic constants. These are
// tunable approximations with no validated derivation; the classifier treats
// them as configuration, not as fixed truths.
type ZoneConfig struct {
	// MapSize is the side length of Summoner's Rift in world units.
	MapSize float64 `koanf:"map_size"`
	// LaneEdgeWidth is the width of the top/bottom lane bands along the map
	// edges.
	LaneEdgeWidth float64 `koanf:"lane_edge_width"`
	// MidLaneWidth is the half-width of the mid-lane band around the main
	// diagonal y = x.
	MidLaneWidth float64 `koanf:"mid_lane_width"`
	// RiverWidth is the half-width of the river band around the
	// anti-diagonal x + y = MapSize.
	RiverWidth float64 `koanf:"river_width"`
}

// WindowConfig holds event-time cutoffs for early-game counters.
type WindowConfig struct {
	// EarlyMinutes bounds "early game" counters (deaths, solo kills, ward
	// kills, gank classification). Call sites wanting a 10:00 window pass an
	// override; 15:00 is the default.
	EarlyMinutes int `koanf:"early_minutes"`
}

// CohortConfig holds cohort sampling defaults.
type CohortConfig struct {
	// SampleSize is the default recency-biased sample size.
	SampleSize int `koanf:"sample_size"`
	// MaxSampleSize bounds caller-supplied sample sizes.
	MaxSampleSize int `koanf:"max_sample_size"`
	// Queues are the queue ids admitted into cohorts (420 solo, 440 flex,
	// 400 normal draft).
	Queues []int `koanf:"queues"`
	// Concurrency bounds parallel cohort builds in batch lookups.
	Concurrency int `koanf:"concurrency"`
}

// CacheConfig holds memoization TTLs per call site.
type CacheConfig struct {
	// CohortTTL covers cohort percentile distributions.
	CohortTTL time.Duration `koanf:"cohort_ttl"`
	// RollupTTL covers player rollups and badge results.
	RollupTTL time.Duration `koanf:"rollup_ttl"`
	// BulkCohortTTL covers offline/bulk recomputation call sites that
	// tolerate week-old distributions.
	BulkCohortTTL time.Duration `koanf:"bulk_cohort_ttl"`
}

// RiotConfig holds Match-V5 client settings.
type RiotConfig struct {
	APIKey  string        `koanf:"api_key"`
	Region  string        `koanf:"region"` // routing region: americas, europe, asia, sea
	Timeout time.Duration `koanf:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Zones: ZoneConfig{
			MapSize:       14870,
			LaneEdgeWidth: 1800,
			MidLaneWidth:  1000,
			RiverWidth:    1000,
		},
		Window: WindowConfig{
			EarlyMinutes: 15,
		},
		Cohort: CohortConfig{
			SampleSize:    100,
			MaxSampleSize: 1000,
			Queues:        []int{420, 440, 400},
			Concurrency:   5,
		},
		Cache: CacheConfig{
			CohortTTL:     30 * time.Minute,
			RollupTTL:     24 * time.Hour,
			BulkCohortTTL: 7 * 24 * time.Hour,
		},
		Riot: RiotConfig{
			Region:  "americas",
			Timeout: 10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides, in that order. An empty path skips the file layer;
// a named-but-missing file is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) check() error {
	if c.Zones.MapSize <= 0 {
		return fmt.Errorf("zones.map_size must be positive")
	}
	if c.Window.EarlyMinutes <= 0 {
		return fmt.Errorf("window.early_minutes must be positive")
	}
	if c.Cohort.SampleSize <= 0 || c.Cohort.SampleSize > c.Cohort.MaxSampleSize {
		return fmt.Errorf("cohort.sample_size must be in (0, %d]", c.Cohort.MaxSampleSize)
	}
	if c.Cohort.Concurrency <= 0 {
		return fmt.Errorf("cohort.concurrency must be positive")
	}
	return nil
}
