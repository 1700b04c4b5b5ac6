// Package badge classifies a player's rollup against a versioned catalog of
// threshold predicates. The catalog is static configuration embedded at build
// time, so it can evolve without touching the evaluation engine.
package badge

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Condition is one thresholded comparison. Exactly one of Value or Percentile
// applies: a literal threshold, or a cohort percentile edge (p50/p75/p90/p95)
// of the same metric.
type Condition struct {
	Metric     string  `koanf:"metric" validate:"required"`
	Op         string  `koanf:"op" validate:"required,oneof=ge le"`
	Value      float64 `koanf:"value"`
	Percentile string  `koanf:"percentile" validate:"omitempty,oneof=p50 p75 p90 p95"`
}

// Badge is one named classification rule. Mode "all" requires every condition
// to hold, "any" requires at least one.
type Badge struct {
	Name        string      `koanf:"name" validate:"required"`
	Description string      `koanf:"description" validate:"required"`
	Mode        string      `koanf:"mode" validate:"required,oneof=all any"`
	Conditions  []Condition `koanf:"conditions" validate:"required,min=1,dive"`
}

// Catalog is the full versioned badge set.
type Catalog struct {
	Version int     `koanf:"version" validate:"required,min=1"`
	Badges  []Badge `koanf:"badges" validate:"required,min=1,dive"`
}

// LoadCatalog parses and validates the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return parseCatalog(catalogYAML)
}

func parseCatalog(raw []byte) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parse badge catalog: %w", err)
	}
	var c Catalog
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("unmarshal badge catalog: %w", err)
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid badge catalog: %w", err)
	}
	return &c, nil
}
