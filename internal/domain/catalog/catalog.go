// Package catalog holds the static, read-only table of botanical care
// parameters for every supported plant species.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed species.yaml
var defaultSpeciesYAML []byte

// Common errors
var (
	ErrEmptyName    = errors.New("species name cannot be empty")
	ErrDuplicate    = errors.New("duplicate species entry")
	ErrInvalidLimit = errors.New("max germination days must be positive")
)

// Species describes the care parameters of a single plant species.
type Species struct {
	Name                string `yaml:"name" json:"name"`
	Germination         string `yaml:"germination" json:"germination"`
	MaxGerminationDays  int    `yaml:"max_germination_days" json:"max_germination_days"`
	Temperature         string `yaml:"temperature" json:"temperature"`
	SpecialConditions   string `yaml:"special_conditions" json:"special_conditions"`
	Soil                string `yaml:"soil" json:"soil"`
	Watering            string `yaml:"watering" json:"watering"`
	Lighting            string `yaml:"lighting" json:"lighting"`
	MaturityAge         string `yaml:"maturity_age" json:"maturity_age"`
	FertilizerType      string `yaml:"fertilizer_type" json:"fertilizer_type"`
	FertilizerFrequency string `yaml:"fertilizer_frequency" json:"fertilizer_frequency"`
	Flowering           string `yaml:"flowering" json:"flowering"`
	FloweringConditions string `yaml:"flowering_conditions" json:"flowering_conditions"`
	Toxicity            string `yaml:"toxicity" json:"toxicity"`
}

// Key returns the normalized lookup key of the species.
func (s Species) Key() string {
	return NormalizeKey(s.Name)
}

// Catalog is an immutable, case-insensitive index of species.
// It is safe for concurrent use.
type Catalog struct {
	species []Species
	byKey   map[string]int
}

// NormalizeKey trims surrounding whitespace and lowercases a species name.
// Every lookup and every per-species cache in the application keys on this form.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a catalog from the given entries, preserving their order.
func New(entries []Species) (*Catalog, error) {
	c := &Catalog{
		species: make([]Species, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}

	for i, s := range entries {
		key := s.Key()
		if key == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		}
		if s.MaxGerminationDays <= 0 {
			return nil, fmt.Errorf("entry %q: %w", s.Name, ErrInvalidLimit)
		}
		if _, exists := c.byKey[key]; exists {
			return nil, fmt.Errorf("entry %q: %w", s.Name, ErrDuplicate)
		}
		c.byKey[key] = len(c.species)
		c.species = append(c.species, s)
	}

	return c, nil
}

// Parse decodes a YAML list of species into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var entries []Species
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode species catalog: %w", err)
	}
	return New(entries)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog compiled into the binary. It is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(defaultSpeciesYAML)
	})
	return defaultCatalog, defaultErr
}

// Lookup finds a species by name. Matching ignores case and surrounding
// whitespace. The boolean is false when the species is unknown.
func (c *Catalog) Lookup(name string) (Species, bool) {
	idx, ok := c.byKey[NormalizeKey(name)]
	if !ok {
		return Species{}, false
	}
	return c.species[idx], true
}

// Contains reports whether the named species is in the catalog.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byKey[NormalizeKey(name)]
	return ok
}

// All returns a copy of every species in catalog order.
func (c *Catalog) All() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.species)
}
