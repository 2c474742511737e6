// Package catalog holds the static species, biome and rarity tables.
//
// A Catalog is built once at startup and never mutated; components receive it
// explicitly instead of consulting package-level maps.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/geospawn/internal/model"
)

// ErrInvalidTables is wrapped by every validation failure in New.
var ErrInvalidTables = errors.New("invalid catalog tables")

// Tables is the serialisable form of the catalog.
type Tables struct {
	DefaultBiome  model.Biome              `yaml:"default_biome"`
	RarityWeights map[model.Rarity]int     `yaml:"rarity_weights"`
	Species       map[string]model.Rarity  `yaml:"species"`
	Biomes        map[model.Biome][]string `yaml:"biomes"`
}

// Catalog is the immutable, validated view of Tables.
type Catalog struct {
	defaultBiome model.Biome
	weights      map[model.Rarity]int
	species      map[string]model.Rarity
	biomes       map[model.Biome][]string
}

// New validates t and returns a Catalog holding private copies of its maps.
func New(t Tables) (*Catalog, error) {
	if len(t.Biomes) == 0 {
		return nil, fmt.Errorf("%w: no biomes", ErrInvalidTables)
	}
	for biome, pool := range t.Biomes {
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w: biome %q has an empty species pool", ErrInvalidTables, biome)
		}
	}
	if _, ok := t.Biomes[t.DefaultBiome]; !ok {
		return nil, fmt.Errorf("%w: default biome %q has no species pool", ErrInvalidTables, t.DefaultBiome)
	}
	if w, ok := t.RarityWeights[model.RarityCommon]; !ok || w <= 0 {
		return nil, fmt.Errorf("%w: Common weight must be positive", ErrInvalidTables)
	}
	for rarity, w := range t.RarityWeights {
		if w <= 0 {
			return nil, fmt.Errorf("%w: weight for %q must be positive, got %d", ErrInvalidTables, rarity, w)
		}
	}
	for species, rarity := range t.Species {
		if _, ok := t.RarityWeights[rarity]; !ok {
			return nil, fmt.Errorf("%w: species %q uses rarity %q with no weight", ErrInvalidTables, species, rarity)
		}
	}

	c := &Catalog{
		defaultBiome: t.DefaultBiome,
		weights:      make(map[model.Rarity]int, len(t.RarityWeights)),
		species:      make(map[string]model.Rarity, len(t.Species)),
		biomes:       make(map[model.Biome][]string, len(t.Biomes)),
	}
	for k, v := range t.RarityWeights {
		c.weights[k] = v
	}
	for k, v := range t.Species {
		c.species[k] = v
	}
	for k, v := range t.Biomes {
		c.biomes[k] = slices.Clone(v)
	}
	return c, nil
}

// DefaultBiome is the biome used when the lookup fails or returns an unknown tag.
func (c *Catalog) DefaultBiome() model.Biome {
	return c.defaultBiome
}

// Resolve maps a raw biome tag to a known biome.
// ok is false when the tag is empty or unknown; the default biome is returned then.
func (c *Catalog) Resolve(tag string) (biome model.Biome, ok bool) {
	b := model.Biome(tag)
	if _, known := c.biomes[b]; known {
		return b, true
	}
	return c.defaultBiome, false
}

// Pool returns the ordered species pool for biome. The slice must not be modified.
func (c *Catalog) Pool(biome model.Biome) ([]string, bool) {
	pool, ok := c.biomes[biome]
	return pool, ok
}

// Biomes returns every configured biome in sorted order.
func (c *Catalog) Biomes() []model.Biome {
	out := make([]model.Biome, 0, len(c.biomes))
	for b := range c.biomes {
		out = append(out, b)
	}
	slices.Sort(out)
	return out
}

// Rarity returns the registered rarity of species, Common when unregistered.
func (c *Catalog) Rarity(species string) model.Rarity {
	if r, ok := c.species[species]; ok {
		return r
	}
	return model.RarityCommon
}

// Weight returns the sampling weight for rarity, the Common weight when unregistered.
func (c *Catalog) Weight(rarity model.Rarity) int {
	if w, ok := c.weights[rarity]; ok {
		return w
	}
	return c.weights[model.RarityCommon]
}

// SpeciesWeight is Weight(Rarity(species)).
func (c *Catalog) SpeciesWeight(species string) int {
	return c.Weight(c.Rarity(species))
}

// Load reads Tables from a YAML file.
// If the file doesn't exist, returns the built-in tables.
func Load(path string) (*Catalog, error) {
	t := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(t)
		}
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	t.merge(override)

	c, err := New(t)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// merge overlays non-empty sections of o onto t. Sections replace, not extend.
func (t *Tables) merge(o Tables) {
	if o.DefaultBiome != "" {
		t.DefaultBiome = o.DefaultBiome
	}
	if len(o.RarityWeights) > 0 {
		t.RarityWeights = o.RarityWeights
	}
	if len(o.Species) > 0 {
		t.Species = o.Species
	}
	if len(o.Biomes) > 0 {
		t.Biomes = o.Biomes
	}
}
