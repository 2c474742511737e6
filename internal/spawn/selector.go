package spawn

import (
	"sort"

	"github.com/udisondev/geospawn/internal/catalog"
	"github.com/udisondev/geospawn/internal/model"
)

// weightedPool is a biome's species pool with precomputed cumulative weights.
type weightedPool struct {
	species    []string
	rarities   []model.Rarity
	cumulative []int
	total      int
}

// Selector performs rarity-weighted species draws per biome.
type Selector struct {
	pools        map[model.Biome]*weightedPool
	defaultBiome model.Biome
}

// NewSelector precomputes the weighted pools for every biome in cat.
func NewSelector(cat *catalog.Catalog) *Selector {
	s := &Selector{
		pools:        make(map[model.Biome]*weightedPool),
		defaultBiome: cat.DefaultBiome(),
	}
	for _, biome := range cat.Biomes() {
		species, _ := cat.Pool(biome)
		p := &weightedPool{
			species:    species,
			rarities:   make([]model.Rarity, len(species)),
			cumulative: make([]int, len(species)),
		}
		for i, sp := range species {
			r := cat.Rarity(sp)
			p.rarities[i] = r
			p.total += cat.Weight(r)
			p.cumulative[i] = p.total
		}
		s.pools[biome] = p
	}
	return s
}

// Select draws one species from biome's pool with probability weight/total.
// An unknown biome draws from the default biome.
func (s *Selector) Select(rng Rand, biome model.Biome) (string, model.Rarity) {
	p, ok := s.pools[biome]
	if !ok {
		p = s.pools[s.defaultBiome]
	}
	roll := rng.IntN(p.total)
	i := sort.Search(len(p.cumulative), func(i int) bool { return p.cumulative[i] > roll })
	return p.species[i], p.rarities[i]
}

// Probability returns the exact selection probability of species in biome.
func (s *Selector) Probability(biome model.Biome, species string) float64 {
	p, ok := s.pools[biome]
	if !ok {
		return 0
	}
	prev := 0
	weight := 0
	for i, sp := range p.species {
		if sp == species {
			weight += p.cumulative[i] - prev
		}
		prev = p.cumulative[i]
	}
	return float64(weight) / float64(p.total)
}
