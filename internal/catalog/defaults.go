package catalog

import "github.com/udisondev/geospawn/internal/model"

// DefaultTables returns the built-in squirrel tables.
func DefaultTables() Tables {
	return Tables{
		DefaultBiome: model.BiomeUrban,
		RarityWeights: map[model.Rarity]int{
			model.RarityLegendary: 1,
			model.RarityMythic:    2,
			model.RarityEpic:      3,
			model.RarityRare:      4,
			model.RarityUncommon:  6,
			model.RarityCommon:    8,
		},
		Species: map[string]model.Rarity{
			"aberts-squirrel":                model.RarityEpic,
			"arctic-ground-squirrel":         model.RarityRare,
			"black-giant-squirrel":           model.RarityRare,
			"bobak-marmot":                   model.RarityMythic,
			"douglas-squirrel":               model.RarityRare,
			"fox-squirrel":                   model.RarityUncommon,
			"golden-mantled-ground-squirrel": model.RarityRare,
			"gray-squirrel":                  model.RarityCommon,
			"harriss-antelope-squirrel":      model.RarityUncommon,
			"humboldts-flying-squirrel":      model.RarityCommon,
			"least-chipmunk":                 model.RarityCommon,
			"least-pygmy-squirrel":           model.RarityEpic,
			"long-clawed-ground-squirrel":    model.RarityMythic,
			"northern-flying-squirrel":       model.RarityUncommon,
			"pallass-squirrel":               model.RarityLegendary,
			"plantain-squirrel":              model.RarityCommon,
			"prevosts-squirrel":              model.RarityUncommon,
			"red-tailed-squirrel":            model.RarityCommon,
			"richardsons-ground-squirrel":    model.RarityUncommon,
			"rock-squirrel":                  model.RarityCommon,
			"spotted-ground-squirrel":        model.RarityCommon,
			"thirteen-lined-ground-squirrel": model.RarityUncommon,
			"tufted-ground-squirrel":         model.RarityEpic,
			"variegated-squirrel":            model.RarityCommon,
		},
		Biomes: map[model.Biome][]string{
			model.BiomeRainforest: {
				"black-giant-squirrel", "prevosts-squirrel", "red-tailed-squirrel",
				"least-pygmy-squirrel", "tufted-ground-squirrel", "plantain-squirrel",
			},
			model.BiomeTaiga: {
				"arctic-ground-squirrel", "douglas-squirrel", "northern-flying-squirrel",
			},
			model.BiomeForest: {
				"black-giant-squirrel", "douglas-squirrel", "aberts-squirrel",
				"humboldts-flying-squirrel", "variegated-squirrel", "least-chipmunk",
				"gray-squirrel", "fox-squirrel", "pallass-squirrel",
			},
			model.BiomeDesert: {
				"harriss-antelope-squirrel", "rock-squirrel", "long-clawed-ground-squirrel",
			},
			model.BiomeGrassland: {
				"harriss-antelope-squirrel", "spotted-ground-squirrel", "richardsons-ground-squirrel",
				"golden-mantled-ground-squirrel", "thirteen-lined-ground-squirrel", "bobak-marmot",
			},
			model.BiomeUrban: {
				"thirteen-lined-ground-squirrel", "least-chipmunk", "gray-squirrel",
				"fox-squirrel", "pallass-squirrel", "plantain-squirrel",
			},
		},
	}
}

// Default returns the built-in catalog. The built-in tables are known valid.
func Default() *Catalog {
	c, err := New(DefaultTables())
	if err != nil {
		panic("catalog: built-in tables invalid: " + err.Error())
	}
	return c
}
