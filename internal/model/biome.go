package model

// Biome is a terrain classification controlling which species may spawn.
type Biome string

const (
	BiomeRainforest Biome = "Rainforest"
	BiomeTaiga      Biome = "Taiga"
	BiomeForest     Biome = "Forest"
	BiomeDesert     Biome = "Desert"
	BiomeGrassland  Biome = "Grassland"
	BiomeUrban      Biome = "Urban"
)

// Rarity is the discrete label controlling a species' sampling weight.
type Rarity string

const (
	RarityLegendary Rarity = "Legendary"
	RarityMythic    Rarity = "Mythic"
	RarityEpic      Rarity = "Epic"
	RarityRare      Rarity = "Rare"
	RarityUncommon  Rarity = "Uncommon"
	RarityCommon    Rarity = "Common"
)

// Rarities lists every rarity from rarest to most common.
func Rarities() []Rarity {
	return []Rarity{
		RarityLegendary,
		RarityMythic,
		RarityEpic,
		RarityRare,
		RarityUncommon,
		RarityCommon,
	}
}
