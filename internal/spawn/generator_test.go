package spawn

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geospawn/internal/catalog"
	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
)

var (
	singapore = model.NewCoordinate(1.3521, 103.8198)
	jakarta   = model.NewCoordinate(-6.2088, 106.8456)
	manila    = model.NewCoordinate(14.5995, 120.9842)
	cycleTime = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
)

func newTestGenerator(t *testing.T, store *fakeStore, seed uint64, mutate ...func(*Config)) *Generator {
	t.Helper()
	cfg := DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	g, err := NewGenerator(cfg, catalog.Default(), store, NewSeededRand(seed, seed+1))
	require.NoError(t, err)
	return g
}

func anchorAt(id string, c model.Coordinate) model.Anchor {
	return model.Anchor{PlayerID: id, Location: c, UpdatedAt: cycleTime.Add(-time.Minute)}
}

func TestGenerator_UrbanScenario(t *testing.T) {
	cat := catalog.Default()
	pool, _ := cat.Pool(model.BiomeUrban)
	seen := make(map[int]bool)

	for seed := range uint64(60) {
		store := newFakeStore()
		store.anchors = []model.Anchor{anchorAt("p1", singapore)}
		store.biome = "Urban"
		store.count = 8

		summary := newTestGenerator(t, store, seed).RunCycle(context.Background(), cycleTime)
		require.NoError(t, summary.Err)
		require.Len(t, summary.Results, 1)

		res := summary.Results[0]
		assert.Equal(t, StatusSpawned, res.Status)
		assert.Equal(t, 2, res.Budget)
		assert.False(t, res.BiomeFallback)
		require.Equal(t, 1, store.insertCount(), "one write per anchor")

		n := len(res.Spawned)
		require.Contains(t, []int{1, 2}, n)
		seen[n] = true

		for _, s := range res.Spawned {
			assert.Contains(t, pool, s.Species)
			assert.Equal(t, model.BiomeUrban, s.Biome)
			assert.Equal(t, cat.Rarity(s.Species), s.Rarity)
			assert.True(t, s.ExpiresAt.After(s.AppearsAt))
			assert.False(t, s.AppearsAt.Before(cycleTime.Add(-time.Minute)))
			assert.False(t, s.AppearsAt.After(cycleTime.Add(time.Minute)))
			assert.LessOrEqual(t, geo.HaversineKm(singapore, s.Location), 0.3*1.005)
			assert.NotEqual(t, [16]byte{}, [16]byte(s.ID))
		}
	}

	assert.True(t, seen[1] && seen[2], "both batch sizes should occur, saw %v", seen)
}

func TestGenerator_UnknownBiomeFallsBack(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("p1", singapore)}
	store.biome = "Swamp"

	summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)
	require.NoError(t, summary.Err)

	res := summary.Results[0]
	assert.Equal(t, StatusSpawned, res.Status)
	assert.Equal(t, model.BiomeUrban, res.Biome)
	assert.True(t, res.BiomeFallback)
	for _, s := range res.Spawned {
		assert.Equal(t, model.BiomeUrban, s.Biome)
	}
}

func TestGenerator_BiomeLookupErrorFallsBack(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("p1", singapore)}
	store.biomeErr = errStoreDown

	summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)

	res := summary.Results[0]
	assert.Equal(t, StatusSpawned, res.Status)
	assert.Equal(t, model.BiomeUrban, res.Biome)
	assert.True(t, res.BiomeFallback)
}

func TestGenerator_UsesResolvedBiomePool(t *testing.T) {
	cat := catalog.Default()
	pool, _ := cat.Pool(model.BiomeTaiga)

	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("p1", singapore)}
	store.biome = "Taiga"

	summary := newTestGenerator(t, store, 3).RunCycle(context.Background(), cycleTime)

	res := summary.Results[0]
	require.NotEmpty(t, res.Spawned)
	for _, s := range res.Spawned {
		assert.Contains(t, pool, s.Species)
		assert.Equal(t, model.BiomeTaiga, s.Biome)
	}
}

func TestGenerator_NoBudgetNoWrite(t *testing.T) {
	for _, count := range []int{10, 11, 25} {
		store := newFakeStore()
		store.anchors = []model.Anchor{anchorAt("p1", singapore)}
		store.count = count

		summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)

		res := summary.Results[0]
		assert.Equal(t, StatusSkipped, res.Status)
		assert.Equal(t, ReasonAtCapacity, res.Reason)
		assert.Empty(t, res.Spawned)
		assert.Zero(t, store.insertCount(), "count=%d", count)
	}
}

func TestGenerator_BatchNeverExceedsLimits(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("p1", singapore)}
	g := newTestGenerator(t, store, 11)

	for i := range 200 {
		summary := g.RunCycle(context.Background(), cycleTime.Add(time.Duration(i)*time.Second))
		n := len(summary.Results[0].Spawned)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 5)
	}
}

func TestGenerator_EmptyAnchorsStillExpires(t *testing.T) {
	store := newFakeStore()
	store.spawns = []model.Spawn{{ExpiresAt: cycleTime.Add(-time.Second)}}

	summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)

	require.NoError(t, summary.Err)
	assert.EqualValues(t, 1, summary.Expired)
	assert.Zero(t, summary.Anchors)
	assert.Empty(t, summary.Results)
	assert.Equal(t, []time.Time{cycleTime}, store.deleteCalls)
	assert.Equal(t, []time.Time{cycleTime.Add(-5 * time.Minute)}, store.sinceCalls)
}

func TestGenerator_FailuresAreIsolatedPerAnchor(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{
		anchorAt("density-broken", singapore),
		anchorAt("write-broken", jakarta),
		anchorAt("healthy", manila),
	}
	store.countErr[singapore] = errStoreDown
	store.insertErr[jakarta] = errStoreDown
	store.deleteErr = errStoreDown

	summary := newTestGenerator(t, store, 7).RunCycle(context.Background(), cycleTime)

	require.NoError(t, summary.Err)
	assert.ErrorIs(t, summary.ExpireErr, errStoreDown)
	require.Len(t, summary.Results, 3)

	assert.Equal(t, StatusFailed, summary.Results[0].Status)
	assert.Equal(t, ReasonDensityFailed, summary.Results[0].Reason)
	assert.ErrorIs(t, summary.Results[0].Err, errStoreDown)

	assert.Equal(t, StatusFailed, summary.Results[1].Status)
	assert.Equal(t, ReasonWriteFailed, summary.Results[1].Reason)

	assert.Equal(t, StatusSpawned, summary.Results[2].Status)
	assert.Equal(t, "healthy", summary.Results[2].AnchorID)
	assert.Equal(t, len(summary.Results[2].Spawned), summary.SpawnedCount())
	assert.Equal(t, 2, summary.CountByStatus(StatusFailed))
}

func TestGenerator_PolarAnchorSkipped(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("north-pole", model.NewCoordinate(90, 0))}

	summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)

	res := summary.Results[0]
	assert.Equal(t, StatusSkipped, res.Status)
	assert.Equal(t, ReasonBadLocation, res.Reason)
	assert.ErrorIs(t, res.Err, geo.ErrDegenerateLatitude)
	assert.Zero(t, store.insertCount())
}

func TestGenerator_AnchorListingError(t *testing.T) {
	store := newFakeStore()
	store.anchorsErr = errStoreDown

	summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)

	assert.ErrorIs(t, summary.Err, errStoreDown)
	assert.Len(t, store.deleteCalls, 1, "cleanup runs before anchors are listed")
}

func TestGenerator_RecoversPanics(t *testing.T) {
	t.Run("cycle level", func(t *testing.T) {
		store := newFakeStore()
		store.panicOn = "ActiveAnchors"

		var summary CycleSummary
		require.NotPanics(t, func() {
			summary = newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)
		})
		assert.ErrorContains(t, summary.Err, "cycle panic")
	})

	t.Run("anchor level", func(t *testing.T) {
		store := newFakeStore()
		store.anchors = []model.Anchor{anchorAt("p1", singapore)}
		store.panicOn = "CountActiveNearby"

		summary := newTestGenerator(t, store, 1).RunCycle(context.Background(), cycleTime)
		require.NoError(t, summary.Err)
		assert.Equal(t, StatusFailed, summary.Results[0].Status)
		assert.ErrorContains(t, summary.Results[0].Err, "anchor panic")
	})
}

func TestGenerator_ConcurrentAnchorsKeepOrder(t *testing.T) {
	store := newFakeStore()
	for i := range 20 {
		c := model.NewCoordinate(float64(i), float64(i))
		store.anchors = append(store.anchors, anchorAt(string(rune('a'+i)), c))
	}

	g := newTestGenerator(t, store, 5, func(c *Config) { c.AnchorWorkers = 4 })
	summary := g.RunCycle(context.Background(), cycleTime)

	require.Len(t, summary.Results, 20)
	for i, res := range summary.Results {
		assert.Equal(t, string(rune('a'+i)), res.AnchorID)
		assert.Equal(t, StatusSpawned, res.Status)
	}
	assert.Equal(t, 20, store.insertCount())
}

func TestGenerator_CanceledContextSkipsAnchors(t *testing.T) {
	store := newFakeStore()
	store.anchors = []model.Anchor{anchorAt("p1", singapore)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := newTestGenerator(t, store, 1).RunCycle(ctx, cycleTime)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, ReasonCanceled, summary.Results[0].Reason)
	assert.Zero(t, store.insertCount())
}

func TestNewGenerator_RejectsInvalidInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpawns = 0
	_, err := NewGenerator(cfg, catalog.Default(), newFakeStore(), NewSeededRand(1, 1))
	assert.Error(t, err)

	_, err = NewGenerator(DefaultConfig(), nil, newFakeStore(), NewSeededRand(1, 1))
	assert.Error(t, err)

	_, err = NewGenerator(DefaultConfig(), catalog.Default(), nil, NewSeededRand(1, 1))
	assert.Error(t, err)
}
