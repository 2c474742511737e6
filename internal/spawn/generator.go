package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/geospawn/internal/catalog"
	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
)

// Generator runs generation cycles: expire stale spawns, then fill the
// neighbourhood of every recently active player up to the population cap.
type Generator struct {
	cfg     Config
	catalog *catalog.Catalog
	store   Store
	rng     Rand

	selector  *Selector
	scheduler *Scheduler
	capacity  *Capacity
	lifecycle *Lifecycle

	newID func() uuid.UUID
}

// NewGenerator wires the pipeline components around store.
func NewGenerator(cfg Config, cat *catalog.Catalog, store Store, rng Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errors.New("nil catalog")
	}
	if store == nil {
		return nil, errors.New("nil store")
	}
	if rng == nil {
		return nil, errors.New("nil random source")
	}

	return &Generator{
		cfg:       cfg,
		catalog:   cat,
		store:     store,
		rng:       synchronized(rng),
		selector:  NewSelector(cat),
		scheduler: NewScheduler(cfg),
		capacity:  NewCapacity(store, cfg.SearchRadiusKm, cfg.MaxSpawns),
		lifecycle: NewLifecycle(store),
		newID:     uuid.New,
	}, nil
}

// RunCycle performs one generation pass at now. It never returns an error:
// every failure is recorded in the summary and logged.
func (g *Generator) RunCycle(ctx context.Context, now time.Time) (summary CycleSummary) {
	started := time.Now()
	summary.StartedAt = now

	defer func() {
		if r := recover(); r != nil {
			summary.Err = fmt.Errorf("cycle panic: %v", r)
			slog.Error("spawn cycle panicked", "panic", r)
		}
		summary.Duration = time.Since(started)
	}()

	expired, err := g.lifecycle.ExpireNow(ctx, now)
	if err != nil {
		summary.ExpireErr = err
		slog.Error("cleanup failed", "error", err)
	}
	summary.Expired = expired

	anchors, err := g.store.ActiveAnchors(ctx, now.Add(-g.cfg.ActiveWindow))
	if err != nil {
		summary.Err = fmt.Errorf("loading active anchors: %w", err)
		slog.Error("spawn cycle failed", "error", summary.Err)
		return summary
	}
	summary.Anchors = len(anchors)
	if len(anchors) == 0 {
		return summary
	}

	summary.Results = g.processAnchors(ctx, anchors, now)

	slog.Info("spawn cycle finished",
		"anchors", summary.Anchors,
		"spawned", summary.SpawnedCount(),
		"skipped", summary.CountByStatus(StatusSkipped),
		"failed", summary.CountByStatus(StatusFailed),
		"expired", summary.Expired,
		"duration", time.Since(started))

	return summary
}

// processAnchors runs every anchor sequentially, or on a bounded errgroup
// when AnchorWorkers > 1. Results keep the anchor order either way.
func (g *Generator) processAnchors(ctx context.Context, anchors []model.Anchor, now time.Time) []AnchorResult {
	results := make([]AnchorResult, len(anchors))

	if g.cfg.AnchorWorkers <= 1 {
		for i, a := range anchors {
			results[i] = g.processAnchor(ctx, a, now)
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(g.cfg.AnchorWorkers)
	for i, a := range anchors {
		eg.Go(func() error {
			results[i] = g.processAnchor(ctx, a, now)
			return nil
		})
	}
	_ = eg.Wait() // workers never return errors
	return results
}

func (g *Generator) processAnchor(ctx context.Context, a model.Anchor, now time.Time) (res AnchorResult) {
	res.AnchorID = a.PlayerID

	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Err = fmt.Errorf("anchor panic: %v", r)
			res.Spawned = nil
			slog.Error("anchor processing panicked", "anchor", a.PlayerID, "panic", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Status, res.Reason, res.Err = StatusSkipped, ReasonCanceled, err
		return res
	}

	res.Biome, res.BiomeFallback = g.resolveBiome(ctx, a)

	budget, err := g.capacity.RemainingBudget(ctx, a.Location)
	if err != nil {
		res.Status, res.Reason, res.Err = StatusFailed, ReasonDensityFailed, err
		slog.Warn("population check failed", "anchor", a.PlayerID, "error", err)
		return res
	}
	res.Budget = budget
	if budget <= 0 {
		res.Status, res.Reason = StatusSkipped, ReasonAtCapacity
		return res
	}

	count := 1 + g.rng.IntN(min(g.cfg.MaxPerBatch, budget))
	batch := make([]model.Spawn, 0, count)
	for range count {
		s, err := g.generateOne(a, res.Biome, now)
		if err != nil {
			res.Status, res.Reason, res.Err = StatusSkipped, ReasonBadLocation, err
			slog.Debug("anchor location unusable", "anchor", a.PlayerID, "location", a.Location, "error", err)
			return res
		}
		batch = append(batch, s)
	}

	if err := g.store.InsertSpawns(ctx, batch); err != nil {
		res.Status, res.Reason, res.Err = StatusFailed, ReasonWriteFailed, err
		slog.Warn("spawn batch write failed", "anchor", a.PlayerID, "count", len(batch), "error", err)
		return res
	}

	res.Status = StatusSpawned
	res.Spawned = batch
	slog.Debug("spawns generated",
		"anchor", a.PlayerID,
		"biome", res.Biome,
		"budget", budget,
		"count", len(batch))
	return res
}

// resolveBiome looks up the anchor's biome, falling back to the default biome
// on lookup failure or an unrecognised tag.
func (g *Generator) resolveBiome(ctx context.Context, a model.Anchor) (model.Biome, bool) {
	tag, err := g.store.BiomeAt(ctx, a.Location)
	if err != nil {
		slog.Warn("biome lookup failed, using default",
			"anchor", a.PlayerID,
			"default", g.catalog.DefaultBiome(),
			"error", err)
		return g.catalog.DefaultBiome(), true
	}
	biome, ok := g.catalog.Resolve(tag)
	if !ok && tag != "" {
		slog.Debug("unknown biome, using default", "anchor", a.PlayerID, "biome", tag, "default", biome)
	}
	return biome, !ok
}

// generateOne assembles a single candidate spawn around the anchor.
// ref is shared by the whole batch.
func (g *Generator) generateOne(a model.Anchor, biome model.Biome, ref time.Time) (model.Spawn, error) {
	loc, err := geo.SampleNearby(g.rng, a.Location, g.cfg.SearchRadiusKm)
	if err != nil {
		return model.Spawn{}, fmt.Errorf("sampling around %v: %w", a.Location, err)
	}
	species, rarity := g.selector.Select(g.rng, biome)
	appears, expires := g.scheduler.Schedule(g.rng, ref)

	return model.Spawn{
		ID:        g.newID(),
		Species:   species,
		Location:  loc,
		AppearsAt: appears,
		ExpiresAt: expires,
		Biome:     biome,
		Rarity:    rarity,
	}, nil
}
