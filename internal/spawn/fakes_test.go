package spawn

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/udisondev/geospawn/internal/model"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore: in-memory Store для тестов.
type fakeStore struct {
	mu sync.Mutex

	anchors    []model.Anchor
	anchorsErr error

	biome     string
	biomeAt   map[model.Coordinate]string
	biomeErr  error
	count     int
	countAt   map[model.Coordinate]int
	countErr  map[model.Coordinate]error
	insertErr map[model.Coordinate]error // keyed by anchor location of the batch
	deleteErr error
	panicOn   string // method name that panics

	spawns      []model.Spawn
	inserts     [][]model.Spawn
	deleteCalls []time.Time
	radii       []float64
	sinceCalls  []time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		biomeAt:   make(map[model.Coordinate]string),
		countAt:   make(map[model.Coordinate]int),
		countErr:  make(map[model.Coordinate]error),
		insertErr: make(map[model.Coordinate]error),
	}
}

func (s *fakeStore) ActiveAnchors(ctx context.Context, since time.Time) ([]model.Anchor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOn == "ActiveAnchors" {
		panic("boom")
	}
	s.sinceCalls = append(s.sinceCalls, since)
	return s.anchors, s.anchorsErr
}

func (s *fakeStore) InsertSpawns(ctx context.Context, spawns []model.Spawn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for loc, err := range s.insertErr {
		if len(spawns) > 0 && nearAnchor(loc, spawns[0].Location) {
			return err
		}
	}
	s.inserts = append(s.inserts, spawns)
	s.spawns = append(s.spawns, spawns...)
	return nil
}

func (s *fakeStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls = append(s.deleteCalls, now)
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	kept := s.spawns[:0]
	var removed int64
	for _, sp := range s.spawns {
		if sp.ExpiredAt(now) {
			removed++
			continue
		}
		kept = append(kept, sp)
	}
	s.spawns = kept
	return removed, nil
}

func (s *fakeStore) CountActiveNearby(ctx context.Context, c model.Coordinate, radiusMeters float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOn == "CountActiveNearby" {
		panic("boom")
	}
	s.radii = append(s.radii, radiusMeters)
	if err := s.countErr[c]; err != nil {
		return 0, err
	}
	if n, ok := s.countAt[c]; ok {
		return n, nil
	}
	return s.count, nil
}

func (s *fakeStore) BiomeAt(ctx context.Context, c model.Coordinate) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.biomeErr != nil {
		return "", s.biomeErr
	}
	if b, ok := s.biomeAt[c]; ok {
		return b, nil
	}
	return s.biome, nil
}

func (s *fakeStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inserts)
}

// nearAnchor reports whether p lies within ~1 km of anchor (batches never leave the radius).
func nearAnchor(anchor, p model.Coordinate) bool {
	dLat := anchor.Lat - p.Lat
	dLon := anchor.Lon - p.Lon
	return dLat*dLat+dLon*dLon < 0.0001
}

// countingRunner records every RunCycle call.
type countingRunner struct {
	mu    sync.Mutex
	times []time.Time
}

func (r *countingRunner) RunCycle(ctx context.Context, now time.Time) CycleSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.times = append(r.times, now)
	return CycleSummary{StartedAt: now}
}

func (r *countingRunner) calls() []time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Time(nil), r.times...)
}
