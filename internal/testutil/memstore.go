package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/udisondev/geospawn/internal/geo"
	"github.com/udisondev/geospawn/internal/model"
	"github.com/udisondev/geospawn/internal/spawn"
)

var _ spawn.Store = (*MemStore)(nil)

// MemStore: in-memory имплементация spawn.Store для unit тестов.
// Не требует реального PostgreSQL.
type MemStore struct {
	mu      sync.RWMutex
	anchors map[string]model.Anchor
	spawns  []model.Spawn
	biome   string
}

// NewMemStore создаёт пустой MemStore. BiomeAt возвращает "" пока не задан SetBiome.
func NewMemStore() *MemStore {
	return &MemStore{
		anchors: make(map[string]model.Anchor),
	}
}

// SetAnchor добавляет или обновляет игрока.
func (m *MemStore) SetAnchor(a model.Anchor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anchors[a.PlayerID] = a
}

// SetBiome задаёт биом для любой точки.
func (m *MemStore) SetBiome(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.biome = tag
}

// Spawns возвращает копию сохранённых спавнов.
func (m *MemStore) Spawns() []model.Spawn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Spawn, len(m.spawns))
	copy(out, m.spawns)
	return out
}

// ActiveAnchors возвращает игроков, обновлённых не раньше since, по id.
func (m *MemStore) ActiveAnchors(_ context.Context, since time.Time) ([]model.Anchor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Anchor
	for _, a := range m.anchors {
		if !a.UpdatedAt.Before(since) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (m *MemStore) InsertSpawns(_ context.Context, spawns []model.Spawn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawns = append(m.spawns, spawns...)
	return nil
}

func (m *MemStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.spawns[:0]
	var removed int64
	for _, s := range m.spawns {
		if s.ExpiredAt(now) {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.spawns = kept
	return removed, nil
}

func (m *MemStore) CountActiveNearby(_ context.Context, c model.Coordinate, radiusMeters float64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	n := 0
	for _, s := range m.spawns {
		if s.ExpiresAt.After(now) && geo.HaversineKm(c, s.Location)*1000 <= radiusMeters {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) BiomeAt(context.Context, model.Coordinate) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.biome, nil
}
