package spawn

import (
	"time"

	"github.com/udisondev/geospawn/internal/model"
)

// AnchorStatus is the outcome of one anchor's generation pass.
type AnchorStatus string

const (
	StatusSpawned AnchorStatus = "spawned"
	StatusSkipped AnchorStatus = "skipped"
	StatusFailed  AnchorStatus = "failed"
)

// Skip and failure reasons recorded in AnchorResult.Reason.
const (
	ReasonAtCapacity    = "at_capacity"
	ReasonDensityFailed = "density_failed"
	ReasonBadLocation   = "bad_location"
	ReasonWriteFailed   = "write_failed"
	ReasonCanceled      = "canceled"
)

// AnchorResult records what happened to a single anchor during a cycle.
type AnchorResult struct {
	AnchorID      string
	Status        AnchorStatus
	Reason        string
	Err           error
	Biome         model.Biome
	BiomeFallback bool // lookup failed or returned an unknown tag
	Budget        int
	Spawned       []model.Spawn
}

// CycleSummary is the observable outcome of one RunCycle call.
type CycleSummary struct {
	StartedAt time.Time
	Duration  time.Duration
	Expired   int64
	ExpireErr error
	Anchors   int
	Results   []AnchorResult
	Err       error // cycle-level failure: anchor listing or a recovered panic
}

// SpawnedCount returns the total number of spawns written in the cycle.
func (s CycleSummary) SpawnedCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusSpawned {
			n += len(r.Spawned)
		}
	}
	return n
}

// CountByStatus returns how many anchors ended with status st.
func (s CycleSummary) CountByStatus(st AnchorStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == st {
			n++
		}
	}
	return n
}
