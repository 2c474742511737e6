package journal

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/udisondev/geospawn/internal/spawn"
)

// CycleRecord is the journal form of spawn.CycleSummary.
type CycleRecord struct {
	StartedAt   time.Time      `json:"started_at"`
	DurationMs  int64          `json:"duration_ms"`
	Expired     int64          `json:"expired"`
	ExpireError string         `json:"expire_error,omitempty"`
	Anchors     int            `json:"anchors"`
	Spawned     int            `json:"spawned"`
	Error       string         `json:"error,omitempty"`
	Results     []AnchorRecord `json:"results,omitempty"`
}

// AnchorRecord is the journal form of spawn.AnchorResult.
type AnchorRecord struct {
	Anchor   string   `json:"anchor"`
	Status   string   `json:"status"`
	Reason   string   `json:"reason,omitempty"`
	Error    string   `json:"error,omitempty"`
	Biome    string   `json:"biome,omitempty"`
	Fallback bool     `json:"biome_fallback,omitempty"`
	Budget   int      `json:"budget"`
	Species  []string `json:"species,omitempty"`
}

// NewCycleRecord flattens a summary for serialisation.
func NewCycleRecord(s spawn.CycleSummary) CycleRecord {
	rec := CycleRecord{
		StartedAt:   s.StartedAt,
		DurationMs:  s.Duration.Milliseconds(),
		Expired:     s.Expired,
		Anchors:     s.Anchors,
		Spawned:     s.SpawnedCount(),
		Error:       errString(s.Err),
		ExpireError: errString(s.ExpireErr),
	}
	for _, r := range s.Results {
		ar := AnchorRecord{
			Anchor:   r.AnchorID,
			Status:   string(r.Status),
			Reason:   r.Reason,
			Error:    errString(r.Err),
			Biome:    string(r.Biome),
			Fallback: r.BiomeFallback,
			Budget:   r.Budget,
		}
		for _, sp := range r.Spawned {
			ar.Species = append(ar.Species, sp.Species)
		}
		rec.Results = append(rec.Results, ar)
	}
	return rec
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CycleJournal records every finished cycle.
type CycleJournal struct{ w *Writer }

// NewCycleJournal writes to <dir>/cycles-*.jsonl.zst.
func NewCycleJournal(dir string) *CycleJournal {
	return &CycleJournal{w: NewWriter(filepath.Join(dir, "cycles"), "cycles")}
}

// ObserveCycle is a spawn.Observer. Write failures are logged, never fatal.
func (j *CycleJournal) ObserveCycle(s spawn.CycleSummary) {
	if err := j.w.Write(NewCycleRecord(s)); err != nil {
		slog.Error("writing cycle journal", "error", err)
	}
}

func (j *CycleJournal) Close() error { return j.w.Close() }
