// Package health exposes the spawner's liveness endpoint.
package health

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/udisondev/geospawn/internal/spawn"
)

// DefaultDisplayZone is the zone the status page prints times in.
var DefaultDisplayZone = time.FixedZone("UTC+8", 8*60*60)

// Status remembers the most recent cycle summary.
type Status struct {
	zone *time.Location
	now  func() time.Time

	mu      sync.RWMutex
	last    spawn.CycleSummary
	cycles  int64
	spawned int64
}

// Option customises a Status.
type Option func(*Status)

// WithZone sets the display zone.
func WithZone(loc *time.Location) Option {
	return func(s *Status) { s.zone = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Status) { s.now = now }
}

// NewStatus creates an empty status.
func NewStatus(opts ...Option) *Status {
	s := &Status{
		zone: DefaultDisplayZone,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObserveCycle is a spawn.Observer.
func (s *Status) ObserveCycle(summary spawn.CycleSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = summary
	s.cycles++
	s.spawned += int64(summary.SpawnedCount())
}

// Last returns the latest summary and whether any cycle has finished.
func (s *Status) Last() (spawn.CycleSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.cycles > 0
}

// Handler serves "/" (status text) and "/healthz".
func (s *Status) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveStatus)
	mux.HandleFunc("GET /healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	return mux
}

func (s *Status) serveStatus(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte(s.render()))
}

func (s *Status) render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Spawner is Online. Last Check: %s\n", s.now().In(s.zone).Format(time.RFC3339))
	if s.cycles == 0 {
		b.WriteString("no cycles yet\n")
		return b.String()
	}

	last := s.last
	fmt.Fprintf(&b, "cycles: %d\n", s.cycles)
	fmt.Fprintf(&b, "spawned_total: %d\n", s.spawned)
	fmt.Fprintf(&b, "last_cycle: %s (%s)\n", last.StartedAt.In(s.zone).Format(time.RFC3339), last.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "last_anchors: %d\n", last.Anchors)
	fmt.Fprintf(&b, "last_spawned: %d\n", last.SpawnedCount())
	fmt.Fprintf(&b, "last_skipped: %d\n", last.CountByStatus(spawn.StatusSkipped))
	fmt.Fprintf(&b, "last_failed: %d\n", last.CountByStatus(spawn.StatusFailed))
	fmt.Fprintf(&b, "last_expired: %d\n", last.Expired)
	if last.Err != nil {
		fmt.Fprintf(&b, "last_error: %v\n", last.Err)
	}
	return b.String()
}
